package importer

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog maps exercise names to the muscles they work, primary first.
type Catalog map[string][]string

var defaultCatalog = Catalog{
	"Lateral Raise (Cable)": {"Shoulders"},
	"Face Pull": {"Shoulders", "Upper Back"},
	"Bench Press (Dumbbell)": {"Chest", "Shoulders", "Triceps"},
	"Dumbbell Row": {"Back", "Biceps"},
	"Pull Up (Assisted)": {"Back", "Biceps"},
	"Chest Dip (Assisted)": {"Chest", "Triceps", "Shoulders"},
	"Butterfly (Pec Deck)": {"Chest"},
	"Sled Push": {"Quads", "Glutes", "Calves"},
	"sled back peddle pull": {"Quads", "Glutes", "Hamstrings"},
	"Nordic Hamstrings Curls": {"Hamstrings"},
	"Dumbbell Step Up": {"Quads", "Glutes"},
	"Lateral Lunges (weighted)": {"Quads", "Glutes", "Adductors"},
	"Hip flexor Lift": {"Hip Flexors"},
	"Cable Core Palloff Press": {"Core"},
	"Shoulder Press (Dumbbell)": {"Shoulders", "Triceps"},
	"Bulgarian Split Squat": {"Quads", "Glutes", "Hamstrings"},
	"Single Leg Romanian Deadlift (Dumbbell)": {"Hamstrings", "Glutes"},
	"Box Jump": {"Quads", "Glutes", "Calves"},
	"Cable Twist Flat": {"Core", "Obliques"},
	"Lat Pulldown (Cable)": {"Back", "Biceps"},
	"Lunge (Dumbbell)": {"Quads", "Glutes", "Hamstrings"},
	"Back Extension (Weighted Hyperextension)": {"Lower Back", "Glutes", "Hamstrings"},
	"Front Raise (Dumbbell)": {"Shoulders"},
	"Skullcrusher (Dumbbell)": {"Triceps"},
	"Chest Fly (Dumbbell)": {"Chest"},
	"Bent Over Row (Dumbbell)": {"Back", "Biceps"},
	"Overhead Press (Dumbbell)": {"Shoulders", "Triceps"},
	"Bicep Curl (Dumbbell)": {"Biceps"},
	"Single Leg Press (Machine)": {"Quads", "Glutes"},
	"Hip Thrust (Machine)": {"Glutes", "Hamstrings"},
	"Standing Calf Raise (Dumbbell)": {"Calves"},
	"Dead Bug": {"Core"},
	"Chin Up (Assisted)": {"Back", "Biceps"},
	"Bench Press - Close Grip (Barbell)": {"Chest", "Triceps"},
	"Overhead Press (Barbell)": {"Shoulders", "Triceps"},
	"Triceps Pushdown": {"Triceps"},
	"Bicep Curl (Cable)": {"Biceps"},
	"Chest Press (Band)": {"Chest", "Shoulders", "Triceps"},
	"Mountain Climber": {"Core", "Quads"},
	"Reverse Lunge": {"Quads", "Glutes", "Hamstrings"},
	"Hip Adduction (Machine)": {"Adductors"},
	"Hip Abduction (Machine)": {"Abductors"},
	"Pistol Squat": {"Quads", "Glutes"},
	"Plank": {"Core"},
	"Decline Crunch": {"Core"},
}

// DefaultCatalog returns a copy of the built-in exercise catalog.
func DefaultCatalog() Catalog {
	c := make(Catalog, len(defaultCatalog))
	for name, muscles := range defaultCatalog {
		c[name] = append([]string(nil), muscles...)
	}
	return c
}

// LoadCatalog reads a YAML mapping of exercise name to muscle list.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		if err == io.EOF {
			return Catalog{}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return c, nil
}

// Names returns the exercise names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Muscles returns every distinct muscle named by the catalog, sorted.
func (c Catalog) Muscles() []string {
	seen := map[string]bool{}
	var muscles []string
	for _, list := range c {
		for _, m := range list {
			if !seen[m] {
				seen[m] = true
				muscles = append(muscles, m)
			}
		}
	}
	sort.Strings(muscles)
	return muscles
}
