package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
)

// ConvertedWorkout is one day of the JSON workout log produced by Convert.
type ConvertedWorkout struct {
	Date      string           `json:"date"`
	Notes     string           `json:"notes"`
	Exercises []ConvertedEntry `json:"exercises"`
}

// ConvertedEntry is either a single exercise or a superset of exercises.
type ConvertedEntry struct {
	Exercise *ConvertedExercise
	Superset []*ConvertedExercise
}

func (e ConvertedEntry) MarshalJSON() ([]byte, error) {
	if e.Exercise != nil {
		return json.Marshal(e.Exercise)
	}
	return json.Marshal(struct {
		Superset []*ConvertedExercise `json:"superset"`
	}{e.Superset})
}

type ConvertedExercise struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	MuscleGroup []string       `json:"muscle_group"`
	Category    string         `json:"category"`
	Notes       string         `json:"notes"`
	Sets        []ConvertedSet `json:"sets"`
	SupersetID  string         `json:"superset_id"`
}

// ConvertedSet keeps the export's units: pounds, miles and minutes.
type ConvertedSet struct {
	Reps     int      `json:"reps"`
	Weight   float64  `json:"weight"`
	Distance string   `json:"distance,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
	RPE      *float64 `json:"rpe,omitempty"`
}

// exerciseType guesses the type from the first row seen for an exercise.
func exerciseType(row Row) domain.ExerciseType {
	if row.DurationSeconds != "" || row.DistanceMiles != "" {
		return domain.ExerciseTypeCardio
	}
	if strings.Contains(strings.ToLower(row.ExerciseTitle), "stretch") ||
		strings.Contains(strings.ToLower(row.Title), "pnf") {
		return domain.ExerciseTypeFlexibility
	}
	return domain.ExerciseTypeStrength
}

func rowDay(row Row) (time.Time, error) {
	day, _, _ := strings.Cut(row.StartTime, ",")
	t, err := time.Parse("2 Jan 2006", strings.TrimSpace(day))
	if err != nil {
		return time.Time{}, fmt.Errorf("line %d: invalid start_time %q", row.Line, row.StartTime)
	}
	return t, nil
}

func lenientFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func convertSet(row Row) ConvertedSet {
	set := ConvertedSet{
		Weight:   lenientFloat(row.WeightLbs),
		Distance: row.DistanceMiles,
	}
	set.Reps, _ = strconv.Atoi(row.Reps)
	if row.DurationSeconds != "" {
		minutes := lenientFloat(row.DurationSeconds) / 60
		set.Duration = &minutes
	}
	if row.RPE != "" {
		rpe := lenientFloat(row.RPE)
		set.RPE = &rpe
	}
	return set
}

// Convert turns export rows into one JSON workout per calendar day, oldest
// first. Exercises keep first-seen order, and exercises sharing a non-zero
// superset id are gathered into superset entries after the standalone ones.
// Muscle groups come from catalog.
func Convert(rows []Row, catalog Catalog) ([]ConvertedWorkout, error) {
	type dated struct {
		row Row
		day time.Time
	}
	sorted := make([]dated, 0, len(rows))
	for _, row := range rows {
		day, err := rowDay(row)
		if err != nil {
			return nil, err
		}
		sorted = append(sorted, dated{row, day})
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].day.Before(sorted[j].day) })

	var workouts []ConvertedWorkout
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].day.Equal(sorted[start].day) {
			end++
		}
		dayRows := make([]Row, 0, end-start)
		for _, d := range sorted[start:end] {
			dayRows = append(dayRows, d.row)
		}
		workouts = append(workouts, convertDay(sorted[start].day, dayRows, catalog))
		start = end
	}
	return workouts, nil
}

func convertDay(day time.Time, rows []Row, catalog Catalog) ConvertedWorkout {
	workout := ConvertedWorkout{
		Date:      day.Format(domain.DateLayout),
		Notes:     rows[0].Description,
		Exercises: []ConvertedEntry{},
	}

	var order []*ConvertedExercise
	byName := map[string]*ConvertedExercise{}
	for _, row := range rows {
		ex, ok := byName[row.ExerciseTitle]
		if !ok {
			muscles := catalog[row.ExerciseTitle]
			if muscles == nil {
				muscles = []string{}
			}
			ex = &ConvertedExercise{
				Name:        row.ExerciseTitle,
				Type:        string(exerciseType(row)),
				MuscleGroup: muscles,
				Category:    row.Title,
				Notes:       row.ExerciseNotes,
				Sets:        []ConvertedSet{},
				SupersetID:  row.SupersetID,
			}
			byName[row.ExerciseTitle] = ex
			order = append(order, ex)
		}
		ex.Sets = append(ex.Sets, convertSet(row))
	}

	var supersetIDs []string
	supersets := map[string][]*ConvertedExercise{}
	for _, ex := range order {
		if ex.SupersetID == "" || ex.SupersetID == "0" {
			workout.Exercises = append(workout.Exercises, ConvertedEntry{Exercise: ex})
			continue
		}
		if _, ok := supersets[ex.SupersetID]; !ok {
			supersetIDs = append(supersetIDs, ex.SupersetID)
		}
		supersets[ex.SupersetID] = append(supersets[ex.SupersetID], ex)
	}
	for _, id := range supersetIDs {
		workout.Exercises = append(workout.Exercises, ConvertedEntry{Superset: supersets[id]})
	}
	return workout
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
