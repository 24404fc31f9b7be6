// internal/domain/exercise.go
package domain

import (
	"strings"
	"time"
)

// ExerciseType classifies how an exercise is performed and tracked.
type ExerciseType string

const (
	ExerciseTypeStrength    ExerciseType = "strength"
	ExerciseTypeCardio      ExerciseType = "cardio"
	ExerciseTypeFlexibility ExerciseType = "flexibility"
)

// Valid reports whether t is one of the known exercise types.
func (t ExerciseType) Valid() bool {
	switch t {
	case ExerciseTypeStrength, ExerciseTypeCardio, ExerciseTypeFlexibility:
		return true
	}
	return false
}

// DefaultTrackedMetrics is applied when an exercise is created without an explicit list.
const DefaultTrackedMetrics = "reps,weight"

// Exercise represents a single named movement in the library.
type Exercise struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:255;uniqueIndex;not null" json:"name"` // Globally unique
	Description *string       `json:"description"`
	Type        *ExerciseType `gorm:"size:20" json:"type"`
	Equipment   *string       `gorm:"size:100" json:"equipment"`

	// --- Default prescription ---
	DefaultTempo         *string  `gorm:"size:20" json:"default_tempo"`
	DefaultSets          *int     `json:"default_sets"`
	DefaultReps          *string  `gorm:"size:20" json:"default_reps"` // e.g. "8-12", "30 sec"
	DefaultRestSeconds   *int     `json:"default_rest_seconds"`
	DefaultWeightPercent *float64 `gorm:"type:numeric(5,2)" json:"default_weight_percent"`
	DefaultTimeSeconds   *int     `json:"default_time_seconds"`
	TrackedMetrics       string   `gorm:"size:100;not null;default:'reps,weight'" json:"tracked_metrics"`

	// Muscle links are loaded on demand; MuscleGroups mirrors their names for the API.
	Muscles      []ExerciseMuscle `gorm:"foreignKey:ExerciseID" json:"-"`
	MuscleGroups []string         `gorm:"-" json:"muscle_groups"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CopyPrescription returns a new, unsaved exercise carrying e's descriptive and
// default-prescription fields under a different name.
func (e *Exercise) CopyPrescription(name string) *Exercise {
	return &Exercise{
		Name:                 name,
		Description:          e.Description,
		Type:                 e.Type,
		Equipment:            e.Equipment,
		DefaultTempo:         e.DefaultTempo,
		DefaultSets:          e.DefaultSets,
		DefaultReps:          e.DefaultReps,
		DefaultRestSeconds:   e.DefaultRestSeconds,
		DefaultWeightPercent: e.DefaultWeightPercent,
		DefaultTimeSeconds:   e.DefaultTimeSeconds,
		TrackedMetrics:       e.TrackedMetrics,
	}
}

// FillMuscleGroups populates MuscleGroups from the loaded muscle links.
func (e *Exercise) FillMuscleGroups() {
	groups := make([]string, 0, len(e.Muscles))
	for _, link := range e.Muscles {
		if link.Muscle != nil {
			groups = append(groups, link.Muscle.Name)
		}
	}
	e.MuscleGroups = groups
}

// IsSled reports whether the exercise name refers to a sled movement.
func IsSled(name string) bool {
	return strings.Contains(strings.ToLower(name), "sled")
}

// Muscle is a named muscle group.
type Muscle struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

// ExerciseMuscle links an exercise to a muscle it works.
type ExerciseMuscle struct {
	ExerciseID int64 `gorm:"primaryKey;autoIncrement:false" json:"exercise_id"`
	MuscleID   int64 `gorm:"primaryKey;autoIncrement:false;index" json:"muscle_id"`
	IsPrimary  bool  `gorm:"not null;default:true" json:"is_primary"`

	Muscle *Muscle `gorm:"constraint:OnDelete:CASCADE" json:"muscle,omitempty"`
}
