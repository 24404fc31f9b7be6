package domain

import (
	"time"
)

// MaxDistanceMeters is the largest value the distance_m column (NUMERIC(7,2)) can hold.
const MaxDistanceMeters = 99999.99

// Workout is one logged training session for a user.
type Workout struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	UserID    int64      `gorm:"index;not null" json:"user_id"`
	Date      Date       `gorm:"index;not null" json:"date"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `gorm:"index" json:"end_time"` // nil while the workout is in progress
	Notes     *string    `json:"notes"`

	Exercises []WorkoutExercise `gorm:"foreignKey:WorkoutID" json:"exercises,omitempty"`
	User      *User             `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// IsActive reports whether the workout is still open.
func (w *Workout) IsActive() bool {
	return w.EndTime == nil
}

// StartedAt is the moment the workout began: its start time when recorded,
// otherwise midnight of its date.
func (w *Workout) StartedAt() time.Time {
	if w.StartTime != nil {
		return *w.StartTime
	}
	return w.Date.Time
}

// IsStale reports whether an open workout started more than maxAge before now.
func (w *Workout) IsStale(now time.Time, maxAge time.Duration) bool {
	return w.IsActive() && now.Sub(w.StartedAt()) > maxAge
}

// WorkoutExercise is an exercise performed within a workout, ordered by Sequence.
type WorkoutExercise struct {
	ID         int64   `gorm:"primaryKey" json:"id"`
	WorkoutID  int64   `gorm:"index;not null" json:"workout_id"`
	ExerciseID int64   `gorm:"index;not null" json:"exercise_id"`
	Sequence   int     `gorm:"not null" json:"sequence"`
	GroupName  *string `gorm:"size:50" json:"group_name"` // Superset marker

	Exercise *Exercise   `gorm:"constraint:OnDelete:RESTRICT" json:"exercise,omitempty"`
	Sets     []WorkoutSet `gorm:"foreignKey:WorkoutExerciseID" json:"sets,omitempty"`
}

// WorkoutSet is one performed set of a workout exercise.
type WorkoutSet struct {
	ID                int64    `gorm:"primaryKey" json:"id"`
	WorkoutExerciseID int64    `gorm:"index;not null" json:"workout_exercise_id"`
	SetNumber         int      `gorm:"not null" json:"set_number"`
	Reps              *int     `json:"reps"`
	WeightKg          *float64 `gorm:"type:numeric(6,2)" json:"weight_kg"`
	DurationSeconds   *int     `json:"duration_seconds"`
	DistanceM         *float64 `gorm:"type:numeric(7,2)" json:"distance_m"`
	HeightCm          *float64 `gorm:"type:numeric(5,2)" json:"height_cm"`
	Tempo             *string  `gorm:"size:20" json:"tempo"`
	Notes             *string  `json:"notes"`
	Completed         bool     `gorm:"not null;default:false" json:"completed"`
}
