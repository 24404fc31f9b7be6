package domain

import (
	"time"
)

// Routine is a reusable weekly training template. At most one routine per
// user is active.
type Routine struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"index;not null" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`

	Days []RoutineDay `gorm:"foreignKey:RoutineID" json:"days,omitempty"`
	User *User        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// RoutineDay is one slot of a routine, optionally pinned to a weekday
// (0=Monday..6=Sunday).
type RoutineDay struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	RoutineID int64  `gorm:"index;not null" json:"routine_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	DayOfWeek *int   `json:"day_of_week"`

	Exercises []RoutineExercise `gorm:"foreignKey:RoutineDayID" json:"exercises,omitempty"`
}

// ValidDayOfWeek reports whether d is nil or within 0..6.
func ValidDayOfWeek(d *int) bool {
	return d == nil || (*d >= 0 && *d <= 6)
}

// RoutineExercise is a suggested prescription for an exercise within a routine day.
type RoutineExercise struct {
	ID                     int64    `gorm:"primaryKey" json:"id"`
	RoutineDayID           int64    `gorm:"index;not null" json:"routine_day_id"`
	ExerciseID             int64    `gorm:"index;not null" json:"exercise_id"`
	Sequence               int      `gorm:"not null" json:"sequence"`
	SuggestedSets          *int     `json:"suggested_sets"`
	SuggestedReps          *string  `gorm:"size:100" json:"suggested_reps"`
	SuggestedWeightPercent *float64 `gorm:"type:numeric(5,2)" json:"suggested_weight_percent"`
	RestPeriodSeconds      *int     `json:"rest_period_seconds"`
	Tempo                  *string  `gorm:"size:20" json:"tempo"`
	GroupName              *string  `gorm:"size:50" json:"group_name"`
	SuggestedTimeSeconds   *int     `json:"suggested_time_seconds"`

	Exercise *Exercise `gorm:"constraint:OnDelete:RESTRICT" json:"exercise,omitempty"`
}
