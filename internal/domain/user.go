package domain

import (
	"time"
)

// User owns workouts, routines and body measurements.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;not null" json:"username"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"` // Should be unique
	PasswordHash string    `gorm:"size:255" json:"-"`                          // Never expose this via JSON
	GoogleID     *string   `gorm:"size:255;uniqueIndex" json:"google_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether a password hash has been stored for the user.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// BodyMeasurement is a dated body-composition reading for a user.
type BodyMeasurement struct {
	ID                int64    `gorm:"primaryKey" json:"id"`
	UserID            int64    `gorm:"index;not null" json:"user_id"`
	Date              Date     `gorm:"not null" json:"date"`
	BodyWeightKg      *float64 `gorm:"type:numeric(5,2)" json:"body_weight_kg"`
	BodyFatPercentage *float64 `gorm:"type:numeric(4,2)" json:"body_fat_percentage"`
	Notes             *string  `json:"notes"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
