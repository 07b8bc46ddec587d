package models

import (
	"time"

	"github.com/google/uuid"
)

// Reading is one blood-pressure measurement event. RecordedAt is the
// user-supplied measurement instant (back-dating is allowed) and drives
// chronological ordering and calendar-day membership; CreatedAt is the
// insert time. No soft-delete column: removal is permanent.
type Reading struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Systolic   int       `gorm:"not null" json:"systolic"`
	Diastolic  int       `gorm:"not null" json:"diastolic"`
	Pulse      *int      `json:"pulse"`
	Notes      *string   `gorm:"type:text" json:"notes"`
	RecordedAt time.Time `gorm:"not null;index" json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
}

// ReadingWithUser is the typed join row for queries that need the owner's
// display name alongside the reading (history list, daily status check).
type ReadingWithUser struct {
	Reading
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}
