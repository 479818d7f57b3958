package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken holds the single active refresh token per principal. Logging in
// again replaces the row, which immediately invalidates the previous session.
type RefreshToken struct {
	SubjectID uuid.UUID `gorm:"type:uuid;primary_key" json:"subject_id"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
}
