package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleOwner        = "OWNER"
	RolePhotographer = "PHOTOGRAPHER"
	RoleAssistant    = "ASSISTANT"
)

// User is a studio member. Every user belongs to exactly one studio.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudioID uuid.UUID `gorm:"type:uuid;index;not null" json:"studio_id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'ASSISTANT'" json:"role"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	Studio Studio `gorm:"foreignkey:StudioID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
