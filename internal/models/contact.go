package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a one-way entry in a user's contact list.
// The primary key is a composite of (UserID, ContactID) to ensure uniqueness.
type Contact struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContactID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time

	User        User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ContactUser User `gorm:"foreignKey:ContactID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
