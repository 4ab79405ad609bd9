package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message represents a chat message.
type Message struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ChatID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	SenderID *uuid.UUID `gorm:"type:uuid"` // Null once the sender is deleted
	Content  string     `gorm:"type:text;not null"`
	SentAt   time.Time  `gorm:"autoCreateTime;index"`

	Chat   Chat  `gorm:"foreignKey:ChatID;references:ID;constraint:OnDelete:CASCADE;"`
	Sender *User `gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:SET NULL;"`
}

// BeforeCreate assigns the id when the caller did not.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
