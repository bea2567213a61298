package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Thread represents a conversation session between one user and one
// assistant. OpenAIThreadID is assigned at creation and never changes.
type Thread struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         string         `json:"user_id" gorm:"type:uuid;index;not null"`
	AssistantID    string         `json:"assistant_id" gorm:"type:uuid;index;not null"`
	Title          string         `json:"title" gorm:"type:varchar(255)"`
	OpenAIThreadID string         `json:"openai_thread_id" gorm:"type:varchar(100);not null"`
	CreatedAt      time.Time      `json:"created_at"`
	LastMessageAt  time.Time      `json:"last_message_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Assistant Assistant `json:"assistant,omitempty" gorm:"foreignKey:AssistantID"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (t *Thread) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.LastMessageAt.IsZero() {
		t.LastMessageAt = time.Now()
	}
	return nil
}
