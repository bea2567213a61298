package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription types and statuses. A universal subscription grants access to
// every non-free assistant; a per_assistant subscription is scoped to exactly
// one assistant.
const (
	SubscriptionUniversal    = "universal"
	SubscriptionPerAssistant = "per_assistant"

	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
)

// Subscription grants a user access to paid assistants. Subscriptions are
// created by the billing collaborator and read-only from this service.
type Subscription struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string         `json:"user_id" gorm:"type:uuid;index;not null"`
	Type        string         `json:"type" gorm:"type:varchar(20);not null"`
	AssistantID *string        `json:"assistant_id,omitempty" gorm:"type:uuid;index"`
	Status      string         `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Covers reports whether this subscription grants access to the assistant.
func (s *Subscription) Covers(assistantID string) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	switch s.Type {
	case SubscriptionUniversal:
		return true
	case SubscriptionPerAssistant:
		return s.AssistantID != nil && *s.AssistantID == assistantID
	}
	return false
}
