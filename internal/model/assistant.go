package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription tiers an assistant can be offered under.
const (
	TierFree         = "free"
	TierPremium      = "premium"
	TierPerAssistant = "per_assistant"
)

// ValidTier reports whether t is one of the three supported tiers.
func ValidTier(t string) bool {
	return t == TierFree || t == TierPremium || t == TierPerAssistant
}

// Assistant represents a configured AI persona backed by a remote assistant
// definition. Assistants are soft-disabled via the Active flag, never deleted.
type Assistant struct {
	ID                string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name              string         `json:"name" gorm:"type:varchar(255);not null"`
	Description       string         `json:"description" gorm:"type:text"`
	AvatarURL         string         `json:"avatar_url,omitempty" gorm:"type:varchar(512)"`
	Category          string         `json:"category,omitempty" gorm:"type:varchar(100)"`
	SubscriptionType  string         `json:"subscription_type" gorm:"type:varchar(20);not null;default:'free'"`
	OpenAIAssistantID string         `json:"openai_assistant_id" gorm:"type:varchar(100);not null"`
	Active            bool           `json:"active" gorm:"default:true"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (a *Assistant) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
