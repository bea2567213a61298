package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Message roles within a thread.
const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// FileRef is one attachment carried by a message. ID is a content identifier
// already uploaded to the assistant API; URL is the user-facing locator.
type FileRef struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Message represents one turn in a thread. Messages are immutable once
// created; ordering within a thread is strictly by CreatedAt.
type Message struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	ThreadID  string         `json:"thread_id" gorm:"type:uuid;index;not null"`
	Role      string         `json:"role" gorm:"type:varchar(20);not null"`
	Content   string         `json:"content" gorm:"type:text"`
	Files     datatypes.JSON `json:"files,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// SetFiles stores the attachment list on the message
func (m *Message) SetFiles(files []FileRef) error {
	if len(files) == 0 {
		m.Files = nil
		return nil
	}
	raw, err := json.Marshal(files)
	if err != nil {
		return err
	}
	m.Files = datatypes.JSON(raw)
	return nil
}

// FileRefs returns the attachment list stored on the message
func (m *Message) FileRefs() ([]FileRef, error) {
	if len(m.Files) == 0 {
		return nil, nil
	}
	var files []FileRef
	if err := json.Unmarshal(m.Files, &files); err != nil {
		return nil, err
	}
	return files, nil
}
