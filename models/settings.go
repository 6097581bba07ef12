package models

import (
	"time"

	"github.com/google/uuid"
)

// Settings holds a user's active API key/url pair, model selection and
// current chat pointer. One row per user.
type Settings struct {
	UserID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	APIKey        string     `gorm:"size:255" json:"api_key"`
	APIURL        string     `gorm:"size:255" json:"api_url"`
	SelectedModel string     `gorm:"size:100" json:"selected_model"`
	CurrentChatID *uuid.UUID `gorm:"type:uuid" json:"current_chat_id,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
