package models

import (
	"time"

	"github.com/google/uuid"
)

// Model is a model descriptor visible in the selector. Fetched models live
// only in the registry service; custom models are persisted per user.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CustomModel struct {
	ModelID     string    `gorm:"primaryKey;size:100" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m CustomModel) Descriptor() Model {
	return Model{ID: m.ModelID, Name: m.Name, Description: m.Description}
}
