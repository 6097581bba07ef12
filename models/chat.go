package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultChatTitle is the title a chat carries until its first exchange.
const DefaultChatTitle = "New chat"

type Chat struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"size:255;default:'New chat'" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Messages []Message `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Title == "" {
		c.Title = DefaultChatTitle
	}
	return nil
}

const (
	RoleMessageUser      = "user"
	RoleMessageAssistant = "assistant"
	RoleMessageSystem    = "system"
)

const (
	StatusExecuting = "executing"
	StatusComplete  = "complete"
	StatusDenied    = "denied"
)

type Message struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID  uuid.UUID `gorm:"type:uuid;not null;index" json:"chat_id"`
	Content string    `gorm:"type:text;not null" json:"content"`
	Role    string    `gorm:"size:20;not null" json:"role"`
	// Position fixes insertion order within a chat; timestamps alone are
	// not unique enough under rapid appends.
	Position    int            `gorm:"not null;index" json:"position"`
	Status      string         `gorm:"size:20" json:"status,omitempty"`
	ShowPreview bool           `json:"show_preview,omitempty"`
	CodeBlocks  datatypes.JSON `json:"code_blocks,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CodePayload is the structured code attachment of an assistant reply.
type CodePayload struct {
	HTML string `json:"html,omitempty"`
	CSS  string `json:"css,omitempty"`
	JS   string `json:"js,omitempty"`
}
