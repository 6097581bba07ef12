// Package repository isolates all database access behind interfaces so the
// storage backend stays swappable and handlers can be tested against an
// in-memory database.
package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"operator/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByIdentifier(identifier string) (*models.User, error)
	List() ([]models.User, error)
	Update(user *models.User) error
	Delete(id uuid.UUID) error
	IdentifierTaken(username, email string, exclude uuid.UUID) (bool, error)
	Count() (int64, error)
}

type ChatRepository interface {
	Create(chat *models.Chat) error
	ListByUser(userID uuid.UUID) ([]models.Chat, error)
	Get(id, userID uuid.UUID) (*models.Chat, error)
	Delete(id, userID uuid.UUID) (bool, error)
	SetTitle(id uuid.UUID, title string) error
	AppendMessage(chatID uuid.UUID, msg *models.Message) error
	Messages(chatID uuid.UUID) ([]models.Message, error)
	ListAllWithMessages() ([]models.Chat, error)
	GetMessage(id uuid.UUID) (*models.Message, error)
	UpdateMessage(msg *models.Message) error
	DeleteMessage(id uuid.UUID) error
	CountChats() (int64, error)
	CountMessages() (int64, error)
}

type BotRepository interface {
	Create(bot *models.Bot) error
	List() ([]models.Bot, error)
	Get(id uuid.UUID) (*models.Bot, error)
	Update(bot *models.Bot) error
	Delete(id uuid.UUID) (bool, error)
	Count() (int64, error)
}

type APIKeyRepository interface {
	Create(key *models.APIKey) error
	List() ([]models.APIKey, error)
	Get(id uuid.UUID) (*models.APIKey, error)
	Update(key *models.APIKey) error
	Delete(id uuid.UUID) (bool, error)
	Count() (int64, error)
}

type ModelRepository interface {
	Create(m *models.CustomModel) error
	ListByUser(userID uuid.UUID) ([]models.CustomModel, error)
	Exists(modelID string, userID uuid.UUID) (bool, error)
	Delete(modelID string, userID uuid.UUID) (bool, error)
}

type SettingsRepository interface {
	Get(userID uuid.UUID) (*models.Settings, error)
	Save(s *models.Settings) error
}

type TokenRepository interface {
	Create(t *models.RefreshToken) error
	GetValid(tokenHash string) (*models.RefreshToken, error)
	Delete(id uuid.UUID) error
	DeleteByUser(userID uuid.UUID) error
}

// Repositories bundles every repository for constructor injection.
type Repositories struct {
	Users    UserRepository
	Chats    ChatRepository
	Bots     BotRepository
	APIKeys  APIKeyRepository
	Models   ModelRepository
	Settings SettingsRepository
	Tokens   TokenRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:    &userRepo{db: db},
		Chats:    &chatRepo{db: db},
		Bots:     &botRepo{db: db},
		APIKeys:  &apiKeyRepo{db: db},
		Models:   &modelRepo{db: db},
		Settings: &settingsRepo{db: db},
		Tokens:   &tokenRepo{db: db},
	}
}
