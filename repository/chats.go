package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"operator/models"
)

type chatRepo struct {
	db *gorm.DB
}

func (r *chatRepo) Create(chat *models.Chat) error {
	return r.db.Create(chat).Error
}

func (r *chatRepo) ListByUser(userID uuid.UUID) ([]models.Chat, error) {
	var chats []models.Chat
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *chatRepo) Get(id, userID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepo) Delete(id, userID uuid.UUID) (bool, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&models.Chat{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("chat_id = ?", id).Delete(&models.Message{}).Error
	})
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *chatRepo) SetTitle(id uuid.UUID, title string) error {
	return r.db.Model(&models.Chat{}).Where("id = ?", id).
		Update("title", title).Error
}

// AppendMessage assigns the next position in the chat so insertion order
// survives rapid writes within the same timestamp.
func (r *chatRepo) AppendMessage(chatID uuid.UUID, msg *models.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Message{}).
			Where("chat_id = ?", chatID).
			Count(&count).Error; err != nil {
			return err
		}
		msg.ChatID = chatID
		msg.Position = int(count)
		return tx.Create(msg).Error
	})
}

func (r *chatRepo) Messages(chatID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Where("chat_id = ?", chatID).
		Order("position ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepo) ListAllWithMessages() ([]models.Chat, error) {
	var chats []models.Chat
	if err := r.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *chatRepo) GetMessage(id uuid.UUID) (*models.Message, error) {
	var msg models.Message
	if err := r.db.First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *chatRepo) UpdateMessage(msg *models.Message) error {
	return r.db.Save(msg).Error
}

func (r *chatRepo) DeleteMessage(id uuid.UUID) error {
	return r.db.Delete(&models.Message{}, "id = ?", id).Error
}

func (r *chatRepo) CountChats() (int64, error) {
	var count int64
	err := r.db.Model(&models.Chat{}).Count(&count).Error
	return count, err
}

func (r *chatRepo) CountMessages() (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).Count(&count).Error
	return count, err
}
