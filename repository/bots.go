package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"operator/models"
)

type botRepo struct {
	db *gorm.DB
}

func (r *botRepo) Create(bot *models.Bot) error {
	return r.db.Create(bot).Error
}

func (r *botRepo) List() ([]models.Bot, error) {
	var bots []models.Bot
	if err := r.db.Order("created_at ASC").Find(&bots).Error; err != nil {
		return nil, err
	}
	return bots, nil
}

func (r *botRepo) Get(id uuid.UUID) (*models.Bot, error) {
	var bot models.Bot
	if err := r.db.First(&bot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bot, nil
}

func (r *botRepo) Update(bot *models.Bot) error {
	return r.db.Save(bot).Error
}

func (r *botRepo) Delete(id uuid.UUID) (bool, error) {
	result := r.db.Delete(&models.Bot{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *botRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Bot{}).Count(&count).Error
	return count, err
}
