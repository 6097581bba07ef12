package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"operator/models"
)

type modelRepo struct {
	db *gorm.DB
}

func (r *modelRepo) Create(m *models.CustomModel) error {
	return r.db.Create(m).Error
}

func (r *modelRepo) ListByUser(userID uuid.UUID) ([]models.CustomModel, error) {
	var custom []models.CustomModel
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&custom).Error; err != nil {
		return nil, err
	}
	return custom, nil
}

func (r *modelRepo) Exists(modelID string, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.CustomModel{}).
		Where("model_id = ? AND user_id = ?", modelID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *modelRepo) Delete(modelID string, userID uuid.UUID) (bool, error) {
	result := r.db.Where("model_id = ? AND user_id = ?", modelID, userID).
		Delete(&models.CustomModel{})
	return result.RowsAffected > 0, result.Error
}

type settingsRepo struct {
	db *gorm.DB
}

// Get returns the user's settings row, creating an empty one on first
// access.
func (r *settingsRepo) Get(userID uuid.UUID) (*models.Settings, error) {
	var s models.Settings
	err := r.db.First(&s, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = models.Settings{UserID: userID}
		if err := r.db.Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) Save(s *models.Settings) error {
	return r.db.Save(s).Error
}
