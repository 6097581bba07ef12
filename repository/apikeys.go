package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"operator/models"
)

type apiKeyRepo struct {
	db *gorm.DB
}

func (r *apiKeyRepo) Create(key *models.APIKey) error {
	return r.db.Create(key).Error
}

func (r *apiKeyRepo) List() ([]models.APIKey, error) {
	var keys []models.APIKey
	if err := r.db.Order("created_at ASC").Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *apiKeyRepo) Get(id uuid.UUID) (*models.APIKey, error) {
	var key models.APIKey
	if err := r.db.First(&key, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepo) Update(key *models.APIKey) error {
	return r.db.Save(key).Error
}

func (r *apiKeyRepo) Delete(id uuid.UUID) (bool, error) {
	result := r.db.Delete(&models.APIKey{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *apiKeyRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.APIKey{}).Count(&count).Error
	return count, err
}
