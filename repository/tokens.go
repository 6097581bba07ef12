package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"operator/models"
)

type tokenRepo struct {
	db *gorm.DB
}

func (r *tokenRepo) Create(t *models.RefreshToken) error {
	return r.db.Create(t).Error
}

func (r *tokenRepo) GetValid(tokenHash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := r.db.Where("token_hash = ? AND expires_at > ?", tokenHash, time.Now()).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.RefreshToken{}, "id = ?", id).Error
}

func (r *tokenRepo) DeleteByUser(userID uuid.UUID) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}
