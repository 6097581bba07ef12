package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"operator/models"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIdentifier resolves a login identifier that may be a username or an
// email address.
func (r *userRepo) GetByIdentifier(identifier string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) Delete(id uuid.UUID) error {
	// No cascade: the user's chats stay behind, matching the original
	// app's delete behavior.
	return r.db.Delete(&models.User{}, "id = ?", id).Error
}

func (r *userRepo) IdentifierTaken(username, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
