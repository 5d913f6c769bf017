package repositories

import (
	"gorm.io/gorm"

	"github.com/Akas679/Inventory-web/src/models"
)

type UserRepository struct {
	DB *gorm.DB
}

// GetByID
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List
func (r *UserRepository) List() ([]models.User, error) {
	var users []models.User
	err := r.DB.Order("username ASC").Find(&users).Error
	return users, err
}

// Create
func (r *UserRepository) Create(user *models.User) error {
	return r.DB.Create(user).Error
}

// Delete - Hard delete; callers must check the ledger first
func (r *UserRepository) Delete(id uint) error {
	return r.DB.Delete(&models.User{}, id).Error
}
