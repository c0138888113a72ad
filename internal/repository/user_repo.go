package repository

import (
	"trialops/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ListByRole(role string) ([]models.User, error) {
	var list []models.User
	err := r.db.Where("role = ?", role).Find(&list).Error
	return list, err
}

func (r *UserRepository) ListByRoles(roles []string) ([]models.User, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	var list []models.User
	err := r.db.Where("role IN ?", roles).Find(&list).Error
	return list, err
}
