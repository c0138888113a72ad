package repository

import (
	"trialops/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetByUserID returns the user's settings row. gorm.ErrRecordNotFound means
// no row exists, which callers treat as the defaults.
func (r *SettingRepository) GetByUserID(userID uint) (*models.NotificationSetting, error) {
	var s models.NotificationSetting
	if err := r.db.Where("user_id = ?", userID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert creates the row lazily on first write, then updates in place.
func (r *SettingRepository) Upsert(s *models.NotificationSetting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email_notifications", "push_notifications", "critical_only", "updated_at"}),
	}).Create(s).Error
}
