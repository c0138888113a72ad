package repository

import (
	"trialops/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReadStatusRepository struct {
	db *gorm.DB
}

func NewReadStatusRepository(db *gorm.DB) *ReadStatusRepository {
	return &ReadStatusRepository{db: db}
}

// InsertIgnore appends read-status rows, swallowing duplicates. The
// (notification_id, user_id) unique index is the source of truth: a retried
// or concurrent mark-as-read lands on the conflict path and no-ops.
func (r *ReadStatusRepository) InsertIgnore(rows []models.NotificationReadStatus) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// ReadNotificationIDs returns the set of broadcast ids the user has read.
func (r *ReadStatusRepository) ReadNotificationIDs(userID uint) (map[uint]models.NotificationReadStatus, error) {
	var rows []models.NotificationReadStatus
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.NotificationReadStatus, len(rows))
	for _, row := range rows {
		out[row.NotificationID] = row
	}
	return out, nil
}
