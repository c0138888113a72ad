package repository

import (
	"time"

	"trialops/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification. The unique index on event_key makes a
// retried fan-out a no-op instead of a second row; the returned bool reports
// whether a row was actually inserted, false on the conflict path.
func (r *NotificationRepository) Create(n *models.Notification) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_key"}},
		DoNothing: true,
	}).Create(n)
	return tx.RowsAffected > 0, tx.Error
}

func (r *NotificationRepository) GetByIDs(ids []uint) ([]models.Notification, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Notification
	err := r.db.Where("id IN ?", ids).Find(&list).Error
	return list, err
}

// ListDirect returns the user's own notifications, unread only unless
// includeRead is set.
func (r *NotificationRepository) ListDirect(userID uint, includeRead bool) ([]models.Notification, error) {
	q := r.db.Where("user_id = ?", userID)
	if !includeRead {
		q = q.Where("is_read = ?", false)
	}
	var list []models.Notification
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *NotificationRepository) CountUnreadDirect(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// ListBroadcasts returns all broadcast rows (user_id IS NULL).
func (r *NotificationRepository) ListBroadcasts() ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("user_id IS NULL").Order("created_at DESC").Find(&list).Error
	return list, err
}

// ListUnreadBroadcasts returns broadcast rows without a read-status row for
// the user. Visibility filtering happens in the service; this only excludes
// already-read broadcasts.
func (r *NotificationRepository) ListUnreadBroadcasts(userID uint) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.
		Joins("LEFT JOIN notification_read_statuses rs ON rs.notification_id = notifications.id AND rs.user_id = ?", userID).
		Where("notifications.user_id IS NULL AND rs.id IS NULL").
		Order("notifications.created_at DESC").
		Find(&list).Error
	return list, err
}

// MarkDirectRead transitions owned direct notifications false -> true. The
// is_read filter keeps read_at monotonic: rows already read are untouched.
func (r *NotificationRepository) MarkDirectRead(userID uint, ids []uint, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ? AND is_read = ?", userID, ids, false).
		Updates(map[string]any{"is_read": true, "read_at": &now}).Error
}

func (r *NotificationRepository) MarkAllDirectRead(userID uint, now time.Time) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": &now}).Error
}
