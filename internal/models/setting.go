package models

import "time"

// NotificationSetting is a user's delivery preference row. Absence of a row
// is valid and means the defaults below; rows are created lazily on first
// write.
type NotificationSetting struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	EmailNotifications bool      `gorm:"default:true" json:"email_notifications"`
	PushNotifications  bool      `gorm:"default:true" json:"push_notifications"`
	CriticalOnly       bool      `gorm:"default:false" json:"critical_only"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (NotificationSetting) TableName() string {
	return "notification_settings"
}

// DefaultNotificationSetting is the behavior of a user with no settings row.
func DefaultNotificationSetting(userID uint) *NotificationSetting {
	return &NotificationSetting{
		UserID:             userID,
		EmailNotifications: true,
		PushNotifications:  true,
		CriticalOnly:       false,
	}
}
