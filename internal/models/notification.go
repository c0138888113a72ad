package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is either direct (UserID set, exactly one owner, IsRead/ReadAt
// authoritative) or broadcast (UserID nil, recipients carried by TargetRoles
// and TargetUsers, per-recipient read state tracked in
// NotificationReadStatus). A broadcast row is immutable once created; marking
// it read for one recipient must never touch the shared row.
type Notification struct {
	ID                uint                        `gorm:"primaryKey" json:"id"`
	EventKey          string                      `gorm:"uniqueIndex;size:64;not null" json:"event_key"`
	Title             string                      `gorm:"size:255;not null" json:"title"`
	Description       string                      `gorm:"type:text" json:"description"`
	Type              string                      `gorm:"size:32;not null;index" json:"type"`
	Priority          string                      `gorm:"size:16;not null" json:"priority"`
	TrialID           *uint                       `gorm:"index" json:"trial_id,omitempty"`
	Source            string                      `gorm:"size:128" json:"source,omitempty"`
	RelatedEntityType string                      `gorm:"size:64" json:"related_entity_type,omitempty"`
	RelatedEntityID   *uint                       `json:"related_entity_id,omitempty"`
	ActionURL         string                      `gorm:"size:512" json:"action_url,omitempty"`
	UserID            *uint                       `gorm:"index" json:"user_id,omitempty"`
	IsRead            bool                        `gorm:"default:false" json:"read"`
	ReadAt            *time.Time                  `json:"read_at,omitempty"`
	TargetRoles       datatypes.JSONSlice[string] `gorm:"type:json" json:"target_roles,omitempty"`
	TargetUsers       datatypes.JSONSlice[uint]   `gorm:"type:json" json:"target_users,omitempty"`
	CreatedAt         time.Time                   `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// IsBroadcast reports whether the notification is shared by many recipients.
func (n *Notification) IsBroadcast() bool {
	return n.UserID == nil
}

// TargetsUser reports whether the broadcast names the user in its recipient
// snapshot.
func (n *Notification) TargetsUser(userID uint) bool {
	for _, id := range n.TargetUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// NotificationReadStatus records one recipient's read event for a broadcast.
// The (notification_id, user_id) unique index is the idempotence invariant:
// inserts race-tolerantly no-op on conflict.
type NotificationReadStatus struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	NotificationID uint      `gorm:"not null;uniqueIndex:idx_notification_user" json:"notification_id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_notification_user;index" json:"user_id"`
	ReadAt         time.Time `json:"read_at"`
}

func (NotificationReadStatus) TableName() string {
	return "notification_read_statuses"
}
