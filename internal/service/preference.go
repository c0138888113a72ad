package service

import (
	"errors"
	"log"

	"trialops/internal/domain"
	"trialops/internal/models"
	"trialops/internal/repository"

	"gorm.io/gorm"
)

// PreferenceService gates delivery per user and per channel.
type PreferenceService struct {
	settings *repository.SettingRepository
}

func NewPreferenceService(settings *repository.SettingRepository) *PreferenceService {
	return &PreferenceService{settings: settings}
}

// ShouldDeliver loads the user's settings and applies the gate. A missing
// row means the defaults. A failing lookup fails open: delivery is never
// blocked by a persistence hiccup in the settings store.
func (s *PreferenceService) ShouldDeliver(userID uint, channel, priority string) bool {
	set, err := s.settings.GetByUserID(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[prefs] lookup user %d: %v (allowing delivery)", userID, err)
			return true
		}
		set = models.DefaultNotificationSetting(userID)
	}
	return Allows(set, channel, priority)
}

// Allows is the gate predicate over a loaded settings row.
func Allows(set *models.NotificationSetting, channel, priority string) bool {
	if set == nil {
		return true
	}
	switch channel {
	case domain.ChannelPush:
		if !set.PushNotifications {
			return false
		}
	case domain.ChannelEmail:
		if !set.EmailNotifications {
			return false
		}
	}
	if set.CriticalOnly && priority != domain.PriorityCritical && priority != domain.PriorityHigh {
		return false
	}
	return true
}

// Get returns the user's settings, synthesizing the defaults when no row
// exists yet.
func (s *PreferenceService) Get(userID uint) (*models.NotificationSetting, error) {
	set, err := s.settings.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultNotificationSetting(userID), nil
		}
		return nil, err
	}
	return set, nil
}

// SettingPatch carries the fields a PATCH may change; nil means unchanged.
type SettingPatch struct {
	EmailNotifications *bool `json:"email_notifications"`
	PushNotifications  *bool `json:"push_notifications"`
	CriticalOnly       *bool `json:"critical_only"`
}

// Update applies a patch on top of the current (or default) settings and
// upserts the row, creating it lazily on first write.
func (s *PreferenceService) Update(userID uint, patch SettingPatch) (*models.NotificationSetting, error) {
	set, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if patch.EmailNotifications != nil {
		set.EmailNotifications = *patch.EmailNotifications
	}
	if patch.PushNotifications != nil {
		set.PushNotifications = *patch.PushNotifications
	}
	if patch.CriticalOnly != nil {
		set.CriticalOnly = *patch.CriticalOnly
	}
	if err := s.settings.Upsert(set); err != nil {
		return nil, err
	}
	return set, nil
}
