package service

import (
	"errors"
	"testing"

	"trialops/internal/domain"
	"trialops/internal/models"
	"trialops/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

func setting(email, push, criticalOnly bool) *models.NotificationSetting {
	return &models.NotificationSetting{
		UserID:             1,
		EmailNotifications: email,
		PushNotifications:  push,
		CriticalOnly:       criticalOnly,
	}
}

func TestAllows(t *testing.T) {
	tests := []struct {
		name     string
		set      *models.NotificationSetting
		channel  string
		priority string
		want     bool
	}{
		{"nil settings allow push", nil, domain.ChannelPush, domain.PriorityLow, true},
		{"nil settings allow email", nil, domain.ChannelEmail, domain.PriorityInfo, true},
		{"defaults allow everything", models.DefaultNotificationSetting(1), domain.ChannelPush, domain.PriorityInfo, true},
		{"push disabled denies push", setting(true, false, false), domain.ChannelPush, domain.PriorityCritical, false},
		{"push disabled keeps email", setting(true, false, false), domain.ChannelEmail, domain.PriorityMedium, true},
		{"email disabled denies email", setting(false, true, false), domain.ChannelEmail, domain.PriorityCritical, false},
		{"email disabled keeps push", setting(false, true, false), domain.ChannelPush, domain.PriorityMedium, true},
		{"critical-only denies medium", setting(true, true, true), domain.ChannelPush, domain.PriorityMedium, false},
		{"critical-only denies low", setting(true, true, true), domain.ChannelEmail, domain.PriorityLow, false},
		{"critical-only denies info", setting(true, true, true), domain.ChannelPush, domain.PriorityInfo, false},
		{"critical-only allows high", setting(true, true, true), domain.ChannelPush, domain.PriorityHigh, true},
		{"critical-only allows critical", setting(true, true, true), domain.ChannelEmail, domain.PriorityCritical, true},
		{"critical-only stacks with channel off", setting(true, false, true), domain.ChannelPush, domain.PriorityCritical, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allows(tt.set, tt.channel, tt.priority); got != tt.want {
				t.Fatalf("Allows(%+v, %s, %s) = %v, want %v", tt.set, tt.channel, tt.priority, got, tt.want)
			}
		})
	}
}

func TestShouldDeliver_FailsOpenOnLookupError(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	prefs := NewPreferenceService(repository.NewSettingRepository(db))

	// A broken settings store must never suppress delivery.
	mock.ExpectQuery("SELECT \\* FROM `notification_settings` WHERE user_id = \\?").
		WithArgs(uint(7), 1).
		WillReturnError(errors.New("dial tcp 10.0.0.3:3306: connection refused"))

	if !prefs.ShouldDeliver(7, domain.ChannelPush, domain.PriorityMedium) {
		t.Fatal("settings lookup failure should fail open")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestShouldDeliver_MissingRowUsesDefaults(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()
	prefs := NewPreferenceService(repository.NewSettingRepository(db))

	mock.ExpectQuery("SELECT \\* FROM `notification_settings` WHERE user_id = \\?").
		WithArgs(uint(7), 1).
		WillReturnRows(sqlmock.NewRows(settingColumns))

	if !prefs.ShouldDeliver(7, domain.ChannelPush, domain.PriorityLow) {
		t.Fatal("defaults should allow a low-priority push")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
