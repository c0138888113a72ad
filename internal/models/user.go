package models

import (
	"time"

	"trialops/internal/domain"

	"gorm.io/datatypes"
)

// User mirrors the user directory. This service consumes it for targeting;
// it does not own account lifecycle.
type User struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"size:128;not null" json:"name"`
	Email       string                      `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role        string                      `gorm:"size:64;not null;index" json:"role"`
	StudyAccess datatypes.JSONSlice[string] `gorm:"type:json" json:"study_access"` // nil/empty or "All Studies" means unrestricted
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasStudyAccess reports whether the user may see material scoped to the
// given protocol token. A missing access list and the "All Studies" sentinel
// both mean unrestricted.
func (u *User) HasStudyAccess(protocol string) bool {
	if len(u.StudyAccess) == 0 {
		return true
	}
	for _, s := range u.StudyAccess {
		if s == domain.AllStudies || s == protocol {
			return true
		}
	}
	return false
}
