package database

import (
	"log"

	"trialops/internal/domain"
	"trialops/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDev inserts a minimal user directory and trial registry for local
// development. No-op when users already exist.
func SeedDev(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	trials := []models.Trial{
		{ProtocolNumber: "PRO001", Name: "Phase II Oncology"},
		{ProtocolNumber: "PRO002", Name: "Phase III Cardiology"},
	}
	if err := db.Create(&trials).Error; err != nil {
		log.Printf("[seed] trials: %v", err)
		return
	}

	users := []models.User{
		{Name: "System Admin", Email: "sysadmin@trialops.local", Role: domain.RoleSystemAdmin},
		{Name: "Site Admin", Email: "admin@trialops.local", Role: domain.RoleAdmin},
		{Name: "Dr. Reyes", Email: "pi@trialops.local", Role: domain.RolePrincipalInvestigator,
			StudyAccess: datatypes.NewJSONSlice([]string{domain.AllStudies})},
		{Name: "Alma Diaz", Email: "dm1@trialops.local", Role: domain.RoleDataManager,
			StudyAccess: datatypes.NewJSONSlice([]string{"PRO001"})},
		{Name: "Ben Okoro", Email: "dm2@trialops.local", Role: domain.RoleDataManager,
			StudyAccess: datatypes.NewJSONSlice([]string{"PRO001", "PRO002"})},
		{Name: "Carol Nguyen", Email: "cra@trialops.local", Role: domain.RoleCRA,
			StudyAccess: datatypes.NewJSONSlice([]string{"PRO002"})},
	}
	if err := db.Create(&users).Error; err != nil {
		log.Printf("[seed] users: %v", err)
		return
	}
	log.Printf("[seed] inserted %d trials, %d users", len(trials), len(users))
}
