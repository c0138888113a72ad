package repository

import (
	"trialops/internal/models"

	"gorm.io/gorm"
)

type TrialRepository struct {
	db *gorm.DB
}

func NewTrialRepository(db *gorm.DB) *TrialRepository {
	return &TrialRepository{db: db}
}

func (r *TrialRepository) GetByID(id uint) (*models.Trial, error) {
	var t models.Trial
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ProtocolsByIDs returns trial id -> protocol number for the given trials.
func (r *TrialRepository) ProtocolsByIDs(ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var trials []models.Trial
	if err := r.db.Where("id IN ?", ids).Find(&trials).Error; err != nil {
		return nil, err
	}
	for _, t := range trials {
		out[t.ID] = t.ProtocolNumber
	}
	return out, nil
}
