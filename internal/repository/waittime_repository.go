package repository

import (
	"errors"

	"care_program_backend/internal/model"

	"gorm.io/gorm"
)

type WaitTimeRepository struct {
	DB *gorm.DB
}

func NewWaitTimeRepository(db *gorm.DB) *WaitTimeRepository {
	return &WaitTimeRepository{DB: db}
}

// Global returns the single global wait-time row (seeded at migration).
func (r *WaitTimeRepository) Global() (*model.WaitTimeConfig, error) {
	var cfg model.WaitTimeConfig
	err := r.DB.First(&cfg).Error
	return &cfg, err
}

func (r *WaitTimeRepository) UpdateGlobal(cfg *model.WaitTimeConfig) error {
	return r.DB.Save(cfg).Error
}

// OverrideFor returns the per-participant override, or nil when none exists.
func (r *WaitTimeRepository) OverrideFor(programID uint) (*model.WaitTimeOverride, error) {
	var ov model.WaitTimeOverride
	err := r.DB.Where("program_id = ?", programID).First(&ov).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

func (r *WaitTimeRepository) UpsertOverride(ov *model.WaitTimeOverride) error {
	existing, err := r.OverrideFor(ov.ProgramID)
	if err != nil {
		return err
	}
	if existing != nil {
		ov.ID = existing.ID
		ov.CreatedAt = existing.CreatedAt
	}
	return r.DB.Save(ov).Error
}

func (r *WaitTimeRepository) DeleteOverride(programID uint) error {
	return r.DB.Where("program_id = ?", programID).Delete(&model.WaitTimeOverride{}).Error
}
