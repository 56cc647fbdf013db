package repository

import (
	"errors"
	"strconv"

	"care_program_backend/internal/model"
	"care_program_backend/internal/program"

	"gorm.io/gorm"
)

// ProgramRepository loads and saves the ParticipantProgram aggregate. Save is
// guarded by an optimistic version check so concurrent mutations of one
// participant never interleave.
type ProgramRepository struct {
	DB *gorm.DB
}

func NewProgramRepository(db *gorm.DB) *ProgramRepository {
	return &ProgramRepository{DB: db}
}

func (r *ProgramRepository) preload() *gorm.DB {
	return r.DB.
		Preload("User").
		Preload("DayModules", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_modules.day asc")
		}).
		Preload("DayModules.Contents", func(db *gorm.DB) *gorm.DB {
			return db.Order("content_completions.order asc")
		}).
		Preload("Attempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("assessment_attempts.attempt_number asc")
		})
}

func (r *ProgramRepository) LoadByUserID(userID uint) (*model.ParticipantProgram, error) {
	var p model.ParticipantProgram
	err := r.preload().Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, program.NotFound("program for participant", strconv.FormatUint(uint64(userID), 10))
	}
	return &p, err
}

func (r *ProgramRepository) LoadByID(id uint) (*model.ParticipantProgram, error) {
	var p model.ParticipantProgram
	err := r.preload().First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, program.NotFound("program", strconv.FormatUint(uint64(id), 10))
	}
	return &p, err
}

// Save persists the whole aggregate inside one transaction. The version row
// update acts as the write fence: zero affected rows means someone else won
// the race and the caller gets ErrConflict to reload and retry.
func (r *ProgramRepository) Save(p *model.ParticipantProgram) error {
	loadedVersion := p.Version
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ParticipantProgram{}).
			Where("id = ? AND version = ?", p.ID, loadedVersion).
			Update("version", loadedVersion+1)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return program.ErrConflict
		}
		p.Version = loadedVersion + 1

		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error; err != nil {
			return err
		}
		return nil
	})
}

// CreatePairWithPrograms creates the pairing row plus one program per side
// atomically. Each program starts at day 0 with its intake module already
// materialized by the caller.
func (r *ProgramRepository) CreatePairWithPrograms(pair *model.CarePair, programs []*model.ParticipantProgram) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pair).Error; err != nil {
			return err
		}
		for _, p := range programs {
			p.PairID = pair.ID
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProgramRepository) List(page, limit int) ([]model.ParticipantProgram, int64, error) {
	var programs []model.ParticipantProgram
	var total int64
	query := r.DB.Model(&model.ParticipantProgram{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("User").Order("created_at desc").Offset(offset).Limit(limit).Find(&programs).Error
	return programs, total, err
}

// DeleteDayContents removes the completion rows of a module so a reset can
// re-materialize against a changed category.
func (r *ProgramRepository) DeleteDayContents(dayModuleID uint) error {
	return r.DB.Where("day_module_id = ?", dayModuleID).Delete(&model.ContentCompletion{}).Error
}

// DeleteAttempts clears the attempt ledger, used only by the admin reset with
// includeAssessment.
func (r *ProgramRepository) DeleteAttempts(programID uint) error {
	return r.DB.Where("program_id = ?", programID).Delete(&model.AssessmentAttempt{}).Error
}
