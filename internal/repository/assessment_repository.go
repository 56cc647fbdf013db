package repository

import (
	"errors"

	"care_program_backend/internal/model"
	"care_program_backend/internal/util"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) preloadDefinition() *gorm.DB {
	return r.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("assessment_sections.order asc")
		}).
		Preload("Sections.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("assessment_questions.order asc")
		}).
		Preload("Sections.Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("assessment_options.order asc")
		}).
		Preload("Ranges")
}

// ActiveDefinition loads the currently published battery with sections,
// questions, options and ranges resolved.
func (r *AssessmentRepository) ActiveDefinition() (*model.AssessmentDefinition, error) {
	var def model.AssessmentDefinition
	err := r.preloadDefinition().Where("is_active = ?", true).First(&def).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNoActiveDefinition
	}
	return &def, err
}

func (r *AssessmentRepository) FindDefinitionByID(id uint) (*model.AssessmentDefinition, error) {
	var def model.AssessmentDefinition
	err := r.preloadDefinition().First(&def, id).Error
	return &def, err
}

func (r *AssessmentRepository) ListDefinitions() ([]model.AssessmentDefinition, error) {
	var defs []model.AssessmentDefinition
	err := r.DB.Order("version desc").Find(&defs).Error
	return defs, err
}

func (r *AssessmentRepository) CreateDefinition(def *model.AssessmentDefinition) error {
	return r.DB.Create(def).Error
}

// Activate publishes one definition version and retires the others, in one
// transaction.
func (r *AssessmentRepository) Activate(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.AssessmentDefinition{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.AssessmentDefinition{}).
			Where("id = ?", id).
			Update("is_active", true).Error
	})
}

func (r *AssessmentRepository) MaxVersion() (int, error) {
	var v *int
	err := r.DB.Model(&model.AssessmentDefinition{}).Select("MAX(version)").Scan(&v).Error
	if err != nil || v == nil {
		return 0, err
	}
	return *v, nil
}

func (r *AssessmentRepository) CreateSection(s *model.AssessmentSection) error {
	return r.DB.Create(s).Error
}

func (r *AssessmentRepository) CreateQuestion(q *model.AssessmentQuestion) error {
	return r.DB.Create(q).Error
}

func (r *AssessmentRepository) UpdateQuestion(q *model.AssessmentQuestion) error {
	return r.DB.Save(q).Error
}

func (r *AssessmentRepository) DeleteQuestion(id string) error {
	return r.DB.Delete(&model.AssessmentQuestion{}, "id = ?", id).Error
}

func (r *AssessmentRepository) CreateOption(o *model.AssessmentOption) error {
	return r.DB.Create(o).Error
}

func (r *AssessmentRepository) CreateRange(sr *model.ScoreRange) error {
	return r.DB.Create(sr).Error
}

func (r *AssessmentRepository) DeleteRange(id uint) error {
	return r.DB.Delete(&model.ScoreRange{}, id).Error
}
