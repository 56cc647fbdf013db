package service

import (
	"errors"

	"care_program_backend/internal/model"
	"care_program_backend/internal/program"
	"care_program_backend/internal/repository"
	"care_program_backend/internal/util"
	"care_program_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssessmentService manages questionnaire battery versions. Definitions are
// drafts until activated; activation runs the full range validation so a
// mis-configured battery can never reach participants.
type AssessmentService struct {
	Repo *repository.AssessmentRepository
}

func NewAssessmentService(repo *repository.AssessmentRepository) *AssessmentService {
	return &AssessmentService{Repo: repo}
}

// QuestionnaireView is the participant-facing battery: questions and option
// labels without scores or ranges.
type QuestionnaireView struct {
	DefinitionID uint          `json:"definitionId"`
	Name         string        `json:"name"`
	Version      int           `json:"version"`
	Sections     []SectionView `json:"sections"`
}

type SectionView struct {
	Axis      model.AssessmentAxis `json:"axis"`
	Title     string               `json:"title"`
	Questions []QuestionView       `json:"questions"`
}

type QuestionView struct {
	ID       string       `json:"id"`
	Content  string       `json:"content"`
	Required bool         `json:"required"`
	Options  []OptionView `json:"options"`
}

type OptionView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ActiveQuestionnaire returns the published battery stripped of scoring
// internals.
func (s *AssessmentService) ActiveQuestionnaire() (*QuestionnaireView, error) {
	def, err := s.Repo.ActiveDefinition()
	if err != nil {
		return nil, err
	}
	view := &QuestionnaireView{
		DefinitionID: def.ID,
		Name:         def.Name,
		Version:      def.Version,
	}
	for _, sec := range def.Sections {
		sv := SectionView{Axis: sec.Axis, Title: sec.Title}
		for _, q := range sec.Questions {
			qv := QuestionView{ID: q.ID, Content: q.Content, Required: q.Required}
			for _, o := range q.Options {
				qv.Options = append(qv.Options, OptionView{ID: o.ID, Label: o.Label})
			}
			sv.Questions = append(sv.Questions, qv)
		}
		view.Sections = append(view.Sections, sv)
	}
	return view, nil
}

// CreateDraft opens a new definition version. The version number is always
// max+1 regardless of which versions are active.
func (s *AssessmentService) CreateDraft(name string) (*model.AssessmentDefinition, error) {
	maxVersion, err := s.Repo.MaxVersion()
	if err != nil {
		return nil, err
	}
	def := &model.AssessmentDefinition{
		Name:    name,
		Version: maxVersion + 1,
	}
	if err := s.Repo.CreateDefinition(def); err != nil {
		return nil, err
	}
	return def, nil
}

func (s *AssessmentService) Get(id uint) (*model.AssessmentDefinition, error) {
	def, err := s.Repo.FindDefinitionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, program.NotFound("assessment definition", "")
		}
		return nil, err
	}
	return def, nil
}

func (s *AssessmentService) List() ([]model.AssessmentDefinition, error) {
	return s.Repo.ListDefinitions()
}

// editableDraft loads a definition and rejects edits to a published one.
// Published versions are immutable; graded attempts reference them.
func (s *AssessmentService) editableDraft(id uint) (*model.AssessmentDefinition, error) {
	def, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if def.IsActive {
		return nil, program.Validationf("definition %d is active and immutable, create a new version", def.ID)
	}
	return def, nil
}

type SectionRequest struct {
	Axis  model.AssessmentAxis `json:"axis" binding:"required,oneof=burden stress quality_of_life"`
	Title string               `json:"title"`
	Order int                  `json:"order" binding:"min=0"`
}

func (s *AssessmentService) AddSection(definitionID uint, req *SectionRequest) (*model.AssessmentSection, error) {
	if _, err := s.editableDraft(definitionID); err != nil {
		return nil, err
	}
	section := &model.AssessmentSection{
		DefinitionID: definitionID,
		Axis:         req.Axis,
		Title:        req.Title,
		Order:        req.Order,
	}
	if err := s.Repo.CreateSection(section); err != nil {
		return nil, err
	}
	return section, nil
}

type QuestionRequest struct {
	SectionID uint            `json:"sectionId" binding:"required"`
	Content   string          `json:"content" binding:"required"`
	Order     int             `json:"order" binding:"min=0"`
	Required  *bool           `json:"required"`
	Options   []OptionRequest `json:"options" binding:"required,min=2,dive"`
}

type OptionRequest struct {
	Label string `json:"label" binding:"required"`
	Score int    `json:"score" binding:"min=0"`
	Order int    `json:"order" binding:"min=0"`
}

func (s *AssessmentService) AddQuestion(definitionID uint, req *QuestionRequest) (*model.AssessmentQuestion, error) {
	def, err := s.editableDraft(definitionID)
	if err != nil {
		return nil, err
	}
	sectionOK := false
	for _, sec := range def.Sections {
		if sec.ID == req.SectionID {
			sectionOK = true
			break
		}
	}
	if !sectionOK {
		return nil, program.Validationf("section %d does not belong to definition %d", req.SectionID, definitionID)
	}

	question := &model.AssessmentQuestion{
		UUIDBase:  model.UUIDBase{ID: model.GenerateUUID()},
		SectionID: req.SectionID,
		Content:   req.Content,
		Order:     req.Order,
		Required:  true,
	}
	if req.Required != nil {
		question.Required = *req.Required
	}
	for _, o := range req.Options {
		question.Options = append(question.Options, model.AssessmentOption{
			UUIDBase:   model.UUIDBase{ID: model.GenerateUUID()},
			QuestionID: question.ID,
			Label:      o.Label,
			Score:      o.Score,
			Order:      o.Order,
		})
	}
	if err := s.Repo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *AssessmentService) DeleteQuestion(definitionID uint, questionID string) error {
	if _, err := s.editableDraft(definitionID); err != nil {
		return err
	}
	return s.Repo.DeleteQuestion(questionID)
}

type RangeRequest struct {
	Axis     model.AssessmentAxis `json:"axis" binding:"required,oneof=burden stress quality_of_life"`
	MinScore int                  `json:"minScore" binding:"min=0"`
	MaxScore int                  `json:"maxScore" binding:"min=0"`
	Category string               `json:"category" binding:"required"`
}

func (s *AssessmentService) AddRange(definitionID uint, req *RangeRequest) (*model.ScoreRange, error) {
	if _, err := s.editableDraft(definitionID); err != nil {
		return nil, err
	}
	if req.MaxScore < req.MinScore {
		return nil, program.Validationf("maxScore %d is below minScore %d", req.MaxScore, req.MinScore)
	}
	sr := &model.ScoreRange{
		DefinitionID: definitionID,
		Axis:         req.Axis,
		MinScore:     req.MinScore,
		MaxScore:     req.MaxScore,
		Category:     req.Category,
	}
	if err := s.Repo.CreateRange(sr); err != nil {
		return nil, err
	}
	return sr, nil
}

func (s *AssessmentService) DeleteRange(definitionID, rangeID uint) error {
	if _, err := s.editableDraft(definitionID); err != nil {
		return err
	}
	return s.Repo.DeleteRange(rangeID)
}

// Activate publishes a definition after checking every axis: at least one
// section with questions, and ranges that are disjoint and cover the whole
// attainable score domain.
func (s *AssessmentService) Activate(id uint) error {
	def, err := s.Get(id)
	if err != nil {
		return err
	}
	if def.IsActive {
		return nil
	}

	axes := def.Axes()
	if len(axes) == 0 {
		return util.ErrDefinitionNotActivatable
	}
	for _, axis := range axes {
		sections := def.SectionsForAxis(axis)
		domainMin, domainMax := program.ScoreDomain(sections)
		if domainMax == 0 {
			return util.ErrDefinitionNotActivatable
		}
		if err := program.ValidateRanges(def.RangesForAxis(axis), domainMin, domainMax); err != nil {
			// at activation time this is still fixable admin input, not a
			// live-battery configuration fault
			return program.Validationf("axis %s: %v", axis, err)
		}
	}

	if err := s.Repo.Activate(id); err != nil {
		return err
	}
	logger.Log.Info("assessment definition activated",
		zap.Uint("definitionId", id),
		zap.Int("version", def.Version))
	return nil
}
