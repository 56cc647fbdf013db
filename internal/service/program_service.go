package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"care_program_backend/internal/model"
	"care_program_backend/internal/program"
	"care_program_backend/internal/util"
	"care_program_backend/pkg/logger"
	"care_program_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ProgramStore is the persistence boundary of the orchestrator. Save must
// fail with program.ErrConflict when a concurrent writer won the version
// race.
type ProgramStore interface {
	LoadByUserID(userID uint) (*model.ParticipantProgram, error)
	LoadByID(id uint) (*model.ParticipantProgram, error)
	Save(p *model.ParticipantProgram) error
	CreatePairWithPrograms(pair *model.CarePair, programs []*model.ParticipantProgram) error
	List(page, limit int) ([]model.ParticipantProgram, int64, error)
	DeleteDayContents(dayModuleID uint) error
	DeleteAttempts(programID uint) error
}

// ContentCatalog resolves the ordered content list for a (day, role,
// category) triple. Read-only from the orchestrator's point of view.
type ContentCatalog interface {
	OrderedContentFor(day int, role model.UserRole, category string) ([]model.ContentItem, error)
}

// DefinitionStore provides the active questionnaire battery.
type DefinitionStore interface {
	ActiveDefinition() (*model.AssessmentDefinition, error)
}

// WaitTimeStore provides global wait-hour defaults and per-participant
// overrides.
type WaitTimeStore interface {
	Global() (*model.WaitTimeConfig, error)
	OverrideFor(programID uint) (*model.WaitTimeOverride, error)
}

// GeneralCategory keys day-0 intake content, which is the same for every
// participant of a role because no assessment has been scored yet.
const GeneralCategory = "general"

// ProgramService is the orchestrator composing the gate, scorer, tracker and
// retake machine into the operations exposed to controllers. Every mutation
// is one read-modify-write cycle against the participant aggregate, retried
// on version conflicts.
type ProgramService struct {
	Store       ProgramStore
	Catalog     ContentCatalog
	Definitions DefinitionStore
	WaitTimes   WaitTimeStore
	Users       *UserService
	Clock       program.Clock

	programDays   int
	retryAttempts atomic.Int32
}

func NewProgramService(store ProgramStore, catalog ContentCatalog, definitions DefinitionStore, waitTimes WaitTimeStore, users *UserService, clock program.Clock, programDays, retryAttempts int) *ProgramService {
	s := &ProgramService{
		Store:       store,
		Catalog:     catalog,
		Definitions: definitions,
		WaitTimes:   waitTimes,
		Users:       users,
		Clock:       clock,
		programDays: programDays,
	}
	s.retryAttempts.Store(int32(retryAttempts))
	return s
}

// SetConflictRetryAttempts adjusts the retry bound at runtime, driven by
// config reloads.
func (s *ProgramService) SetConflictRetryAttempts(n int) {
	if n > 0 {
		s.retryAttempts.Store(int32(n))
	}
}

// withRetry runs one read-modify-write cycle, reloading and reapplying on
// optimistic-lock conflicts up to the configured bound.
func (s *ProgramService) withRetry(operation string, fn func() error) error {
	var err error
	maxAttempts := int(s.retryAttempts.Load())
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, program.ErrConflict) {
			return err
		}
		monitoring.ConflictRetries.WithLabelValues(operation).Inc()
		logger.Log.Warn("program write conflict, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1))
	}
	return err
}

// categoryForDay resolves the catalog category a day's content is selected
// by. Day 0 is the intake day; later days follow the role's scored axis.
func categoryForDay(p *model.ParticipantProgram, day int) string {
	if day == 0 {
		return GeneralCategory
	}
	return p.ContentCategory()
}

// materializeDay creates the day module. When the category is not known yet
// (assessment not scored), a pending module without contents carries the
// scheduled unlock time until a later read can fill it.
func (s *ProgramService) materializeDay(p *model.ParticipantProgram, day int, scheduledUnlockAt *time.Time) error {
	if p.DayModuleFor(day) != nil {
		return nil
	}
	category := categoryForDay(p, day)
	if category == "" {
		p.DayModules = append(p.DayModules, model.DayModule{
			ProgramID:         p.ID,
			Day:               day,
			ScheduledUnlockAt: scheduledUnlockAt,
		})
		return nil
	}
	items, err := s.Catalog.OrderedContentFor(day, p.Role, category)
	if err != nil {
		return err
	}
	module, err := program.Materialize(p.ID, day, category, items)
	if err != nil {
		return err
	}
	module.ScheduledUnlockAt = scheduledUnlockAt
	p.DayModules = append(p.DayModules, *module)
	return nil
}

// fillPendingModules completes modules that were created before the
// participant's category was known. Runs lazily on reads and after
// submissions.
func (s *ProgramService) fillPendingModules(p *model.ParticipantProgram) (bool, error) {
	changed := false
	for i := range p.DayModules {
		module := &p.DayModules[i]
		if len(module.Contents) > 0 || module.Category != "" {
			continue
		}
		category := categoryForDay(p, module.Day)
		if category == "" {
			continue
		}
		items, err := s.Catalog.OrderedContentFor(module.Day, p.Role, category)
		if err != nil {
			return changed, err
		}
		fresh, err := program.Materialize(p.ID, module.Day, category, items)
		if err != nil {
			return changed, err
		}
		module.Category = category
		module.Contents = fresh.Contents
		for ci := range module.Contents {
			module.Contents[ci].DayModuleID = module.ID
		}
		changed = true
	}
	return changed, nil
}

// applyLazyTransitions evaluates every time-triggered transition against the
// clock: retake auto-open, first-observed day unlocks, pending
// materializations. There is no background scheduler; a transition fires the
// first time state is read after its moment passed.
func (s *ProgramService) applyLazyTransitions(p *model.ParticipantProgram) (bool, error) {
	changed := false

	if program.AutoOpenRetake(p, s.Clock) {
		monitoring.ProgramTransitions.WithLabelValues("retake_open").Inc()
		logger.Log.Info("retake opened", zap.Uint("programId", p.ID))
		changed = true
	}

	filled, err := s.fillPendingModules(p)
	if err != nil {
		return changed, err
	}
	changed = changed || filled

	for i := range p.DayModules {
		module := &p.DayModules[i]
		if program.IsDayUnlocked(p, module.Day, s.Clock) && program.StampUnlocked(module, s.Clock) {
			monitoring.ProgramTransitions.WithLabelValues("day_unlock").Inc()
			changed = true
		}
	}
	return changed, nil
}

// GetProgramView returns the dashboard view, applying and persisting any
// lazy transitions that came due.
func (s *ProgramService) GetProgramView(userID uint) (*ProgramView, error) {
	var view *ProgramView
	err := s.withRetry("get_view", func() error {
		p, err := s.Store.LoadByUserID(userID)
		if err != nil {
			return err
		}
		changed, err := s.applyLazyTransitions(p)
		if err != nil {
			return err
		}
		if changed {
			if err := s.Store.Save(p); err != nil {
				return err
			}
		}
		view = s.buildView(p)
		return nil
	})
	return view, err
}

// GetProgramViewByProgramID is the admin variant keyed by program id.
func (s *ProgramService) GetProgramViewByProgramID(programID uint) (*ProgramView, error) {
	var view *ProgramView
	err := s.withRetry("get_view_admin", func() error {
		p, err := s.Store.LoadByID(programID)
		if err != nil {
			return err
		}
		changed, err := s.applyLazyTransitions(p)
		if err != nil {
			return err
		}
		if changed {
			if err := s.Store.Save(p); err != nil {
				return err
			}
		}
		view = s.buildView(p)
		return nil
	})
	return view, err
}

// RecordContentProgress updates partial consumption of one unlocked item.
func (s *ProgramService) RecordContentProgress(userID uint, day int, contentID string, progress int) error {
	return s.withRetry("record_progress", func() error {
		p, err := s.Store.LoadByUserID(userID)
		if err != nil {
			return err
		}
		if _, err := s.applyLazyTransitions(p); err != nil {
			return err
		}
		module, err := s.accessibleModule(p, day)
		if err != nil {
			return err
		}
		if err := program.RecordProgress(module, contentID, progress); err != nil {
			return err
		}
		return s.Store.Save(p)
	})
}

// CompleteContent marks an item done. When the item closes the whole day the
// next day's wait window starts: its unlock time is computed once, from the
// wait-hour policy in force right now, and persisted.
func (s *ProgramService) CompleteContent(userID uint, day int, contentID string, metadata json.RawMessage) error {
	return s.withRetry("complete_content", func() error {
		p, err := s.Store.LoadByUserID(userID)
		if err != nil {
			return err
		}
		if _, err := s.applyLazyTransitions(p); err != nil {
			return err
		}
		module, err := s.accessibleModule(p, day)
		if err != nil {
			return err
		}

		dayCompleted, err := program.CompleteContent(module, contentID, metadata, s.Clock)
		if err != nil {
			return err
		}

		if dayCompleted {
			if err := s.onDayCompleted(p, module); err != nil {
				return err
			}
		}
		return s.Store.Save(p)
	})
}

func (s *ProgramService) onDayCompleted(p *model.ParticipantProgram, module *model.DayModule) error {
	p.AddCompletedDay(module.Day)
	monitoring.ProgramTransitions.WithLabelValues("day_complete").Inc()

	nextDay := module.Day + 1
	if nextDay >= s.programDays {
		p.IsProgramCompleted = true
		logger.Log.Info("program completed", zap.Uint("programId", p.ID))
		return nil
	}
	if p.CurrentDay == module.Day {
		p.CurrentDay = nextDay
	}

	hours, err := s.resolveWaitHours(p)
	if err != nil {
		return err
	}
	unlockAt := program.ComputeNextAvailableAt(*module.CompletedAt, hours.HoursForTransition(module.Day))
	return s.materializeDay(p, nextDay, &unlockAt)
}

func (s *ProgramService) resolveWaitHours(p *model.ParticipantProgram) (program.WaitHours, error) {
	global, err := s.WaitTimes.Global()
	if err != nil {
		return program.WaitHours{}, err
	}
	override, err := s.WaitTimes.OverrideFor(p.ID)
	if err != nil {
		return program.WaitHours{}, err
	}
	return program.ResolveWaitHours(*global, override), nil
}

// accessibleModule enforces the day gate for participant-initiated writes.
func (s *ProgramService) accessibleModule(p *model.ParticipantProgram, day int) (*model.DayModule, error) {
	if day < 0 || day >= s.programDays {
		return nil, program.NotFound("day", strconv.Itoa(day))
	}
	if !program.IsDayUnlocked(p, day, s.Clock) {
		return nil, program.Validationf("day %d is locked", day)
	}
	module := p.DayModuleFor(day)
	if module == nil {
		return nil, program.NotFound("day module", strconv.Itoa(day))
	}
	return module, nil
}

// SubmissionResult reports how a questionnaire submission was recorded.
type SubmissionResult struct {
	AttemptNumber int                   `json:"attemptNumber"`
	IsNewAttempt  bool                  `json:"isNewAttempt"`
	Outcomes      []program.AxisOutcome `json:"outcomes"`
}

// SubmitAssessment validates, scores and records one submission of the
// battery. Whether it lands as a new attempt or an edit of an existing one is
// decided solely by the ledger length and the retake state.
func (s *ProgramService) SubmitAssessment(userID uint, answers []program.SubmittedAnswer) (*SubmissionResult, error) {
	var result *SubmissionResult
	err := s.withRetry("submit_assessment", func() error {
		p, err := s.Store.LoadByUserID(userID)
		if err != nil {
			return err
		}
		// A scheduled retake whose time arrived re-enables the questionnaire
		// on this very read.
		if _, err := s.applyLazyTransitions(p); err != nil {
			return err
		}
		if p.QuestionnaireDisabled {
			return program.Validationf("questionnaire is disabled for this participant")
		}

		def, err := s.Definitions.ActiveDefinition()
		if err != nil {
			return err
		}
		outcomes, err := program.ScoreSubmission(answers, def)
		if err != nil {
			return err
		}

		resolution, err := program.ResolveAttempt(len(p.Attempts), p.RetakeState)
		if err != nil {
			return err
		}

		answersJSON, _ := json.Marshal(answers)
		axisScores := make(map[model.AssessmentAxis]model.AxisResult, len(outcomes))
		for _, o := range outcomes {
			axisScores[o.Axis] = model.AxisResult{Score: o.Score, Category: o.Category}
		}
		scoresJSON, _ := json.Marshal(axisScores)
		now := s.Clock.Now()

		if resolution.IsNew {
			p.Attempts = append(p.Attempts, model.AssessmentAttempt{
				UUIDBase:      model.UUIDBase{ID: model.GenerateUUID()},
				ProgramID:     p.ID,
				AttemptNumber: resolution.AttemptNumber,
				DefinitionID:  def.ID,
				Answers:       answersJSON,
				AxisScores:    scoresJSON,
				SubmittedAt:   now,
			})
			if resolution.AttemptNumber == 2 {
				program.CompleteRetake(p, s.Clock)
				monitoring.ProgramTransitions.WithLabelValues("retake_complete").Inc()
			}
		} else {
			for i := range p.Attempts {
				if p.Attempts[i].AttemptNumber == resolution.AttemptNumber {
					p.Attempts[i].DefinitionID = def.ID
					p.Attempts[i].Answers = answersJSON
					p.Attempts[i].AxisScores = scoresJSON
					p.Attempts[i].SubmittedAt = now
					break
				}
			}
		}

		for _, o := range outcomes {
			applyCategory(p, o)
		}

		// Newly known categories may let earlier pending modules materialize.
		if _, err := s.fillPendingModules(p); err != nil {
			return err
		}

		if err := s.Store.Save(p); err != nil {
			return err
		}
		result = &SubmissionResult{
			AttemptNumber: resolution.AttemptNumber,
			IsNewAttempt:  resolution.IsNew,
			Outcomes:      outcomes,
		}
		return nil
	})
	return result, err
}

func applyCategory(p *model.ParticipantProgram, o program.AxisOutcome) {
	switch o.Axis {
	case model.AxisBurden:
		p.BurdenLevel = model.BurdenLevel(o.Category)
	case model.AxisStress:
		p.StressLevel = model.StressLevel(o.Category)
	case model.AxisQualityOfLife:
		p.QualityOfLifeLevel = model.QualityOfLifeLevel(o.Category)
	}
}

// ScheduleRetake is the administrator action arming the second attempt.
func (s *ProgramService) ScheduleRetake(userID uint, whenUTC time.Time) error {
	return s.withRetry("schedule_retake", func() error {
		p, err := s.Store.LoadByUserID(userID)
		if err != nil {
			return err
		}
		if err := program.ScheduleRetake(p, whenUTC.UTC(), s.Clock); err != nil {
			return err
		}
		monitoring.ProgramTransitions.WithLabelValues("retake_schedule").Inc()
		return s.Store.Save(p)
	})
}

// CancelRetake disarms a scheduled retake. The questionnaire stays disabled
// until an admin re-enables it explicitly. A retake whose scheduled moment
// already passed has effectively opened, so the cancel observes that
// transition first and is rejected.
func (s *ProgramService) CancelRetake(userID uint) error {
	return s.withRetry("cancel_retake", func() error {
		p, err := s.Store.LoadByUserID(userID)
		if err != nil {
			return err
		}
		if _, err := s.applyLazyTransitions(p); err != nil {
			return err
		}
		if err := program.CancelRetake(p); err != nil {
			return err
		}
		monitoring.ProgramTransitions.WithLabelValues("retake_cancel").Inc()
		return s.Store.Save(p)
	})
}

// EnableQuestionnaire is the explicit admin re-enable after a cancel.
func (s *ProgramService) EnableQuestionnaire(userID uint) error {
	return s.withRetry("enable_questionnaire", func() error {
		p, err := s.Store.LoadByUserID(userID)
		if err != nil {
			return err
		}
		p.QuestionnaireDisabled = false
		return s.Store.Save(p)
	})
}

// AdminSetDayLock forces a day locked or unlocked regardless of the time
// gate, or clears the override.
func (s *ProgramService) AdminSetDayLock(userID uint, day int, lock model.AdminLockState) error {
	return s.withRetry("admin_day_lock", func() error {
		p, err := s.Store.LoadByUserID(userID)
		if err != nil {
			return err
		}
		if day < 0 || day >= s.programDays {
			return program.NotFound("day", strconv.Itoa(day))
		}
		module := p.DayModuleFor(day)
		if module == nil {
			// force-locking ahead of materialization still needs a row to
			// carry the flag
			if err := s.materializeDay(p, day, nil); err != nil {
				return err
			}
			module = p.DayModuleFor(day)
		}
		module.AdminLock = lock
		monitoring.ProgramTransitions.WithLabelValues("admin_lock_change").Inc()
		return s.Store.Save(p)
	})
}

// AdminResetDay clears one day's completion state and re-materializes its
// content against the participant's current category. With includeAssessment
// it also wipes the attempt ledger, categories and retake state.
func (s *ProgramService) AdminResetDay(userID uint, day int, includeAssessment bool) error {
	return s.withRetry("admin_reset_day", func() error {
		p, err := s.Store.LoadByUserID(userID)
		if err != nil {
			return err
		}
		module := p.DayModuleFor(day)
		if module == nil {
			return program.NotFound("day module", strconv.Itoa(day))
		}

		if module.ID != 0 {
			if err := s.Store.DeleteDayContents(module.ID); err != nil {
				return err
			}
		}

		p.RemoveCompletedDay(day)
		if p.CurrentDay > day {
			p.CurrentDay = day
		}
		p.IsProgramCompleted = false

		if includeAssessment {
			if err := s.Store.DeleteAttempts(p.ID); err != nil {
				return err
			}
			p.Attempts = nil
			p.BurdenLevel = ""
			p.StressLevel = ""
			p.QualityOfLifeLevel = ""
			p.RetakeState = model.RetakeNone
			p.RetakeScheduledFor = nil
			p.RetakeCompletedAt = nil
			p.QuestionnaireDisabled = false
		}

		category := categoryForDay(p, day)
		if category == "" {
			module.Category = ""
			module.Contents = nil
			program.ResetDayModule(module)
			return s.Store.Save(p)
		}
		items, err := s.Catalog.OrderedContentFor(module.Day, p.Role, category)
		if err != nil {
			return err
		}
		fresh, err := program.Materialize(p.ID, module.Day, category, items)
		if err != nil {
			return err
		}
		module.Category = category
		module.Contents = fresh.Contents
		for ci := range module.Contents {
			module.Contents[ci].DayModuleID = module.ID
		}
		program.ResetDayModule(module)
		monitoring.ProgramTransitions.WithLabelValues("admin_reset_day").Inc()
		return s.Store.Save(p)
	})
}

// CreatePair pairs a caregiver with a patient and brings both programs into
// existence, each with its day-0 intake module materialized.
func (s *ProgramService) CreatePair(caregiverID, patientID uint) (*model.CarePair, error) {
	caregiver, err := s.Users.Get(caregiverID)
	if err != nil {
		return nil, err
	}
	patient, err := s.Users.Get(patientID)
	if err != nil {
		return nil, err
	}
	if caregiver.Role != model.Caregiver || patient.Role != model.Patient {
		return nil, util.ErrRolesMismatch
	}
	for _, id := range []uint{caregiverID, patientID} {
		if _, err := s.Store.LoadByUserID(id); err == nil {
			return nil, util.ErrAlreadyPaired
		} else if !program.IsNotFound(err) {
			return nil, err
		}
	}

	pair := &model.CarePair{CaregiverID: caregiverID, PatientID: patientID}
	var programs []*model.ParticipantProgram
	for _, u := range []*model.User{caregiver, patient} {
		p := &model.ParticipantProgram{
			UserID:      u.ID,
			Role:        u.Role,
			CurrentDay:  0,
			RetakeState: model.RetakeNone,
		}
		items, err := s.Catalog.OrderedContentFor(0, u.Role, GeneralCategory)
		if err != nil {
			return nil, err
		}
		module, err := program.Materialize(0, 0, GeneralCategory, items)
		if err != nil {
			return nil, err
		}
		now := s.Clock.Now()
		module.UnlockedAt = &now // day 0 opens at creation
		p.DayModules = []model.DayModule{*module}
		programs = append(programs, p)
	}

	if err := s.Store.CreatePairWithPrograms(pair, programs); err != nil {
		return nil, err
	}
	logger.Log.Info("care pair created",
		zap.Uint("caregiverId", caregiverID),
		zap.Uint("patientId", patientID))
	return pair, nil
}

func (s *ProgramService) ListPrograms(page, limit int) ([]model.ParticipantProgram, int64, error) {
	return s.Store.List(page, limit)
}
