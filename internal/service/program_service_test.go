package service

import (
	"testing"
	"time"

	"care_program_backend/internal/model"
	"care_program_backend/internal/program"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore keeps one program in memory and mimics the repository's
// optimistic version fence. failSaves injects conflicts.
type memoryStore struct {
	program   *model.ParticipantProgram
	failSaves int
	saves     int
}

func (m *memoryStore) LoadByUserID(userID uint) (*model.ParticipantProgram, error) {
	if m.program == nil || m.program.UserID != userID {
		return nil, program.NotFound("program for participant", "x")
	}
	return m.program, nil
}

func (m *memoryStore) LoadByID(id uint) (*model.ParticipantProgram, error) {
	if m.program == nil {
		return nil, program.NotFound("program", "x")
	}
	return m.program, nil
}

func (m *memoryStore) Save(p *model.ParticipantProgram) error {
	if m.failSaves > 0 {
		m.failSaves--
		return program.ErrConflict
	}
	m.saves++
	p.Version++
	m.program = p
	return nil
}

func (m *memoryStore) CreatePairWithPrograms(pair *model.CarePair, programs []*model.ParticipantProgram) error {
	if len(programs) > 0 {
		m.program = programs[0]
	}
	return nil
}

func (m *memoryStore) List(page, limit int) ([]model.ParticipantProgram, int64, error) {
	if m.program == nil {
		return nil, 0, nil
	}
	return []model.ParticipantProgram{*m.program}, 1, nil
}

func (m *memoryStore) DeleteDayContents(dayModuleID uint) error { return nil }
func (m *memoryStore) DeleteAttempts(programID uint) error      { return nil }

// memoryCatalog serves two items per day for every category.
type memoryCatalog struct{}

func (memoryCatalog) OrderedContentFor(day int, role model.UserRole, category string) ([]model.ContentItem, error) {
	prefix := string(rune('a' + day))
	return []model.ContentItem{
		{UUIDBase: model.UUIDBase{ID: prefix + "-1"}, Day: day, Order: 0},
		{UUIDBase: model.UUIDBase{ID: prefix + "-2"}, Day: day, Order: 1},
	}, nil
}

type memoryDefinitions struct {
	def *model.AssessmentDefinition
}

func (m memoryDefinitions) ActiveDefinition() (*model.AssessmentDefinition, error) {
	return m.def, nil
}

type memoryWaitTimes struct {
	global   model.WaitTimeConfig
	override *model.WaitTimeOverride
}

func (m memoryWaitTimes) Global() (*model.WaitTimeConfig, error) {
	g := m.global
	return &g, nil
}

func (m memoryWaitTimes) OverrideFor(programID uint) (*model.WaitTimeOverride, error) {
	return m.override, nil
}

// testBattery scores a single burden question (options 0..2) and a single
// stress question (options 0..2).
func testBattery() *model.AssessmentDefinition {
	question := func(id string) model.AssessmentQuestion {
		q := model.AssessmentQuestion{
			UUIDBase: model.UUIDBase{ID: id},
			Content:  "q",
			Required: true,
		}
		for score := 0; score <= 2; score++ {
			q.Options = append(q.Options, model.AssessmentOption{
				UUIDBase:   model.UUIDBase{ID: id + "-" + string(rune('0'+score))},
				QuestionID: id,
				Score:      score,
				Order:      score,
			})
		}
		return q
	}
	return &model.AssessmentDefinition{
		BaseModel: model.BaseModel{ID: 7},
		Name:      "test battery",
		Version:   1,
		IsActive:  true,
		Sections: []model.AssessmentSection{
			{Axis: model.AxisBurden, Questions: []model.AssessmentQuestion{question("b1")}},
			{Axis: model.AxisStress, Questions: []model.AssessmentQuestion{question("s1")}},
		},
		Ranges: []model.ScoreRange{
			{Axis: model.AxisBurden, MinScore: 0, MaxScore: 1, Category: string(model.BurdenMild)},
			{Axis: model.AxisBurden, MinScore: 2, MaxScore: 2, Category: string(model.BurdenSevere)},
			{Axis: model.AxisStress, MinScore: 0, MaxScore: 1, Category: string(model.StressLow)},
			{Axis: model.AxisStress, MinScore: 2, MaxScore: 2, Category: string(model.StressHigh)},
		},
	}
}

func fullBatteryAnswers(burdenOpt, stressOpt string) []program.SubmittedAnswer {
	return []program.SubmittedAnswer{
		{QuestionID: "b1", OptionID: "b1-" + burdenOpt},
		{QuestionID: "s1", OptionID: "s1-" + stressOpt},
	}
}

func newTestService(store *memoryStore, clock program.Clock) *ProgramService {
	return NewProgramService(
		store,
		memoryCatalog{},
		memoryDefinitions{def: testBattery()},
		memoryWaitTimes{global: model.WaitTimeConfig{Day0ToDay1Hours: 24, BetweenDaysHours: 24}},
		nil,
		clock,
		3, // short program keeps the tests readable
		3,
	)
}

func seedProgram(t *testing.T, store *memoryStore, role model.UserRole) *model.ParticipantProgram {
	t.Helper()
	items, err := memoryCatalog{}.OrderedContentFor(0, role, GeneralCategory)
	require.NoError(t, err)
	module, err := program.Materialize(1, 0, GeneralCategory, items)
	require.NoError(t, err)
	p := &model.ParticipantProgram{
		BaseModel:   model.BaseModel{ID: 1},
		UserID:      42,
		Role:        role,
		RetakeState: model.RetakeNone,
		DayModules:  []model.DayModule{*module},
		Version:     1,
	}
	store.program = p
	return p
}

func completeDay(t *testing.T, svc *ProgramService, day int) {
	t.Helper()
	prefix := string(rune('a' + day))
	require.NoError(t, svc.CompleteContent(42, day, prefix+"-1", nil))
	require.NoError(t, svc.CompleteContent(42, day, prefix+"-2", nil))
}

func TestFirstSubmissionRecordsAttemptOne(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	result, err := svc.SubmitAssessment(42, fullBatteryAnswers("2", "0"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.AttemptNumber)
	assert.True(t, result.IsNewAttempt)

	p := store.program
	require.Len(t, p.Attempts, 1)
	assert.Equal(t, model.RetakeNone, p.RetakeState, "a first attempt must not touch retake state")
	assert.Equal(t, model.BurdenSevere, p.BurdenLevel)
	assert.Equal(t, model.StressLow, p.StressLevel)
}

func TestResubmissionEditsAttemptOneInPlace(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("2", "0"))
	require.NoError(t, err)

	clock.Advance(time.Hour)
	result, err := svc.SubmitAssessment(42, fullBatteryAnswers("0", "0"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.AttemptNumber)
	assert.False(t, result.IsNewAttempt)

	p := store.program
	require.Len(t, p.Attempts, 1, "editing must not grow the ledger")
	assert.Equal(t, model.BurdenMild, p.BurdenLevel, "categories follow the edited answers")
}

func TestDayCompletionSchedulesNextDay(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	// category known before content flows
	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("2", "0"))
	require.NoError(t, err)

	completeDay(t, svc, 0)

	p := store.program
	assert.True(t, p.HasCompletedDay(0))
	assert.Equal(t, 1, p.CurrentDay)

	next := p.DayModuleFor(1)
	require.NotNil(t, next, "completing day 0 materializes day 1")
	require.NotNil(t, next.ScheduledUnlockAt)
	assert.Equal(t, clock.T.Add(24*time.Hour), *next.ScheduledUnlockAt)
	assert.Equal(t, string(model.BurdenSevere), next.Category)

	// still inside the wait window
	view, err := svc.GetProgramView(42)
	require.NoError(t, err)
	assert.False(t, view.Days[1].IsUnlocked)
	require.NotNil(t, view.Days[1].NextAvailableAt)

	// first read after the window opens the day
	clock.Advance(24 * time.Hour)
	view, err = svc.GetProgramView(42)
	require.NoError(t, err)
	assert.True(t, view.Days[1].IsUnlocked)
	require.NotNil(t, store.program.DayModuleFor(1).UnlockedAt)
}

func TestScheduledUnlockIsNotRecomputed(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("2", "0"))
	require.NoError(t, err)
	completeDay(t, svc, 0)

	scheduled := *store.program.DayModuleFor(1).ScheduledUnlockAt

	// a later policy change must not move the already-persisted window
	svc.WaitTimes = memoryWaitTimes{global: model.WaitTimeConfig{Day0ToDay1Hours: 1, BetweenDaysHours: 1}}
	_, err = svc.GetProgramView(42)
	require.NoError(t, err)
	assert.Equal(t, scheduled, *store.program.DayModuleFor(1).ScheduledUnlockAt)
}

func TestLastDayCompletionFinishesProgram(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("2", "0"))
	require.NoError(t, err)

	for day := 0; day < 3; day++ {
		completeDay(t, svc, day)
		clock.Advance(24 * time.Hour)
		_, err := svc.GetProgramView(42)
		require.NoError(t, err)
	}

	assert.True(t, store.program.IsProgramCompleted)
}

func TestSubmissionWhileDisabledIsRejected(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	p := seedProgram(t, store, model.Caregiver)
	p.QuestionnaireDisabled = true

	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("0", "0"))
	assert.True(t, program.IsValidation(err))
}

func TestRetakeOpensLazilyAndAcceptsAttemptTwo(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("2", "0"))
	require.NoError(t, err)

	when := clock.T.Add(48 * time.Hour)
	require.NoError(t, svc.ScheduleRetake(42, when))
	assert.Equal(t, model.RetakeScheduled, store.program.RetakeState)
	assert.True(t, store.program.QuestionnaireDisabled)

	// before the moment: still disabled
	_, err = svc.SubmitAssessment(42, fullBatteryAnswers("0", "0"))
	assert.True(t, program.IsValidation(err))

	// the moment passes; the submission itself observes the opening
	clock.Advance(48 * time.Hour)
	result, err := svc.SubmitAssessment(42, fullBatteryAnswers("0", "2"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.AttemptNumber)
	assert.True(t, result.IsNewAttempt)

	p := store.program
	require.Len(t, p.Attempts, 2)
	assert.Equal(t, model.RetakeCompleted, p.RetakeState)
	assert.Nil(t, p.RetakeScheduledFor)
	assert.Equal(t, model.BurdenMild, p.BurdenLevel)
	assert.Equal(t, model.StressHigh, p.StressLevel)

	// after a completed retake a further submission edits attempt 2, never
	// creates attempt 3
	result, err = svc.SubmitAssessment(42, fullBatteryAnswers("2", "2"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.AttemptNumber)
	assert.False(t, result.IsNewAttempt)
	require.Len(t, store.program.Attempts, 2)
}

func TestCancelRetakeLeavesQuestionnaireDisabled(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("1", "1"))
	require.NoError(t, err)
	require.NoError(t, svc.ScheduleRetake(42, clock.T.Add(time.Hour)))
	require.NoError(t, svc.CancelRetake(42))

	assert.Equal(t, model.RetakeNone, store.program.RetakeState)
	assert.True(t, store.program.QuestionnaireDisabled)

	require.NoError(t, svc.EnableQuestionnaire(42))
	assert.False(t, store.program.QuestionnaireDisabled)
}

func TestCancelRetakeAfterDueMomentIsRejected(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("1", "1"))
	require.NoError(t, err)
	require.NoError(t, svc.ScheduleRetake(42, clock.T.Add(time.Hour)))

	// the scheduled moment passed, so the cancel observes the retake as
	// already open and is rejected
	clock.Advance(2 * time.Hour)
	err = svc.CancelRetake(42)
	assert.True(t, program.IsValidation(err))
	assert.Equal(t, model.RetakeOpen, store.program.RetakeState)
	assert.False(t, store.program.QuestionnaireDisabled)
}

func TestConflictRetryIsBounded(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	// two conflicts, third try lands
	store.failSaves = 2
	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("1", "1"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)

	// more conflicts than the bound: the conflict surfaces
	store.failSaves = 5
	err = svc.RecordContentProgress(42, 0, "a-1", 50)
	assert.ErrorIs(t, err, program.ErrConflict)
}

func TestAdminForceUnlockOverridesWaitWindow(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("2", "0"))
	require.NoError(t, err)
	completeDay(t, svc, 0)

	// inside the wait window, but force-unlocked
	require.NoError(t, svc.AdminSetDayLock(42, 1, model.AdminLockUnlocked))
	view, err := svc.GetProgramView(42)
	require.NoError(t, err)
	assert.True(t, view.Days[1].IsUnlocked)

	// force-lock wins over elapsed time too
	clock.Advance(48 * time.Hour)
	require.NoError(t, svc.AdminSetDayLock(42, 1, model.AdminLockLocked))
	view, err = svc.GetProgramView(42)
	require.NoError(t, err)
	assert.False(t, view.Days[1].IsUnlocked)

	// clearing the override hands control back to the time gate
	require.NoError(t, svc.AdminSetDayLock(42, 1, ""))
	view, err = svc.GetProgramView(42)
	require.NoError(t, err)
	assert.True(t, view.Days[1].IsUnlocked)
}

func TestAdminResetDayRematerializesContent(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("2", "0"))
	require.NoError(t, err)
	completeDay(t, svc, 0)

	require.NoError(t, svc.AdminResetDay(42, 0, false))

	p := store.program
	assert.False(t, p.HasCompletedDay(0))
	assert.Equal(t, 0, p.CurrentDay)
	module := p.DayModuleFor(0)
	require.NotNil(t, module)
	assert.Equal(t, 0, module.ProgressPercentage)
	assert.True(t, module.Contents[0].IsUnlocked)
	assert.False(t, module.Contents[1].IsUnlocked)
	// attempts survive a content-only reset
	require.Len(t, p.Attempts, 1)
}

func TestAdminResetDayWithAssessmentWipesLedger(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("2", "0"))
	require.NoError(t, err)

	require.NoError(t, svc.AdminResetDay(42, 0, true))

	p := store.program
	assert.Empty(t, p.Attempts)
	assert.Empty(t, string(p.BurdenLevel))
	assert.Equal(t, model.RetakeNone, p.RetakeState)
	assert.False(t, p.QuestionnaireDisabled)
}

func TestLockedDayRejectsContentWrites(t *testing.T) {
	store := &memoryStore{}
	clock := &program.FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(store, clock)
	seedProgram(t, store, model.Caregiver)

	_, err := svc.SubmitAssessment(42, fullBatteryAnswers("2", "0"))
	require.NoError(t, err)
	completeDay(t, svc, 0)

	// day 1 is still inside its wait window
	err = svc.CompleteContent(42, 1, "b-1", nil)
	assert.True(t, program.IsValidation(err))
	err = svc.RecordContentProgress(42, 1, "b-1", 10)
	assert.True(t, program.IsValidation(err))
}
