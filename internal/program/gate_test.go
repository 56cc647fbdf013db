package program

import (
	"testing"
	"time"

	"care_program_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayZeroProgram() *model.ParticipantProgram {
	return &model.ParticipantProgram{
		Role: model.Caregiver,
		DayModules: []model.DayModule{
			{Day: 0, Category: "general"},
		},
	}
}

func TestDayZeroAlwaysUnlocked(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	p := dayZeroProgram()

	assert.True(t, IsDayUnlocked(p, 0, clock))
}

func TestDayLockedUntilPreviousCompleted(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	unlockAt := clock.T.Add(-time.Hour)
	p := dayZeroProgram()
	p.DayModules = append(p.DayModules, model.DayModule{Day: 1, ScheduledUnlockAt: &unlockAt})

	// wait window elapsed but day 0 not completed
	assert.False(t, IsDayUnlocked(p, 1, clock))

	p.AddCompletedDay(0)
	assert.True(t, IsDayUnlocked(p, 1, clock))
}

func TestWaitWindowBoundaryIsInclusive(t *testing.T) {
	unlockAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	p := dayZeroProgram()
	p.AddCompletedDay(0)
	p.DayModules = append(p.DayModules, model.DayModule{Day: 1, ScheduledUnlockAt: &unlockAt})

	before := &FixedClock{T: unlockAt.Add(-time.Second)}
	assert.False(t, IsDayUnlocked(p, 1, before), "one second early must stay locked")

	exact := &FixedClock{T: unlockAt}
	assert.True(t, IsDayUnlocked(p, 1, exact), "the exact scheduled instant is open")
}

func TestUnscheduledDayStaysLocked(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	p := dayZeroProgram()
	p.AddCompletedDay(0)
	p.DayModules = append(p.DayModules, model.DayModule{Day: 1})

	assert.False(t, IsDayUnlocked(p, 1, clock))
	assert.Nil(t, NextAvailableAt(p, 1))
}

func TestAdminLockWinsBothDirections(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	unlockAt := clock.T.Add(-time.Hour)
	p := dayZeroProgram()
	p.AddCompletedDay(0)
	p.DayModules = append(p.DayModules, model.DayModule{Day: 1, ScheduledUnlockAt: &unlockAt})

	// time gate says open, admin lock closes it
	p.DayModules[1].AdminLock = model.AdminLockLocked
	assert.False(t, IsDayUnlocked(p, 1, clock))
	assert.Nil(t, NextAvailableAt(p, 1))

	// time gate says closed, admin unlock opens it
	p.DayModules[1].AdminLock = model.AdminLockUnlocked
	future := clock.T.Add(48 * time.Hour)
	p.DayModules[1].ScheduledUnlockAt = &future
	assert.True(t, IsDayUnlocked(p, 1, clock))

	// even day 0 can be force-locked
	p.DayModules[0].AdminLock = model.AdminLockLocked
	assert.False(t, IsDayUnlocked(p, 0, clock))
}

func TestNextAvailableAtReportsSchedule(t *testing.T) {
	unlockAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	p := dayZeroProgram()
	p.AddCompletedDay(0)
	p.DayModules = append(p.DayModules, model.DayModule{Day: 1, ScheduledUnlockAt: &unlockAt})

	got := NextAvailableAt(p, 1)
	require.NotNil(t, got)
	assert.True(t, got.Equal(unlockAt))
}

func TestStampUnlockedIsIdempotent(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	module := &model.DayModule{Day: 0}

	assert.True(t, StampUnlocked(module, clock))
	first := *module.UnlockedAt

	clock.Advance(time.Hour)
	assert.False(t, StampUnlocked(module, clock))
	assert.True(t, module.UnlockedAt.Equal(first), "first observed unlock moment must not move")
}
