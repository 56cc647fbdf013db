package program

import (
	"testing"
	"time"

	"care_program_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestResolveWaitHoursFallsBackPerField(t *testing.T) {
	global := model.WaitTimeConfig{Day0ToDay1Hours: 24, BetweenDaysHours: 24}

	assert.Equal(t, WaitHours{Day0ToDay1: 24, BetweenDays: 24}, ResolveWaitHours(global, nil))

	// only one field overridden, the other keeps the global value
	partial := &model.WaitTimeOverride{BetweenDaysHours: intPtr(12)}
	assert.Equal(t, WaitHours{Day0ToDay1: 24, BetweenDays: 12}, ResolveWaitHours(global, partial))

	full := &model.WaitTimeOverride{Day0ToDay1Hours: intPtr(6), BetweenDaysHours: intPtr(0)}
	assert.Equal(t, WaitHours{Day0ToDay1: 6, BetweenDays: 0}, ResolveWaitHours(global, full))
}

func TestZeroOverrideMeansImmediateUnlock(t *testing.T) {
	global := model.WaitTimeConfig{Day0ToDay1Hours: 24, BetweenDaysHours: 24}
	override := &model.WaitTimeOverride{Day0ToDay1Hours: intPtr(0)}
	hours := ResolveWaitHours(global, override)

	completedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	unlockAt := ComputeNextAvailableAt(completedAt, hours.HoursForTransition(0))
	assert.True(t, unlockAt.Equal(completedAt), "zero hours unlock at the completion instant")
}

func TestHoursForTransitionPicksByFromDay(t *testing.T) {
	hours := WaitHours{Day0ToDay1: 48, BetweenDays: 24}

	assert.Equal(t, 48, hours.HoursForTransition(0))
	assert.Equal(t, 24, hours.HoursForTransition(1))
	assert.Equal(t, 24, hours.HoursForTransition(5))
}

func TestComputeNextAvailableAt(t *testing.T) {
	completedAt := time.Date(2026, 3, 1, 21, 30, 0, 0, time.UTC)
	unlockAt := ComputeNextAvailableAt(completedAt, 24)
	assert.Equal(t, time.Date(2026, 3, 2, 21, 30, 0, 0, time.UTC), unlockAt)
}
