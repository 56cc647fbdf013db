package program

import (
	"time"

	"care_program_backend/internal/model"
)

// WaitHours is the resolved wait window between consecutive days.
type WaitHours struct {
	Day0ToDay1  int
	BetweenDays int
}

// ResolveWaitHours layers a per-participant override over the global
// defaults. Override fields fall back individually when nil.
func ResolveWaitHours(global model.WaitTimeConfig, override *model.WaitTimeOverride) WaitHours {
	resolved := WaitHours{
		Day0ToDay1:  global.Day0ToDay1Hours,
		BetweenDays: global.BetweenDaysHours,
	}
	if override == nil {
		return resolved
	}
	if override.Day0ToDay1Hours != nil {
		resolved.Day0ToDay1 = *override.Day0ToDay1Hours
	}
	if override.BetweenDaysHours != nil {
		resolved.BetweenDays = *override.BetweenDaysHours
	}
	return resolved
}

// HoursForTransition picks the wait hours for the fromDay -> fromDay+1
// transition.
func (w WaitHours) HoursForTransition(fromDay int) int {
	if fromDay == 0 {
		return w.Day0ToDay1
	}
	return w.BetweenDays
}

// ComputeNextAvailableAt is evaluated once, when the previous day completes,
// and the result is persisted. Later config changes do not move it.
func ComputeNextAvailableAt(previousDayCompletedAt time.Time, waitHours int) time.Time {
	return previousDayCompletedAt.Add(time.Duration(waitHours) * time.Hour)
}
