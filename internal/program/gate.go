package program

import (
	"time"

	"care_program_backend/internal/model"
)

// IsDayUnlocked is the combined gate deciding whether a day is currently
// accessible. Day 0 is open from program creation. Day N>0 requires day N-1
// completed, its module materialized and the persisted wait window elapsed.
// An explicit admin lock wins over everything in either direction.
func IsDayUnlocked(p *model.ParticipantProgram, day int, clock Clock) bool {
	module := p.DayModuleFor(day)

	if module != nil {
		switch module.AdminLock {
		case model.AdminLockLocked:
			return false
		case model.AdminLockUnlocked:
			return true
		}
	}

	if day == 0 {
		return true
	}

	if !p.HasCompletedDay(day - 1) {
		return false
	}
	if module == nil || module.ScheduledUnlockAt == nil {
		return false
	}
	return !clock.Now().Before(*module.ScheduledUnlockAt)
}

// NextAvailableAt reports when a currently locked day becomes accessible by
// time, or nil when no unlock is scheduled yet (prior day incomplete, module
// not materialized, or admin-locked with no end).
func NextAvailableAt(p *model.ParticipantProgram, day int) *time.Time {
	module := p.DayModuleFor(day)
	if module == nil || module.AdminLock == model.AdminLockLocked {
		return nil
	}
	if day > 0 && !p.HasCompletedDay(day-1) {
		return nil
	}
	return module.ScheduledUnlockAt
}

// StampUnlocked records the first observed moment a day actually became
// accessible. Lazy: called on reads once the gate reports open.
func StampUnlocked(module *model.DayModule, clock Clock) bool {
	if module.UnlockedAt != nil {
		return false
	}
	now := clock.Now()
	module.UnlockedAt = &now
	return true
}
