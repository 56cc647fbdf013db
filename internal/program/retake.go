package program

import (
	"time"

	"care_program_backend/internal/model"
)

// AttemptResolution says what an incoming questionnaire submission is: a new
// attempt or an in-place edit of an existing one.
type AttemptResolution struct {
	AttemptNumber int
	IsNew         bool
}

// ResolveAttempt is the four-case decision table turning ledger length and
// retake state into an attempt number. A third new attempt never exists.
//
//	0 attempts                -> new attempt 1
//	1 attempt, retake open    -> new attempt 2
//	1 attempt, otherwise      -> edit attempt 1
//	2 attempts, completed     -> edit attempt 2
//	2 attempts, otherwise     -> edit attempt 1
func ResolveAttempt(attemptCount int, state model.RetakeState) (AttemptResolution, error) {
	switch {
	case attemptCount == 0:
		return AttemptResolution{AttemptNumber: 1, IsNew: true}, nil
	case attemptCount == 1 && state == model.RetakeOpen:
		return AttemptResolution{AttemptNumber: 2, IsNew: true}, nil
	case attemptCount == 1:
		return AttemptResolution{AttemptNumber: 1, IsNew: false}, nil
	case attemptCount == 2 && state == model.RetakeCompleted:
		return AttemptResolution{AttemptNumber: 2, IsNew: false}, nil
	case attemptCount == 2:
		return AttemptResolution{AttemptNumber: 1, IsNew: false}, nil
	default:
		return AttemptResolution{}, Validationf("attempt ledger holds %d records, maximum is 2", attemptCount)
	}
}

// ScheduleRetake moves none -> scheduled. Requires exactly one recorded
// attempt and a strictly future time. The questionnaire stays disabled until
// the scheduled time opens it.
func ScheduleRetake(p *model.ParticipantProgram, whenUTC time.Time, clock Clock) error {
	if p.RetakeState != model.RetakeNone {
		return Validationf("retake cannot be scheduled from state %q", p.RetakeState)
	}
	if len(p.Attempts) != 1 {
		return Validationf("retake requires exactly one recorded attempt, found %d", len(p.Attempts))
	}
	if !whenUTC.After(clock.Now()) {
		return Validationf("retake time %s is not in the future", whenUTC.Format(time.RFC3339))
	}
	p.RetakeState = model.RetakeScheduled
	p.RetakeScheduledFor = &whenUTC
	p.QuestionnaireDisabled = true
	return nil
}

// CancelRetake moves scheduled -> none. The questionnaire stays disabled;
// re-enabling is a separate explicit admin action.
func CancelRetake(p *model.ParticipantProgram) error {
	if p.RetakeState != model.RetakeScheduled {
		return Validationf("retake cannot be cancelled from state %q", p.RetakeState)
	}
	p.RetakeState = model.RetakeNone
	p.RetakeScheduledFor = nil
	return nil
}

// AutoOpenRetake performs the lazy, read-time transition scheduled -> open
// once the clock crosses the scheduled instant, re-enabling the
// questionnaire. Returns true when state changed.
func AutoOpenRetake(p *model.ParticipantProgram, clock Clock) bool {
	if p.RetakeState != model.RetakeScheduled || p.RetakeScheduledFor == nil {
		return false
	}
	if clock.Now().Before(*p.RetakeScheduledFor) {
		return false
	}
	p.RetakeState = model.RetakeOpen
	p.QuestionnaireDisabled = false
	return true
}

// CompleteRetake records acceptance of a new attempt 2: open -> completed,
// which is absorbing.
func CompleteRetake(p *model.ParticipantProgram, clock Clock) {
	now := clock.Now()
	p.RetakeState = model.RetakeCompleted
	p.RetakeCompletedAt = &now
	p.RetakeScheduledFor = nil
}
