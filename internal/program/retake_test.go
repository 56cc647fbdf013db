package program

import (
	"testing"
	"time"

	"care_program_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAttemptDecisionTable(t *testing.T) {
	cases := []struct {
		name     string
		attempts int
		state    model.RetakeState
		want     AttemptResolution
	}{
		{"no attempts", 0, model.RetakeNone, AttemptResolution{AttemptNumber: 1, IsNew: true}},
		{"one attempt, retake open", 1, model.RetakeOpen, AttemptResolution{AttemptNumber: 2, IsNew: true}},
		{"one attempt, no retake", 1, model.RetakeNone, AttemptResolution{AttemptNumber: 1, IsNew: false}},
		{"one attempt, retake scheduled", 1, model.RetakeScheduled, AttemptResolution{AttemptNumber: 1, IsNew: false}},
		{"two attempts, retake completed", 2, model.RetakeCompleted, AttemptResolution{AttemptNumber: 2, IsNew: false}},
		{"two attempts, otherwise", 2, model.RetakeNone, AttemptResolution{AttemptNumber: 1, IsNew: false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveAttempt(tc.attempts, tc.state)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveAttemptNeverCreatesThirdAttempt(t *testing.T) {
	// every state with two recorded attempts resolves to an edit
	for _, state := range []model.RetakeState{model.RetakeNone, model.RetakeScheduled, model.RetakeOpen, model.RetakeCompleted} {
		got, err := ResolveAttempt(2, state)
		require.NoError(t, err)
		assert.False(t, got.IsNew, "state %q", state)
	}

	_, err := ResolveAttempt(3, model.RetakeNone)
	assert.True(t, IsValidation(err))
}

func programWithAttempts(n int) *model.ParticipantProgram {
	p := &model.ParticipantProgram{RetakeState: model.RetakeNone}
	for i := 1; i <= n; i++ {
		p.Attempts = append(p.Attempts, model.AssessmentAttempt{AttemptNumber: i})
	}
	return p
}

func TestScheduleRetake(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	p := programWithAttempts(1)
	when := clock.T.Add(48 * time.Hour)

	require.NoError(t, ScheduleRetake(p, when, clock))
	assert.Equal(t, model.RetakeScheduled, p.RetakeState)
	assert.True(t, p.QuestionnaireDisabled)
	require.NotNil(t, p.RetakeScheduledFor)
	assert.True(t, p.RetakeScheduledFor.Equal(when))
}

func TestScheduleRetakeValidation(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	// needs exactly one attempt
	assert.True(t, IsValidation(ScheduleRetake(programWithAttempts(0), clock.T.Add(time.Hour), clock)))
	assert.True(t, IsValidation(ScheduleRetake(programWithAttempts(2), clock.T.Add(time.Hour), clock)))

	// strictly future
	assert.True(t, IsValidation(ScheduleRetake(programWithAttempts(1), clock.T, clock)))
	assert.True(t, IsValidation(ScheduleRetake(programWithAttempts(1), clock.T.Add(-time.Minute), clock)))

	// only from none
	p := programWithAttempts(1)
	require.NoError(t, ScheduleRetake(p, clock.T.Add(time.Hour), clock))
	assert.True(t, IsValidation(ScheduleRetake(p, clock.T.Add(2*time.Hour), clock)))
}

func TestCancelRetakeKeepsQuestionnaireDisabled(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	p := programWithAttempts(1)
	require.NoError(t, ScheduleRetake(p, clock.T.Add(time.Hour), clock))

	require.NoError(t, CancelRetake(p))
	assert.Equal(t, model.RetakeNone, p.RetakeState)
	assert.Nil(t, p.RetakeScheduledFor)
	assert.True(t, p.QuestionnaireDisabled, "cancel must not silently re-enable the questionnaire")

	// cancel is only legal from scheduled
	assert.True(t, IsValidation(CancelRetake(p)))
}

func TestAutoOpenRetakeIsLazy(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	p := programWithAttempts(1)
	require.NoError(t, ScheduleRetake(p, clock.T.Add(time.Hour), clock))

	// before the scheduled moment nothing happens
	assert.False(t, AutoOpenRetake(p, clock))
	assert.Equal(t, model.RetakeScheduled, p.RetakeState)

	// at the scheduled moment the first read flips it
	clock.Advance(time.Hour)
	assert.True(t, AutoOpenRetake(p, clock))
	assert.Equal(t, model.RetakeOpen, p.RetakeState)
	assert.False(t, p.QuestionnaireDisabled)

	// idempotent on later reads
	assert.False(t, AutoOpenRetake(p, clock))
}

func TestCompleteRetakeIsAbsorbing(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	p := programWithAttempts(1)
	require.NoError(t, ScheduleRetake(p, clock.T.Add(time.Hour), clock))
	clock.Advance(2 * time.Hour)
	require.True(t, AutoOpenRetake(p, clock))

	CompleteRetake(p, clock)
	assert.Equal(t, model.RetakeCompleted, p.RetakeState)
	assert.Nil(t, p.RetakeScheduledFor)
	require.NotNil(t, p.RetakeCompletedAt)

	// no transition leaves completed
	assert.False(t, AutoOpenRetake(p, clock))
	assert.True(t, IsValidation(ScheduleRetake(p, clock.T.Add(time.Hour), clock)))
	assert.True(t, IsValidation(CancelRetake(p)))
}
