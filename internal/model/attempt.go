package model

import (
	"encoding/json"
	"time"
)

// AssessmentAttempt is one full submission of the questionnaire battery.
// At most two exist per program, numbered contiguously from 1. Answers and
// per-axis scores are stored resolved, so later definition edits do not
// change graded history.
// swagger:model AssessmentAttempt
type AssessmentAttempt struct {
	UUIDBase
	ProgramID     uint            `gorm:"index;type:bigint unsigned" json:"programId"`
	AttemptNumber int             `gorm:"not null" json:"attemptNumber"`
	DefinitionID  uint            `gorm:"type:bigint unsigned" json:"definitionId"`
	Answers       json.RawMessage `gorm:"type:json" json:"answers"`
	AxisScores    json.RawMessage `gorm:"type:json" json:"axisScores"` // map[axis]{score,category}
	SubmittedAt   time.Time       `json:"submittedAt"`
}

func (AssessmentAttempt) TableName() string {
	return "assessment_attempts"
}

// AxisResult is the denormalized outcome of one axis within an attempt.
type AxisResult struct {
	Score    int    `json:"score"`
	Category string `json:"category"`
}

func (a *AssessmentAttempt) DecodeAxisScores() map[AssessmentAxis]AxisResult {
	out := make(map[AssessmentAxis]AxisResult)
	if len(a.AxisScores) > 0 {
		_ = json.Unmarshal(a.AxisScores, &out)
	}
	return out
}
