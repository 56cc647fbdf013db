package model

import (
	"encoding/json"
	"sort"
	"time"
)

// RetakeState is the questionnaire retake lifecycle attached to a program.
// Transitions: none -> scheduled -> open -> completed, scheduled -> none on
// cancel. Completed is absorbing.
type RetakeState string

const (
	RetakeNone      RetakeState = "none"
	RetakeScheduled RetakeState = "scheduled"
	RetakeOpen      RetakeState = "open"
	RetakeCompleted RetakeState = "completed"
)

// ParticipantProgram is the per-participant aggregate the orchestrator
// mutates. All writes go through an optimistic version check.
// swagger:model ParticipantProgram
type ParticipantProgram struct {
	BaseModel
	UserID uint  `gorm:"uniqueIndex;type:bigint unsigned" json:"userId"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PairID uint  `gorm:"index;type:bigint unsigned" json:"pairId"`

	Role          UserRole        `gorm:"size:20;not null" json:"role"`
	CurrentDay    int             `gorm:"default:0" json:"currentDay"`
	CompletedDays json.RawMessage `gorm:"type:json" json:"completedDays"`

	BurdenLevel        BurdenLevel        `gorm:"size:20" json:"burdenLevel"`
	StressLevel        StressLevel        `gorm:"size:20" json:"stressLevel"`
	QualityOfLifeLevel QualityOfLifeLevel `gorm:"size:20" json:"qualityOfLifeLevel"`

	IsProgramCompleted    bool        `gorm:"default:false" json:"isProgramCompleted"`
	QuestionnaireDisabled bool        `gorm:"default:false" json:"questionnaireDisabled"`
	RetakeState           RetakeState `gorm:"size:20;default:'none'" json:"retakeState"`
	RetakeScheduledFor    *time.Time  `json:"retakeScheduledFor,omitempty"`
	RetakeCompletedAt     *time.Time  `json:"retakeCompletedAt,omitempty"`

	DayModules []DayModule         `gorm:"foreignKey:ProgramID" json:"dayModules,omitempty"`
	Attempts   []AssessmentAttempt `gorm:"foreignKey:ProgramID" json:"attempts,omitempty"`

	// Version guards against interleaved read-modify-write cycles.
	Version int `gorm:"default:1" json:"version"`
}

func (ParticipantProgram) TableName() string {
	return "participant_programs"
}

// DayModuleFor returns the materialized module for a day, or nil.
func (p *ParticipantProgram) DayModuleFor(day int) *DayModule {
	for i := range p.DayModules {
		if p.DayModules[i].Day == day {
			return &p.DayModules[i]
		}
	}
	return nil
}

func (p *ParticipantProgram) CompletedDayList() []int {
	var days []int
	if len(p.CompletedDays) > 0 {
		_ = json.Unmarshal(p.CompletedDays, &days)
	}
	sort.Ints(days)
	return days
}

func (p *ParticipantProgram) HasCompletedDay(day int) bool {
	for _, d := range p.CompletedDayList() {
		if d == day {
			return true
		}
	}
	return false
}

func (p *ParticipantProgram) AddCompletedDay(day int) {
	if p.HasCompletedDay(day) {
		return
	}
	days := append(p.CompletedDayList(), day)
	sort.Ints(days)
	p.CompletedDays, _ = json.Marshal(days)
}

func (p *ParticipantProgram) RemoveCompletedDay(day int) {
	days := p.CompletedDayList()
	kept := days[:0]
	for _, d := range days {
		if d != day {
			kept = append(kept, d)
		}
	}
	p.CompletedDays, _ = json.Marshal(kept)
}

// ContentCategory is the category label driving content selection for this
// participant, resolved from the role's axis. Empty until that axis has been
// scored.
func (p *ParticipantProgram) ContentCategory() string {
	switch ContentAxisForRole(p.Role) {
	case AxisBurden:
		return string(p.BurdenLevel)
	default:
		return string(p.StressLevel)
	}
}
