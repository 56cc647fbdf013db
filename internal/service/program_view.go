package service

import (
	"time"

	"care_program_backend/internal/model"
	"care_program_backend/internal/program"
)

// ProgramView is the participant dashboard payload. It is derived, never
// stored: every field is computed from the aggregate after lazy transitions
// were applied.
type ProgramView struct {
	ProgramID             uint             `json:"programId"`
	UserID                uint             `json:"userId"`
	Role                  model.UserRole   `json:"role"`
	CurrentDay            int              `json:"currentDay"`
	CompletedDays         []int            `json:"completedDays"`
	IsProgramCompleted    bool             `json:"isProgramCompleted"`
	BurdenLevel           string           `json:"burdenLevel,omitempty"`
	StressLevel           string           `json:"stressLevel,omitempty"`
	QualityOfLifeLevel    string           `json:"qualityOfLifeLevel,omitempty"`
	AttemptCount          int              `json:"attemptCount"`
	QuestionnaireDisabled bool             `json:"questionnaireDisabled"`
	RetakeState           model.RetakeState `json:"retakeState"`
	RetakeScheduledFor    *time.Time       `json:"retakeScheduledFor,omitempty"`
	ReminderDue           bool             `json:"reminderDue"`
	Days                  []DayView        `json:"days"`
}

// DayView is one day's slice of the dashboard.
type DayView struct {
	Day                int           `json:"day"`
	IsUnlocked         bool          `json:"isUnlocked"`
	IsCompleted        bool          `json:"isCompleted"`
	NextAvailableAt    *time.Time    `json:"nextAvailableAt,omitempty"`
	AdminLock          string        `json:"adminLock,omitempty"`
	Category           string        `json:"category,omitempty"`
	ProgressPercentage int           `json:"progressPercentage"`
	CompletedAt        *time.Time    `json:"completedAt,omitempty"`
	Contents           []ContentView `json:"contents"`
}

// ContentView is one item inside a day.
type ContentView struct {
	ContentID   string     `json:"contentId"`
	Order       int        `json:"order"`
	IsUnlocked  bool       `json:"isUnlocked"`
	IsCompleted bool       `json:"isCompleted"`
	Progress    int        `json:"progress"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (s *ProgramService) buildView(p *model.ParticipantProgram) *ProgramView {
	view := &ProgramView{
		ProgramID:             p.ID,
		UserID:                p.UserID,
		Role:                  p.Role,
		CurrentDay:            p.CurrentDay,
		CompletedDays:         p.CompletedDayList(),
		IsProgramCompleted:    p.IsProgramCompleted,
		BurdenLevel:           string(p.BurdenLevel),
		StressLevel:           string(p.StressLevel),
		QualityOfLifeLevel:    string(p.QualityOfLifeLevel),
		AttemptCount:          len(p.Attempts),
		QuestionnaireDisabled: p.QuestionnaireDisabled,
		RetakeState:           p.RetakeState,
		RetakeScheduledFor:    p.RetakeScheduledFor,
	}

	for day := 0; day < s.programDays; day++ {
		dv := DayView{Day: day, IsCompleted: p.HasCompletedDay(day)}
		module := p.DayModuleFor(day)
		dv.IsUnlocked = program.IsDayUnlocked(p, day, s.Clock)
		if !dv.IsUnlocked {
			dv.NextAvailableAt = program.NextAvailableAt(p, day)
		}
		if module != nil {
			dv.AdminLock = string(module.AdminLock)
			dv.Category = module.Category
			dv.ProgressPercentage = module.ProgressPercentage
			dv.CompletedAt = module.CompletedAt
			for _, c := range module.Contents {
				dv.Contents = append(dv.Contents, ContentView{
					ContentID:   c.ContentID,
					Order:       c.Order,
					IsUnlocked:  c.IsUnlocked,
					IsCompleted: c.IsCompleted,
					Progress:    c.Progress,
					CompletedAt: c.CompletedAt,
				})
			}
		}
		// the current day sitting open with nothing done yet is the reminder
		// trigger for the client
		if day == p.CurrentDay && dv.IsUnlocked && !dv.IsCompleted && dv.ProgressPercentage == 0 {
			view.ReminderDue = true
		}
		view.Days = append(view.Days, dv)
	}
	return view
}
