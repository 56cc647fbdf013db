package service

import (
	"care_program_backend/internal/model"
	"care_program_backend/internal/program"
	"care_program_backend/internal/repository"
)

// WaitTimeService manages the global wait-hour policy and the
// per-participant overrides layered on top of it.
type WaitTimeService struct {
	Repo  *repository.WaitTimeRepository
	Store ProgramStore
}

func NewWaitTimeService(repo *repository.WaitTimeRepository, store ProgramStore) *WaitTimeService {
	return &WaitTimeService{Repo: repo, Store: store}
}

// WaitTimeView reports the policy in force for one participant alongside the
// raw override, so the admin UI can tell inherited values from explicit ones.
type WaitTimeView struct {
	Global    model.WaitTimeConfig    `json:"global"`
	Override  *model.WaitTimeOverride `json:"override,omitempty"`
	Effective program.WaitHours       `json:"effective"`
}

func (s *WaitTimeService) Global() (*model.WaitTimeConfig, error) {
	return s.Repo.Global()
}

// UpdateGlobal replaces the global defaults. Zero hours are legal and mean
// an immediate unlock; negative hours are not.
func (s *WaitTimeService) UpdateGlobal(day0ToDay1, betweenDays int) (*model.WaitTimeConfig, error) {
	if day0ToDay1 < 0 || betweenDays < 0 {
		return nil, program.Validationf("wait hours must not be negative")
	}
	global, err := s.Repo.Global()
	if err != nil {
		return nil, err
	}
	global.Day0ToDay1Hours = day0ToDay1
	global.BetweenDaysHours = betweenDays
	if err := s.Repo.UpdateGlobal(global); err != nil {
		return nil, err
	}
	return global, nil
}

// ForParticipant resolves the effective policy for one participant.
func (s *WaitTimeService) ForParticipant(userID uint) (*WaitTimeView, error) {
	p, err := s.Store.LoadByUserID(userID)
	if err != nil {
		return nil, err
	}
	global, err := s.Repo.Global()
	if err != nil {
		return nil, err
	}
	override, err := s.Repo.OverrideFor(p.ID)
	if err != nil {
		return nil, err
	}
	return &WaitTimeView{
		Global:    *global,
		Override:  override,
		Effective: program.ResolveWaitHours(*global, override),
	}, nil
}

// SetOverride writes a per-participant override. Nil fields fall through to
// the global value for that field only.
func (s *WaitTimeService) SetOverride(userID uint, day0ToDay1, betweenDays *int) (*WaitTimeView, error) {
	if (day0ToDay1 != nil && *day0ToDay1 < 0) || (betweenDays != nil && *betweenDays < 0) {
		return nil, program.Validationf("wait hours must not be negative")
	}
	p, err := s.Store.LoadByUserID(userID)
	if err != nil {
		return nil, err
	}
	ov := &model.WaitTimeOverride{
		ProgramID:        p.ID,
		Day0ToDay1Hours:  day0ToDay1,
		BetweenDaysHours: betweenDays,
	}
	if err := s.Repo.UpsertOverride(ov); err != nil {
		return nil, err
	}
	return s.ForParticipant(userID)
}

// ClearOverride removes the override so the participant follows the global
// policy again.
func (s *WaitTimeService) ClearOverride(userID uint) error {
	p, err := s.Store.LoadByUserID(userID)
	if err != nil {
		return err
	}
	return s.Repo.DeleteOverride(p.ID)
}
