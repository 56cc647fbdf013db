package service

import (
	"errors"

	"care_program_backend/internal/model"
	"care_program_backend/internal/repository"
	"care_program_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(role model.UserRole, page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListByRole(role, page, limit)
}

func (s *UserService) TouchLastSeen(userID uint) {
	// best effort, losing a heartbeat is fine
	_ = s.Repo.UpdateLastSeen(userID)
}
