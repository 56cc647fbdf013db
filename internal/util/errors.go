package util

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailRegistered         = errors.New("email is already registered")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrProgramNotFound         = errors.New("participant program not found")
	ErrAlreadyPaired           = errors.New("participant is already paired")
	ErrQuestionnaireDisabled   = errors.New("questionnaire is currently disabled")
	ErrRolesMismatch           = errors.New("a pair needs one caregiver and one patient")
	ErrNoActiveDefinition      = errors.New("no active questionnaire definition")
	ErrDefinitionNotActivatable = errors.New("definition failed range validation")
)
