package service

import "errors"

// Sentinel errors handlers translate into HTTP statuses
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("not signed in")
	ErrForbidden          = errors.New("not allowed")
	ErrNotFound           = errors.New("not found")
	ErrNoQuestions        = errors.New("subject has no questions")
	ErrGameCompleted      = errors.New("game session already completed")
	ErrGameUnfinished     = errors.New("not all questions answered")
	ErrDuplicateAnswer    = errors.New("question already answered")
	ErrOutOfOrder         = errors.New("questions must be answered in order")
	ErrAlreadyLinked      = errors.New("student already linked")
)
