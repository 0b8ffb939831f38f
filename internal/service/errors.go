package service

import (
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	// Credentials
	ErrMissingToken = errors.New("authorization token is required")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingOwner = fmt.Errorf("%w: userId not found in token", ErrInvalidToken)

	// Input
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidPlanData  = errors.New("invalid plan data provided")

	// Plans
	ErrPlanNotFound     = errors.New("workout plan not found")
	ErrNoPlansForUser   = errors.New("no workout plans found for this user")
	ErrDayNotFound      = errors.New("workout day not found")
	ErrInvalidDayIndex  = errors.New("invalid day index")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrPlanAccessDenied = errors.New("access denied to this workout plan")
	ErrOverrideFailed   = errors.New("no existing plan to override")
	ErrPlanBusy         = errors.New("another plan request is in progress for this user")
)

// ValidationKind classifies a rejected preference field.
type ValidationKind int

const (
	MissingField ValidationKind = iota + 1
	InvalidEnum
	OutOfRange
)

// ValidationError reports one client-correctable input problem. Message is
// safe to return to the caller as-is.
type ValidationError struct {
	Field   string
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
