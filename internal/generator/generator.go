// Package generator turns a preference record into a raw workout plan by
// prompting a generative model and parsing its free-form reply.
package generator

import (
	"context"
	"errors"
	"fmt"

	"fitnessallies/backend/internal/domain"
)

// PlanGenerator produces a raw plan for one set of preferences.
// Implementations make exactly one upstream call per Generate.
type PlanGenerator interface {
	Generate(ctx context.Context, prefs *domain.PreferenceRecord) (*domain.RawPlan, error)
}

// ErrGenerationFailed matches every *GenerationError via errors.Is.
var ErrGenerationFailed = errors.New("workout plan generation failed")

// FailureKind says why a generation attempt produced no plan.
type FailureKind int

const (
	// EmptyResponse: no candidate, no content parts, or only whitespace.
	EmptyResponse FailureKind = iota + 1
	// UnparsableResponse: text was returned but is not a plan.
	UnparsableResponse
	// ServiceFailure: the model call itself errored or timed out.
	ServiceFailure
)

func (k FailureKind) String() string {
	switch k {
	case EmptyResponse:
		return "empty_response"
	case UnparsableResponse:
		return "unparsable_response"
	case ServiceFailure:
		return "service_failure"
	default:
		return "unknown"
	}
}

// GenerationError is logged with its Kind and cause. Callers surface only
// a generic failure.
type GenerationError struct {
	Kind FailureKind
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation failed: %s", e.Kind)
	}
	return fmt.Sprintf("generation failed: %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

func newGenerationError(kind FailureKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}
