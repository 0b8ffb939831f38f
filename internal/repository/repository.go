package repository

import (
	"context"
	"time"

	"fitnessallies/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when no document matches.
var ErrNotFound = RepositoryError("not found")

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ExerciseRepository reads and grows the shared exercise catalog.
// Name lookups are exact but case-insensitive.
type ExerciseRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	// FindOrCreateByName atomically returns the entry named like candidate.Name,
	// inserting candidate when none exists. created reports which happened.
	FindOrCreateByName(ctx context.Context, candidate *domain.Exercise) (exercise *domain.Exercise, created bool, err error)
	List(ctx context.Context, exerciseType domain.ExerciseType, limit int64) ([]domain.Exercise, error)
}

// PlanUpdate carries the mutable fields of a plan. Nil fields are left untouched.
type PlanUpdate struct {
	Title        *string
	Description  *string
	FitnessGoal  *domain.FitnessGoal
	FitnessLevel *domain.FitnessLevel
	WorkoutDays  []domain.WorkoutDay
	EndDate      *time.Time
	Active       *bool
}

// WorkoutPlanRepository persists workout plans.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	ListActiveByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	// DeleteByUser removes every plan of the user and reports how many went.
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteByID(ctx context.Context, id, userID primitive.ObjectID) error
	Update(ctx context.Context, id, userID primitive.ObjectID, update PlanUpdate) (*domain.WorkoutPlan, error)
	SetDayCompleted(ctx context.Context, id primitive.ObjectID, dayIndex int, completed bool, at *time.Time) error
	SetExerciseCompleted(ctx context.Context, id primitive.ObjectID, dayIndex, exerciseIndex int, completed bool) error
	// CompleteDay marks the day and all of its exercises complete in one write.
	CompleteDay(ctx context.Context, id primitive.ObjectID, dayIndex int, at time.Time) error
	// DeactivateExpired flips active plans whose end date is before now.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}
