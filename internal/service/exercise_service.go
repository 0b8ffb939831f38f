package service

import (
	"context"
	"errors"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/logger"
	"fitnessallies/backend/internal/repository"
	"fitnessallies/backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxExerciseListLimit = 200

// ExerciseService exposes the catalog read-only.
type ExerciseService interface {
	ListExercises(ctx context.Context, exerciseType string, limit int64) ([]domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	media        mediaLinker
}

// NewExerciseService creates a new instance of exerciseService. media may be nil.
func NewExerciseService(log *logger.Logger, exerciseRepo repository.ExerciseRepository, media storage.MediaStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		media:        mediaLinker{log: log.With("service", "ExerciseService"), store: media, expiry: storage.DefaultPresignedURLExpiry},
	}
}

// ListExercises returns catalog entries by name, optionally of one type.
func (s *exerciseService) ListExercises(ctx context.Context, exerciseType string, limit int64) ([]domain.Exercise, error) {
	t := domain.ExerciseType(exerciseType)
	if t != "" && !t.Valid() {
		return nil, &ValidationError{Field: "type", Kind: InvalidEnum, Message: "unknown exercise type: " + exerciseType}
	}
	if limit <= 0 || limit > maxExerciseListLimit {
		limit = maxExerciseListLimit
	}

	exercises, err := s.exerciseRepo.List(ctx, t, limit)
	if err != nil {
		return nil, err
	}
	for i := range exercises {
		s.media.attach(ctx, &exercises[i])
	}
	return exercises, nil
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err // Propagate other repository errors
	}
	s.media.attach(ctx, exercise)
	return exercise, nil
}
