package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/logger"
	"fitnessallies/backend/internal/repository"
)

var errEmptyExerciseName = errors.New("exercise name is empty")

// ExerciseResolver maps a free-form exercise name to a catalog entry.
type ExerciseResolver interface {
	Resolve(ctx context.Context, name, notes string) (*domain.Exercise, error)
}

// ExerciseCatalog resolves names against the shared catalog, adding an
// entry the first time a name is seen. Existing entries are never changed.
type ExerciseCatalog struct {
	log  *logger.Logger
	repo repository.ExerciseRepository
}

func NewExerciseCatalog(log *logger.Logger, repo repository.ExerciseRepository) *ExerciseCatalog {
	return &ExerciseCatalog{
		log:  log.With("service", "ExerciseCatalog"),
		repo: repo,
	}
}

// Resolve returns the entry whose name equals name ignoring case. Calling
// it twice with the same name yields the same entry.
func (c *ExerciseCatalog) Resolve(ctx context.Context, name, notes string) (*domain.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errEmptyExerciseName
	}

	existing, err := c.repo.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup exercise %q: %w", name, err)
	}

	exercise, created, err := c.repo.FindOrCreateByName(ctx, newCatalogEntry(name, notes))
	if err != nil {
		return nil, fmt.Errorf("create exercise %q: %w", name, err)
	}
	if created {
		c.log.Info("catalog entry created", "exercise", exercise.Name, "type", exercise.Type)
	}
	return exercise, nil
}

// newCatalogEntry builds the default entry for an unseen name.
func newCatalogEntry(name, notes string) *domain.Exercise {
	description := strings.TrimSpace(notes)
	if description == "" {
		description = name + " exercise"
	}
	now := time.Now().UTC()
	return &domain.Exercise{
		Name:         name,
		Description:  description,
		Type:         ClassifyExercise(name),
		MuscleGroups: []domain.MuscleGroup{},
		Equipment:    []string{},
		Difficulty:   domain.LevelIntermediate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
