package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/generator"
	"fitnessallies/backend/internal/observability"
)

const defaultResolveConcurrency = 4

// PlanAssembler turns raw generated days into plan days whose exercises
// all reference catalog entries.
type PlanAssembler struct {
	resolver    ExerciseResolver
	concurrency int
}

func NewPlanAssembler(resolver ExerciseResolver, concurrency int) *PlanAssembler {
	if concurrency <= 0 {
		concurrency = defaultResolveConcurrency
	}
	return &PlanAssembler{resolver: resolver, concurrency: concurrency}
}

// AssembleDays resolves every exercise concurrently. Day and exercise order
// match the input. The first resolution error aborts the whole plan.
func (a *PlanAssembler) AssembleDays(ctx context.Context, rawDays []domain.RawWorkoutDay) ([]domain.WorkoutDay, error) {
	ctx, span := otel.Tracer(observability.TracerName).Start(ctx, "plan.AssembleDays")
	defer span.End()

	days := make([]domain.WorkoutDay, len(rawDays))
	total := 0
	for i, rawDay := range rawDays {
		days[i] = domain.WorkoutDay{
			Day:       rawDay.Day,
			Exercises: make([]domain.ExerciseAssignment, len(rawDay.Exercises)),
			Completed: false,
		}
		total += len(rawDay.Exercises)
	}
	span.SetAttributes(attribute.Int("plan.days", len(days)), attribute.Int("plan.exercises", total))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, rawDay := range rawDays {
		for j, raw := range rawDay.Exercises {
			g.Go(func() error {
				exercise, err := a.resolver.Resolve(gctx, raw.Name, raw.Notes)
				if err != nil {
					if errors.Is(err, errEmptyExerciseName) {
						// The model produced an exercise without a name.
						return &generator.GenerationError{
							Kind: generator.UnparsableResponse,
							Err:  fmt.Errorf("day %d exercise %d: %w", i, j, err),
						}
					}
					return err
				}
				// Each goroutine owns a distinct slot.
				days[i].Exercises[j] = domain.ExerciseAssignment{
					ExerciseID: exercise.ID,
					Name:       raw.Name,
					Sets:       raw.Sets,
					Reps:       raw.Reps,
					Duration:   raw.Duration,
					Weight:     raw.Weight,
					RestTime:   raw.RestTime,
					Notes:      raw.Notes,
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return days, nil
}

// DescribePlan is the summary sentence stored with generated plans.
func DescribePlan(goal domain.FitnessGoal, level domain.FitnessLevel, daysPerWeek int) string {
	return fmt.Sprintf("Workout plan generated by AI for %s level, %s goal, %d days per week.", level, goal, daysPerWeek)
}
