package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/repository"
)

// GetTodaysPlans returns the owner's plans that schedule a day labelled
// with today's weekday.
func (s *planService) GetTodaysPlans(ctx context.Context, ownerID primitive.ObjectID) (*TodaysPlans, error) {
	plans, err := s.plans.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	if len(plans) == 0 {
		return nil, ErrNoPlansForUser
	}

	today := s.now().Weekday()
	todays := []domain.WorkoutPlan{}
	for _, plan := range plans {
		for _, day := range plan.WorkoutDays {
			if wd, ok := parseWeekday(day.Day); ok && wd == today {
				todays = append(todays, plan)
				break
			}
		}
	}
	if len(todays) > 0 {
		return &TodaysPlans{Plans: todays}, nil
	}

	nextDay := ""
	closest := 8
	for _, plan := range plans {
		for _, day := range plan.WorkoutDays {
			wd, ok := parseWeekday(day.Day)
			if !ok {
				continue
			}
			if ahead := (int(wd) - int(today) + 7) % 7; ahead < closest {
				closest = ahead
				nextDay = day.Day
			}
		}
	}
	if nextDay == "" {
		return &TodaysPlans{Plans: todays, Message: "No workouts scheduled for any day."}, nil
	}
	return &TodaysPlans{
		Plans:   todays,
		Message: fmt.Sprintf("No workouts scheduled for today. Your next workout is on %s.", nextDay),
	}, nil
}

func (s *planService) GetPlansByUser(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return s.plans.ListByUser(ctx, ownerID)
}

// GetPlan loads a plan and checks that ownerID owns it.
func (s *planService) GetPlan(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != ownerID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

// GetPlanDay returns the plan with catalog details attached to every
// exercise of the day labelled day.
func (s *planService) GetPlanDay(ctx context.Context, ownerID, planID primitive.ObjectID, day string) (*domain.WorkoutPlan, error) {
	plan, err := s.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}

	matched := false
	for i := range plan.WorkoutDays {
		workoutDay := &plan.WorkoutDays[i]
		if !strings.EqualFold(workoutDay.Day, day) {
			continue
		}
		matched = true
		for j := range workoutDay.Exercises {
			exercise := &workoutDay.Exercises[j]
			details, err := s.lookupExercise(ctx, exercise)
			if err != nil {
				s.log.Warn("exercise details unavailable", "plan_id", planID.Hex(), "exercise", exercise.Name, "error", err)
				continue
			}
			s.media.attach(ctx, details)
			exercise.ExerciseDetails = details
		}
	}
	if !matched {
		return nil, ErrDayNotFound
	}
	return plan, nil
}

func (s *planService) lookupExercise(ctx context.Context, a *domain.ExerciseAssignment) (*domain.Exercise, error) {
	if !a.ExerciseID.IsZero() {
		return s.exercises.GetByID(ctx, a.ExerciseID)
	}
	return s.exercises.GetByName(ctx, a.Name)
}

// CompleteDay marks one day complete without touching its exercises.
func (s *planService) CompleteDay(ctx context.Context, ownerID, planID primitive.ObjectID, dayIndex int) error {
	plan, err := s.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return err
	}
	if dayIndex < 0 || dayIndex >= len(plan.WorkoutDays) {
		return ErrInvalidDayIndex
	}
	at := s.now().UTC()
	return s.mapMissing(s.plans.SetDayCompleted(ctx, planID, dayIndex, true, &at), ErrInvalidDayIndex)
}

func (s *planService) SetExerciseCompleted(ctx context.Context, ownerID, planID primitive.ObjectID, dayIndex, exerciseIndex int, completed bool) error {
	plan, err := s.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return err
	}
	if dayIndex < 0 || dayIndex >= len(plan.WorkoutDays) {
		return ErrDayNotFound
	}
	if exerciseIndex < 0 || exerciseIndex >= len(plan.WorkoutDays[dayIndex].Exercises) {
		return ErrExerciseNotFound
	}
	return s.mapMissing(s.plans.SetExerciseCompleted(ctx, planID, dayIndex, exerciseIndex, completed), ErrExerciseNotFound)
}

// MarkWorkoutComplete completes a day together with all of its exercises.
func (s *planService) MarkWorkoutComplete(ctx context.Context, ownerID, planID primitive.ObjectID, dayIndex int) error {
	plan, err := s.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return err
	}
	if dayIndex < 0 || dayIndex >= len(plan.WorkoutDays) {
		return ErrDayNotFound
	}
	return s.mapMissing(s.plans.CompleteDay(ctx, planID, dayIndex, s.now().UTC()), ErrDayNotFound)
}

func (s *planService) UpdatePlan(ctx context.Context, ownerID, planID primitive.ObjectID, update repository.PlanUpdate) (*domain.WorkoutPlan, error) {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, &ValidationError{Field: "title", Kind: MissingField, Message: "title cannot be empty"}
	}
	if update.FitnessGoal != nil && !update.FitnessGoal.Valid() {
		return nil, &ValidationError{Field: "fitnessGoal", Kind: InvalidEnum, Message: enumMessage("fitnessGoal", domain.FitnessGoals)}
	}
	if update.FitnessLevel != nil && !update.FitnessLevel.Valid() {
		return nil, &ValidationError{Field: "fitnessLevel", Kind: InvalidEnum, Message: enumMessage("fitnessLevel", domain.FitnessLevels)}
	}
	if _, err := s.GetPlan(ctx, ownerID, planID); err != nil {
		return nil, err
	}

	updated, err := s.plans.Update(ctx, planID, ownerID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *planService) DeletePlan(ctx context.Context, ownerID, planID primitive.ObjectID) error {
	if _, err := s.GetPlan(ctx, ownerID, planID); err != nil {
		return err
	}
	return s.mapMissing(s.plans.DeleteByID(ctx, planID, ownerID), ErrPlanNotFound)
}

// CheckMissedWorkouts lists incomplete days of active plans whose latest
// occurrence before today falls inside the plan's date range.
func (s *planService) CheckMissedWorkouts(ctx context.Context, ownerID primitive.ObjectID) ([]MissedWorkout, error) {
	plans, err := s.plans.ListActiveByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list active plans: %w", err)
	}

	today := truncateToDay(s.now().UTC())
	missed := []MissedWorkout{}
	for _, plan := range plans {
		start := truncateToDay(plan.StartDate.UTC())
		for i, day := range plan.WorkoutDays {
			if day.Completed {
				continue
			}
			wd, ok := parseWeekday(day.Day)
			if !ok {
				continue
			}
			back := (int(today.Weekday()) - int(wd) + 7) % 7
			if back == 0 {
				back = 7
			}
			scheduled := today.AddDate(0, 0, -back)
			if scheduled.Before(start) {
				continue
			}
			if plan.EndDate != nil && scheduled.After(plan.EndDate.UTC()) {
				continue
			}
			missed = append(missed, MissedWorkout{
				PlanID:        plan.ID,
				PlanName:      plan.Title,
				DayIndex:      i,
				Day:           day.Day,
				ScheduledDate: scheduled,
			})
		}
	}
	return missed, nil
}

// DeactivateExpiredPlans flips plans past their end date to inactive.
func (s *planService) DeactivateExpiredPlans(ctx context.Context) (int64, error) {
	n, err := s.plans.DeactivateExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("deactivate expired plans: %w", err)
	}
	return n, nil
}

// mapMissing turns a repository not-found into the caller-facing error.
func (s *planService) mapMissing(err, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return err
}

func parseWeekday(label string) (time.Weekday, bool) {
	label = strings.TrimSpace(label)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(label, d.String()) {
			return d, true
		}
	}
	return 0, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
