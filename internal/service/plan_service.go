package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/generator"
	"fitnessallies/backend/internal/lock"
	"fitnessallies/backend/internal/logger"
	"fitnessallies/backend/internal/repository"
	"fitnessallies/backend/internal/storage"
)

const defaultPlanDuration = 28 * 24 * time.Hour

// GenerateResult is either a freshly generated plan or, when the caller
// already owns a plan, a request to confirm an override.
type GenerateResult struct {
	ConfirmationRequired bool
	ExistingPlan         *domain.WorkoutPlan
	Plan                 *domain.GeneratedPlan
}

// SavePlanInput is the body of a save request. PlanData.WorkoutDays is nil
// when the caller omitted it.
type SavePlanInput struct {
	PlanName     string
	FitnessGoal  domain.FitnessGoal
	FitnessLevel domain.FitnessLevel
	PlanData     *SavePlanData
}

type SavePlanData struct {
	Title        string
	Description  string
	FitnessGoal  domain.FitnessGoal
	FitnessLevel domain.FitnessLevel
	WorkoutDays  []domain.WorkoutDay
}

// TodaysPlans holds the plans scheduled for today. When none are, Message
// names the next scheduled weekday instead.
type TodaysPlans struct {
	Plans   []domain.WorkoutPlan
	Message string
}

// MissedWorkout is a day whose most recent scheduled date passed without
// the day being completed.
type MissedWorkout struct {
	PlanID        primitive.ObjectID `json:"planId"`
	PlanName      string             `json:"planName"`
	DayIndex      int                `json:"dayIndex"`
	Day           string             `json:"day"`
	ScheduledDate time.Time          `json:"scheduledDate"`
}

// --- Service Interface ---
type PlanService interface {
	GeneratePlan(ctx context.Context, ownerID primitive.ObjectID, raw RawPreferences, token string) (*GenerateResult, error)
	OverridePlan(ctx context.Context, ownerID primitive.ObjectID, raw RawPreferences, token string) (*domain.GeneratedPlan, error)
	SavePlan(ctx context.Context, ownerID primitive.ObjectID, input SavePlanInput) (*domain.WorkoutPlan, error)

	GetTodaysPlans(ctx context.Context, ownerID primitive.ObjectID) (*TodaysPlans, error)
	GetPlansByUser(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetPlanDay(ctx context.Context, ownerID, planID primitive.ObjectID, day string) (*domain.WorkoutPlan, error)
	CompleteDay(ctx context.Context, ownerID, planID primitive.ObjectID, dayIndex int) error
	SetExerciseCompleted(ctx context.Context, ownerID, planID primitive.ObjectID, dayIndex, exerciseIndex int, completed bool) error
	MarkWorkoutComplete(ctx context.Context, ownerID, planID primitive.ObjectID, dayIndex int) error
	UpdatePlan(ctx context.Context, ownerID, planID primitive.ObjectID, update repository.PlanUpdate) (*domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, ownerID, planID primitive.ObjectID) error
	CheckMissedWorkouts(ctx context.Context, ownerID primitive.ObjectID) ([]MissedWorkout, error)
	GetPlan(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	DeactivateExpiredPlans(ctx context.Context) (int64, error)
}

// PlanServiceDeps wires a PlanService. Media and Now are optional.
type PlanServiceDeps struct {
	Log       *logger.Logger
	Plans     repository.WorkoutPlanRepository
	Exercises repository.ExerciseRepository
	Verifier  TokenVerifier
	Generator generator.PlanGenerator
	Assembler *PlanAssembler
	Locker    lock.Locker
	Media     storage.MediaStorage

	// PlanDuration is the span from start to end date of a saved plan.
	PlanDuration time.Duration
	Now          func() time.Time
}

// --- Service Implementation ---

type planService struct {
	log       *logger.Logger
	plans     repository.WorkoutPlanRepository
	exercises repository.ExerciseRepository
	verifier  TokenVerifier
	generator generator.PlanGenerator
	assembler *PlanAssembler
	locker    lock.Locker
	media     mediaLinker
	duration  time.Duration
	now       func() time.Time
}

func NewPlanService(deps PlanServiceDeps) PlanService {
	log := deps.Log.With("service", "PlanService")
	duration := deps.PlanDuration
	if duration <= 0 {
		duration = defaultPlanDuration
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &planService{
		log:       log,
		plans:     deps.Plans,
		exercises: deps.Exercises,
		verifier:  deps.Verifier,
		generator: deps.Generator,
		assembler: deps.Assembler,
		locker:    deps.Locker,
		media:     mediaLinker{log: log, store: deps.Media, expiry: storage.DefaultPresignedURLExpiry},
		duration:  duration,
		now:       now,
	}
}

// GeneratePlan asks for confirmation when the owner already has a plan and
// otherwise generates a new one without saving it.
func (s *planService) GeneratePlan(ctx context.Context, ownerID primitive.ObjectID, raw RawPreferences, token string) (*GenerateResult, error) {
	existing, err := s.latestPlan(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &GenerateResult{ConfirmationRequired: true, ExistingPlan: existing}, nil
	}

	prefs, err := s.normalizeFor(ownerID, raw, token)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer release()

	// A plan may have been stored while this request waited for the lock.
	existing, err = s.latestPlan(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &GenerateResult{ConfirmationRequired: true, ExistingPlan: existing}, nil
	}

	plan, err := s.generate(ctx, prefs)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{Plan: plan}, nil
}

// latestPlan returns the owner's newest plan, or nil when there is none.
func (s *planService) latestPlan(ctx context.Context, ownerID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plans, err := s.plans.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	if len(plans) == 0 {
		return nil, nil
	}
	return &plans[0], nil
}

// OverridePlan deletes every plan of the owner and generates a replacement.
// Input is validated before anything is deleted.
func (s *planService) OverridePlan(ctx context.Context, ownerID primitive.ObjectID, raw RawPreferences, token string) (*domain.GeneratedPlan, error) {
	prefs, err := s.normalizeFor(ownerID, raw, token)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer release()

	deleted, err := s.plans.DeleteByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("delete plans: %w", err)
	}
	if deleted == 0 {
		return nil, ErrOverrideFailed
	}
	s.log.Info("existing plans removed for override", "owner", ownerID.Hex(), "deleted", deleted)

	return s.generate(ctx, prefs)
}

// SavePlan persists a plan the caller accepted.
func (s *planService) SavePlan(ctx context.Context, ownerID primitive.ObjectID, input SavePlanInput) (*domain.WorkoutPlan, error) {
	if input.PlanData == nil || input.PlanData.WorkoutDays == nil {
		return nil, ErrInvalidPlanData
	}
	data := input.PlanData

	goal := firstNonEmpty(data.FitnessGoal, input.FitnessGoal, domain.GoalGeneralFitness)
	if !goal.Valid() {
		return nil, &ValidationError{Field: "fitnessGoal", Kind: InvalidEnum, Message: enumMessage("fitnessGoal", domain.FitnessGoals)}
	}
	level := firstNonEmpty(data.FitnessLevel, input.FitnessLevel, domain.LevelIntermediate)
	if !level.Valid() {
		return nil, &ValidationError{Field: "fitnessLevel", Kind: InvalidEnum, Message: enumMessage("fitnessLevel", domain.FitnessLevels)}
	}

	description := data.Description
	if description == "" {
		description = "AI Generated plan: " + DescribePlan(goal, level, len(data.WorkoutDays))
	}

	start := s.now().UTC()
	end := start.Add(s.duration)
	plan := &domain.WorkoutPlan{
		UserID:       ownerID,
		Title:        firstNonEmpty(input.PlanName, data.Title, domain.DefaultPlanName),
		Description:  description,
		FitnessGoal:  goal,
		FitnessLevel: level,
		WorkoutDays:  data.WorkoutDays,
		StartDate:    start,
		EndDate:      &end,
		Active:       true,
	}

	id, err := s.plans.Create(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	plan.ID = id
	s.log.Info("workout plan saved", "owner", ownerID.Hex(), "plan_id", id.Hex(), "days", len(plan.WorkoutDays))
	return plan, nil
}

// normalizeFor validates input and rejects a token that names someone
// other than the authenticated owner.
func (s *planService) normalizeFor(ownerID primitive.ObjectID, raw RawPreferences, token string) (*domain.PreferenceRecord, error) {
	prefs, err := NormalizePreferences(raw, token, s.verifier)
	if err != nil {
		return nil, err
	}
	if prefs.UserID != ownerID {
		return nil, fmt.Errorf("%w: token does not belong to the caller", ErrInvalidToken)
	}
	return prefs, nil
}

func (s *planService) acquire(ctx context.Context, ownerID primitive.ObjectID) (func(), error) {
	release, err := s.locker.Acquire(ctx, "plan:"+ownerID.Hex())
	if err != nil {
		if errors.Is(err, lock.ErrBusy) {
			return nil, ErrPlanBusy
		}
		return nil, fmt.Errorf("acquire plan lock: %w", err)
	}
	return release, nil
}

func (s *planService) generate(ctx context.Context, prefs *domain.PreferenceRecord) (*domain.GeneratedPlan, error) {
	raw, err := s.generator.Generate(ctx, prefs)
	if err != nil {
		return nil, err
	}
	days, err := s.assembler.AssembleDays(ctx, raw.WorkoutDays)
	if err != nil {
		if errors.Is(err, generator.ErrGenerationFailed) {
			s.log.Error("generated plan rejected", "owner", prefs.UserID.Hex(), "error", err)
		}
		return nil, err
	}
	return &domain.GeneratedPlan{
		Title:        prefs.PlanName,
		Description:  DescribePlan(prefs.FitnessGoal, prefs.FitnessLevel, prefs.DaysPerWeek),
		FitnessGoal:  prefs.FitnessGoal,
		FitnessLevel: prefs.FitnessLevel,
		WorkoutDays:  days,
	}, nil
}

func firstNonEmpty[T ~string](values ...T) T {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
