package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/repository"
)

// --- plans ---

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]domain.WorkoutPlan
	order []primitive.ObjectID
}

func newFakePlanRepo(plans ...domain.WorkoutPlan) *fakePlanRepo {
	r := &fakePlanRepo{plans: map[primitive.ObjectID]domain.WorkoutPlan{}}
	for _, p := range plans {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		r.plans[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	r.plans[plan.ID] = *plan
	r.order = append(r.order, plan.ID)
	return plan.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePlan(p), nil
}

func (r *fakePlanRepo) list(match func(domain.WorkoutPlan) bool) []domain.WorkoutPlan {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.WorkoutPlan{}
	for i := len(r.order) - 1; i >= 0; i-- {
		if p, ok := r.plans[r.order[i]]; ok && match(p) {
			out = append(out, *clonePlan(p))
		}
	}
	return out
}

func (r *fakePlanRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return r.list(func(p domain.WorkoutPlan) bool { return p.UserID == userID }), nil
}

func (r *fakePlanRepo) ListActiveByUser(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return r.list(func(p domain.WorkoutPlan) bool { return p.UserID == userID && p.Active }), nil
}

func (r *fakePlanRepo) DeleteByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.plans {
		if p.UserID == userID {
			delete(r.plans, id)
			n++
		}
	}
	return n, nil
}

func (r *fakePlanRepo) DeleteByID(_ context.Context, id, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

func (r *fakePlanRepo) Update(_ context.Context, id, userID primitive.ObjectID, u repository.PlanUpdate) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok || p.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.FitnessGoal != nil {
		p.FitnessGoal = *u.FitnessGoal
	}
	if u.FitnessLevel != nil {
		p.FitnessLevel = *u.FitnessLevel
	}
	if u.WorkoutDays != nil {
		p.WorkoutDays = u.WorkoutDays
	}
	if u.EndDate != nil {
		p.EndDate = u.EndDate
	}
	if u.Active != nil {
		p.Active = *u.Active
	}
	r.plans[id] = p
	return clonePlan(p), nil
}

func (r *fakePlanRepo) mutateDay(id primitive.ObjectID, dayIndex int, fn func(*domain.WorkoutDay) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok || dayIndex < 0 || dayIndex >= len(p.WorkoutDays) {
		return repository.ErrNotFound
	}
	p = *clonePlan(p)
	if err := fn(&p.WorkoutDays[dayIndex]); err != nil {
		return err
	}
	r.plans[id] = p
	return nil
}

func (r *fakePlanRepo) SetDayCompleted(_ context.Context, id primitive.ObjectID, dayIndex int, completed bool, at *time.Time) error {
	return r.mutateDay(id, dayIndex, func(d *domain.WorkoutDay) error {
		d.Completed = completed
		if at != nil {
			d.CompletedAt = at
		}
		return nil
	})
}

func (r *fakePlanRepo) SetExerciseCompleted(_ context.Context, id primitive.ObjectID, dayIndex, exerciseIndex int, completed bool) error {
	return r.mutateDay(id, dayIndex, func(d *domain.WorkoutDay) error {
		if exerciseIndex < 0 || exerciseIndex >= len(d.Exercises) {
			return repository.ErrNotFound
		}
		d.Exercises[exerciseIndex].Completed = completed
		return nil
	})
}

func (r *fakePlanRepo) CompleteDay(_ context.Context, id primitive.ObjectID, dayIndex int, at time.Time) error {
	return r.mutateDay(id, dayIndex, func(d *domain.WorkoutDay) error {
		d.Completed = true
		d.CompletedAt = &at
		for i := range d.Exercises {
			d.Exercises[i].Completed = true
		}
		return nil
	})
}

func (r *fakePlanRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.plans {
		if p.Active && p.EndDate != nil && p.EndDate.Before(now) {
			p.Active = false
			r.plans[id] = p
			n++
		}
	}
	return n, nil
}

func (r *fakePlanRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plans)
}

func clonePlan(p domain.WorkoutPlan) *domain.WorkoutPlan {
	days := make([]domain.WorkoutDay, len(p.WorkoutDays))
	for i, d := range p.WorkoutDays {
		d.Exercises = append([]domain.ExerciseAssignment(nil), d.Exercises...)
		days[i] = d
	}
	p.WorkoutDays = days
	return &p
}

// --- exercises ---

type fakeExerciseRepo struct {
	mu      sync.Mutex
	byKey   map[string]*domain.Exercise
	creates int
}

func newFakeExerciseRepo(existing ...domain.Exercise) *fakeExerciseRepo {
	r := &fakeExerciseRepo{byKey: map[string]*domain.Exercise{}}
	for i := range existing {
		e := existing[i]
		if e.ID.IsZero() {
			e.ID = primitive.NewObjectID()
		}
		r.byKey[strings.ToLower(e.Name)] = &e
	}
	return r
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byKey {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) GetByName(_ context.Context, name string) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.byKey[strings.ToLower(name)]; ok {
		c := *e
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) FindOrCreateByName(_ context.Context, candidate *domain.Exercise) (*domain.Exercise, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(candidate.Name)
	if e, ok := r.byKey[key]; ok {
		c := *e
		return &c, false, nil
	}
	e := *candidate
	e.ID = primitive.NewObjectID()
	r.byKey[key] = &e
	r.creates++
	c := e
	return &c, true, nil
}

func (r *fakeExerciseRepo) List(_ context.Context, t domain.ExerciseType, limit int64) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Exercise{}
	for _, e := range r.byKey {
		if t == "" || e.Type == t {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeExerciseRepo) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}

// --- collaborators ---

type fakeVerifier map[string]string

func (v fakeVerifier) VerifyToken(token string) (string, error) {
	owner, ok := v[token]
	if !ok {
		return "", fmt.Errorf("%w: unknown token", ErrInvalidToken)
	}
	if owner == "" {
		return "", ErrMissingOwner
	}
	return owner, nil
}

type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	plan  *domain.RawPlan
	err   error
}

func (g *fakeGenerator) Generate(_ context.Context, prefs *domain.PreferenceRecord) (*domain.RawPlan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if g.plan != nil {
		return g.plan, nil
	}
	return rawPlanFor(prefs.DaysPerWeek), nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

var weekdays = []string{"Monday", "Wednesday", "Friday", "Tuesday", "Thursday", "Saturday", "Sunday"}

func rawPlanFor(days int) *domain.RawPlan {
	plan := &domain.RawPlan{}
	for i := 0; i < days; i++ {
		plan.WorkoutDays = append(plan.WorkoutDays, domain.RawWorkoutDay{
			Day: weekdays[i%len(weekdays)],
			Exercises: []domain.RawExercise{
				{Name: "Barbell Squat", Sets: domain.AmountOf(3), Reps: domain.AmountOf(8), Notes: "Brace your core."},
				{Name: "Push-ups", Sets: domain.AmountOf(3), Reps: domain.AmountText("10-12")},
				{Name: "Hamstring Stretch", Sets: domain.AmountOf(2), Reps: domain.AmountText("30 seconds")},
			},
		})
	}
	return plan
}
