package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/logger"
)

func TestExerciseCatalogResolveIsIdempotent(t *testing.T) {
	repo := newFakeExerciseRepo()
	catalog := NewExerciseCatalog(logger.NewNop(), repo)
	ctx := context.Background()

	first, err := catalog.Resolve(ctx, "Goblet Squat", "Keep the chest up.")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := catalog.Resolve(ctx, "  goblet squat ", "")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("id: got=%v want=%v", second.ID, first.ID)
	}
	if repo.size() != 1 {
		t.Fatalf("catalog size: got=%d want=1", repo.size())
	}
	if first.Description != "Keep the chest up." || first.Type != domain.ExerciseTypeStrength {
		t.Fatalf("entry: got=%q/%s", first.Description, first.Type)
	}
	if first.Difficulty != domain.LevelIntermediate {
		t.Fatalf("difficulty: got=%s want=%s", first.Difficulty, domain.LevelIntermediate)
	}
}

func TestExerciseCatalogKeepsExistingEntry(t *testing.T) {
	repo := newFakeExerciseRepo(domain.Exercise{
		Name:        "Plank",
		Description: "Hold a straight line.",
		Type:        domain.ExerciseTypeFunctional,
	})
	catalog := NewExerciseCatalog(logger.NewNop(), repo)

	got, err := catalog.Resolve(context.Background(), "PLANK", "different notes")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Description != "Hold a straight line." || got.Type != domain.ExerciseTypeFunctional {
		t.Fatalf("existing entry changed: %+v", got)
	}
	if repo.creates != 0 {
		t.Fatalf("creates: got=%d want=0", repo.creates)
	}
}

func TestExerciseCatalogDefaultDescription(t *testing.T) {
	catalog := NewExerciseCatalog(logger.NewNop(), newFakeExerciseRepo())
	got, err := catalog.Resolve(context.Background(), "Morning Jog", " ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Description != "Morning Jog exercise" || got.Type != domain.ExerciseTypeCardio {
		t.Fatalf("got=%q/%s", got.Description, got.Type)
	}
}

func TestExerciseCatalogConcurrentResolveCreatesOnce(t *testing.T) {
	repo := newFakeExerciseRepo()
	catalog := NewExerciseCatalog(logger.NewNop(), repo)

	var wg sync.WaitGroup
	ids := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ex, err := catalog.Resolve(context.Background(), "Burpee", "")
			if err != nil {
				t.Errorf("resolve: %v", err)
				return
			}
			ids <- ex.ID.Hex()
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != 1 || repo.creates != 1 {
		t.Fatalf("distinct ids=%d creates=%d, want 1/1", len(seen), repo.creates)
	}
}

func TestExerciseCatalogRejectsEmptyName(t *testing.T) {
	catalog := NewExerciseCatalog(logger.NewNop(), newFakeExerciseRepo())
	if _, err := catalog.Resolve(context.Background(), "   ", ""); !errors.Is(err, errEmptyExerciseName) {
		t.Fatalf("got=%v want=%v", err, errEmptyExerciseName)
	}
}
