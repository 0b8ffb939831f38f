package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"fitnessallies/backend/internal/repository"
)

func updateResponse(matched int32) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: matched},
		bson.E{Key: "nModified", Value: matched},
	)
}

func TestWorkoutPlanElementUpdates(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	planID := primitive.NewObjectID()
	at := time.Date(2025, time.June, 11, 18, 0, 0, 0, time.UTC)

	mt.Run("complete day sets every exercise", func(mt *mtest.T) {
		repo := &mongoWorkoutPlanRepository{collection: mt.Coll}
		mt.AddMockResponses(updateResponse(1))

		if err := repo.CompleteDay(context.Background(), planID, 2, at); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}

		update := mt.GetStartedEvent().Command.Lookup("updates", "0")
		if id := update.Document().Lookup("q", "_id").ObjectID(); id != planID {
			mt.Fatalf("filter _id: got=%v want=%v", id, planID)
		}
		if exists := update.Document().Lookup("q", "workoutDays.2", "$exists").Boolean(); !exists {
			mt.Fatalf("filter must require the day to exist")
		}
		set := update.Document().Lookup("u", "$set").Document()
		if !set.Lookup("workoutDays.2.exercises.$[].completed").Boolean() {
			mt.Fatalf("exercises not completed: %v", set)
		}
		if !set.Lookup("workoutDays.2.completed").Boolean() {
			mt.Fatalf("day not completed: %v", set)
		}
		if got := set.Lookup("workoutDays.2.completedAt").Time().UTC(); !got.Equal(at) {
			mt.Fatalf("completedAt: got=%v want=%v", got, at)
		}
	})

	mt.Run("exercise flag targets one element", func(mt *mtest.T) {
		repo := &mongoWorkoutPlanRepository{collection: mt.Coll}
		mt.AddMockResponses(updateResponse(1))

		if err := repo.SetExerciseCompleted(context.Background(), planID, 0, 3, false); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}

		update := mt.GetStartedEvent().Command.Lookup("updates", "0").Document()
		if _, err := update.LookupErr("q", "workoutDays.0.exercises.3"); err != nil {
			mt.Fatalf("filter must require the exercise to exist: %v", err)
		}
		if got := update.Lookup("u", "$set", "workoutDays.0.exercises.3.completed").Boolean(); got {
			mt.Fatalf("completed: got=%v want=false", got)
		}
	})

	mt.Run("day flag without timestamp", func(mt *mtest.T) {
		repo := &mongoWorkoutPlanRepository{collection: mt.Coll}
		mt.AddMockResponses(updateResponse(1))

		if err := repo.SetDayCompleted(context.Background(), planID, 1, true, nil); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		set := mt.GetStartedEvent().Command.Lookup("updates", "0", "u", "$set").Document()
		if _, err := set.LookupErr("workoutDays.1.completedAt"); err == nil {
			mt.Fatalf("completedAt should be left alone")
		}
	})

	mt.Run("missing element is not found", func(mt *mtest.T) {
		repo := &mongoWorkoutPlanRepository{collection: mt.Coll}
		mt.AddMockResponses(updateResponse(0))

		err := repo.SetExerciseCompleted(context.Background(), planID, 9, 0, true)
		if !errors.Is(err, repository.ErrNotFound) {
			mt.Fatalf("got=%v want=%v", err, repository.ErrNotFound)
		}
	})
}

func TestDeactivateExpired(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	mt.Run("counts modified plans", func(mt *mtest.T) {
		repo := &mongoWorkoutPlanRepository{collection: mt.Coll}
		mt.AddMockResponses(updateResponse(4))

		n, err := repo.DeactivateExpired(context.Background(), now)
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if n != 4 {
			mt.Fatalf("modified: got=%d want=4", n)
		}
		update := mt.GetStartedEvent().Command.Lookup("updates", "0").Document()
		if !update.Lookup("multi").Boolean() {
			mt.Fatalf("expected a multi update")
		}
		if got := update.Lookup("q", "endDate", "$lt").Time().UTC(); !got.Equal(now) {
			mt.Fatalf("cutoff: got=%v want=%v", got, now)
		}
	})
}
