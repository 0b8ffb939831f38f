package mongo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/repository"
)

func newExerciseRepoForTest(mt *mtest.T, id primitive.ObjectID) *mongoExerciseRepository {
	return &mongoExerciseRepository{
		collection: mt.Coll,
		newID:      func() primitive.ObjectID { return id },
	}
}

func exerciseDoc(id primitive.ObjectID, name string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "description", Value: name + " exercise"},
		{Key: "type", Value: string(domain.ExerciseTypeStrength)},
	}
}

func TestFindOrCreateByName(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates missing entry", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		repo := newExerciseRepoForTest(mt, id)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: exerciseDoc(id, "Barbell Squat")},
		))

		got, created, err := repo.FindOrCreateByName(context.Background(), &domain.Exercise{
			Name:        "Barbell Squat",
			Description: "Barbell Squat exercise",
			Type:        domain.ExerciseTypeStrength,
		})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if !created || got.ID != id {
			mt.Fatalf("got=%v/%v want=%v/true", got.ID, created, id)
		}

		cmd := mt.GetStartedEvent().Command
		if name := cmd.Lookup("query", "name").StringValue(); name != "Barbell Squat" {
			mt.Fatalf("filter name: got=%q", name)
		}
		if upsert := cmd.Lookup("upsert").Boolean(); !upsert {
			mt.Fatalf("upsert: got=%v want=true", upsert)
		}
		if insertID := cmd.Lookup("update", "$setOnInsert", "_id").ObjectID(); insertID != id {
			mt.Fatalf("$setOnInsert _id: got=%v want=%v", insertID, id)
		}
		if _, err := cmd.LookupErr("update", "$set"); err == nil {
			mt.Fatalf("existing entries must not be modified")
		}
		if strength := cmd.Lookup("collation", "strength").Int32(); strength != 2 {
			mt.Fatalf("collation strength: got=%d want=2", strength)
		}
	})

	mt.Run("returns existing entry", func(mt *mtest.T) {
		existingID := primitive.NewObjectID()
		repo := newExerciseRepoForTest(mt, primitive.NewObjectID())
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: exerciseDoc(existingID, "Barbell Squat")},
		))

		got, created, err := repo.FindOrCreateByName(context.Background(), &domain.Exercise{Name: "barbell squat"})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if created {
			mt.Fatalf("created: got=true want=false")
		}
		if got.ID != existingID || got.Name != "Barbell Squat" {
			mt.Fatalf("got=%v/%q want=%v/%q", got.ID, got.Name, existingID, "Barbell Squat")
		}
	})

	mt.Run("duplicate key returns the winner", func(mt *mtest.T) {
		winnerID := primitive.NewObjectID()
		repo := newExerciseRepoForTest(mt, primitive.NewObjectID())
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11000,
				Name:    "DuplicateKey",
				Message: "E11000 duplicate key error collection: exercises index: exercise_name_ci_unique",
			}),
			mtest.CreateCursorResponse(0, "fitness.exercises", mtest.FirstBatch, exerciseDoc(winnerID, "Plank")),
		)

		got, created, err := repo.FindOrCreateByName(context.Background(), &domain.Exercise{Name: "plank"})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if created || got.ID != winnerID {
			mt.Fatalf("got=%v/%v want=%v/false", got.ID, created, winnerID)
		}

		events := mt.GetAllStartedEvents()
		if len(events) != 2 || events[1].CommandName != "find" {
			mt.Fatalf("commands: got=%d, want findAndModify then find", len(events))
		}
		if strength := events[1].Command.Lookup("collation", "strength").Int32(); strength != 2 {
			mt.Fatalf("re-read collation strength: got=%d want=2", strength)
		}
	})

	mt.Run("other errors surface", func(mt *mtest.T) {
		repo := newExerciseRepoForTest(mt, primitive.NewObjectID())
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "bad update",
		}))

		if _, _, err := repo.FindOrCreateByName(context.Background(), &domain.Exercise{Name: "Plank"}); err == nil {
			mt.Fatalf("expected an error")
		}
	})

	mt.Run("empty name rejected", func(mt *mtest.T) {
		repo := newExerciseRepoForTest(mt, primitive.NewObjectID())
		if _, _, err := repo.FindOrCreateByName(context.Background(), &domain.Exercise{}); err == nil {
			mt.Fatalf("expected an error")
		}
		if n := len(mt.GetAllStartedEvents()); n != 0 {
			mt.Fatalf("commands sent: got=%d want=0", n)
		}
	})
}

func TestGetByNameNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty batch", func(mt *mtest.T) {
		repo := newExerciseRepoForTest(mt, primitive.NewObjectID())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fitness.exercises", mtest.FirstBatch))

		_, err := repo.GetByName(context.Background(), "Nope")
		if !errors.Is(err, repository.ErrNotFound) {
			mt.Fatalf("got=%v want=%v", err, repository.ErrNotFound)
		}
	})
}
