package mongo

import (
	"context"
	"errors"
	"time"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// caseInsensitive compares strings ignoring case but not diacritics.
// The unique name index is built with the same collation, so every name
// query must pass it to be served by that index.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
	newID      func() primitive.ObjectID
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
		newID:      primitive.NewObjectID,
	}
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetByName retrieves an exercise by exact, case-insensitive name.
func (r *mongoExerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	opts := options.FindOne().SetCollation(caseInsensitive)
	err := r.collection.FindOne(ctx, bson.M{"name": name}, opts).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// FindOrCreateByName upserts with $setOnInsert so an existing entry is returned
// untouched and a missing one is inserted in the same round trip.
func (r *mongoExerciseRepository) FindOrCreateByName(ctx context.Context, candidate *domain.Exercise) (*domain.Exercise, bool, error) {
	if candidate == nil || candidate.Name == "" {
		return nil, false, errors.New("exercise name is required")
	}

	newID := r.newID()
	now := time.Now().UTC()

	muscleGroups := candidate.MuscleGroups
	if muscleGroups == nil {
		muscleGroups = []domain.MuscleGroup{}
	}
	equipment := candidate.Equipment
	if equipment == nil {
		equipment = []string{}
	}

	// name comes from the equality filter on insert.
	filter := bson.M{"name": candidate.Name}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":          newID,
			"description":  candidate.Description,
			"type":         candidate.Type,
			"muscleGroups": muscleGroups,
			"equipment":    equipment,
			"difficulty":   candidate.Difficulty,
			"createdAt":    now,
			"updatedAt":    now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetCollation(caseInsensitive)

	var exercise domain.Exercise
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&exercise)
	if err != nil {
		// Two concurrent upserts can both miss and race on the unique index.
		// The loser reads the winner's document.
		if mongo.IsDuplicateKeyError(err) {
			existing, getErr := r.GetByName(ctx, candidate.Name)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return &exercise, exercise.ID == newID, nil
}

// List returns catalog entries sorted by name, optionally filtered by type.
func (r *mongoExerciseRepository) List(ctx context.Context, exerciseType domain.ExerciseType, limit int64) ([]domain.Exercise, error) {
	filter := bson.M{}
	if exerciseType != "" {
		filter["type"] = exerciseType
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetCollation(caseInsensitive)
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.Exercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Backs the catalog's case-insensitive uniqueness.
			Keys: bson.D{{Key: "name", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetCollation(caseInsensitive).
				SetName("exercise_name_ci_unique"),
		},
		{
			Keys:    bson.D{{Key: "type", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
