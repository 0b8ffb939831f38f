// internal/repository/mongo/workout_plan_repo.go
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutPlanCollectionName = "workout_plans"

// mongoWorkoutPlanRepository implements repository.WorkoutPlanRepository
type mongoWorkoutPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutPlanRepository creates a new WorkoutPlan repository.
func NewMongoWorkoutPlanRepository(db *mongo.Database) repository.WorkoutPlanRepository {
	return &mongoWorkoutPlanRepository{
		collection: db.Collection(workoutPlanCollectionName),
	}
}

// Create inserts a new workout plan.
func (r *mongoWorkoutPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID || plan.Title == "" {
		return primitive.NilObjectID, errors.New("plan requires userId and title")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.WorkoutDays == nil {
		plan.WorkoutDays = []domain.WorkoutDay{}
	}

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout plan by its ID.
func (r *mongoWorkoutPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByUser retrieves all plans of a user, newest first.
func (r *mongoWorkoutPlanRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// ListActiveByUser retrieves the user's plans that are still active.
func (r *mongoWorkoutPlanRepository) ListActiveByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return r.find(ctx, bson.M{"userId": userID, "active": true})
}

func (r *mongoWorkoutPlanRepository) find(ctx context.Context, filter bson.M) ([]domain.WorkoutPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.WorkoutPlan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// DeleteByUser removes every plan the user owns.
func (r *mongoWorkoutPlanRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	if userID == primitive.NilObjectID {
		return 0, errors.New("user ID is required for deletion")
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteByID removes a plan only if it belongs to userID.
func (r *mongoWorkoutPlanRepository) DeleteByID(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Update applies the non-nil fields of update and returns the stored plan.
func (r *mongoWorkoutPlanRepository) Update(ctx context.Context, id, userID primitive.ObjectID, update repository.PlanUpdate) (*domain.WorkoutPlan, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.FitnessGoal != nil {
		set["fitnessGoal"] = *update.FitnessGoal
	}
	if update.FitnessLevel != nil {
		set["fitnessLevel"] = *update.FitnessLevel
	}
	if update.WorkoutDays != nil {
		set["workoutDays"] = update.WorkoutDays
	}
	if update.EndDate != nil {
		set["endDate"] = *update.EndDate
	}
	if update.Active != nil {
		set["active"] = *update.Active
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var plan domain.WorkoutPlan
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": userID}, bson.M{"$set": set}, opts).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// SetDayCompleted flips the completion flag of one day.
func (r *mongoWorkoutPlanRepository) SetDayCompleted(ctx context.Context, id primitive.ObjectID, dayIndex int, completed bool, at *time.Time) error {
	dayPath := fmt.Sprintf("workoutDays.%d", dayIndex)
	update := bson.M{
		"$set": bson.M{
			dayPath + ".completed": completed,
			"updatedAt":            time.Now().UTC(),
		},
	}
	if at != nil {
		update["$set"].(bson.M)[dayPath+".completedAt"] = *at
	}
	return r.updateElement(ctx, id, dayPath, update)
}

// SetExerciseCompleted flips the completion flag of one exercise in one day.
func (r *mongoWorkoutPlanRepository) SetExerciseCompleted(ctx context.Context, id primitive.ObjectID, dayIndex, exerciseIndex int, completed bool) error {
	exercisePath := fmt.Sprintf("workoutDays.%d.exercises.%d", dayIndex, exerciseIndex)
	update := bson.M{
		"$set": bson.M{
			exercisePath + ".completed": completed,
			"updatedAt":                 time.Now().UTC(),
		},
	}
	return r.updateElement(ctx, id, exercisePath, update)
}

// CompleteDay marks the day and every exercise in it complete.
func (r *mongoWorkoutPlanRepository) CompleteDay(ctx context.Context, id primitive.ObjectID, dayIndex int, at time.Time) error {
	dayPath := fmt.Sprintf("workoutDays.%d", dayIndex)
	update := bson.M{
		"$set": bson.M{
			dayPath + ".completed":                true,
			dayPath + ".completedAt":              at,
			dayPath + ".exercises.$[].completed": true,
			"updatedAt":                           time.Now().UTC(),
		},
	}
	return r.updateElement(ctx, id, dayPath, update)
}

// updateElement only matches when the addressed array element exists, so an
// out-of-range index is reported as not found instead of padding the array.
func (r *mongoWorkoutPlanRepository) updateElement(ctx context.Context, id primitive.ObjectID, elementPath string, update bson.M) error {
	filter := bson.M{"_id": id, elementPath: bson.M{"$exists": true}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeactivateExpired marks active plans past their end date inactive.
func (r *mongoWorkoutPlanRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"active":  true,
		"endDate": bson.M{"$lt": now},
	}
	update := bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// EnsureWorkoutPlanIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: a user's plans, newest first.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Expired-plan sweep.
			Keys:    bson.D{{Key: "active", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
