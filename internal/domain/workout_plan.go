// internal/domain/workout_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPlanName is used when the user does not name their plan.
const DefaultPlanName = "My Workout Plan"

// ExerciseAssignment places a catalog exercise on a workout day.
type ExerciseAssignment struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Name       string             `bson:"name" json:"name"` // display name as generated
	Sets       Amount             `bson:"sets,omitempty" json:"sets,omitzero"`
	Reps       Amount             `bson:"reps,omitempty" json:"reps,omitzero"`
	Duration   Amount             `bson:"duration,omitempty" json:"duration,omitzero"` // minutes when numeric
	Weight     Amount             `bson:"weight,omitempty" json:"weight,omitzero"`
	RestTime   Amount             `bson:"restTime,omitempty" json:"restTime,omitzero"` // seconds when numeric
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Completed  bool               `bson:"completed,omitempty" json:"completed,omitempty"`

	// Populated on plan-day detail reads only.
	ExerciseDetails *Exercise `bson:"-" json:"exerciseDetails,omitempty"`
}

// WorkoutDay is one scheduled session of a plan.
type WorkoutDay struct {
	Day         string               `bson:"day" json:"day"` // e.g. "Monday"
	Exercises   []ExerciseAssignment `bson:"exercises" json:"exercises"`
	Completed   bool                 `bson:"completed" json:"completed"`
	CompletedAt *time.Time           `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// WorkoutPlan is a persisted schedule owned by a single user.
type WorkoutPlan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	FitnessGoal  FitnessGoal        `bson:"fitnessGoal" json:"fitnessGoal"`
	FitnessLevel FitnessLevel       `bson:"fitnessLevel" json:"fitnessLevel"`
	WorkoutDays  []WorkoutDay       `bson:"workoutDays" json:"workoutDays"`
	StartDate    time.Time          `bson:"startDate" json:"startDate"`
	EndDate      *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Active       bool               `bson:"active" json:"active"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GeneratedPlan is an assembled plan that has not been saved yet.
// The caller inspects it and persists it through the save operation.
type GeneratedPlan struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	FitnessGoal  FitnessGoal  `json:"fitnessGoal"`
	FitnessLevel FitnessLevel `json:"fitnessLevel"`
	WorkoutDays  []WorkoutDay `json:"workoutDays"`
}

// RawPlan is the generation service output before catalog resolution.
type RawPlan struct {
	WorkoutDays []RawWorkoutDay `json:"workoutDays"`
}

type RawWorkoutDay struct {
	Day       string        `json:"day"`
	Exercises []RawExercise `json:"exercises"`
}

type RawExercise struct {
	Name     string `json:"name"`
	Sets     Amount `json:"sets"`
	Reps     Amount `json:"reps"`
	Duration Amount `json:"duration"`
	Weight   Amount `json:"weight"`
	RestTime Amount `json:"restTime"`
	Notes    string `json:"notes"`
}
