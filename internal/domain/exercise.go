// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseType classifies a catalog exercise.
type ExerciseType string

const (
	ExerciseTypeCardio      ExerciseType = "cardio"
	ExerciseTypeStrength    ExerciseType = "strength"
	ExerciseTypeYoga        ExerciseType = "yoga"
	ExerciseTypePilates     ExerciseType = "pilates"
	ExerciseTypeFlexibility ExerciseType = "flexibility"
	ExerciseTypeHIIT        ExerciseType = "hiit"
	ExerciseTypeFunctional  ExerciseType = "functional"
)

// ExerciseTypes lists every catalog type.
var ExerciseTypes = []ExerciseType{
	ExerciseTypeCardio, ExerciseTypeStrength, ExerciseTypeYoga, ExerciseTypePilates,
	ExerciseTypeFlexibility, ExerciseTypeHIIT, ExerciseTypeFunctional,
}

func (t ExerciseType) Valid() bool {
	for _, v := range ExerciseTypes {
		if t == v {
			return true
		}
	}
	return false
}

// MuscleGroup tags which muscles an exercise targets.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleForearms   MuscleGroup = "forearms"
	MuscleQuads      MuscleGroup = "quads"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleCalves     MuscleGroup = "calves"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCore       MuscleGroup = "core"
	MuscleCardio     MuscleGroup = "cardio"
	MuscleLegs       MuscleGroup = "legs"
	MuscleFullBody   MuscleGroup = "full_body"
)

// Exercise is a canonical entry in the shared exercise catalog.
// Entries are referenced by workout plans but never owned by them.
type Exercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"` // unique, case-insensitive
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Type         ExerciseType       `bson:"type" json:"type"`
	MuscleGroups []MuscleGroup      `bson:"muscleGroups" json:"muscleGroups"`
	Equipment    []string           `bson:"equipment" json:"equipment"`
	Instructions string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Difficulty   FitnessLevel       `bson:"difficulty" json:"difficulty"`

	// Media is either an external link or an object key in the media bucket.
	// Keys are presigned on read; they never leave the API.
	VideoURL string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	ImageURL string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	VideoKey string `bson:"videoKey,omitempty" json:"-"`
	ImageKey string `bson:"imageKey,omitempty" json:"-"`

	Benefits                []string             `bson:"benefits,omitempty" json:"benefits,omitempty"`
	CaloriesBurnedPerMinute float64              `bson:"caloriesBurnedPerMinute,omitempty" json:"caloriesBurnedPerMinute,omitempty"`
	Alternatives            []primitive.ObjectID `bson:"alternatives,omitempty" json:"alternatives,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
