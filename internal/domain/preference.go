package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// FitnessGoal is what a plan is optimised for.
type FitnessGoal string

const (
	GoalWeightLoss     FitnessGoal = "weight_loss"
	GoalMuscleGain     FitnessGoal = "muscle_gain"
	GoalEndurance      FitnessGoal = "endurance"
	GoalFlexibility    FitnessGoal = "flexibility"
	GoalGeneralFitness FitnessGoal = "general_fitness"
)

// FitnessGoals lists valid goals in display order.
var FitnessGoals = []FitnessGoal{GoalWeightLoss, GoalMuscleGain, GoalEndurance, GoalFlexibility, GoalGeneralFitness}

// Valid reports whether g is one of FitnessGoals.
func (g FitnessGoal) Valid() bool {
	for _, v := range FitnessGoals {
		if g == v {
			return true
		}
	}
	return false
}

// FitnessLevel doubles as exercise difficulty.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

var FitnessLevels = []FitnessLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}

func (l FitnessLevel) Valid() bool {
	for _, v := range FitnessLevels {
		if l == v {
			return true
		}
	}
	return false
}

// PreferenceRecord is validated user input driving one generation request.
// It is never persisted. List fields are always non-nil.
type PreferenceRecord struct {
	UserID             primitive.ObjectID
	FitnessGoal        FitnessGoal
	FitnessLevel       FitnessLevel
	DaysPerWeek        int
	TimePerWorkout     int // minutes
	PlanName           string
	AvailableEquipment []string
	FocusAreas         []string
	Injuries           []string
	ExcludedExercises  []string
}
