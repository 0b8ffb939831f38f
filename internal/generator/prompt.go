package generator

import (
	"fmt"
	"strings"

	"fitnessallies/backend/internal/domain"
)

// examplePlan shows the model the exact shape ParsePlan accepts.
const examplePlan = `{
  "workoutDays": [
    {
      "day": "Monday",
      "exercises": [
        {
          "name": "Barbell Bench Press",
          "sets": 3,
          "reps": 8,
          "notes": "Focus on proper form."
        },
        {
          "name": "Barbell Rows",
          "sets": 3,
          "reps": 8,
          "notes": "Keep your back straight."
        }
      ]
    },
    {
      "day": "Wednesday",
      "exercises": [
        // ... more exercises
      ]
    },
    {
      "day": "Friday",
      "exercises": [
        // etc
      ]
    }
  ]
}`

// BuildPrompt renders every preference field into the generation prompt.
func BuildPrompt(prefs *domain.PreferenceRecord) string {
	var sb strings.Builder

	sb.WriteString("Generate a workout plan for a user with the following preferences:\n")
	sb.WriteString(fmt.Sprintf("Fitness Goal: %s\n", prefs.FitnessGoal))
	sb.WriteString(fmt.Sprintf("Fitness Level: %s\n", prefs.FitnessLevel))
	sb.WriteString(fmt.Sprintf("Days Per Week: %d\n", prefs.DaysPerWeek))
	sb.WriteString(fmt.Sprintf("Time Per Workout: %d minutes\n", prefs.TimePerWorkout))
	sb.WriteString(fmt.Sprintf("Available Equipment: %s\n", strings.Join(prefs.AvailableEquipment, ", ")))
	sb.WriteString(fmt.Sprintf("Focus Areas: %s\n", strings.Join(prefs.FocusAreas, ", ")))
	sb.WriteString(fmt.Sprintf("Injuries: %s\n", strings.Join(prefs.Injuries, ", ")))
	sb.WriteString(fmt.Sprintf("Excluded Exercises: %s\n", strings.Join(prefs.ExcludedExercises, ", ")))
	sb.WriteString(fmt.Sprintf("Plan Name: %s\n\n", prefs.PlanName))

	sb.WriteString("Return the plan as JSON. The JSON must contain a \"workoutDays\" array with exactly ")
	sb.WriteString(fmt.Sprintf("%d elements, one per workout day. ", prefs.DaysPerWeek))
	sb.WriteString("Each workout day has a \"day\" field holding a weekday name (e.g. \"Monday\") and an ")
	sb.WriteString("\"exercises\" array. Each exercise has \"name\", \"sets\", \"reps\" and \"notes\".\n\n")

	sb.WriteString("Example JSON format:\n")
	sb.WriteString(examplePlan)
	sb.WriteString("\n")

	return sb.String()
}
