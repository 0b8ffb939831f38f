package service

import (
	"strings"
	"unicode"

	"fitnessallies/backend/internal/domain"
)

// classificationRule assigns exerciseType when any word of the name starts
// with one of stems.
type classificationRule struct {
	exerciseType domain.ExerciseType
	stems        []string
}

// classificationRules are evaluated in order; the first match wins.
var classificationRules = []classificationRule{
	{
		exerciseType: domain.ExerciseTypeCardio,
		stems:        []string{"cardio", "run", "jog", "bik", "cycl", "swim", "rowing", "rower"},
	},
	{
		exerciseType: domain.ExerciseTypeFlexibility,
		stems:        []string{"stretch", "yoga", "mobility", "flexibility"},
	},
}

// ClassifyExercise guesses the type of an exercise the catalog has never
// seen. Names that match no rule are strength work.
func ClassifyExercise(name string) domain.ExerciseType {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, rule := range classificationRules {
		for _, word := range words {
			for _, stem := range rule.stems {
				if strings.HasPrefix(word, stem) {
					return rule.exerciseType
				}
			}
		}
	}
	return domain.ExerciseTypeStrength
}
