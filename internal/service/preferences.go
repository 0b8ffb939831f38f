package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fitnessallies/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultDaysPerWeek    = 3
	defaultTimePerWorkout = 60

	minDaysPerWeek, maxDaysPerWeek       = 1, 7
	minTimePerWorkout, maxTimePerWorkout = 15, 180
)

// RawPreferences is the decoded JSON request body, before validation.
type RawPreferences map[string]any

// NormalizePreferences verifies the token, validates the preference fields
// and fills defaults. It has no side effects beyond calling verifier.
//
// Checks run in a fixed order (token, fitnessGoal, fitnessLevel, daysPerWeek,
// timePerWorkout) and the first failure is returned.
func NormalizePreferences(raw RawPreferences, token string, verifier TokenVerifier) (*domain.PreferenceRecord, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	ownerHex, err := verifier.VerifyToken(token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrMissingToken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if ownerHex == "" {
		return nil, ErrMissingOwner
	}
	ownerID, err := primitive.ObjectIDFromHex(ownerHex)
	if err != nil {
		return nil, fmt.Errorf("%w: userId is not a valid id", ErrInvalidToken)
	}

	goal, err := enumField(raw, "fitnessGoal", domain.FitnessGoals)
	if err != nil {
		return nil, err
	}
	level, err := enumField(raw, "fitnessLevel", domain.FitnessLevels)
	if err != nil {
		return nil, err
	}

	days, err := intField(raw, "daysPerWeek", defaultDaysPerWeek)
	if err != nil || days < minDaysPerWeek || days > maxDaysPerWeek {
		return nil, &ValidationError{
			Field:   "daysPerWeek",
			Kind:    OutOfRange,
			Message: fmt.Sprintf("daysPerWeek must be between %d and %d", minDaysPerWeek, maxDaysPerWeek),
		}
	}
	minutes, err := intField(raw, "timePerWorkout", defaultTimePerWorkout)
	if err != nil || minutes < minTimePerWorkout || minutes > maxTimePerWorkout {
		return nil, &ValidationError{
			Field:   "timePerWorkout",
			Kind:    OutOfRange,
			Message: fmt.Sprintf("timePerWorkout must be between %d and %d minutes", minTimePerWorkout, maxTimePerWorkout),
		}
	}

	planName := domain.DefaultPlanName
	if s, ok := raw["planName"].(string); ok && strings.TrimSpace(s) != "" {
		planName = strings.TrimSpace(s)
	}

	return &domain.PreferenceRecord{
		UserID:             ownerID,
		FitnessGoal:        domain.FitnessGoal(goal),
		FitnessLevel:       domain.FitnessLevel(level),
		DaysPerWeek:        days,
		TimePerWorkout:     minutes,
		PlanName:           planName,
		AvailableEquipment: stringList(raw["availableEquipment"]),
		FocusAreas:         stringList(raw["focusAreas"]),
		Injuries:           stringList(raw["injuries"]),
		ExcludedExercises:  stringList(raw["excludedExercises"]),
	}, nil
}

// enumField reads a required string field that must be one of allowed.
func enumField[T ~string](raw RawPreferences, field string, allowed []T) (string, error) {
	value, present := raw[field]
	if !present || value == nil || value == "" {
		return "", &ValidationError{Field: field, Kind: MissingField, Message: field + " is required"}
	}

	s, _ := value.(string)
	for _, a := range allowed {
		if s == string(a) {
			return s, nil
		}
	}
	return "", &ValidationError{Field: field, Kind: InvalidEnum, Message: enumMessage(field, allowed)}
}

func enumMessage[T ~string](field string, allowed []T) string {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return fmt.Sprintf("%s must be one of: %s", field, strings.Join(names, ", "))
}

var errNotInteger = errors.New("not an integer")

// intField reads an optional whole number given as a JSON number or a
// numeric string. Absent, null and "" yield def.
func intField(raw RawPreferences, field string, def int) (int, error) {
	value, present := raw[field]
	if !present || value == nil {
		return def, nil
	}

	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int:
		return v, nil
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, errNotInteger
		}
		f = parsed
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return def, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errNotInteger
		}
		f = parsed
	default:
		return 0, errNotInteger
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errNotInteger
	}
	return int(f), nil
}

// stringList keeps the string elements of an array and ignores everything
// else. The result is never nil.
func stringList(value any) []string {
	out := []string{}
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, v...)
	}
	return out
}
