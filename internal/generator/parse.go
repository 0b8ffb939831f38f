package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fitnessallies/backend/internal/domain"
)

var errNoWorkoutDays = errors.New(`reply has no "workoutDays" array`)

// ParsePlan extracts the plan object from a model reply. Fenced and bare
// replies parse identically.
func ParsePlan(text string) (*domain.RawPlan, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newGenerationError(EmptyResponse, nil)
	}

	cleaned := extractJSON(text)

	var envelope struct {
		WorkoutDays *[]domain.RawWorkoutDay `json:"workoutDays"`
	}
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, newGenerationError(UnparsableResponse, fmt.Errorf("decode plan: %w", err))
	}
	if envelope.WorkoutDays == nil {
		return nil, newGenerationError(UnparsableResponse, errNoWorkoutDays)
	}

	plan := &domain.RawPlan{WorkoutDays: *envelope.WorkoutDays}
	for i := range plan.WorkoutDays {
		if plan.WorkoutDays[i].Exercises == nil {
			plan.WorkoutDays[i].Exercises = []domain.RawExercise{}
		}
	}
	return plan, nil
}

// extractJSON strips markdown fences, narrows to the outermost object and
// drops // comments the model copies from the example.
func extractJSON(s string) string {
	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+len("```json"):]
	} else if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return s
	}
	s = s[start : end+1]

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = removeLineComment(line)
	}
	return strings.Join(lines, "\n")
}

// removeLineComment cuts a trailing // comment that is not inside a string.
func removeLineComment(line string) string {
	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == '/' && i+1 < len(line) && line[i+1] == '/':
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}
