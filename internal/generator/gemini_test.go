package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"fitnessallies/backend/internal/config"
	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/logger"
)

type fakeModels struct {
	calls  int
	model  string
	prompt string
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	for _, c := range contents {
		for _, p := range c.Parts {
			f.prompt += p.Text
		}
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func testPrefs() *domain.PreferenceRecord {
	return &domain.PreferenceRecord{
		FitnessGoal:        domain.GoalMuscleGain,
		FitnessLevel:       domain.LevelBeginner,
		DaysPerWeek:        3,
		TimePerWorkout:     45,
		PlanName:           "Bulk",
		AvailableEquipment: []string{"dumbbells", "bench"},
		FocusAreas:         []string{"chest"},
		Injuries:           []string{"left knee"},
		ExcludedExercises:  []string{"Deadlift"},
	}
}

func TestGeminiGenerateJoinsPartsAndParses(t *testing.T) {
	models := &fakeModels{resp: textResponse("```json\n{\"workoutDays\":[{\"day\":\"Monday\",", "\"exercises\":[]}]}\n```")}
	g := NewGemini(logger.NewNop(), models, config.GeminiConfig{Model: "gemini-test"})

	plan, err := g.Generate(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if models.calls != 1 {
		t.Fatalf("calls: got=%d want=1", models.calls)
	}
	if models.model != "gemini-test" {
		t.Fatalf("model: got=%q want=%q", models.model, "gemini-test")
	}
	if len(plan.WorkoutDays) != 1 || plan.WorkoutDays[0].Day != "Monday" {
		t.Fatalf("plan: got=%+v", plan)
	}

	for _, want := range []string{"muscle_gain", "beginner", "Days Per Week: 3", "45 minutes", "dumbbells, bench", "chest", "left knee", "Deadlift", "Bulk"} {
		if !strings.Contains(models.prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestGeminiGenerateFailureKinds(t *testing.T) {
	cases := []struct {
		name   string
		models *fakeModels
		kind   FailureKind
	}{
		{"sdk error", &fakeModels{err: errors.New("quota exceeded")}, ServiceFailure},
		{"no candidates", &fakeModels{resp: &genai.GenerateContentResponse{}}, EmptyResponse},
		{"nil content", &fakeModels{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}}, EmptyResponse},
		{"no parts", &fakeModels{resp: textResponse()}, EmptyResponse},
		{"malformed", &fakeModels{resp: textResponse("{not json")}, UnparsableResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGemini(logger.NewNop(), tc.models, config.GeminiConfig{})
			_, err := g.Generate(context.Background(), testPrefs())

			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected *GenerationError, got %v", err)
			}
			if genErr.Kind != tc.kind {
				t.Fatalf("kind: got=%s want=%s", genErr.Kind, tc.kind)
			}
			if tc.models.calls != 1 {
				t.Fatalf("calls: got=%d want=1 (no retries)", tc.models.calls)
			}
		})
	}
}
