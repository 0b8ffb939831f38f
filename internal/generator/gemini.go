package generator

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"fitnessallies/backend/internal/config"
	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/logger"
	"fitnessallies/backend/internal/observability"
)

// ContentGenerator is the slice of the genai SDK the adapter needs.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiClient creates the SDK client for the Gemini developer API.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*genai.Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// Gemini implements PlanGenerator on top of a Gemini model.
type Gemini struct {
	log     *logger.Logger
	models  ContentGenerator
	model   string
	timeout time.Duration
}

func NewGemini(log *logger.Logger, models ContentGenerator, cfg config.GeminiConfig) *Gemini {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Gemini{
		log:     log.With("service", "GeminiPlanGenerator"),
		models:  models,
		model:   model,
		timeout: cfg.Timeout,
	}
}

func (g *Gemini) Generate(ctx context.Context, prefs *domain.PreferenceRecord) (*domain.RawPlan, error) {
	ctx, span := otel.Tracer(observability.TracerName).Start(ctx, "generator.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", g.model),
		attribute.String("plan.goal", string(prefs.FitnessGoal)),
		attribute.Int("plan.days_per_week", prefs.DaysPerWeek),
	)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(prefs)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, g.fail(span, newGenerationError(ServiceFailure, err))
	}

	plan, err := ParsePlan(responseText(resp))
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			return nil, g.fail(span, genErr)
		}
		return nil, g.fail(span, newGenerationError(UnparsableResponse, err))
	}

	g.log.Debug("plan generated",
		"model", g.model,
		"days", len(plan.WorkoutDays),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return plan, nil
}

func (g *Gemini) fail(span trace.Span, genErr *GenerationError) error {
	span.RecordError(genErr)
	span.SetStatus(codes.Error, genErr.Kind.String())
	g.log.Error("plan generation failed", "model", g.model, "kind", genErr.Kind.String(), "error", genErr.Err)
	return genErr
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
