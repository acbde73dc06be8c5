package exercise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stefego2-arch/Avatar/internal/llm"
)

// BatchRequest describes one generative fetch.
type BatchRequest struct {
	Topic         string
	Grade         int
	Subject       string
	TheoryContext string
	Count         int
	Phase         Phase
	LessonID      string
}

// Generator produces exercises on demand.
type Generator interface {
	// GenerateBatch returns an ordered batch. Every returned exercise
	// has passed boundary validation; malformed items are dropped, not
	// substituted.
	GenerateBatch(ctx context.Context, req BatchRequest) ([]*Exercise, error)
}

// LLMGenerator implements Generator on the model provider.
type LLMGenerator struct {
	provider llm.Provider
	cfg      GeneratorConfig
	log      zerolog.Logger
}

// GeneratorConfig tunes batch generation.
type GeneratorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGeneratorConfig returns standard generation settings.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// NewLLMGenerator creates a generator over the given provider.
func NewLLMGenerator(provider llm.Provider, cfg GeneratorConfig, log zerolog.Logger) *LLMGenerator {
	return &LLMGenerator{
		provider: provider,
		cfg:      cfg,
		log:      log.With().Str("component", "exercise-gen").Logger(),
	}
}

// batchOutput is the raw response shape before validation.
type batchOutput struct {
	Exercises []exerciseOutput `json:"exercises"`
}

type exerciseOutput struct {
	Statement   string `json:"statement"`
	Answer      string `json:"answer"`
	Difficulty  string `json:"difficulty"`
	Hint1       string `json:"hint1"`
	Hint2       string `json:"hint2"`
	Hint3       string `json:"hint3"`
	Explanation string `json:"explanation"`
}

func (g *LLMGenerator) GenerateBatch(ctx context.Context, req BatchRequest) ([]*Exercise, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: generatorSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildBatchMessage(req)},
		},
		Schema:      BatchSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("batch generation: %w", err)
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse batch response: %w", err)
	}

	exercises := make([]*Exercise, 0, len(out.Exercises))
	for _, raw := range out.Exercises {
		ex := &Exercise{
			ID:          uuid.NewString(),
			LessonID:    req.LessonID,
			Phase:       req.Phase,
			Statement:   raw.Statement,
			Answer:      raw.Answer,
			Difficulty:  Difficulty(raw.Difficulty),
			Hints:       collectHints(raw.Hint1, raw.Hint2, raw.Hint3),
			Explanation: raw.Explanation,
		}
		if err := ex.Validate(); err != nil {
			var integrity *DataIntegrityError
			if errors.As(err, &integrity) {
				g.log.Warn().Str("exercise", integrity.ID).Str("reason", integrity.Reason).
					Msg("discarding malformed generated exercise")
				continue
			}
			return nil, err
		}
		exercises = append(exercises, ex)
	}

	return exercises, nil
}

// collectHints keeps the non-empty hints in order. A gap ends the
// sequence: hint3 without hint2 would break the reveal order.
func collectHints(hints ...string) []string {
	var out []string
	for _, h := range hints {
		if h == "" {
			break
		}
		out = append(out, h)
	}
	return out
}
