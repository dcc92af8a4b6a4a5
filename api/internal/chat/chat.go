// Package chat is the Sakhi-AI farming assistant behind /api/chat.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"agrisakhi/api/internal/classifier/gemini"
	apperrors "agrisakhi/api/internal/errors"
	"agrisakhi/api/internal/logger"
)

const (
	DefaultModel = "gemini-2.5-flash"

	temperature     float32 = 0.7
	maxOutputTokens int32   = 1024

	// Fallback is returned when the model answers with no text.
	Fallback = "Sorry, I could not generate a response."

	systemPrompt = `You are Sakhi-AI, an expert agricultural assistant for AgriSakhi app. You help farmers with:
- Plant disease identification and treatment
- Crop management advice
- Organic and chemical treatment recommendations
- Weather-based farming guidance
- Best agricultural practices

Be helpful, concise, and practical. Respond in the same language as the user's question. If asked in Hindi, respond in Hindi. If asked in Kannada, respond in Kannada.`
)

var (
	ErrEmptyMessage  = errors.New("message is required")
	ErrNotConfigured = errors.New("gemini API key not configured")
)

// Outcome labels for chat metrics.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

type Recorder interface {
	RecordChat(outcome string)
}

type Assistant struct {
	gen      gemini.Generator
	model    string
	recorder Recorder
	log      *slog.Logger
}

// NewAssistant returns an assistant; gen may be nil when no key is configured,
// in which case every Reply fails with ErrNotConfigured.
func NewAssistant(gen gemini.Generator, model string, rec Recorder) *Assistant {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Assistant{gen: gen, model: model, recorder: rec, log: logger.Module("chat")}
}

func (a *Assistant) Model() string { return a.model }

func (a *Assistant) Reply(ctx context.Context, message string) (string, error) {
	if a.gen == nil {
		return "", ErrNotConfigured
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	t, n := temperature, maxOutputTokens
	text, err := a.gen.Generate(ctx, gemini.GenerateParams{
		Model:           a.model,
		System:          systemPrompt,
		Prompt:          message,
		Temperature:     &t,
		MaxOutputTokens: &n,
	})
	if err != nil {
		a.record(OutcomeError)
		if errors.Is(err, gemini.ErrNoAPIKey) {
			return "", ErrNotConfigured
		}
		a.log.Error("chat generation failed", "model", a.model, "error", err)
		return "", apperrors.New(fmt.Errorf("failed to get AI response: %w", err)).
			Component("chat").
			Category(apperrors.CategoryProvider).
			Context("model", a.model).
			Build()
	}
	if strings.TrimSpace(text) == "" {
		a.record(OutcomeFallback)
		return Fallback, nil
	}
	a.record(OutcomeOK)
	return text, nil
}

func (a *Assistant) record(outcome string) {
	if a.recorder != nil {
		a.recorder.RecordChat(outcome)
	}
}
