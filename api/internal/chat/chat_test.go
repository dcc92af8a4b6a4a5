package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrisakhi/api/internal/classifier/gemini"
	apperrors "agrisakhi/api/internal/errors"
)

type fakeGenerator struct {
	text string
	err  error
	got  gemini.GenerateParams
}

func (f *fakeGenerator) Generate(_ context.Context, p gemini.GenerateParams) (string, error) {
	f.got = p
	return f.text, f.err
}

type outcomes []string

func (o *outcomes) RecordChat(outcome string) { *o = append(*o, outcome) }

func TestReplyUsesAssistantPrompt(t *testing.T) {
	gen := &fakeGenerator{text: "Spray neem oil every 7 days."}
	var rec outcomes
	a := NewAssistant(gen, "", &rec)

	got, err := a.Reply(context.Background(), "  How do I treat early blight?  ")
	require.NoError(t, err)
	assert.Equal(t, "Spray neem oil every 7 days.", got)

	assert.Equal(t, DefaultModel, gen.got.Model)
	assert.Equal(t, "How do I treat early blight?", gen.got.Prompt)
	assert.Contains(t, gen.got.System, "Sakhi-AI")
	require.NotNil(t, gen.got.Temperature)
	assert.InDelta(t, 0.7, *gen.got.Temperature, 1e-6)
	require.NotNil(t, gen.got.MaxOutputTokens)
	assert.Equal(t, int32(1024), *gen.got.MaxOutputTokens)
	assert.Equal(t, outcomes{OutcomeOK}, rec)
}

func TestReplyEmptyMessage(t *testing.T) {
	a := NewAssistant(&fakeGenerator{}, "", nil)
	_, err := a.Reply(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestReplyNotConfigured(t *testing.T) {
	_, err := NewAssistant(nil, "", nil).Reply(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)

	gen := &fakeGenerator{err: gemini.ErrNoAPIKey}
	_, err = NewAssistant(gen, "", nil).Reply(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestReplyEmptyOutputFallsBack(t *testing.T) {
	var rec outcomes
	a := NewAssistant(&fakeGenerator{text: " \n"}, "gemini-custom", &rec)

	got, err := a.Reply(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, Fallback, got)
	assert.Equal(t, "gemini-custom", a.Model())
	assert.Equal(t, outcomes{OutcomeFallback}, rec)
}

func TestReplyProviderError(t *testing.T) {
	var rec outcomes
	a := NewAssistant(&fakeGenerator{err: errors.New("quota exhausted")}, "", &rec)

	_, err := a.Reply(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryProvider))
	assert.Contains(t, err.Error(), "quota exhausted")
	assert.Equal(t, outcomes{OutcomeError}, rec)
}
