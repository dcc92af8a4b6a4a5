// Package gemini talks to Google's Gemini models: plant-disease vision
// classification, free-text chat and model listing.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var ErrNoAPIKey = errors.New("GEMINI_API_KEY is empty")

// Client opens a genai client per call; calls are infrequent and short-lived.
type Client struct {
	APIKey string
	opts   []option.ClientOption
}

func NewClient(apiKey string, opts ...option.ClientOption) *Client {
	return &Client{APIKey: strings.TrimSpace(apiKey), opts: opts}
}

// GenerateParams configures a single generation call.
type GenerateParams struct {
	Model           string
	System          string
	Prompt          string
	Image           []byte
	ImageMIME       string
	Temperature     *float32
	MaxOutputTokens *int32
}

// Generate returns the text of the first candidate, or "" when the model produced none.
func (c *Client) Generate(ctx context.Context, p GenerateParams) (string, error) {
	cl, err := c.open(ctx)
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(p.Model))
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     p.Temperature,
		MaxOutputTokens: p.MaxOutputTokens,
	}
	if s := strings.TrimSpace(p.System); s != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(s)}}
	}

	parts := []genai.Part{genai.Text(p.Prompt)}
	if len(p.Image) > 0 {
		parts = append(parts, genai.Blob{MIMEType: p.ImageMIME, Data: p.Image})
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return firstText(resp), nil
}

// ModelInfo is the subset of model metadata exposed by the diagnostics endpoint.
type ModelInfo struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	Description                string   `json:"description,omitempty"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	cl, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer cl.Close()

	var out []ModelInfo
	it := cl.ListModels(ctx)
	for {
		mi, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gemini list models: %w", err)
		}
		out = append(out, ModelInfo{
			Name:                       mi.Name,
			DisplayName:                mi.DisplayName,
			Description:                mi.Description,
			SupportedGenerationMethods: mi.SupportedGenerationMethods,
		})
	}
	return out, nil
}

func (c *Client) open(ctx context.Context) (*genai.Client, error) {
	if c.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	opts := append([]option.ClientOption{option.WithAPIKey(c.APIKey)}, c.opts...)
	return genai.NewClient(ctx, opts...)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
