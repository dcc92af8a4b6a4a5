package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"agrisakhi/api/internal/classifier"
	"agrisakhi/api/internal/plant"
	"agrisakhi/api/internal/util"
)

const DefaultVisionModel = "gemini-1.5-flash"

const visionPrompt = `You are an expert plant pathologist. Analyze this plant image and identify any diseases.

IMPORTANT: Your response MUST be in this EXACT JSON format (no markdown, no code blocks, just raw JSON):
[
  {"label": "Plant___Disease_Name", "score": 0.XX},
  {"label": "Alternative___Disease", "score": 0.XX}
]

Rules:
1. Use underscores and triple underscores like: "Tomato___Late_blight" or "Potato___Early_blight"
2. If healthy, use format: "PlantName___healthy"
3. Score must be between 0 and 1 (confidence level)
4. Return top 5 possibilities
5. Most likely disease should have highest score
6. ONLY return the JSON array, nothing else

Common diseases format examples:
- Tomato___Late_blight
- Tomato___Early_blight
- Potato___Late_blight
- Corn___Northern_Leaf_Blight
- Apple___Apple_scab
- Grape___Black_rot
- Strawberry___Leaf_scorch
- Pepper___Bacterial_spot`

// Generator is the part of Client the vision provider needs.
type Generator interface {
	Generate(ctx context.Context, p GenerateParams) (string, error)
}

// Vision classifies plant photos with a Gemini multimodal model.
type Vision struct {
	gen   Generator
	model string
}

func NewVision(gen Generator, model string) *Vision {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultVisionModel
	}
	return &Vision{gen: gen, model: model}
}

func (v *Vision) Name() string     { return plant.SourceGemini }
func (v *Vision) GetModel() string { return v.model }

func (v *Vision) Classify(ctx context.Context, image []byte, mime string) ([]plant.Prediction, error) {
	txt, err := v.gen.Generate(ctx, GenerateParams{
		Model:       v.model,
		Prompt:      visionPrompt,
		Image:       image,
		ImageMIME:   mime,
		Temperature: ptrFloat32(0),
	})
	if err != nil {
		return nil, err
	}
	return DecodePredictions(txt)
}

type rawPrediction struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// DecodePredictions reads the model's JSON array of {label, score}, tolerating
// Markdown fences and surrounding prose. Anything else is ErrMalformedResponse.
func DecodePredictions(text string) ([]plant.Prediction, error) {
	s := util.StripCodeFences(text)
	if s == "" {
		return nil, fmt.Errorf("%w: empty response", classifier.ErrMalformedResponse)
	}
	if !strings.HasPrefix(s, "[") {
		s = util.ExtractJSONArray(s)
	}

	var raw []rawPrediction
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", classifier.ErrMalformedResponse, err)
	}

	out := make([]plant.Prediction, 0, len(raw))
	for _, r := range raw {
		label := strings.TrimSpace(r.Label)
		if label == "" || r.Score == nil {
			continue
		}
		out = append(out, plant.Prediction{Label: label, Score: *r.Score})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no usable predictions", classifier.ErrMalformedResponse)
	}
	return out, nil
}
