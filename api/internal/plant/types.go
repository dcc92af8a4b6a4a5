// Package plant holds the detection data model shared by the classifier,
// the store, the report renderer and the transports.
package plant

import "time"

// ModelVersion is stamped on every result.
const ModelVersion = "production-v1.0.0"

// Provider tags.
const (
	SourceGemini      = "gemini"
	SourceHuggingFace = "huggingface"
	SourceDemo        = "demo"
)

type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type AlternativeDisease struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type Metadata struct {
	InferenceTime int64  `json:"inferenceTime"` // ms
	ModelVersion  string `json:"modelVersion"`
	ImageQuality  int    `json:"imageQuality"`
}

type DetectionResult struct {
	Disease             string               `json:"disease"`
	Confidence          float64              `json:"confidence"`
	Severity            int                  `json:"severity"`
	AffectedArea        float64              `json:"affectedArea"`
	AlternativeDiseases []AlternativeDisease `json:"alternativeDiseases"`
	Metadata            Metadata             `json:"metadata"`
	ImageURL            string               `json:"imageUrl"`
	Timestamp           time.Time            `json:"timestamp"`
	Source              string               `json:"source,omitempty"`
}

// DetectionRecord is a DetectionResult as kept in a user's history.
type DetectionRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	CropType  string    `json:"cropType"`
	DetectionResult
}

// Alternatives maps predictions 2..5 to alternative diseases.
func Alternatives(preds []Prediction) []AlternativeDisease {
	out := make([]AlternativeDisease, 0, 4)
	for i := 1; i < len(preds) && i < 5; i++ {
		out = append(out, AlternativeDisease{Name: preds[i].Label, Confidence: preds[i].Score})
	}
	return out
}
