// Package classifier turns a plant photo into ranked disease predictions by
// trying hosted providers in order and falling back to demo presets.
package classifier

import (
	"context"
	stderrors "errors"

	"agrisakhi/api/internal/plant"
)

var (
	// ErrMalformedResponse is returned when a provider answered with something
	// that cannot be read as a prediction list.
	ErrMalformedResponse = stderrors.New("malformed provider response")
	ErrNoPredictions     = stderrors.New("provider returned no predictions")
)

// Provider is one classification backend.
type Provider interface {
	Name() string
	Classify(ctx context.Context, image []byte, mime string) ([]plant.Prediction, error)
}

// Classification is the gateway output: predictions highest first plus the tag
// of the provider that produced them.
type Classification struct {
	Predictions []plant.Prediction `json:"results"`
	Source      string             `json:"source"`
	Demo        bool               `json:"demo,omitempty"`
}

func (c Classification) Top() plant.Prediction {
	if len(c.Predictions) == 0 {
		return plant.Prediction{}
	}
	return c.Predictions[0]
}

// AttemptRecorder observes provider attempts. observability.Metrics implements it.
type AttemptRecorder interface {
	RecordProviderAttempt(provider string, ok bool, seconds float64)
}
