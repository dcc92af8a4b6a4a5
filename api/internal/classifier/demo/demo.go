// Package demo is the offline fallback classifier: fixed, plausible prediction
// sets returned after a short delay so the product stays usable without keys.
package demo

import (
	"context"
	"math/rand/v2"
	"time"

	"agrisakhi/api/internal/plant"
)

const DefaultDelay = 1500 * time.Millisecond

// Base is returned half of the time.
var Base = []plant.Prediction{
	{Label: "Tomato___Late_blight", Score: 0.87},
	{Label: "Tomato___Early_blight", Score: 0.06},
	{Label: "Potato___Late_blight", Score: 0.03},
	{Label: "Tomato___Septoria_leaf_spot", Score: 0.02},
	{Label: "Tomato___healthy", Score: 0.02},
}

// Variants share the other half uniformly.
var Variants = [][]plant.Prediction{
	{
		{Label: "Strawberry___Leaf_scorch", Score: 0.92},
		{Label: "Strawberry___healthy", Score: 0.04},
		{Label: "Raspberry___healthy", Score: 0.02},
		{Label: "Grape___Black_rot", Score: 0.01},
		{Label: "Grape___healthy", Score: 0.01},
	},
	{
		{Label: "Corn___Northern_Leaf_Blight", Score: 0.89},
		{Label: "Corn___Common_rust_", Score: 0.07},
		{Label: "Corn___healthy", Score: 0.03},
		{Label: "Potato___Early_blight", Score: 0.01},
	},
	{
		{Label: "Apple___Apple_scab", Score: 0.84},
		{Label: "Apple___Cedar_apple_rust", Score: 0.09},
		{Label: "Apple___Black_rot", Score: 0.04},
		{Label: "Apple___healthy", Score: 0.03},
	},
	{
		{Label: "Grape___Black_rot", Score: 0.91},
		{Label: "Grape___Esca__(Black_Measles)", Score: 0.05},
		{Label: "Grape___Leaf_blight_(Isariopsis_Leaf_Spot)", Score: 0.02},
		{Label: "Grape___healthy", Score: 0.02},
	},
}

// Presets returns every preset, base first.
func Presets() [][]plant.Prediction {
	return append([][]plant.Prediction{Base}, Variants...)
}

type Provider struct {
	delay time.Duration
	intn  func(n int) int
}

type Option func(*Provider)

func WithDelay(d time.Duration) Option {
	return func(p *Provider) {
		if d >= 0 {
			p.delay = d
		}
	}
}

// WithRand replaces the random source; intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(p *Provider) {
		if intn != nil {
			p.intn = intn
		}
	}
}

func New(opts ...Option) *Provider {
	p := &Provider{delay: DefaultDelay, intn: rand.IntN}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Provider) Name() string { return plant.SourceDemo }

// Classify never touches the network; it fails only when ctx ends during the delay.
func (p *Provider) Classify(ctx context.Context, _ []byte, _ string) ([]plant.Prediction, error) {
	if p.delay > 0 {
		t := time.NewTimer(p.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return clone(p.pick()), nil
}

func (p *Provider) pick() []plant.Prediction {
	if p.intn(2) == 0 {
		return Base
	}
	return Variants[p.intn(len(Variants))]
}

func clone(preds []plant.Prediction) []plant.Prediction {
	out := make([]plant.Prediction, len(preds))
	copy(out, preds)
	return out
}
