package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"agrisakhi/api/internal/errors"
	"agrisakhi/api/internal/logger"
	"agrisakhi/api/internal/plant"
)

const defaultAttemptTimeout = 10 * time.Second

// Gateway tries its providers strictly in order; the first success wins. The
// fallback runs last, without the per-attempt timeout, and is expected to
// always succeed.
type Gateway struct {
	providers []Provider
	fallback  Provider
	timeout   time.Duration
	recorder  AttemptRecorder
	log       *slog.Logger
}

type Option func(*Gateway)

func WithProvider(p Provider) Option {
	return func(g *Gateway) {
		if p != nil {
			g.providers = append(g.providers, p)
		}
	}
}

func WithAttemptTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithRecorder(r AttemptRecorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

func NewGateway(fallback Provider, opts ...Option) *Gateway {
	g := &Gateway{
		fallback: fallback,
		timeout:  defaultAttemptTimeout,
		log:      logger.Module("classifier"),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Providers lists the configured provider names in attempt order, fallback last.
func (g *Gateway) Providers() []string {
	names := make([]string, 0, len(g.providers)+1)
	for _, p := range g.providers {
		names = append(names, p.Name())
	}
	if g.fallback != nil {
		names = append(names, g.fallback.Name())
	}
	return names
}

// Classify returns the first successful provider's normalised predictions.
// Provider failures are logged and never surfaced; an error is only returned
// when the fallback itself fails, which in practice means ctx was cancelled.
func (g *Gateway) Classify(ctx context.Context, image []byte, mime string) (Classification, error) {
	for _, p := range g.providers {
		if err := ctx.Err(); err != nil {
			return Classification{}, err
		}
		preds, err := g.attempt(ctx, p, image, mime, g.timeout)
		if err != nil {
			g.log.Warn("provider failed, falling back",
				"provider", p.Name(), "error", err)
			continue
		}
		return Classification{Predictions: preds, Source: p.Name()}, nil
	}

	if g.fallback == nil {
		return Classification{}, errors.Newf("no classification provider available").
			Component("classifier").
			Category(errors.CategoryProvider).
			Build()
	}
	preds, err := g.attempt(ctx, g.fallback, image, mime, 0)
	if err != nil {
		return Classification{}, errors.New(fmt.Errorf("fallback %s: %w", g.fallback.Name(), err)).
			Component("classifier").
			Category(errors.CategoryProvider).
			Build()
	}
	return Classification{
		Predictions: preds,
		Source:      g.fallback.Name(),
		Demo:        g.fallback.Name() == plant.SourceDemo,
	}, nil
}

func (g *Gateway) attempt(ctx context.Context, p Provider, image []byte, mime string, timeout time.Duration) ([]plant.Prediction, error) {
	actx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	preds, err := p.Classify(actx, image, mime)
	if err == nil {
		preds = Normalize(preds)
		if len(preds) == 0 {
			err = ErrNoPredictions
		}
	}
	elapsed := time.Since(start)

	if g.recorder != nil {
		g.recorder.RecordProviderAttempt(p.Name(), err == nil, elapsed.Seconds())
	}
	if err != nil {
		return nil, err
	}
	g.log.Debug("provider succeeded",
		"provider", p.Name(),
		"top", preds[0].Label,
		"score", preds[0].Score,
		"duration_ms", elapsed.Milliseconds())
	return preds, nil
}
