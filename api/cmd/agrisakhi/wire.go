package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"agrisakhi/api/internal/chat"
	"agrisakhi/api/internal/classifier"
	"agrisakhi/api/internal/classifier/demo"
	"agrisakhi/api/internal/classifier/gemini"
	"agrisakhi/api/internal/classifier/huggingface"
	"agrisakhi/api/internal/config"
	"agrisakhi/api/internal/events"
	"agrisakhi/api/internal/handle"
	"agrisakhi/api/internal/logger"
	"agrisakhi/api/internal/observability"
	"agrisakhi/api/internal/pipeline"
	"agrisakhi/api/internal/report"
	"agrisakhi/api/internal/store"
)

// app holds every long-lived component built from the configuration.
type app struct {
	cfg       *config.Config
	registry  *prometheus.Registry
	metrics   *observability.Metrics
	history   *store.History
	gateway   *classifier.Gateway
	pipeline  *pipeline.Service
	assistant *chat.Assistant
	gemini    *gemini.Client
	renderer  *report.Renderer
	publisher events.Publisher

	closers []func() error
	log     *slog.Logger
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, publisher: events.Nop{}, log: logger.Module("main")}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := observability.NewMetrics(a.registry)
	if err != nil {
		return nil, err
	}
	a.metrics = m

	kv, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.history = store.NewHistory(kv,
		store.WithCap(cfg.History.Cap),
		store.WithRetryRecorder(m))

	theme, err := report.ThemeByName(cfg.Report.Theme)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.renderer = report.NewRenderer(theme)

	opts := []classifier.Option{
		classifier.WithAttemptTimeout(cfg.Classifier.Timeout),
		classifier.WithRecorder(m),
	}
	if cfg.GeminiConfigured() {
		a.gemini = gemini.NewClient(cfg.Gemini.APIKey)
		opts = append(opts, classifier.WithProvider(gemini.NewVision(a.gemini, cfg.Gemini.VisionModel)))
		a.assistant = chat.NewAssistant(a.gemini, cfg.Gemini.ChatModel, m)
	}
	if cfg.HuggingFaceConfigured() {
		opts = append(opts, classifier.WithProvider(
			huggingface.New(cfg.HuggingFace.APIKey, cfg.HuggingFace.Model, cfg.HuggingFace.BaseURL, nil)))
	}
	a.gateway = classifier.NewGateway(demo.New(demo.WithDelay(cfg.Classifier.DemoDelay)), opts...)
	if !cfg.GeminiConfigured() && !cfg.HuggingFaceConfigured() {
		a.log.Warn("no classifier credentials configured, running in demo mode")
	}

	if cfg.MQTT.Enabled {
		c, err := events.Connect(events.BrokerConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		})
		if err != nil {
			// detections still work without the event feed
			a.log.Warn("mqtt unavailable, events disabled", "broker", cfg.MQTT.Broker, "error", err)
		} else {
			a.publisher = events.NewMQTTPublisher(c, cfg.MQTT.Topic, cfg.MQTT.QoS)
		}
	}

	a.pipeline = pipeline.NewService(a.gateway, a.history,
		pipeline.WithPublisher(a.publisher),
		pipeline.WithRecorder(m))

	a.log.Info("components ready",
		"providers", a.gateway.Providers(),
		"history_backend", cfg.History.Backend,
		"report_theme", theme.Name,
		"mqtt", cfg.MQTT.Enabled)
	return a, nil
}

func (a *app) openStore(ctx context.Context) (store.KV, error) {
	cfg := a.cfg
	switch cfg.History.Backend {
	case config.BackendPostgres:
		db, err := store.OpenPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		kv := store.NewPostgresKV(db, cfg.History.MaxValueBytes)
		if err := kv.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate kv_store: %w", err)
		}
		a.log.Info("db connected", "dsn", config.SafeDSNSummary(cfg.Database.URL))
		return kv, nil
	case config.BackendSQLite:
		kv, err := store.OpenSQLite(cfg.History.SQLitePath, cfg.History.MaxValueBytes)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, kv.Close)
		return kv, nil
	default:
		return store.NewMemoryKV(cfg.History.MaxValueBytes), nil
	}
}

// handler exposes the HTTP API over the app's components.
func (a *app) handler() *handle.Handle {
	d := handle.Deps{
		Classifier: a.gateway,
		Pipeline:   a.pipeline,
		History:    a.history,
		Renderer:   a.renderer,
		Metrics:    a.metrics,
		Providers:  a.gateway.Providers(),
		Timeout:    a.cfg.Server.RequestTimeout,
		Env: handle.Env{
			GeminiKey:      a.cfg.Gemini.APIKey,
			HuggingFaceKey: a.cfg.HuggingFace.APIKey,
			VisionModel:    a.cfg.Gemini.VisionModel,
			ChatModel:      a.cfg.Gemini.ChatModel,
			HFModel:        a.cfg.HuggingFace.Model,
			Backend:        a.cfg.History.Backend,
			Environment:    a.cfg.Sentry.Environment,
		},
	}
	// nil interfaces, not typed nils, when Gemini is off
	if a.assistant != nil {
		d.Assistant = a.assistant
	}
	if a.gemini != nil {
		d.Models = a.gemini
	}
	return handle.New(d)
}

// Close flushes pending events and releases the store.
func (a *app) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", "error", err)
		}
	}
}
