// Package httpserver wraps echo with the middleware stack, /healthz and /metrics.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agrisakhi/api/internal/logger"
)

type Config struct {
	Addr        string
	BodyLimit   string
	HealthzBody string
	// TooLargeMessage replaces echo's text for 413 responses.
	TooLargeMessage string
}

// Registrar mounts routes on the server.
type Registrar interface {
	Register(e *echo.Echo)
}

type Server struct {
	e    *echo.Echo
	addr string
	log  *slog.Logger
}

// New builds the server. registry may be nil, in which case /metrics is not mounted.
func New(cfg Config, registry *prometheus.Registry, routes ...Registrar) *Server {
	log := logger.Module("httpserver")
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.HTTPErrorHandler = errorHandler(cfg, log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}
	e.Use(requestLogger(log))

	body := cfg.HealthzBody
	if body == "" {
		body = "ok"
	}
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, body)
	})
	if registry != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			ErrorHandling: promhttp.HTTPErrorOnError,
		})))
	}
	for _, r := range routes {
		r.Register(e)
	}
	return &Server{e: e, addr: cfg.Addr, log: log}
}

// Echo exposes the router, e.g. for mounting the Telegram webhook.
func (s *Server) Echo() *echo.Echo { return s.e }

// Start blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("listening", "addr", s.addr)
	if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// errorHandler writes echo-generated errors in the API's {"error": ...} shape.
func errorHandler(cfg Config, log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		} else {
			log.Error("unhandled error", "path", c.Request().URL.Path, "error", err)
			msg = "internal server error"
		}
		if code == http.StatusRequestEntityTooLarge && cfg.TooLargeMessage != "" {
			msg = cfg.TooLargeMessage
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]string{"error": msg})
		}
		if err != nil {
			log.Warn("write error response", "error", err)
		}
	}
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/healthz" || p == "/metrics"
		},
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				level = slog.LevelWarn
			}
			log.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
