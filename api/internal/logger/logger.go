// Package logger builds the process-wide slog logger and hands out
// module-scoped children.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

type Config struct {
	Level  string // debug|info|warn|error
	Format string // json|text
}

var global atomic.Pointer[slog.Logger]

func New(w io.Writer, cfg Config) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(cfg.Level),
		ReplaceAttr: redactAttr,
	}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

// SetGlobal installs l as the logger returned by Module and as slog's default.
func SetGlobal(l *slog.Logger) {
	global.Store(l)
	slog.SetDefault(l)
}

func Global() *slog.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Module returns a child logger tagged with the module name.
func Module(name string) *slog.Logger {
	return Global().With("module", name)
}

// Discard is used by tests and by components constructed without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
