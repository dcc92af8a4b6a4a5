package errors

import (
	"fmt"

	"github.com/getsentry/sentry-go"
)

// SentryReporter forwards enhanced errors to Sentry. sentry.Init must have been called.
type SentryReporter struct {
	enabled bool
}

func NewSentryReporter(enabled bool) *SentryReporter {
	return &SentryReporter{enabled: enabled}
}

func (sr *SentryReporter) IsEnabled() bool { return sr.enabled }

func (sr *SentryReporter) ReportError(ee *EnhancedError) {
	if !sr.enabled {
		return
	}
	message := fmt.Sprintf("[%s] %s", ee.Category, ee.Err.Error())
	title := fmt.Sprintf("%s %s error", ee.Component, ee.Category)

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", ee.Component)
		scope.SetTag("category", string(ee.Category))
		scope.SetTag("error_type", fmt.Sprintf("%T", ee.Err))
		for k, v := range ee.Context {
			scope.SetContext(k, map[string]any{"value": v})
		}
		level := levelFor(ee.Category)
		scope.SetLevel(level)
		scope.SetFingerprint([]string{title, ee.Component, string(ee.Category)})

		event := sentry.NewEvent()
		event.Message = message
		event.Level = level
		event.Exception = []sentry.Exception{{Type: title, Value: message}}
		sentry.CaptureEvent(event)
	})
}

func levelFor(c ErrorCategory) sentry.Level {
	switch c {
	case CategoryProvider, CategoryNetwork, CategoryConfiguration:
		return sentry.LevelWarning
	default:
		return sentry.LevelError
	}
}
