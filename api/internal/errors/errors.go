// Package errors wraps errors with a category, component and context so that
// handlers can map them to responses and telemetry can group them.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryProvider      ErrorCategory = "provider"
	CategoryStorage       ErrorCategory = "storage"
	CategoryReport        ErrorCategory = "report"
	CategoryNetwork       ErrorCategory = "network"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryProcessing    ErrorCategory = "processing"
	CategoryNotFound      ErrorCategory = "not-found"
	CategoryGeneric       ErrorCategory = "generic"
)

const ComponentUnknown = "unknown"

// EnhancedError carries the original error plus metadata used for responses and reporting.
type EnhancedError struct {
	Err       error
	Component string
	Category  ErrorCategory
	Context   map[string]any
	Timestamp time.Time

	mu       sync.Mutex
	reported bool
}

func (ee *EnhancedError) Error() string { return ee.Err.Error() }

func (ee *EnhancedError) Unwrap() error { return ee.Err }

// Is matches another EnhancedError by category, anything else through the wrapped chain.
func (ee *EnhancedError) Is(target error) bool {
	if other, ok := target.(*EnhancedError); ok {
		return ee.Category == other.Category
	}
	return stderrors.Is(ee.Err, target)
}

func (ee *EnhancedError) GetContext() map[string]any {
	if ee.Context == nil {
		return nil
	}
	return maps.Clone(ee.Context)
}

func (ee *EnhancedError) markReported() bool {
	ee.mu.Lock()
	defer ee.mu.Unlock()
	if ee.reported {
		return false
	}
	ee.reported = true
	return true
}

type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

func New(err error) *ErrorBuilder {
	if err == nil {
		err = stderrors.New("unknown error")
	}
	return &ErrorBuilder{err: err}
}

func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Wrap is an alias of New that reads better at call sites holding an existing error.
func Wrap(err error) *ErrorBuilder { return New(err) }

func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// Timing records how long an operation ran before failing.
func (eb *ErrorBuilder) Timing(operation string, d time.Duration) *ErrorBuilder {
	return eb.Context("operation", operation).Context("duration_ms", d.Milliseconds())
}

// Build creates the EnhancedError and hands it to the reporter when one is active.
// Validation errors are user mistakes and never reported.
func (eb *ErrorBuilder) Build() *EnhancedError {
	ee := &EnhancedError{
		Err:       eb.err,
		Component: eb.component,
		Category:  eb.category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
	if ee.Component == "" {
		ee.Component = ComponentUnknown
	}
	if ee.Category == "" {
		ee.Category = CategoryGeneric
	}
	if ee.Category != CategoryValidation && ee.Category != CategoryNotFound {
		report(ee)
	}
	return ee
}

// Reporter receives built errors, typically forwarding them to Sentry.
type Reporter interface {
	ReportError(ee *EnhancedError)
	IsEnabled() bool
}

var reporter atomic.Pointer[Reporter]

func SetReporter(r Reporter) {
	if r == nil {
		reporter.Store(nil)
		return
	}
	reporter.Store(&r)
}

func report(ee *EnhancedError) {
	p := reporter.Load()
	if p == nil || !(*p).IsEnabled() {
		return
	}
	if ee.markReported() {
		(*p).ReportError(ee)
	}
}

func ValidationError(message string) *EnhancedError {
	return New(stderrors.New(message)).Category(CategoryValidation).Build()
}

func NewStd(text string) error { return stderrors.New(text) }

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func Unwrap(err error) error { return stderrors.Unwrap(err) }

func Join(errs ...error) error { return stderrors.Join(errs...) }

// IsCategory reports whether err wraps an EnhancedError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var ee *EnhancedError
	return As(err, &ee) && ee.Category == category
}

// CategoryOf returns the category of the outermost EnhancedError in err, or CategoryGeneric.
func CategoryOf(err error) ErrorCategory {
	var ee *EnhancedError
	if As(err, &ee) {
		return ee.Category
	}
	return CategoryGeneric
}
