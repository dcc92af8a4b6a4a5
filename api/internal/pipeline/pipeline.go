// Package pipeline runs a photo through intake, classification, scoring and
// persistence, and hands back everything the views need.
package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"agrisakhi/api/internal/assess"
	"agrisakhi/api/internal/classifier"
	"agrisakhi/api/internal/errors"
	"agrisakhi/api/internal/events"
	"agrisakhi/api/internal/intake"
	"agrisakhi/api/internal/logger"
	"agrisakhi/api/internal/plant"
	"agrisakhi/api/internal/treatment"
)

// ErrDetectionFailed is the only classification failure callers ever see.
var ErrDetectionFailed = stderrors.New("detection failed, please try again")

// maxInlinePreview bounds the original preview stored in history when no
// thumbnail can be made.
const maxInlinePreview = 64 * 1024

type Classifier interface {
	Classify(ctx context.Context, image []byte, mime string) (classifier.Classification, error)
}

// History is the part of store.History the pipeline writes to.
type History interface {
	SaveLast(ctx context.Context, identity string, res plant.DetectionResult) error
	Append(ctx context.Context, identity string, res plant.DetectionResult) (plant.DetectionRecord, error)
}

type Recorder interface {
	RecordDetection(source string)
	RecordDetectionError(category string)
}

// Diagnosis is a finished detection. Record is nil when the history write failed.
type Diagnosis struct {
	Result          plant.DetectionResult  `json:"result"`
	Record          *plant.DetectionRecord `json:"record,omitempty"`
	Treatment       treatment.Bundle       `json:"treatment"`
	Recommendations []string               `json:"recommendations"`
	Demo            bool                   `json:"demo,omitempty"`
}

type Service struct {
	classifier Classifier
	history    History
	publisher  events.Publisher
	recorder   Recorder
	now        func() time.Time
	log        *slog.Logger
}

type Option func(*Service)

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(c Classifier, h History, opts ...Option) *Service {
	s := &Service{
		classifier: c,
		history:    h,
		publisher:  events.Nop{},
		now:        func() time.Time { return time.Now().UTC() },
		log:        logger.Module("pipeline"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Diagnose validates the upload, classifies it and stores the result.
// Validation errors come back unchanged; classification failures come back as
// ErrDetectionFailed. Storage and publish failures are logged only.
func (s *Service) Diagnose(ctx context.Context, identity string, up intake.Upload) (Diagnosis, error) {
	payload, err := intake.Validate(up)
	if err != nil {
		s.recordError(errors.CategoryValidation)
		return Diagnosis{}, err
	}
	quality := assess.ImageQuality(payload.MIME, payload.Size)

	start := time.Now()
	cls, err := s.classifier.Classify(ctx, payload.Data, payload.MIME)
	elapsed := time.Since(start)
	if err != nil || len(cls.Predictions) == 0 {
		if err == nil {
			err = classifier.ErrNoPredictions
		}
		s.log.Error("classification failed", "identity", identity, "error", err)
		s.recordError(errors.CategoryProcessing)
		return Diagnosis{}, errors.New(fmt.Errorf("%w: %w", ErrDetectionFailed, err)).
			Component("pipeline").
			Category(errors.CategoryProcessing).
			Timing("classify", elapsed).
			Build()
	}

	imageURL := s.historyImage(payload)
	res := NewResult(cls, quality, elapsed, imageURL, s.now())

	diag := Diagnosis{
		Result:          res,
		Treatment:       treatment.Lookup(res.Disease),
		Recommendations: treatment.Recommendations(res.Disease, res.Confidence),
		Demo:            cls.Demo,
	}

	if err := s.history.SaveLast(ctx, identity, res); err != nil {
		s.log.Warn("could not save last detection", "identity", identity, "error", err)
	}
	rec, err := s.history.Append(ctx, identity, res)
	if err != nil {
		s.log.Warn("could not append to history", "identity", identity, "error", err)
	} else {
		diag.Record = &rec
		if err := s.publisher.Publish(ctx, identity, rec); err != nil {
			s.log.Warn("detection event not published", "id", rec.ID, "error", err)
		}
	}

	if s.recorder != nil {
		s.recorder.RecordDetection(res.Source)
	}
	s.log.Info("detection complete",
		"identity", identity,
		"disease", res.Disease,
		"confidence", res.Confidence,
		"source", res.Source,
		"inference_ms", res.Metadata.InferenceTime)
	return diag, nil
}

// historyImage is the thumbnail, or the original preview when it is small
// enough, or nothing.
func (s *Service) historyImage(p intake.Payload) string {
	uri, err := intake.Thumbnail(p)
	if err == nil {
		return uri
	}
	if len(p.DataURI) <= maxInlinePreview {
		s.log.Debug("thumbnail failed, keeping original preview", "mime", p.MIME, "error", err)
		return p.DataURI
	}
	s.log.Warn("thumbnail failed, storing detection without image",
		"mime", p.MIME, "size", p.Size, "error", err)
	return ""
}

// NewResult derives a DetectionResult from a classification.
func NewResult(cls classifier.Classification, quality int, elapsed time.Duration, imageURL string, now time.Time) plant.DetectionResult {
	top := cls.Top()
	return plant.DetectionResult{
		Disease:             top.Label,
		Confidence:          top.Score,
		Severity:            assess.Severity(top.Score),
		AffectedArea:        assess.AffectedArea(top.Score),
		AlternativeDiseases: plant.Alternatives(cls.Predictions),
		Metadata: plant.Metadata{
			InferenceTime: elapsed.Milliseconds(),
			ModelVersion:  plant.ModelVersion,
			ImageQuality:  quality,
		},
		ImageURL:  imageURL,
		Timestamp: now,
		Source:    cls.Source,
	}
}

func (s *Service) recordError(category errors.ErrorCategory) {
	if s.recorder != nil {
		s.recorder.RecordDetectionError(string(category))
	}
}
