package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "agrisakhi/api/internal/errors"
	"agrisakhi/api/internal/logger"
	"agrisakhi/api/internal/plant"
)

const (
	DefaultHistoryCap = 50

	historyKey     = "detection-history"
	lastKey        = "lastDetection"
	guestIdentity  = ""
	recordIDPrefix = "detection-"
)

// RetryRecorder is notified about the history write fallback.
// observability.Metrics implements it.
type RetryRecorder interface {
	RecordHistoryRetry()
	RecordHistoryFailure()
}

// History is the per-identity detection list, newest first, capped.
//
// Writes are read-modify-write without locking: two concurrent appends for the
// same identity can lose one record.
type History struct {
	kv       KV
	cap      int
	now      func() time.Time
	recorder RetryRecorder
	log      *slog.Logger
}

type HistoryOption func(*History)

func WithCap(n int) HistoryOption {
	return func(h *History) {
		if n > 0 {
			h.cap = n
		}
	}
}

func WithClock(now func() time.Time) HistoryOption {
	return func(h *History) { h.now = now }
}

func WithRetryRecorder(r RetryRecorder) HistoryOption {
	return func(h *History) { h.recorder = r }
}

func WithHistoryLogger(l *slog.Logger) HistoryOption {
	return func(h *History) {
		if l != nil {
			h.log = l
		}
	}
}

func NewHistory(kv KV, opts ...HistoryOption) *History {
	h := &History{
		kv:  kv,
		cap: DefaultHistoryCap,
		now: func() time.Time { return time.Now().UTC() },
		log: logger.Module("history"),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *History) Cap() int { return h.cap }

// HistoryKey is detection-history-<userId>, or detection-history for guests.
func HistoryKey(identity string) string {
	if identity == guestIdentity {
		return historyKey
	}
	return historyKey + "-" + identity
}

// LastKey is the hand-off slot between the detect and results views.
func LastKey(identity string) string {
	if identity == guestIdentity {
		return lastKey
	}
	return lastKey + "-" + identity
}

// List returns the identity's records, newest first. Missing or corrupt data
// reads as an empty history.
func (h *History) List(ctx context.Context, identity string) ([]plant.DetectionRecord, error) {
	b, err := h.kv.Get(ctx, HistoryKey(identity))
	if errors.Is(err, ErrNotFound) {
		return []plant.DetectionRecord{}, nil
	}
	if err != nil {
		return nil, storageError(err, "list", identity)
	}
	var recs []plant.DetectionRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		h.log.Warn("corrupt history, treating as empty", "key", HistoryKey(identity), "error", err)
		return []plant.DetectionRecord{}, nil
	}
	return recs, nil
}

// Append prepends a record built from res and truncates to the cap. If the
// write fails the store retries once with only the new record; older history
// is dropped in that case.
func (h *History) Append(ctx context.Context, identity string, res plant.DetectionResult) (plant.DetectionRecord, error) {
	existing, err := h.List(ctx, identity)
	if err != nil {
		h.log.Warn("history read failed, starting fresh", "error", err)
		existing = nil
	}

	now := h.now()
	rec := plant.DetectionRecord{
		ID:              h.newID(now, existing),
		CreatedAt:       now,
		CropType:        plant.Crop(res.Disease),
		DetectionResult: res,
	}

	list := make([]plant.DetectionRecord, 0, min(len(existing)+1, h.cap))
	list = append(list, rec)
	list = append(list, existing...)
	if len(list) > h.cap {
		list = list[:h.cap]
	}

	key := HistoryKey(identity)
	if err := h.write(ctx, key, list); err != nil {
		h.log.Warn("history write failed, retrying with newest record only",
			"key", key, "records", len(list), "error", err)
		if h.recorder != nil {
			h.recorder.RecordHistoryRetry()
		}
		if err := h.write(ctx, key, list[:1]); err != nil {
			if h.recorder != nil {
				h.recorder.RecordHistoryFailure()
			}
			return plant.DetectionRecord{}, storageError(err, "append", identity)
		}
	}
	return rec, nil
}

func (h *History) write(ctx context.Context, key string, recs []plant.DetectionRecord) error {
	b, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return h.kv.Set(ctx, key, b)
}

func (h *History) newID(now time.Time, existing []plant.DetectionRecord) string {
	id := fmt.Sprintf("%s%d", recordIDPrefix, now.UnixMilli())
	if slices.ContainsFunc(existing, func(r plant.DetectionRecord) bool { return r.ID == id }) {
		id += "-" + uuid.NewString()[:8]
	}
	return id
}

func (h *History) Get(ctx context.Context, identity, id string) (plant.DetectionRecord, error) {
	recs, err := h.List(ctx, identity)
	if err != nil {
		return plant.DetectionRecord{}, err
	}
	for _, r := range recs {
		if r.ID == id {
			return r, nil
		}
	}
	return plant.DetectionRecord{}, notFound(id)
}

// Remove deletes one record by id. Unknown ids are ErrNotFound.
func (h *History) Remove(ctx context.Context, identity, id string) error {
	recs, err := h.List(ctx, identity)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(recs, func(r plant.DetectionRecord) bool { return r.ID == id })
	if len(kept) == len(recs) {
		// DeleteFunc only shrinks on a match
		return notFound(id)
	}
	if err := h.write(ctx, HistoryKey(identity), kept); err != nil {
		return storageError(err, "remove", identity)
	}
	return nil
}

func (h *History) Clear(ctx context.Context, identity string) error {
	if err := h.kv.Delete(ctx, HistoryKey(identity)); err != nil {
		return storageError(err, "clear", identity)
	}
	return nil
}

// Search matches query case-insensitively against the formatted disease name
// and the crop type. An empty query returns everything.
func (h *History) Search(ctx context.Context, identity, query string) ([]plant.DetectionRecord, error) {
	recs, err := h.List(ctx, identity)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return recs, nil
	}
	out := make([]plant.DetectionRecord, 0, len(recs))
	for _, r := range recs {
		name := strings.ToLower(plant.FormatName(r.Disease))
		if strings.Contains(name, q) || strings.Contains(strings.ToLower(r.CropType), q) {
			out = append(out, r)
		}
	}
	return out, nil
}

// SaveLast stores the most recent result for the results view.
func (h *History) SaveLast(ctx context.Context, identity string, res plant.DetectionResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if err := h.kv.Set(ctx, LastKey(identity), b); err != nil {
		return storageError(err, "save-last", identity)
	}
	return nil
}

func (h *History) Last(ctx context.Context, identity string) (plant.DetectionResult, error) {
	b, err := h.kv.Get(ctx, LastKey(identity))
	if errors.Is(err, ErrNotFound) {
		return plant.DetectionResult{}, notFound(lastKey)
	}
	if err != nil {
		return plant.DetectionResult{}, storageError(err, "last", identity)
	}
	var res plant.DetectionResult
	if err := json.Unmarshal(b, &res); err != nil {
		return plant.DetectionResult{}, notFound(lastKey)
	}
	return res, nil
}

func storageError(err error, op, identity string) error {
	return apperrors.New(fmt.Errorf("history %s: %w", op, err)).
		Component("store").
		Category(apperrors.CategoryStorage).
		Context("identity", identity).
		Build()
}

func notFound(what string) error {
	return apperrors.New(fmt.Errorf("%s: %w", what, ErrNotFound)).
		Component("store").
		Category(apperrors.CategoryNotFound).
		Build()
}
