package store

import (
	"context"
	"math"
	"time"
)

// Stats summarises a history for the dashboard.
type Stats struct {
	Total             int `json:"total"`
	ThisMonth         int `json:"thisMonth"`
	AverageConfidence int `json:"averageConfidence"` // percent
	DetectionsLeft    int `json:"detectionsLeft"`
}

// Stats counts records in the calendar month of now (UTC) and averages the
// confidence as a rounded percentage.
func (h *History) Stats(ctx context.Context, identity string, now time.Time) (Stats, error) {
	recs, err := h.List(ctx, identity)
	if err != nil {
		return Stats{}, err
	}
	now = now.UTC()
	s := Stats{Total: len(recs), DetectionsLeft: max(0, h.cap-len(recs))}
	if len(recs) == 0 {
		return s, nil
	}
	var sum float64
	for _, r := range recs {
		sum += r.Confidence
		c := r.CreatedAt.UTC()
		if c.Year() == now.Year() && c.Month() == now.Month() {
			s.ThisMonth++
		}
	}
	s.AverageConfidence = int(math.Round(sum / float64(len(recs)) * 100))
	return s, nil
}
