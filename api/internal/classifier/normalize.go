package classifier

import (
	"math"
	"sort"

	"agrisakhi/api/internal/plant"
)

const maxPredictions = 5

// Normalize canonicalises labels, clamps scores to [0,1], orders by score
// (stable for ties) and keeps at most five entries.
func Normalize(preds []plant.Prediction) []plant.Prediction {
	out := make([]plant.Prediction, 0, len(preds))
	for _, p := range preds {
		out = append(out, plant.Prediction{
			Label: plant.NormalizeLabel(p.Label),
			Score: clamp01(p.Score),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxPredictions {
		out = out[:maxPredictions]
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
