package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrisakhi/api/internal/plant"
)

func TestPresetsAreWellFormed(t *testing.T) {
	for i, preset := range Presets() {
		require.NotEmpty(t, preset, "preset %d", i)
		for j, p := range preset {
			assert.True(t, plant.WellFormed(p.Label), "preset %d entry %d: %q", i, j, p.Label)
			assert.GreaterOrEqual(t, p.Score, 0.0)
			assert.LessOrEqual(t, p.Score, 1.0)
			if j > 0 {
				assert.LessOrEqual(t, p.Score, preset[j-1].Score, "preset %d not sorted", i)
			}
		}
	}
}

func TestClassifyPicksBaseOrVariant(t *testing.T) {
	// first draw decides base (0) vs variant (1), the second picks the variant
	draws := []int{1, 2}
	p := New(WithDelay(0), WithRand(func(n int) int {
		v := draws[0]
		draws = draws[1:]
		return v % n
	}))

	preds, err := p.Classify(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, Variants[2], preds)

	p = New(WithDelay(0), WithRand(func(int) int { return 0 }))
	preds, err = p.Classify(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, Base, preds)
}

func TestClassifyReturnsCopy(t *testing.T) {
	p := New(WithDelay(0), WithRand(func(int) int { return 0 }))
	preds, err := p.Classify(context.Background(), nil, "")
	require.NoError(t, err)

	preds[0].Score = 0
	assert.InDelta(t, 0.87, Base[0].Score, 1e-9)
}

func TestClassifyHonoursDelay(t *testing.T) {
	p := New(WithDelay(50 * time.Millisecond))
	start := time.Now()
	_, err := p.Classify(context.Background(), nil, "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestClassifyCancelled(t *testing.T) {
	p := New(WithDelay(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Classify(ctx, nil, "")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, plant.SourceDemo, p.Name())
}
