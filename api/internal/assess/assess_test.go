package assess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityThresholds(t *testing.T) {
	tests := []struct {
		confidence float64
		want       int
	}{
		{0.0, 4},
		{0.6, 4},
		{0.61, 5},
		{0.7, 5},
		{0.71, 6},
		{0.8, 6},
		{0.81, 7},
		{0.9, 7},
		{0.91, 8},
		{0.94, 8},
		{1.0, 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Severity(tt.confidence), "confidence %.2f", tt.confidence)
	}
}

func TestSeverityRangeAndMonotonic(t *testing.T) {
	prev := Severity(0)
	for i := 0; i <= 1000; i++ {
		c := float64(i) / 1000
		s := Severity(c)
		assert.GreaterOrEqual(t, s, 4)
		assert.LessOrEqual(t, s, 8)
		assert.GreaterOrEqual(t, s, prev, "severity decreased at %.3f", c)
		prev = s
	}
}

func TestAffectedArea(t *testing.T) {
	assert.InDelta(t, 37.6, AffectedArea(0.94), 1e-9)
	assert.InDelta(t, 34.8, AffectedArea(0.87), 1e-9)
	assert.InDelta(t, 10, AffectedArea(0.1), 1e-9)
	assert.InDelta(t, 10, AffectedArea(0), 1e-9)
	assert.InDelta(t, 40, AffectedArea(1), 1e-9)

	for i := 0; i <= 1000; i++ {
		a := AffectedArea(float64(i) / 1000)
		assert.GreaterOrEqual(t, a, 10.0)
		assert.LessOrEqual(t, a, 90.0)
	}
}

func TestImageQuality(t *testing.T) {
	assert.Equal(t, 0, ImageQuality("application/pdf", 500_000))
	assert.Equal(t, 0, ImageQuality("", 500_000))
	assert.Equal(t, 50, ImageQuality("image/png", 9_999))
	assert.Equal(t, 85, ImageQuality("image/jpeg", 10_000))
	assert.Equal(t, 85, ImageQuality("IMAGE/JPEG", 512_000))
}

func TestStatuses(t *testing.T) {
	assert.Equal(t, LevelSevere, SeverityLevel(8))
	assert.Equal(t, LevelModerate, SeverityLevel(5))
	assert.Equal(t, LevelMild, SeverityLevel(4))

	assert.Equal(t, StatusHigh, ConfidenceStatus(80))
	assert.Equal(t, StatusModerate, ConfidenceStatus(79))
	assert.Equal(t, StatusCritical, SeverityStatus(7))
	assert.Equal(t, StatusManageable, SeverityStatus(6))
	assert.Equal(t, StatusLarge, AreaStatus(50))
	assert.Equal(t, StatusModerate, AreaStatus(37.6))
	assert.Equal(t, StatusGood, QualityStatus(85))
	assert.Equal(t, StatusFair, QualityStatus(50))

	assert.Equal(t, 94, Percent(0.94))
}
