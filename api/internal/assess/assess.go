// Package assess derives the display metrics of a detection from the top
// prediction's confidence and the uploaded file.
package assess

import (
	"math"
	"strings"
)

// Severity maps confidence to a 4..8 score. Values outside 4..8 are never produced.
func Severity(confidence float64) int {
	switch {
	case confidence > 0.9:
		return 8
	case confidence > 0.8:
		return 7
	case confidence > 0.7:
		return 6
	case confidence > 0.6:
		return 5
	default:
		return 4
	}
}

// AffectedArea estimates the affected leaf percentage, clamped to [10, 90].
func AffectedArea(confidence float64) float64 {
	area := math.Round(confidence*100) * 0.4
	return math.Min(90, math.Max(10, area))
}

const smallImageBytes = 10_000

// ImageQuality grades the upload: 0 for non-images, 50 below 10 KB, 85 otherwise.
func ImageQuality(mime string, size int64) int {
	switch {
	case !strings.HasPrefix(strings.ToLower(mime), "image/"):
		return 0
	case size < smallImageBytes:
		return 50
	default:
		return 85
	}
}

type Level string

const (
	LevelMild     Level = "mild"
	LevelModerate Level = "moderate"
	LevelSevere   Level = "severe"
)

func SeverityLevel(severity int) Level {
	switch {
	case severity >= 8:
		return LevelSevere
	case severity >= 5:
		return LevelModerate
	default:
		return LevelMild
	}
}

// Status labels shown next to each metric in reports.
const (
	StatusHigh       = "High"
	StatusModerate   = "Moderate"
	StatusCritical   = "Critical"
	StatusManageable = "Manageable"
	StatusLarge      = "Large"
	StatusGood       = "Good"
	StatusFair       = "Fair"
	StatusFast       = "Fast"
)

// ConfidenceStatus takes the confidence as a percentage.
func ConfidenceStatus(percent float64) string {
	if percent >= 80 {
		return StatusHigh
	}
	return StatusModerate
}

func SeverityStatus(severity int) string {
	if severity >= 7 {
		return StatusCritical
	}
	return StatusManageable
}

func AreaStatus(area float64) string {
	if area >= 50 {
		return StatusLarge
	}
	return StatusModerate
}

func QualityStatus(quality int) string {
	if quality >= 70 {
		return StatusGood
	}
	return StatusFair
}

// Percent rounds a [0,1] confidence to a whole percentage.
func Percent(confidence float64) int {
	return int(math.Round(confidence * 100))
}
