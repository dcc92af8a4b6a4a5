package report

import "fmt"

type rgb struct{ r, g, b int }

var (
	colorPrimary   = rgb{22, 163, 74}
	colorSecondary = rgb{21, 128, 61}
	colorText      = rgb{31, 41, 55}
	colorBody      = rgb{55, 65, 81}
	colorLight     = rgb{107, 114, 128}
	colorFaint     = rgb{156, 163, 175}
	colorSurface   = rgb{249, 250, 251}
	colorRule      = rgb{229, 231, 235}
	colorDanger    = rgb{220, 38, 38}
	colorWarning   = rgb{245, 158, 11}
	colorTipFill   = rgb{254, 252, 232}
	colorTipTitle  = rgb{180, 83, 9}
	colorTipText   = rgb{120, 53, 15}
	colorWhite     = rgb{255, 255, 255}
)

func severityColor(severity int) rgb {
	switch {
	case severity >= 7:
		return colorDanger
	case severity >= 5:
		return colorWarning
	default:
		return colorPrimary
	}
}

// Theme controls layout density. Both themes share the same sections.
type Theme struct {
	Name         string
	HeaderHeight float64
	TitleSize    float64
	BodySize     float64
	// MaxRecommendations and MaxLinesPerItem cap the recommendations block;
	// zero means unlimited.
	MaxRecommendations int
	MaxLinesPerItem    int
	ShowImage          bool
}

var (
	ThemeGreen = Theme{
		Name:         "green",
		HeaderHeight: 50,
		TitleSize:    24,
		BodySize:     10,
		ShowImage:    true,
	}
	ThemeCompact = Theme{
		Name:               "compact",
		HeaderHeight:       28,
		TitleSize:          18,
		BodySize:           9,
		MaxRecommendations: 4,
		MaxLinesPerItem:    2,
	}
)

// ThemeByName resolves "green" or "compact".
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "", ThemeGreen.Name:
		return ThemeGreen, nil
	case ThemeCompact.Name:
		return ThemeCompact, nil
	default:
		return Theme{}, fmt.Errorf("unknown report theme %q", name)
	}
}

var preventionTips = []string{
	"Regular monitoring: Check plants daily for early disease symptoms",
	"Proper spacing: Ensure adequate air circulation between plants",
	"Hygiene: Remove and dispose of infected plant material properly",
	"Rotation: Practice crop rotation to prevent disease buildup",
}

const (
	brandName  = "AgriSakhi"
	subtitle   = "Plant Disease Detection Report"
	copyright  = "(c) AgriSakhi - AI-Powered Plant Disease Detection"
	assistLine = "For agricultural assistance, visit agrisakhi.com"
	disclaimer = "This report is AI-generated. Consult agricultural experts for critical decisions."
)
