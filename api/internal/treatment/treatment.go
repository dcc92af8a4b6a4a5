// Package treatment maps disease labels to static treatment advice.
package treatment

import (
	"fmt"
	"slices"
	"strings"

	"agrisakhi/api/internal/assess"
	"agrisakhi/api/internal/plant"
)

// Bundle is the four-part advice shown for a diagnosis.
type Bundle struct {
	Organic    string `json:"organic"`
	Chemical   string `json:"chemical"`
	Cultural   string `json:"cultural"`
	Prevention string `json:"prevention"`
}

// rule matches when the label contains any of crops and any of conditions.
// An empty conditions list matches every condition of the crop.
type rule struct {
	crops      []string
	conditions []string
	bundle     Bundle
}

func (r rule) matches(s string) bool {
	if !slices.ContainsFunc(r.crops, func(c string) bool { return strings.Contains(s, c) }) {
		return false
	}
	if len(r.conditions) == 0 {
		return true
	}
	return slices.ContainsFunc(r.conditions, func(c string) bool { return strings.Contains(s, c) })
}

// Lookup returns the first matching bundle, or Default. It is pure and never fails.
func Lookup(label string) Bundle {
	s := normalize(label)
	for _, r := range rules {
		if r.matches(s) {
			return r.bundle
		}
	}
	return Default
}

// normalize lower-cases and turns separators into single spaces so both
// "Tomato___Late_blight" and "Tomato Late Blight" hit the same rule.
func normalize(label string) string {
	s := strings.ToLower(label)
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Recommendations is the flat list used by reports and the bot.
func Recommendations(disease string, confidence float64) []string {
	b := Lookup(disease)
	pct := assess.Percent(confidence)
	note := "Consider expert consultation"
	if confidence >= 0.8 {
		note = "High confidence detection"
	}
	return []string{
		"Disease identified: " + plant.FormatName(disease),
		fmt.Sprintf("Confidence level: %d%% - %s", pct, note),
		"Organic Treatment: " + b.Organic,
		"Chemical Treatment: " + b.Chemical,
		"Cultural Practice: " + b.Cultural,
		"Prevention: " + b.Prevention,
	}
}
