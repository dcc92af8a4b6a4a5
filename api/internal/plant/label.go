package plant

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Separator splits a label into crop and condition: "Tomato___Late_blight".
const Separator = "___"

var (
	reSpaces     = regexp.MustCompile(`\s+`)
	reUnderscore = regexp.MustCompile(`_+`)
	reWith       = regexp.MustCompile(`(?i) with |_with_`)
	reHealthy    = regexp.MustCompile(`(?i)^healthy[ _]`)
)

// NormalizeLabel coerces provider labels into the Crop___Condition convention.
// Labels already carrying the separator are only trimmed; natural-language
// labels such as "Tomato with Late Blight" or "Healthy Apple" are rewritten.
func NormalizeLabel(label string) string {
	s := strings.TrimSpace(label)
	if s == "" {
		return "Plant" + Separator + "Unknown"
	}
	if i := strings.Index(s, Separator); i > 0 {
		return joinLabel(s[:i], strings.TrimLeft(s[i+len(Separator):], "_"))
	}

	if loc := reWith.FindStringIndex(s); loc != nil && loc[0] > 0 {
		return joinLabel(s[:loc[0]], s[loc[1]:])
	}
	if loc := reHealthy.FindStringIndex(s); loc != nil {
		rest := strings.Fields(strings.ReplaceAll(s[loc[1]:], "_", " "))
		if len(rest) > 0 {
			return joinLabel(rest[0], "healthy")
		}
	}

	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	if len(words) == 1 {
		return joinLabel("Plant", words[0])
	}
	return joinLabel(words[0], strings.Join(words[1:], " "))
}

func joinLabel(crop, condition string) string {
	crop = strings.Trim(reSpaces.ReplaceAllString(strings.TrimSpace(crop), "_"), "_")
	condition = reSpaces.ReplaceAllString(strings.TrimSpace(condition), "_")
	if crop == "" {
		crop = "Plant"
	}
	if condition == "" {
		condition = "Unknown"
	}
	if strings.EqualFold(condition, "healthy") {
		condition = "healthy"
	}
	return crop + Separator + condition
}

// WellFormed reports whether label follows Crop___Condition.
func WellFormed(label string) bool {
	i := strings.Index(label, Separator)
	return i > 0 && i+len(Separator) < len(label)
}

// Crop returns the part before the separator, or "Unknown".
func Crop(label string) string {
	if i := strings.Index(label, Separator); i > 0 {
		return label[:i]
	}
	return "Unknown"
}

func IsHealthy(label string) bool {
	return strings.Contains(strings.ToLower(label), "healthy")
}

// FormatName turns "Tomato___Late_blight" into "Tomato - Late Blight".
func FormatName(label string) string {
	s := strings.ReplaceAll(label, Separator, " - ")
	s = reUnderscore.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(strings.TrimSpace(s), " ")
	return titleWords(s)
}

// titleWords capitalises each space-separated word and lower-cases the rest
// of it, so "(Black" becomes "(black".
func titleWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		r, n := utf8.DecodeRuneInString(w)
		if n == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[n:])
	}
	return strings.Join(words, " ")
}
