package report

import (
	"golang.org/x/text/language"

	"agrisakhi/api/internal/plant"
)

var (
	supportedTags = []language.Tag{language.English, language.Hindi, language.Kannada, language.Urdu}
	supportedLang = []string{plant.LangEnglish, plant.LangHindi, plant.LangKannada, plant.LangUrdu}
	langMatcher   = language.NewMatcher(supportedTags)
)

// MatchLanguage maps a BCP 47 tag or Accept-Language value ("hi-IN",
// "kn;q=0.9, en") onto en, hi, kn or ur. Unknown input is English.
func MatchLanguage(s string) string {
	if s == "" {
		return plant.LangEnglish
	}
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return plant.LangEnglish
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No {
		return plant.LangEnglish
	}
	return supportedLang[idx]
}
