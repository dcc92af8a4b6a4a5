package telegram

import "agrisakhi/api/internal/plant"

// lastReportID in callback data refers to the chat's most recent detection.
const lastReportID = "last"

const maxMessageLen = 3900

func (r *Router) setLang(chatID int64, lang string) { r.langs.Store(chatID, lang) }

func (r *Router) lang(chatID int64) string {
	if v, ok := r.langs.Load(chatID); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return plant.LangEnglish
}
