package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"agrisakhi/api/internal/assess"
	"agrisakhi/api/internal/pipeline"
	"agrisakhi/api/internal/plant"
	"agrisakhi/api/internal/store"
)

const startText = `🌱 Welcome to AgriSakhi!

Send a photo of a plant leaf and I will identify the disease, estimate how severe it is and suggest treatments.

/help lists all commands.`

const helpText = `Commands:
/history - your recent detections
/last - the most recent detection
/report - PDF report of the most recent detection
/lang en|hi|kn|ur - report language
/help - this message

Send a photo (or an image file up to 10MB) to start a detection.`

func reportKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonData("📄 PDF report", reportPrefix+id)
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(btn))
}

func formatResult(res plant.DetectionResult, lang string) string {
	var b strings.Builder
	name := plant.LocalizedName(res.Disease, lang)
	if plant.IsHealthy(res.Disease) {
		fmt.Fprintf(&b, "✅ %s\n", name)
	} else {
		fmt.Fprintf(&b, "🌿 Diagnosis: %s\n", name)
	}
	pct := assess.Percent(res.Confidence)
	fmt.Fprintf(&b, "Confidence: %d%% (%s)\n", pct, assess.ConfidenceStatus(float64(pct)))
	fmt.Fprintf(&b, "Severity: %d/10 (%s)\n", res.Severity, assess.SeverityLevel(res.Severity))
	fmt.Fprintf(&b, "Affected area: %.1f%%\n", res.AffectedArea)
	if crop := plant.Crop(res.Disease); crop != "Unknown" {
		fmt.Fprintf(&b, "Crop: %s\n", crop)
	}
	if len(res.AlternativeDiseases) > 0 {
		b.WriteString("Other possibilities:\n")
		for _, a := range res.AlternativeDiseases {
			fmt.Fprintf(&b, "  • %s (%d%%)\n", plant.LocalizedName(a.Name, lang), assess.Percent(a.Confidence))
		}
	}
	if res.Source == plant.SourceDemo {
		b.WriteString("\n⚠️ Demo mode: no classifier is configured, this result is a sample.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDiagnosis(d pipeline.Diagnosis, lang string) string {
	var b strings.Builder
	b.WriteString(formatResult(d.Result, lang))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "🧪 Organic: %s\n", d.Treatment.Organic)
	fmt.Fprintf(&b, "💊 Chemical: %s\n", d.Treatment.Chemical)
	fmt.Fprintf(&b, "🌾 Cultural: %s\n", d.Treatment.Cultural)
	fmt.Fprintf(&b, "🛡 Prevention: %s", d.Treatment.Prevention)
	return b.String()
}

const historyPreview = 10

func formatHistory(recs []plant.DetectionRecord, st store.Stats, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 %d detections, %d this month, average confidence %d%%\n\n",
		st.Total, st.ThisMonth, st.AverageConfidence)
	for i, r := range recs {
		if i == historyPreview {
			fmt.Fprintf(&b, "… and %d more", len(recs)-historyPreview)
			break
		}
		fmt.Fprintf(&b, "%d. %s · %d%% · %s\n", i+1,
			plant.LocalizedName(r.Disease, lang),
			assess.Percent(r.Confidence),
			r.CreatedAt.Format("2006-01-02"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(text string) string {
	r := []rune(text)
	if len(r) > maxMessageLen {
		return string(r[:maxMessageLen]) + "…"
	}
	return text
}
