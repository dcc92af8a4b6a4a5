package telegram

import (
	"bytes"
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"agrisakhi/api/internal/plant"
	"agrisakhi/api/internal/report"
)

const reportPrefix = "report:"

func (r *Router) handleCallback(ctx context.Context, cb tgbotapi.CallbackQuery) {
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil { // ack
		r.log.Debug("callback ack failed", "error", err)
	}
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	cid := cb.Message.Chat.ID

	switch {
	case strings.HasPrefix(cb.Data, reportPrefix):
		r.sendReport(ctx, cid, strings.TrimPrefix(cb.Data, reportPrefix))
	default:
		r.log.Debug("unknown callback", "data", cb.Data)
	}
}

// sendReport renders the record with id (or the last detection) as a PDF document.
func (r *Router) sendReport(ctx context.Context, chatID int64, id string) {
	identity := identityFor(chatID)
	var (
		res plant.DetectionResult
		err error
	)
	if id == lastReportID {
		res, err = r.History.Last(ctx, identity)
	} else {
		var rec plant.DetectionRecord
		rec, err = r.History.Get(ctx, identity, id)
		res = rec.DetectionResult
	}
	if err != nil {
		r.send(chatID, "Report not available: that detection is no longer in your history.")
		return
	}

	now := r.Now()
	var buf bytes.Buffer
	if err := r.Renderer.Render(&buf, report.Input{
		Result:      res,
		ImageRef:    res.ImageURL,
		Language:    r.lang(chatID),
		GeneratedAt: now,
	}); err != nil {
		r.log.Error("report render failed", "chat_id", chatID, "error", err)
		r.send(chatID, "Failed to generate PDF report. Please try again.")
		return
	}
	if r.Metrics != nil {
		r.Metrics.RecordReport(r.Renderer.Theme.Name)
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  report.Filename(res, now),
		Bytes: buf.Bytes(),
	})
	doc.Caption = "📄 " + plant.LocalizedName(res.Disease, r.lang(chatID))
	if _, err := r.Bot.Send(doc); err != nil {
		r.log.Warn("send report failed", "chat_id", chatID, "error", err)
	}
}
