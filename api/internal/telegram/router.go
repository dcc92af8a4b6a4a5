package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"agrisakhi/api/internal/intake"
	"agrisakhi/api/internal/logger"
	"agrisakhi/api/internal/pipeline"
	"agrisakhi/api/internal/plant"
	"agrisakhi/api/internal/report"
	"agrisakhi/api/internal/store"
)

// Sender is the part of *tgbotapi.BotAPI the router talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Diagnoser interface {
	Diagnose(ctx context.Context, identity string, up intake.Upload) (pipeline.Diagnosis, error)
}

type ReportRecorder interface {
	RecordReport(theme string)
}

type Router struct {
	Bot      Sender
	Pipeline Diagnoser
	History  *store.History
	Renderer *report.Renderer
	Metrics  ReportRecorder

	// Download fetches a Telegram file URL.
	Download func(ctx context.Context, url string) ([]byte, error)
	Now      func() time.Time

	langs sync.Map // chatID -> language code
	log   *slog.Logger
}

func NewRouter(bot Sender, p Diagnoser, h *store.History, rr *report.Renderer) *Router {
	if rr == nil {
		rr = report.NewRenderer(report.ThemeGreen)
	}
	return &Router{
		Bot:      bot,
		Pipeline: p,
		History:  h,
		Renderer: rr,
		Download: download,
		Now:      func() time.Time { return time.Now().UTC() },
		log:      logger.Module("telegram"),
	}
}

// identityFor scopes history per chat.
func identityFor(chatID int64) string {
	return "tg-" + strconv.FormatInt(chatID, 10)
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(ctx, *upd.CallbackQuery)
		return
	}
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	switch {
	case msg.IsCommand():
		r.HandleCommand(ctx, msg)
	case len(msg.Photo) > 0:
		ph := msg.Photo[len(msg.Photo)-1] // largest size
		r.acceptPhoto(ctx, msg.Chat.ID, ph.FileID, "photo.jpg", "image/jpeg")
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		r.acceptPhoto(ctx, msg.Chat.ID, msg.Document.FileID, msg.Document.FileName, msg.Document.MimeType)
	case msg.Document != nil:
		r.send(msg.Chat.ID, intake.UserMessage(intake.ErrInvalidFileType))
	default:
		r.send(msg.Chat.ID, "Send me a photo of a plant leaf and I will check it for diseases. /help lists the commands.")
	}
}

func (r *Router) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start":
		r.send(cid, startText)
	case "help":
		r.send(cid, helpText)
	case "history":
		r.sendHistory(ctx, cid)
	case "last":
		res, err := r.History.Last(ctx, identityFor(cid))
		if err != nil {
			r.send(cid, "No detection yet. Send a photo of a leaf first.")
			return
		}
		r.sendWithKeyboard(cid, formatResult(res, r.lang(cid)), reportKeyboard(lastReportID))
	case "report":
		r.sendReport(ctx, cid, lastReportID)
	case "lang":
		r.handleLang(cid, msg.CommandArguments())
	default:
		r.send(cid, "Unknown command. Send /help for the list.")
	}
}

func (r *Router) handleLang(chatID int64, arg string) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" {
		r.send(chatID, "Report language: "+r.lang(chatID)+"\nUsage: /lang en|hi|kn|ur")
		return
	}
	lang := report.MatchLanguage(arg)
	if lang == plant.LangEnglish && !strings.HasPrefix(arg, "en") {
		r.send(chatID, "Unsupported language. Available: en, hi, kn, ur")
		return
	}
	r.setLang(chatID, lang)
	r.send(chatID, "✅ Report language: "+lang)
}

func (r *Router) sendHistory(ctx context.Context, chatID int64) {
	id := identityFor(chatID)
	recs, err := r.History.List(ctx, id)
	if err != nil {
		r.log.Warn("history read failed", "chat_id", chatID, "error", err)
		r.send(chatID, "Could not read your history. Please try again.")
		return
	}
	if len(recs) == 0 {
		r.send(chatID, "Your history is empty. Send a photo of a leaf to start.")
		return
	}
	st, err := r.History.Stats(ctx, id, r.Now())
	if err != nil {
		r.log.Warn("history stats failed", "chat_id", chatID, "error", err)
	}
	r.send(chatID, formatHistory(recs, st, r.lang(chatID)))
}

func (r *Router) send(chatID int64, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, truncate(text))); err != nil {
		r.log.Warn("send failed", "chat_id", chatID, "error", err)
	}
}

func (r *Router) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, truncate(text))
	msg.ReplyMarkup = kb
	if _, err := r.Bot.Send(msg); err != nil {
		r.log.Warn("send failed", "chat_id", chatID, "error", err)
	}
}
