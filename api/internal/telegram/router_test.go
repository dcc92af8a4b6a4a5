package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrisakhi/api/internal/classifier"
	"agrisakhi/api/internal/classifier/demo"
	"agrisakhi/api/internal/logger"
	"agrisakhi/api/internal/pipeline"
	"agrisakhi/api/internal/plant"
	"agrisakhi/api/internal/report"
	"agrisakhi/api/internal/store"
)

const chatID int64 = 4242

var fixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	fileErr  error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetFileDirectURL(fileID string) (string, error) {
	if b.fileErr != nil {
		return "", b.fileErr
	}
	return "https://files.example/" + fileID, nil
}

func (b *fakeBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (b *fakeBot) lastMessage(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.sent) - 1; i >= 0; i-- {
		if m, ok := b.sent[i].(tgbotapi.MessageConfig); ok {
			return m
		}
	}
	t.Fatal("no message sent")
	return tgbotapi.MessageConfig{}
}

func (b *fakeBot) documents() []tgbotapi.DocumentConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []tgbotapi.DocumentConfig
	for _, c := range b.sent {
		if d, ok := c.(tgbotapi.DocumentConfig); ok {
			out = append(out, d)
		}
	}
	return out
}

type stubProvider struct{ preds []plant.Prediction }

func (stubProvider) Name() string { return plant.SourceGemini }

func (s stubProvider) Classify(context.Context, []byte, string) ([]plant.Prediction, error) {
	return s.preds, nil
}

func newTestRouter(t *testing.T) (*Router, *fakeBot) {
	t.Helper()
	gw := classifier.NewGateway(demo.New(demo.WithDelay(0)),
		classifier.WithProvider(stubProvider{preds: []plant.Prediction{
			{Label: "Tomato___Late_blight", Score: 0.87},
			{Label: "Tomato___Early_blight", Score: 0.08},
		}}),
		classifier.WithLogger(logger.Discard()))
	clock := func() time.Time { return fixedNow }
	hist := store.NewHistory(store.NewMemoryKV(0), store.WithClock(clock), store.WithHistoryLogger(logger.Discard()))
	svc := pipeline.NewService(gw, hist, pipeline.WithClock(clock), pipeline.WithLogger(logger.Discard()))

	bot := &fakeBot{}
	r := NewRouter(bot, svc, hist, report.NewRenderer(report.ThemeCompact))
	r.Now = clock
	r.log = logger.Discard()
	r.Download = func(_ context.Context, url string) ([]byte, error) {
		if strings.HasSuffix(url, "/broken") {
			return nil, errors.New("connection reset")
		}
		return append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{1}, 4096)...), nil
	}
	return r, bot
}

func command(text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func photo(fileID string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", Width: 90},
			{FileID: fileID, Width: 1280},
		},
	}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func TestStartAndHelp(t *testing.T) {
	r, bot := newTestRouter(t)
	r.HandleUpdate(context.Background(), command("/start"))
	r.HandleUpdate(context.Background(), command("/help"))
	r.HandleUpdate(context.Background(), command("/nope"))

	texts := bot.texts()
	require.Len(t, texts, 3)
	assert.Contains(t, texts[0], "Welcome to AgriSakhi")
	assert.Contains(t, texts[1], "/lang en|hi|kn|ur")
	assert.Contains(t, texts[2], "Unknown command")
}

func TestPhotoRunsDiagnosis(t *testing.T) {
	r, bot := newTestRouter(t)
	r.HandleUpdate(context.Background(), photo("big"))

	texts := bot.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Analyzing")

	msg := bot.lastMessage(t)
	assert.Contains(t, msg.Text, "Diagnosis: Tomato - Late Blight")
	assert.Contains(t, msg.Text, "Confidence: 87% (High)")
	assert.Contains(t, msg.Text, "Severity: 7/10 (moderate)")
	assert.Contains(t, msg.Text, "Organic:")

	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	data := *kb.InlineKeyboard[0][0].CallbackData
	recs, err := r.History.List(context.Background(), identityFor(chatID))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, reportPrefix+recs[0].ID, data)
}

func TestPhotoDownloadFailure(t *testing.T) {
	r, bot := newTestRouter(t)
	r.HandleUpdate(context.Background(), photo("broken"))
	assert.Contains(t, bot.lastMessage(t).Text, "Could not download")

	bot.fileErr = errors.New("file is too big")
	r.HandleUpdate(context.Background(), photo("big"))
	assert.Contains(t, bot.lastMessage(t).Text, "Could not download")
}

func TestNonImageDocumentRejected(t *testing.T) {
	r, bot := newTestRouter(t)
	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Document: &tgbotapi.Document{FileID: "f", FileName: "notes.pdf", MimeType: "application/pdf"},
	}})
	assert.Equal(t, "Invalid file type. Please upload an image.", bot.lastMessage(t).Text)
}

func TestReportCallbackSendsPDF(t *testing.T) {
	r, bot := newTestRouter(t)
	r.HandleUpdate(context.Background(), photo("big"))
	kb := bot.lastMessage(t).ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)

	r.HandleUpdate(context.Background(), callback(*kb.InlineKeyboard[0][0].CallbackData))

	require.Len(t, bot.requests, 1, "callback is acknowledged")
	docs := bot.documents()
	require.Len(t, docs, 1)
	fb, ok := docs[0].File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("AgriSakhi_Report_Tomato_Late_blight_%d.pdf", fixedNow.UnixMilli()), fb.Name)
	assert.True(t, bytes.HasPrefix(fb.Bytes, []byte("%PDF-")))
	assert.Equal(t, "📄 Tomato - Late Blight", docs[0].Caption)
}

func TestReportForUnknownRecord(t *testing.T) {
	r, bot := newTestRouter(t)
	r.HandleUpdate(context.Background(), callback(reportPrefix+"detection-1"))
	assert.Contains(t, bot.lastMessage(t).Text, "Report not available")
	assert.Empty(t, bot.documents())

	r.HandleUpdate(context.Background(), command("/report"))
	assert.Contains(t, bot.lastMessage(t).Text, "Report not available")
}

func TestLangCommand(t *testing.T) {
	r, bot := newTestRouter(t)

	r.HandleUpdate(context.Background(), command("/lang"))
	assert.Contains(t, bot.lastMessage(t).Text, "Report language: en")

	r.HandleUpdate(context.Background(), command("/lang fr"))
	assert.Contains(t, bot.lastMessage(t).Text, "Unsupported language")
	assert.Equal(t, plant.LangEnglish, r.lang(chatID))

	r.HandleUpdate(context.Background(), command("/lang hi"))
	assert.Equal(t, plant.LangHindi, r.lang(chatID))

	r.HandleUpdate(context.Background(), photo("big"))
	assert.Contains(t, bot.lastMessage(t).Text, "टमाटर - लेट ब्लाइट")
}

func TestHistoryAndLast(t *testing.T) {
	r, bot := newTestRouter(t)

	r.HandleUpdate(context.Background(), command("/history"))
	assert.Contains(t, bot.lastMessage(t).Text, "history is empty")
	r.HandleUpdate(context.Background(), command("/last"))
	assert.Contains(t, bot.lastMessage(t).Text, "No detection yet")

	r.HandleUpdate(context.Background(), photo("big"))
	r.HandleUpdate(context.Background(), photo("big"))

	r.HandleUpdate(context.Background(), command("/history"))
	text := bot.lastMessage(t).Text
	assert.Contains(t, text, "2 detections, 2 this month, average confidence 87%")
	assert.Contains(t, text, "1. Tomato - Late Blight · 87% · 2026-03-14")

	r.HandleUpdate(context.Background(), command("/last"))
	msg := bot.lastMessage(t)
	assert.Contains(t, msg.Text, "Tomato - Late Blight")
	kb := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.Equal(t, reportPrefix+lastReportID, *kb.InlineKeyboard[0][0].CallbackData)
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("я", maxMessageLen+10)
	got := truncate(long)
	assert.Equal(t, maxMessageLen+1, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, "short", truncate("short"))
}

type scriptedUpdater struct {
	mu      sync.Mutex
	calls   int
	offsets []int
	steps   []func() ([]tgbotapi.Update, error)
}

func (s *scriptedUpdater) GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offsets = append(s.offsets, cfg.Offset)
	i := s.calls
	s.calls++
	if i < len(s.steps) {
		return s.steps[i]()
	}
	return nil, nil
}

func TestPollerRetriesAndAdvancesOffset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	up := &scriptedUpdater{steps: []func() ([]tgbotapi.Update, error){
		func() ([]tgbotapi.Update, error) { return nil, errors.New("bad gateway") },
		func() ([]tgbotapi.Update, error) {
			return []tgbotapi.Update{{UpdateID: 10}, {UpdateID: 11}}, nil
		},
		func() ([]tgbotapi.Update, error) { return []tgbotapi.Update{{UpdateID: 12}}, nil },
	}}
	p := NewPoller(up)
	p.log = logger.Discard()
	p.Idle = 0
	p.NewBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }

	var seen []int
	err := p.Run(ctx, func(u tgbotapi.Update) {
		seen = append(seen, u.UpdateID)
		if u.UpdateID == 12 {
			cancel()
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, seen)
	assert.Equal(t, []int{0, 0, 12}, up.offsets)
}

func TestRetryDelayFromError(t *testing.T) {
	assert.Equal(t, time.Duration(0), retryDelayFromError(nil))
	assert.Equal(t, 7*time.Second, retryDelayFromError(errors.New("Too Many Requests: retry after 7")))
	assert.Equal(t, 3*time.Second, retryDelayFromError(errors.New("too many requests")))
	assert.Equal(t, 11*time.Second, retryDelayFromError(&tgbotapi.Error{
		Code: 429, Message: "Too Many Requests", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 11},
	}))
	assert.Equal(t, time.Duration(0), retryDelayFromError(errors.New("bad gateway")))
}

func TestRetryAfterBackOffUsesHint(t *testing.T) {
	b := &retryAfterBackOff{BackOff: backoff.NewConstantBackOff(time.Millisecond)}
	assert.Equal(t, time.Millisecond, b.NextBackOff())
	b.last = errors.New("Too Many Requests: retry after 5")
	assert.Equal(t, 5*time.Second, b.NextBackOff())
}

type fakeParser struct {
	upd *tgbotapi.Update
	err error
}

func (f fakeParser) HandleUpdate(*http.Request) (*tgbotapi.Update, error) { return f.upd, f.err }

func TestWebhookHandler(t *testing.T) {
	r, bot := newTestRouter(t)
	upd := command("/start")

	e := echo.New()
	e.POST("/hook", WebhookHandler(context.Background(), fakeParser{upd: &upd}, r))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Eventually(t, func() bool { return len(bot.texts()) == 1 }, time.Second, 10*time.Millisecond)

	e.POST("/bad", WebhookHandler(context.Background(), fakeParser{err: errors.New("bad update")}, r))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bad", strings.NewReader("x")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookPathStable(t *testing.T) {
	a := WebhookPath("123:abc")
	assert.Equal(t, a, WebhookPath("123:abc"))
	assert.NotEqual(t, a, WebhookPath("123:abd"))
	assert.True(t, strings.HasPrefix(a, "/webhook/"))
	assert.NotContains(t, a, "abc")
}
