package telegram

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"

	"agrisakhi/api/internal/logger"
)

type Updater interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// Poller long-polls getUpdates. Failures are retried with exponential backoff,
// stretched to Telegram's "retry after" hint on 429.
type Poller struct {
	Bot        Updater
	Timeout    int // long-poll seconds
	Idle       time.Duration
	NewBackOff func() backoff.BackOff

	log *slog.Logger
}

func NewPoller(bot Updater) *Poller {
	return &Poller{
		Bot:     bot,
		Timeout: 30,
		Idle:    200 * time.Millisecond,
		NewBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 15 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
		log: logger.Module("telegram"),
	}
}

// Run polls until ctx is cancelled. handle is called sequentially in update order.
func (p *Poller) Run(ctx context.Context, handle func(tgbotapi.Update)) error {
	ra := &retryAfterBackOff{BackOff: p.NewBackOff()}
	bo := backoff.WithContext(ra, ctx)
	offset := 0

	for {
		if ctx.Err() != nil {
			p.log.Info("polling stopped")
			return nil
		}

		var updates []tgbotapi.Update
		err := backoff.RetryNotify(func() error {
			u := tgbotapi.NewUpdate(offset)
			u.Timeout = p.Timeout
			var err error
			updates, err = p.Bot.GetUpdates(u)
			ra.last = err
			return err
		}, bo, func(err error, d time.Duration) {
			p.log.Warn("polling error", "error", err, "retry_in", d)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 && p.Idle > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(p.Idle):
			}
		}
	}
}

type retryAfterBackOff struct {
	backoff.BackOff
	last error
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	d := b.BackOff.NextBackOff()
	if d == backoff.Stop {
		return d
	}
	if hint := retryDelayFromError(b.last); hint > d {
		return hint
	}
	return d
}

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

// retryDelayFromError reads the minimum wait Telegram asks for. Zero means no hint.
func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
		return time.Duration(tgErr.RetryAfter) * time.Second
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") {
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 0
}

// UpdateParser decodes a webhook request; *tgbotapi.BotAPI implements it.
type UpdateParser interface {
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// WebhookHandler acknowledges Telegram immediately and processes the update in
// the background under ctx.
func WebhookHandler(ctx context.Context, p UpdateParser, r *Router) echo.HandlerFunc {
	return func(c echo.Context) error {
		upd, err := p.HandleUpdate(c.Request())
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		go r.HandleUpdate(ctx, *upd)
		return c.NoContent(http.StatusOK)
	}
}

// WebhookPath derives a stable secret path from the bot token.
func WebhookPath(token string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	return "/webhook/" + strconv.FormatUint(h.Sum64(), 16)
}
