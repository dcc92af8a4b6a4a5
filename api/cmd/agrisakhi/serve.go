package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"agrisakhi/api/internal/config"
	"agrisakhi/api/internal/httpserver"
	"agrisakhi/api/internal/intake"
	"agrisakhi/api/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

type runMode struct {
	api bool
	bot bool
}

func serveCommand(o *rootOptions) *cobra.Command {
	withBot := true
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the Telegram bot when a token is configured)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), o.cfg, runMode{api: true, bot: withBot && o.cfg.Telegram.Token != ""})
		},
	}
	cmd.Flags().BoolVar(&withBot, "with-bot", true, "also run the Telegram bot when TELEGRAM_BOT_TOKEN is set")
	return cmd
}

func botCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run only the Telegram bot (polling, or webhook when WEBHOOK_URL is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.cfg.Telegram.Token == "" {
				return errors.New("TELEGRAM_BOT_TOKEN is not set")
			}
			return run(cmd.Context(), o.cfg, runMode{bot: true})
		},
	}
}

// run serves /healthz and /metrics always, the API and the bot per mode, and
// shuts everything down when ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, mode runMode) error {
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var routes []httpserver.Registrar
	if mode.api {
		routes = append(routes, a.handler())
	}
	srv := httpserver.New(serverConfig(cfg), a.registry, routes...)

	g, gctx := errgroup.WithContext(ctx)
	if mode.bot {
		if err := startBot(gctx, g, a, srv); err != nil {
			return err
		}
	}
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func serverConfig(cfg *config.Config) httpserver.Config {
	return httpserver.Config{
		Addr:            "0.0.0.0:" + cfg.Server.Port,
		BodyLimit:       cfg.Server.BodyLimit,
		HealthzBody:     "ok",
		TooLargeMessage: intake.UserMessage(intake.ErrFileTooLarge),
	}
}

func startBot(ctx context.Context, g *errgroup.Group, a *app, srv *httpserver.Server) error {
	bot, err := tgbotapi.NewBotAPI(a.cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	router := telegram.NewRouter(bot, a.pipeline, a.history, a.renderer)
	router.Metrics = a.metrics

	if base := strings.TrimSpace(a.cfg.Telegram.WebhookURL); base != "" {
		path := telegram.WebhookPath(a.cfg.Telegram.Token)
		wh, err := tgbotapi.NewWebhook(strings.TrimRight(base, "/") + path)
		if err != nil {
			return fmt.Errorf("telegram webhook: %w", err)
		}
		wh.DropPendingUpdates = true
		if _, err := bot.Request(wh); err != nil {
			return fmt.Errorf("telegram set webhook: %w", err)
		}
		srv.Echo().POST(path, telegram.WebhookHandler(ctx, bot, router))
		a.log.Info("telegram webhook mode", "bot", bot.Self.UserName)
		return nil
	}

	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		a.log.Warn("could not delete webhook before polling", "error", err)
	}
	poller := telegram.NewPoller(bot)
	g.Go(func() error {
		return poller.Run(ctx, func(upd tgbotapi.Update) { router.HandleUpdate(ctx, upd) })
	})
	a.log.Info("telegram polling mode", "bot", bot.Self.UserName)
	return nil
}
