package main

import (
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"agrisakhi/api/internal/config"
	apperrors "agrisakhi/api/internal/errors"
	"agrisakhi/api/internal/logger"
)

type rootOptions struct {
	configFile string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "agrisakhi",
		Short:         "AgriSakhi plant disease detection service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initialize()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			sentry.Flush(2 * time.Second)
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to config file (default ./config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level: debug, info, warn, error")

	root.AddCommand(
		serveCommand(opts),
		botCommand(opts),
		detectCommand(opts),
	)
	return root
}

// initialize loads configuration and sets up logging and error reporting.
func (o *rootOptions) initialize() error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	o.cfg = cfg

	logger.SetGlobal(logger.New(os.Stderr, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}))

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			return fmt.Errorf("sentry init: %w", err)
		}
		apperrors.SetReporter(apperrors.NewSentryReporter(true))
		logger.Module("main").Info("sentry enabled", "environment", cfg.Sentry.Environment)
	}
	return nil
}
