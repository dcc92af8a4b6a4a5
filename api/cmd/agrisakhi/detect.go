package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	apperrors "agrisakhi/api/internal/errors"
	"agrisakhi/api/internal/intake"
	"agrisakhi/api/internal/pipeline"
	"agrisakhi/api/internal/report"
)

type detectOptions struct {
	pdf      string
	lang     string
	identity string
	withURL  bool
}

type diagnoser interface {
	Diagnose(ctx context.Context, identity string, up intake.Upload) (pipeline.Diagnosis, error)
}

func detectCommand(o *rootOptions) *cobra.Command {
	opts := detectOptions{}
	cmd := &cobra.Command{
		Use:   "detect <image>",
		Short: "Diagnose a plant photo and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), o.cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return runDetect(cmd.Context(), a.pipeline, a.renderer, args[0], opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "also write a PDF report to this path")
	cmd.Flags().StringVar(&opts.lang, "lang", "en", "report language: en, hi, kn, ur")
	cmd.Flags().StringVar(&opts.identity, "user", "cli", "history identity to record the detection under")
	cmd.Flags().BoolVar(&opts.withURL, "with-image", false, "keep the image data URI in the JSON output")
	return cmd
}

func runDetect(ctx context.Context, d diagnoser, rr *report.Renderer, path string, opts detectOptions, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	diag, err := d.Diagnose(ctx, opts.identity, intake.Upload{
		Filename: filepath.Base(path),
		MIME:     mime.TypeByExtension(filepath.Ext(path)),
		Data:     data,
	})
	if err != nil {
		if apperrors.IsCategory(err, apperrors.CategoryValidation) {
			return errors.New(intake.UserMessage(err))
		}
		return err
	}

	if opts.pdf != "" {
		if err := writeReport(rr, opts, diag); err != nil {
			return err
		}
	}

	if !opts.withURL {
		diag.Result.ImageURL = ""
		if diag.Record != nil {
			rec := *diag.Record
			rec.ImageURL = ""
			diag.Record = &rec
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diag)
}

func writeReport(rr *report.Renderer, opts detectOptions, diag pipeline.Diagnosis) (err error) {
	f, err := os.Create(opts.pdf)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	err = rr.Render(f, report.Input{
		Result:          diag.Result,
		Recommendations: diag.Recommendations,
		ImageRef:        diag.Result.ImageURL,
		Language:        report.MatchLanguage(opts.lang),
		GeneratedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("write report %s: %w", opts.pdf, err)
	}
	return nil
}
