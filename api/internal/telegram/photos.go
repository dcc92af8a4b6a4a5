package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "agrisakhi/api/internal/errors"
	"agrisakhi/api/internal/intake"
)

func (r *Router) acceptPhoto(ctx context.Context, chatID int64, fileID, name, mime string) {
	r.send(chatID, "🔍 Analyzing your plant photo...")

	url, err := r.Bot.GetFileDirectURL(fileID)
	if err != nil {
		r.log.Warn("get file failed", "chat_id", chatID, "error", err)
		r.send(chatID, "❌ Could not download the photo. Please send it again.")
		return
	}
	data, err := r.Download(ctx, url)
	if err != nil {
		r.log.Warn("download failed", "chat_id", chatID, "error", err)
		r.send(chatID, "❌ Could not download the photo. Please send it again.")
		return
	}

	diag, err := r.Pipeline.Diagnose(ctx, identityFor(chatID), intake.Upload{
		Filename: name,
		MIME:     mime,
		Data:     data,
	})
	if err != nil {
		if apperrors.IsCategory(err, apperrors.CategoryValidation) {
			r.send(chatID, "❌ "+intake.UserMessage(err))
			return
		}
		r.log.Error("diagnosis failed", "chat_id", chatID, "error", err)
		r.send(chatID, "❌ Detection failed, please try again.")
		return
	}

	id := lastReportID
	if diag.Record != nil {
		id = diag.Record.ID
	}
	r.sendWithKeyboard(chatID, formatDiagnosis(diag, r.lang(chatID)), reportKeyboard(id))
}

var httpClient = &http.Client{Timeout: 60 * time.Second}

func download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, intake.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read telegram file: %w", err)
	}
	return b, nil
}
