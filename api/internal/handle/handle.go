package handle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"agrisakhi/api/internal/classifier"
	"agrisakhi/api/internal/classifier/gemini"
	apperrors "agrisakhi/api/internal/errors"
	"agrisakhi/api/internal/intake"
	"agrisakhi/api/internal/logger"
	"agrisakhi/api/internal/pipeline"
	"agrisakhi/api/internal/report"
	"agrisakhi/api/internal/store"
)

// IdentityHeader carries the caller's user id; requests without it share the guest history.
const IdentityHeader = "X-User-ID"

const defaultTimeout = 60 * time.Second

type Classifier interface {
	Classify(ctx context.Context, image []byte, mime string) (classifier.Classification, error)
}

type Diagnoser interface {
	Diagnose(ctx context.Context, identity string, up intake.Upload) (pipeline.Diagnosis, error)
}

type Replier interface {
	Reply(ctx context.Context, message string) (string, error)
}

type ModelLister interface {
	ListModels(ctx context.Context) ([]gemini.ModelInfo, error)
}

type ReportRecorder interface {
	RecordReport(theme string)
}

// Env is what /api/check-env reports. Keys are only ever exposed as lengths.
type Env struct {
	GeminiKey      string
	HuggingFaceKey string
	VisionModel    string
	ChatModel      string
	HFModel        string
	Backend        string
	Environment    string
}

type Deps struct {
	Classifier Classifier
	Pipeline   Diagnoser
	History    *store.History
	Assistant  Replier
	Models     ModelLister
	Renderer   *report.Renderer
	Metrics    ReportRecorder
	Providers  []string
	Env        Env
	Timeout    time.Duration
	Now        func() time.Time
}

type Handle struct {
	Deps
	log *slog.Logger
}

func New(d Deps) *Handle {
	if d.Timeout <= 0 {
		d.Timeout = defaultTimeout
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.Renderer == nil {
		d.Renderer = report.NewRenderer(report.ThemeGreen)
	}
	return &Handle{Deps: d, log: logger.Module("http")}
}

// Register mounts every /api route on e.
func (h *Handle) Register(e *echo.Echo) {
	api := e.Group("/api")
	api.POST("/detect", h.Detect)
	api.POST("/chat", h.Chat)
	api.GET("/check-env", h.CheckEnv)
	api.GET("/test-models", h.TestModels)

	api.POST("/detections", h.CreateDetection)
	api.GET("/detections/last", h.LastDetection)
	api.GET("/detections/last/report", h.LastDetectionReport)

	api.GET("/history", h.ListHistory)
	api.GET("/history/stats", h.HistoryStats)
	api.DELETE("/history", h.ClearHistory)
	api.DELETE("/history/:id", h.DeleteRecord)
	api.GET("/history/:id/report", h.RecordReport)

	api.GET("/treatments", h.Treatments)
}

func writeError(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

func identity(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(IdentityHeader))
}

// requestContext applies X-Request-Timeout (or ?timeoutSec=) in seconds on top
// of the configured default.
func (h *Handle) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	deadline := h.Timeout
	if ts := c.Request().Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	} else if ts := c.QueryParam("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	return context.WithTimeout(c.Request().Context(), deadline)
}

var errNoImage = errors.New("no image provided")

// readUpload reads the multipart "image" field. One byte past the limit is
// kept so validation can tell an oversize file apart.
func readUpload(c echo.Context) (intake.Upload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return intake.Upload{}, errNoImage
	}
	f, err := fh.Open()
	if err != nil {
		return intake.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, intake.MaxUploadBytes+1))
	if err != nil {
		return intake.Upload{}, err
	}
	return intake.Upload{
		Filename: fh.Filename,
		MIME:     fh.Header.Get(echo.HeaderContentType),
		Data:     data,
	}, nil
}

// fail maps domain errors onto status codes. Unexpected errors never leak
// their text to the client.
func (h *Handle) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errNoImage):
		return writeError(c, http.StatusBadRequest, "No image provided")
	case apperrors.IsCategory(err, apperrors.CategoryValidation),
		errors.Is(err, intake.ErrInvalidFileType),
		errors.Is(err, intake.ErrFileTooLarge),
		errors.Is(err, intake.ErrUnreadableImage):
		return writeError(c, http.StatusBadRequest, intake.UserMessage(err))
	case errors.Is(err, store.ErrNotFound):
		return writeError(c, http.StatusNotFound, "not found")
	case errors.Is(err, context.DeadlineExceeded):
		return writeError(c, http.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, pipeline.ErrDetectionFailed):
		return writeError(c, http.StatusInternalServerError, pipeline.ErrDetectionFailed.Error())
	}
	h.log.Error("request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"error", err)
	return writeError(c, http.StatusInternalServerError, "internal server error")
}
