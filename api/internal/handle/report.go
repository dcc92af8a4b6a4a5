package handle

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"agrisakhi/api/internal/plant"
	"agrisakhi/api/internal/report"
)

func (h *Handle) LastDetectionReport(c echo.Context) error {
	res, err := h.History.Last(c.Request().Context(), identity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendReport(c, res)
}

func (h *Handle) RecordReport(c echo.Context) error {
	rec, err := h.History.Get(c.Request().Context(), identity(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendReport(c, rec.DetectionResult)
}

// reportLanguage prefers ?lang= and falls back to Accept-Language.
func reportLanguage(c echo.Context) string {
	if l := c.QueryParam("lang"); l != "" {
		return report.MatchLanguage(l)
	}
	return report.MatchLanguage(c.Request().Header.Get("Accept-Language"))
}

func (h *Handle) sendReport(c echo.Context, res plant.DetectionResult) error {
	now := h.Now()
	var buf bytes.Buffer
	err := h.Renderer.Render(&buf, report.Input{
		Result:      res,
		ImageRef:    res.ImageURL,
		Language:    reportLanguage(c),
		GeneratedAt: now,
	})
	if err != nil {
		h.log.Error("report render failed", "disease", res.Disease, "error", err)
		return writeError(c, http.StatusInternalServerError, "Failed to generate PDF report. Please try again.")
	}
	if h.Metrics != nil {
		h.Metrics.RecordReport(h.Renderer.Theme.Name)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", report.Filename(res, now)))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
