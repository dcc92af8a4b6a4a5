package handle

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agrisakhi/api/internal/plant"
)

type HistoryResponse struct {
	Records []plant.DetectionRecord `json:"records"`
	Total   int                     `json:"total"`
}

// ListHistory returns the caller's records newest first, filtered by ?q= when given.
func (h *Handle) ListHistory(c echo.Context) error {
	ctx := c.Request().Context()
	recs, err := h.History.Search(ctx, identity(c), c.QueryParam("q"))
	if err != nil {
		return h.fail(c, err)
	}
	if recs == nil {
		recs = []plant.DetectionRecord{}
	}
	return c.JSON(http.StatusOK, HistoryResponse{Records: recs, Total: len(recs)})
}

func (h *Handle) HistoryStats(c echo.Context) error {
	st, err := h.History.Stats(c.Request().Context(), identity(c), h.Now())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handle) DeleteRecord(c echo.Context) error {
	if err := h.History.Remove(c.Request().Context(), identity(c), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handle) ClearHistory(c echo.Context) error {
	if err := h.History.Clear(c.Request().Context(), identity(c)); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handle) LastDetection(c echo.Context) error {
	res, err := h.History.Last(c.Request().Context(), identity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
