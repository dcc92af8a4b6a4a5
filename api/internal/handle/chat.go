package handle

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"agrisakhi/api/internal/chat"
)

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

func (h *Handle) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad json: "+err.Error())
	}
	if h.Assistant == nil {
		return writeError(c, http.StatusInternalServerError, chat.ErrNotConfigured.Error())
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	text, err := h.Assistant.Reply(ctx, req.Message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return writeError(c, http.StatusBadRequest, "Message is required")
	case errors.Is(err, chat.ErrNotConfigured):
		return writeError(c, http.StatusInternalServerError, "API key not configured")
	case err != nil:
		h.log.Error("chat failed", "error", err)
		return writeError(c, http.StatusInternalServerError, "Failed to get AI response")
	}
	return c.JSON(http.StatusOK, ChatResponse{Response: text})
}
