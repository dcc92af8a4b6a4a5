package handle

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"agrisakhi/api/internal/classifier/gemini"
)

type EnvResponse struct {
	GeminiKeyExists      bool      `json:"geminiKeyExists"`
	GeminiKeyLength      int       `json:"geminiKeyLength"`
	HuggingFaceKeyExists bool      `json:"hfKeyExists"`
	HuggingFaceKeyLength int       `json:"hfKeyLength"`
	Models               EnvModels `json:"models"`
	Providers            []string  `json:"providers"`
	HistoryBackend       string    `json:"historyBackend"`
	Environment          string    `json:"environment,omitempty"`
}

type EnvModels struct {
	Vision      string `json:"vision,omitempty"`
	Chat        string `json:"chat,omitempty"`
	HuggingFace string `json:"huggingface,omitempty"`
}

// CheckEnv reports which credentials are present. Only lengths are exposed.
func (h *Handle) CheckEnv(c echo.Context) error {
	providers := h.Providers
	if providers == nil {
		providers = []string{}
	}
	return c.JSON(http.StatusOK, EnvResponse{
		GeminiKeyExists:      h.Env.GeminiKey != "",
		GeminiKeyLength:      len(h.Env.GeminiKey),
		HuggingFaceKeyExists: h.Env.HuggingFaceKey != "",
		HuggingFaceKeyLength: len(h.Env.HuggingFaceKey),
		Models: EnvModels{
			Vision:      h.Env.VisionModel,
			Chat:        h.Env.ChatModel,
			HuggingFace: h.Env.HFModel,
		},
		Providers:      providers,
		HistoryBackend: h.Env.Backend,
		Environment:    h.Env.Environment,
	})
}

type ModelsResponse struct {
	Success bool               `json:"success"`
	Models  []gemini.ModelInfo `json:"models"`
}

func (h *Handle) TestModels(c echo.Context) error {
	if h.Models == nil {
		return writeError(c, http.StatusInternalServerError, "API key not configured")
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	models, err := h.Models.ListModels(ctx)
	if errors.Is(err, gemini.ErrNoAPIKey) {
		return writeError(c, http.StatusInternalServerError, "API key not configured")
	}
	if err != nil {
		h.log.Warn("list models failed", "error", err)
		return writeError(c, http.StatusBadGateway, err.Error())
	}
	if models == nil {
		models = []gemini.ModelInfo{}
	}
	return c.JSON(http.StatusOK, ModelsResponse{Success: true, Models: models})
}
