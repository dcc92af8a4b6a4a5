package handle

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"agrisakhi/api/internal/intake"
	"agrisakhi/api/internal/pipeline"
	"agrisakhi/api/internal/plant"
)

// DetectResponse is the classification-only answer of /api/detect.
// AI names the provider; Demo is set instead when the fallback answered.
type DetectResponse struct {
	Results []plant.Prediction `json:"results"`
	AI      string             `json:"ai,omitempty"`
	Demo    bool               `json:"demo,omitempty"`
}

// Detect classifies an upload without storing anything.
func (h *Handle) Detect(c echo.Context) error {
	up, err := readUpload(c)
	if err != nil {
		return h.fail(c, err)
	}
	payload, err := intake.Validate(up)
	if err != nil {
		return h.fail(c, err)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	cls, err := h.Classifier.Classify(ctx, payload.Data, payload.MIME)
	if err != nil {
		return h.fail(c, fmt.Errorf("%w: %w", pipeline.ErrDetectionFailed, err))
	}
	out := DetectResponse{Results: cls.Predictions}
	if cls.Demo {
		out.Demo = true
	} else {
		out.AI = cls.Source
	}
	return c.JSON(http.StatusOK, out)
}

// CreateDetection runs the full pipeline and returns the diagnosis.
func (h *Handle) CreateDetection(c echo.Context) error {
	up, err := readUpload(c)
	if err != nil {
		return h.fail(c, err)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	diag, err := h.Pipeline.Diagnose(ctx, identity(c), up)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, diag)
}
