package handle

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"agrisakhi/api/internal/plant"
	"agrisakhi/api/internal/treatment"
)

type TreatmentResponse struct {
	Disease         string           `json:"disease"`
	Name            string           `json:"name"`
	Treatment       treatment.Bundle `json:"treatment"`
	Recommendations []string         `json:"recommendations,omitempty"`
}

// Treatments looks up ?disease=; with ?confidence= the recommendation lines are included too.
func (h *Handle) Treatments(c echo.Context) error {
	disease := c.QueryParam("disease")
	if disease == "" {
		return writeError(c, http.StatusBadRequest, "disease is required")
	}
	out := TreatmentResponse{
		Disease:   disease,
		Name:      plant.FormatName(disease),
		Treatment: treatment.Lookup(disease),
	}
	if s := c.QueryParam("confidence"); s != "" {
		conf, err := strconv.ParseFloat(s, 64)
		if err != nil || conf < 0 || conf > 1 {
			return writeError(c, http.StatusBadRequest, "confidence must be between 0 and 1")
		}
		out.Recommendations = treatment.Recommendations(disease, conf)
	}
	return c.JSON(http.StatusOK, out)
}
