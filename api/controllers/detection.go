package controllers

import (
	"net/http"

	"github.com/angelmondragon/nutritrack-backend/api/responses"
	"github.com/angelmondragon/nutritrack-backend/api/validators"
	"github.com/angelmondragon/nutritrack-backend/internal/detection"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
)

type analyzeImageRequest struct {
	Image string `json:"image" validate:"required"`
}

// AnalyzeImage runs ingredient detection on a base64 encoded image and maps
// the detections to catalog suggestions.
func AnalyzeImage(svc detection.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeImageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Analyze(r.Context(), req.Image)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
