package api

import (
	"github.com/mlops-microproject/review-workspace/internal/constants"
	"github.com/mlops-microproject/review-workspace/internal/http/response"
	"github.com/mlops-microproject/review-workspace/internal/scoring"

	"github.com/gin-gonic/gin"
)

// Health liveness probe
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status":      "healthy",
		"version":     h.Config.Model.Version,
		"environment": h.Config.Server.Environment,
	})
}

// ModelInfo describes the scoring model behind /analyze
func (h *Handler) ModelInfo(c *gin.Context) {
	response.Success(c, gin.H{
		"name":     h.Config.Model.Name,
		"version":  h.Config.Model.Version,
		"status":   constants.ModelStatus,
		"features": scoring.Features(),
		"async":    h.AnalyzeService.AsyncEnabled(),
	})
}
