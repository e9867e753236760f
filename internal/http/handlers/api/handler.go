package api

import (
	handlershared "github.com/mlops-microproject/review-workspace/internal/http/handlers/shared"
	"github.com/mlops-microproject/review-workspace/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler entry point for the public analyze and workspace API
type Handler struct {
	*provider.Container
}

// New creates the API handler
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackCode int, fallbackMsg string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackMsg)
}
