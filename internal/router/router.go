package router

import (
	"fmt"
	"strings"

	"github.com/mlops-microproject/review-workspace/internal/cache"
	"github.com/mlops-microproject/review-workspace/internal/config"
	apihandlers "github.com/mlops-microproject/review-workspace/internal/http/handlers/api"
	"github.com/mlops-microproject/review-workspace/internal/http/response"
	"github.com/mlops-microproject/review-workspace/internal/logger"
	"github.com/mlops-microproject/review-workspace/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the engine with every route
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.Z()
	r := gin.New()

	h := apihandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "rw"
	}
	analyzeRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:analyze", redisPrefix),
		WindowSeconds: cfg.Security.AnalyzeRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.AnalyzeRateLimit.MaxRequests,
	}
	analyzeLimit := RateLimitMiddleware(cache.Client(), analyzeRule, KeyByIP)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(MetricsMiddleware(c.Metrics))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", h.Health)
	r.GET("/model/info", h.ModelInfo)
	r.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	apiV1 := r.Group("/api/v1")
	{
		analyze := apiV1.Group("/analyze")
		{
			analyze.POST("", analyzeLimit, h.Analyze)
			analyze.POST("/explain", analyzeLimit, h.Explain)
			analyze.POST("/jobs", analyzeLimit, h.SubmitAnalyzeJob)
			analyze.GET("/jobs/:id", h.GetAnalyzeJob)
		}

		workspaces := apiV1.Group("/workspaces")
		{
			workspaces.POST("", h.CreateWorkspace)
			workspaces.GET("/:id", h.GetWorkspace)
			workspaces.DELETE("/:id", h.DeleteWorkspace)
			workspaces.POST("/:id/orders", h.AddOrder)
			workspaces.DELETE("/:id/orders/active", h.RemoveActiveOrder)
			workspaces.PATCH("/:id/orders/active", h.UpdateActiveOrder)
			workspaces.PUT("/:id/active", h.SelectOrder)
			workspaces.POST("/:id/import", h.ImportOrders)
			workspaces.GET("/:id/payload", h.GetPayload)
			workspaces.POST("/:id/send", h.SendWorkspace)
			workspaces.DELETE("/:id/predictions", h.ClearPredictions)
			workspaces.POST("/:id/reset", h.ResetWorkspace)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "route not found")
	})

	return r
}
