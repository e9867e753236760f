package provider

import (
	"time"

	"github.com/mlops-microproject/review-workspace/internal/cache"
	"github.com/mlops-microproject/review-workspace/internal/config"
	"github.com/mlops-microproject/review-workspace/internal/logger"
	"github.com/mlops-microproject/review-workspace/internal/metrics"
	"github.com/mlops-microproject/review-workspace/internal/queue"
	"github.com/mlops-microproject/review-workspace/internal/service"
)

// Container dependency container
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Metrics     *metrics.Metrics

	// Services
	WorkspaceService *service.WorkspaceService
	AnalyzeService   *service.AnalyzeService
}

// NewContainer wires cache, queue and services from config
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Metrics:     metrics.New(),
	}
	c.initServices()
	return c
}

func (c *Container) initServices() {
	c.WorkspaceService = service.NewWorkspaceService(service.WorkspaceOptions{
		MaxWorkspaces: c.Config.Workspace.MaxWorkspaces,
		MaxOrders:     c.Config.Workspace.MaxOrders,
		IdleTTL:       time.Duration(c.Config.Workspace.IdleTTLMinutes) * time.Minute,
	}, c.Metrics)

	var jobQueue service.JobQueue
	if c.QueueClient != nil {
		jobQueue = c.QueueClient
	}
	c.AnalyzeService = service.NewAnalyzeService(
		service.CacheJobStore{},
		jobQueue,
		time.Duration(c.Config.Analyze.JobTTLMinutes)*time.Minute,
		c.Metrics,
	)
}

// Close releases queue and cache clients
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
