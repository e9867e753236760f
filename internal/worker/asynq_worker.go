package worker

import (
	"context"
	"errors"

	"github.com/mlops-microproject/review-workspace/internal/logger"
	"github.com/mlops-microproject/review-workspace/internal/provider"
	"github.com/mlops-microproject/review-workspace/internal/queue"
	"github.com/mlops-microproject/review-workspace/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer async task consumer
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers to the mux
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskAnalyzeBatch, c.handleAnalyzeBatch)
}

func (c *Consumer) handleAnalyzeBatch(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_analyze_batch_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseAnalyzeBatchPayload(task)
	if err != nil {
		logger.Warnw("worker_analyze_batch_unmarshal_failed", "error", err)
		// a payload that cannot be decoded will never succeed
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.JobID == "" {
		logger.Debugw("worker_analyze_batch_skip_invalid_payload", "orders", len(payload.Orders))
		return nil
	}
	if c.AnalyzeService == nil {
		logger.Warnw("worker_analyze_batch_skip_service_nil", "job_id", payload.JobID)
		return nil
	}
	if err := c.AnalyzeService.CompleteJob(ctx, payload); err != nil {
		if errors.Is(err, service.ErrAsyncUnavailable) {
			logger.Warnw("worker_analyze_batch_cache_disabled", "job_id", payload.JobID)
			return errors.Join(err, asynq.SkipRetry)
		}
		logger.Warnw("worker_analyze_batch_failed", "job_id", payload.JobID, "orders", len(payload.Orders), "error", err)
		return err
	}
	return nil
}
