package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mlops-microproject/review-workspace/internal/cache"
	"github.com/mlops-microproject/review-workspace/internal/constants"
	"github.com/mlops-microproject/review-workspace/internal/logger"
	"github.com/mlops-microproject/review-workspace/internal/metrics"
	"github.com/mlops-microproject/review-workspace/internal/models"
	"github.com/mlops-microproject/review-workspace/internal/queue"
	"github.com/mlops-microproject/review-workspace/internal/scoring"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const defaultJobTTL = time.Hour

// JobStore keeps analyze job records
type JobStore interface {
	Enabled() bool
	Get(ctx context.Context, id string) (*models.AnalyzeJob, bool, error)
	Save(ctx context.Context, job *models.AnalyzeJob, ttl time.Duration) error
}

// JobQueue hands batch jobs to the worker
type JobQueue interface {
	Enabled() bool
	EnqueueAnalyzeBatch(payload queue.AnalyzeBatchPayload, opts ...asynq.Option) error
}

// CacheJobStore JobStore on the Redis cache
type CacheJobStore struct{}

// Enabled reports whether Redis is configured
func (CacheJobStore) Enabled() bool {
	return cache.Enabled()
}

// Get reads a job
func (CacheJobStore) Get(ctx context.Context, id string) (*models.AnalyzeJob, bool, error) {
	return cache.GetAnalyzeJob(ctx, id)
}

// Save writes a job
func (CacheJobStore) Save(ctx context.Context, job *models.AnalyzeJob, ttl time.Duration) error {
	return cache.SetAnalyzeJob(ctx, job, ttl)
}

// AnalyzeService scores analyze requests, synchronously or as queued jobs
type AnalyzeService struct {
	jobs    JobStore
	queue   JobQueue
	jobTTL  time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewAnalyzeService creates the analyze service
func NewAnalyzeService(jobs JobStore, q JobQueue, jobTTL time.Duration, m *metrics.Metrics) *AnalyzeService {
	if jobTTL <= 0 {
		jobTTL = defaultJobTTL
	}
	return &AnalyzeService{
		jobs:    jobs,
		queue:   q,
		jobTTL:  jobTTL,
		metrics: m,
		now:     time.Now,
	}
}

// Analyze predicts every order of the request
func (s *AnalyzeService) Analyze(req models.AnalyzeRequest) models.PredictionResult {
	result := scoring.Predict(req)
	s.metrics.ObservePredictions(metrics.SourceAnalyze, result.List())
	return result
}

// Explain lists the risk terms behind each prediction
func (s *AnalyzeService) Explain(req models.AnalyzeRequest) []models.Explanation {
	return scoring.ExplainAll(req)
}

// AsyncEnabled reports whether jobs can be submitted
func (s *AnalyzeService) AsyncEnabled() bool {
	return s.jobs != nil && s.jobs.Enabled() && s.queue != nil && s.queue.Enabled()
}

// SubmitJob records a pending job and queues it
func (s *AnalyzeService) SubmitJob(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeJob, error) {
	if !s.AsyncEnabled() {
		return nil, ErrAsyncUnavailable
	}
	orders := req.Records()
	if len(orders) == 0 {
		return nil, ErrEmptyBatch
	}

	now := s.now()
	job := &models.AnalyzeJob{
		ID:         uuid.NewString(),
		Status:     constants.JobStatusPending,
		OrderCount: len(orders),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.jobs.Save(ctx, job, s.jobTTL); err != nil {
		logger.Warnw("analyze_job_save_failed", "job_id", job.ID, "error", err)
		return nil, fmt.Errorf("save analyze job: %w", err)
	}
	if err := s.queue.EnqueueAnalyzeBatch(queue.AnalyzeBatchPayload{JobID: job.ID, Orders: orders}); err != nil {
		logger.Warnw("analyze_job_enqueue_failed", "job_id", job.ID, "error", err)
		s.finish(ctx, job, nil, err)
		return nil, fmt.Errorf("enqueue analyze job: %w", err)
	}
	logger.Infow("analyze_job_submitted", "job_id", job.ID, "orders", job.OrderCount)
	return job, nil
}

// GetJob reads a job record
func (s *AnalyzeService) GetJob(ctx context.Context, id string) (*models.AnalyzeJob, error) {
	if s.jobs == nil || !s.jobs.Enabled() {
		return nil, ErrAsyncUnavailable
	}
	if strings.TrimSpace(id) == "" {
		return nil, ErrJobNotFound
	}
	job, hit, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !hit || job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// CompleteJob runs a queued batch and stores the predictions
func (s *AnalyzeService) CompleteJob(ctx context.Context, payload queue.AnalyzeBatchPayload) error {
	if s.jobs == nil || !s.jobs.Enabled() {
		return ErrAsyncUnavailable
	}
	job, hit, err := s.jobs.Get(ctx, payload.JobID)
	if err != nil {
		return err
	}
	if !hit || job == nil {
		// expired before the worker got to it; rebuild the record
		now := s.now()
		job = &models.AnalyzeJob{ID: payload.JobID, OrderCount: len(payload.Orders), CreatedAt: now}
	}
	if job.Status == constants.JobStatusDone {
		return nil
	}

	result := scoring.Predict(models.NewBatchRequest(payload.Orders))
	return s.finish(ctx, job, result.Batch, nil)
}

func (s *AnalyzeService) finish(ctx context.Context, job *models.AnalyzeJob, preds []models.Prediction, cause error) error {
	job.UpdatedAt = s.now()
	if cause != nil {
		job.Status = constants.JobStatusFailed
		job.Error = cause.Error()
	} else {
		job.Status = constants.JobStatusDone
		job.Predictions = preds
		job.Error = ""
	}
	s.metrics.ObserveJob(job.Status)
	s.metrics.ObservePredictions(metrics.SourceJob, preds)
	if err := s.jobs.Save(ctx, job, s.jobTTL); err != nil {
		logger.Warnw("analyze_job_save_failed", "job_id", job.ID, "status", job.Status, "error", err)
		return err
	}
	logger.Infow("analyze_job_finished", "job_id", job.ID, "status", job.Status, "orders", job.OrderCount)
	return nil
}
