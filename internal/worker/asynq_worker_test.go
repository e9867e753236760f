package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/mlops-microproject/review-workspace/internal/config"
	"github.com/mlops-microproject/review-workspace/internal/provider"

	"github.com/hibiken/asynq"
)

func TestHandleAnalyzeBatchBadPayloadSkipsRetry(t *testing.T) {
	c := NewConsumer(&provider.Container{})
	err := c.handleAnalyzeBatch(context.Background(), asynq.NewTask("analyze:batch", []byte("{")))
	if err == nil || !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload should skip retry, got %v", err)
	}
}

func TestHandleAnalyzeBatchSkipsWithoutJobOrService(t *testing.T) {
	c := NewConsumer(&provider.Container{})
	if err := c.handleAnalyzeBatch(context.Background(), asynq.NewTask("analyze:batch", []byte(`{"orders": []}`))); err != nil {
		t.Fatalf("missing job id should be skipped: %v", err)
	}
	if err := c.handleAnalyzeBatch(context.Background(), asynq.NewTask("analyze:batch", []byte(`{"job_id": "j1", "orders": []}`))); err != nil {
		t.Fatalf("missing service should be skipped: %v", err)
	}
	var nilConsumer *Consumer
	if err := nilConsumer.handleAnalyzeBatch(context.Background(), nil); err != nil {
		t.Fatalf("nil consumer should be a no-op: %v", err)
	}
}

func TestNewServiceRequiresQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, NewConsumer(&provider.Container{})); err == nil {
		t.Fatalf("disabled queue should fail")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("nil consumer should fail")
	}
}
