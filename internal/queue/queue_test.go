package queue

import (
	"testing"

	"github.com/mlops-microproject/review-workspace/internal/config"
	"github.com/mlops-microproject/review-workspace/internal/models"
)

func TestAnalyzeBatchTaskRoundTrip(t *testing.T) {
	order := models.NewEmptyOrder()
	if err := models.ApplyPatch(&order, []byte(`{"order_id": "o-1", "price": 12.5}`)); err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	task, err := NewAnalyzeBatchTask(AnalyzeBatchPayload{JobID: "job-1", Orders: []models.OrderRecord{order}})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskAnalyzeBatch {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseAnalyzeBatchPayload(task)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if payload.JobID != "job-1" || len(payload.Orders) != 1 || *payload.Orders[0].Price != 12.5 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestAnalyzeBatchTaskNeedsJobID(t *testing.T) {
	if _, err := NewAnalyzeBatchTask(AnalyzeBatchPayload{}); err == nil {
		t.Fatalf("empty job id should be rejected")
	}
}

func TestDisabledClient(t *testing.T) {
	c, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if c.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := c.EnqueueAnalyzeBatch(AnalyzeBatchPayload{JobID: "x"}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildServerConfig(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2, Concurrency: 3})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 3 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}

	opt, cfg = BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" || cfg.Concurrency != 10 {
		t.Fatalf("unexpected defaults: %+v %+v", opt, cfg)
	}
}
