package queue

import (
	"encoding/json"
	"fmt"

	"github.com/mlops-microproject/review-workspace/internal/constants"
	"github.com/mlops-microproject/review-workspace/internal/models"

	"github.com/hibiken/asynq"
)

const (
	// TaskAnalyzeBatch batch analysis task
	TaskAnalyzeBatch = constants.TaskAnalyzeBatch
)

// AnalyzeBatchPayload batch analysis task payload
type AnalyzeBatchPayload struct {
	JobID  string               `json:"job_id"`
	Orders []models.OrderRecord `json:"orders"`
}

// NewAnalyzeBatchTask creates a batch analysis task
func NewAnalyzeBatchTask(payload AnalyzeBatchPayload) (*asynq.Task, error) {
	if payload.JobID == "" {
		return nil, fmt.Errorf("analyze batch task: empty job id")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyzeBatch, body), nil
}

// ParseAnalyzeBatchPayload decodes a batch analysis task
func ParseAnalyzeBatchPayload(task *asynq.Task) (AnalyzeBatchPayload, error) {
	var payload AnalyzeBatchPayload
	if task == nil {
		return payload, fmt.Errorf("analyze batch task: nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("analyze batch task: %w", err)
	}
	return payload, nil
}
