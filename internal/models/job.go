package models

import "time"

// AnalyzeJob state of an asynchronous batch analysis
type AnalyzeJob struct {
	ID          string       `json:"job_id"`
	Status      string       `json:"status"`
	OrderCount  int          `json:"order_count"`
	Predictions []Prediction `json:"predictions,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
