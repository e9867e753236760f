package cache

import (
	"context"
	"strings"
	"time"

	"github.com/mlops-microproject/review-workspace/internal/models"
)

func analyzeJobKey(jobID string) string {
	return "analyze:job:" + jobID
}

// GetAnalyzeJob reads a job record
func GetAnalyzeJob(ctx context.Context, jobID string) (*models.AnalyzeJob, bool, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, false, nil
	}
	var job models.AnalyzeJob
	hit, err := GetJSON(ctx, analyzeJobKey(jobID), &job)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &job, true, nil
}

// SetAnalyzeJob writes a job record, expiring after ttl
func SetAnalyzeJob(ctx context.Context, job *models.AnalyzeJob, ttl time.Duration) error {
	if job == nil || strings.TrimSpace(job.ID) == "" {
		return nil
	}
	return SetJSON(ctx, analyzeJobKey(job.ID), job, ttl)
}
