package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mlops-microproject/review-workspace/internal/config"
	"github.com/mlops-microproject/review-workspace/internal/logger"

	"github.com/robfig/cron/v3"
)

// Sweeper removes idle entries and reports how many went
type Sweeper interface {
	SweepIdle() int
}

// SweepService runs a Sweeper on a cron schedule
type SweepService struct {
	name     string
	schedule cron.Schedule
	spec     string
	sweeper  Sweeper
	now      func() time.Time
	stopped  chan struct{}
}

// NewSweepService parses the schedule and builds the service
func NewSweepService(spec string, sweeper Sweeper) (*SweepService, error) {
	if sweeper == nil {
		return nil, errors.New("sweeper is nil")
	}
	schedule, err := config.ParseSchedule(spec)
	if err != nil {
		return nil, err
	}
	return &SweepService{
		name:     "workspace-sweeper",
		schedule: schedule,
		spec:     spec,
		sweeper:  sweeper,
		now:      time.Now,
		stopped:  make(chan struct{}),
	}, nil
}

// Name service name
func (s *SweepService) Name() string {
	if s == nil || s.name == "" {
		return "workspace-sweeper"
	}
	return s.name
}

// Start sleeps until each scheduled time and sweeps, until ctx ends or Stop.
// A schedule with no next run ends the loop with an error instead of
// sweeping continuously.
func (s *SweepService) Start(ctx context.Context) error {
	if s == nil || s.schedule == nil {
		return errors.New("sweeper not initialized")
	}
	logger.Infow("workspace_sweep_scheduled", "schedule", s.spec)
	for {
		now := s.now()
		next := s.schedule.Next(now)
		if next.IsZero() {
			return fmt.Errorf("%w: %s", config.ErrScheduleNeverFires, s.spec)
		}
		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-s.stopped:
			timer.Stop()
			return nil
		case <-timer.C:
			removed := s.sweeper.SweepIdle()
			logger.Debugw("workspace_sweep_run", "evicted", removed, "next", s.schedule.Next(s.now()))
		}
	}
}

// Stop ends the loop
func (s *SweepService) Stop(ctx context.Context) error {
	if s == nil || s.stopped == nil {
		return nil
	}
	select {
	case <-s.stopped:
	default:
		close(s.stopped)
	}
	return nil
}
