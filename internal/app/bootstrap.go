package app

import (
	"errors"
	"fmt"

	"github.com/mlops-microproject/review-workspace/internal/config"
	"github.com/mlops-microproject/review-workspace/internal/logger"
	"github.com/mlops-microproject/review-workspace/internal/provider"
	"github.com/mlops-microproject/review-workspace/internal/router"
	"github.com/mlops-microproject/review-workspace/internal/worker"
)

// BuildRunner wires the services for the given mode
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if !ValidMode(mode) {
		return nil, nil, fmt.Errorf("unknown mode %q", mode)
	}

	container := provider.NewContainer(cfg)

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))

		// workspaces live in the API process, so the sweep runs there too
		if cfg.Workspace.IdleTTLMinutes > 0 {
			sweeper, err := NewSweepService(cfg.Workspace.SweepSchedule, container.WorkspaceService)
			if err != nil {
				container.Close()
				return nil, nil, fmt.Errorf("workspace sweep: %w", err)
			}
			services = append(services, sweeper)
		}
	}

	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
			if err != nil {
				container.Close()
				return nil, nil, err
			}
			services = append(services, workerService)
		} else if mode == ModeWorker {
			container.Close()
			return nil, nil, errors.New("worker mode needs queue.enabled")
		} else {
			logger.Infow("worker_disabled", "reason", "queue.enabled=false")
		}
	}

	if len(services) == 0 {
		container.Close()
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), container, nil
}

// Run application entry point
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start",
		"addr", addr,
		"mode", opts.Mode,
		"environment", opts.Config.Server.Environment,
		"async_analyze", container.AnalyzeService.AsyncEnabled(),
	)
	return RunWithOptions(runner, opts)
}
