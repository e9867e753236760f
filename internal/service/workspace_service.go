package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mlops-microproject/review-workspace/internal/logger"
	"github.com/mlops-microproject/review-workspace/internal/metrics"
	"github.com/mlops-microproject/review-workspace/internal/models"
	"github.com/mlops-microproject/review-workspace/internal/workspace"

	"github.com/google/uuid"
)

// WorkspaceOptions limits of the workspace registry
type WorkspaceOptions struct {
	MaxWorkspaces int
	MaxOrders     int
	IdleTTL       time.Duration
}

// WorkspaceView workspace id plus its state
type WorkspaceView struct {
	ID string `json:"id"`
	workspace.Snapshot
}

type workspaceEntry struct {
	mu      sync.Mutex
	store   *workspace.Store
	touched time.Time
}

// WorkspaceService keeps one order store per workspace id.
// Each store is guarded by its own mutex.
type WorkspaceService struct {
	mu      sync.RWMutex
	entries map[string]*workspaceEntry
	opts    WorkspaceOptions
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewWorkspaceService creates the workspace registry
func NewWorkspaceService(opts WorkspaceOptions, m *metrics.Metrics) *WorkspaceService {
	return &WorkspaceService{
		entries: make(map[string]*workspaceEntry),
		opts:    opts,
		metrics: m,
		now:     time.Now,
	}
}

// Count number of live workspaces
func (s *WorkspaceService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Create opens a workspace holding one empty order
func (s *WorkspaceService) Create() (WorkspaceView, error) {
	s.mu.Lock()
	if s.opts.MaxWorkspaces > 0 && len(s.entries) >= s.opts.MaxWorkspaces {
		s.mu.Unlock()
		return WorkspaceView{}, ErrWorkspaceLimit
	}
	id := uuid.NewString()
	entry := &workspaceEntry{store: workspace.New(), touched: s.now()}
	s.entries[id] = entry
	count := len(s.entries)
	s.mu.Unlock()

	s.metrics.SetWorkspaces(count)
	logger.Infow("workspace_created", "workspace_id", id, "workspaces", count)
	return WorkspaceView{ID: id, Snapshot: entry.store.Snapshot()}, nil
}

// Get returns the current state
func (s *WorkspaceService) Get(id string) (WorkspaceView, error) {
	return s.view(id, func(*workspace.Store) error { return nil })
}

// Delete drops a workspace
func (s *WorkspaceService) Delete(id string) error {
	s.mu.Lock()
	if _, ok := s.entries[id]; !ok {
		s.mu.Unlock()
		return ErrWorkspaceNotFound
	}
	delete(s.entries, id)
	count := len(s.entries)
	s.mu.Unlock()

	s.metrics.SetWorkspaces(count)
	logger.Infow("workspace_deleted", "workspace_id", id)
	return nil
}

// AddOrder appends an empty order
func (s *WorkspaceService) AddOrder(id string) (WorkspaceView, error) {
	return s.view(id, func(st *workspace.Store) error {
		if s.opts.MaxOrders > 0 && st.Len() >= s.opts.MaxOrders {
			return fmt.Errorf("%w: max %d", ErrTooManyOrders, s.opts.MaxOrders)
		}
		st.AddOrder()
		return nil
	})
}

// RemoveActive removes the active order; removed is false when only one is left
func (s *WorkspaceService) RemoveActive(id string) (removed bool, view WorkspaceView, err error) {
	view, err = s.view(id, func(st *workspace.Store) error {
		removed = st.RemoveActive()
		return nil
	})
	return removed, view, err
}

// Select changes the active order
func (s *WorkspaceService) Select(id string, index int) (WorkspaceView, error) {
	return s.view(id, func(st *workspace.Store) error {
		return st.Select(index)
	})
}

// UpdateActive merges a partial order into the active one
func (s *WorkspaceService) UpdateActive(id string, patch []byte) (WorkspaceView, error) {
	return s.view(id, func(st *workspace.Store) error {
		return st.UpdateActive(patch)
	})
}

// Import replaces the orders with pasted JSON
func (s *WorkspaceService) Import(id string, text string) (WorkspaceView, error) {
	view, err := s.view(id, func(st *workspace.Store) error {
		records, err := workspace.ParseImportText(text)
		if err != nil {
			return err
		}
		if s.opts.MaxOrders > 0 && len(records) > s.opts.MaxOrders {
			return fmt.Errorf("%w: %d > %d", ErrTooManyOrders, len(records), s.opts.MaxOrders)
		}
		return st.ReplaceAll(records)
	})
	switch {
	case err == nil:
		s.metrics.ObserveImport(metrics.ImportOK)
		logger.Infow("workspace_imported", "workspace_id", id, "orders", len(view.Orders))
	case !errors.Is(err, ErrWorkspaceNotFound):
		s.metrics.ObserveImport(metrics.ImportRejected)
		logger.Infow("import_rejected", "workspace_id", id, "error", err)
	}
	return view, err
}

// Payload returns the request payload built from the orders
func (s *WorkspaceService) Payload(id string) (models.AnalyzeRequest, error) {
	var req models.AnalyzeRequest
	_, err := s.view(id, func(st *workspace.Store) error {
		req = st.BuildRequestPayload()
		return nil
	})
	return req, err
}

// Send scores the workspace and keeps the predictions
func (s *WorkspaceService) Send(id string) (models.PredictionResult, error) {
	var result models.PredictionResult
	_, err := s.view(id, func(st *workspace.Store) error {
		result = st.Send()
		return nil
	})
	if err != nil {
		return models.PredictionResult{}, err
	}
	s.metrics.ObservePredictions(metrics.SourceWorkspace, result.List())
	return result, nil
}

// ClearPredictions goes back to editing
func (s *WorkspaceService) ClearPredictions(id string) (WorkspaceView, error) {
	return s.view(id, func(st *workspace.Store) error {
		st.ClearPredictions()
		return nil
	})
}

// Reset starts a new analysis in the same workspace
func (s *WorkspaceService) Reset(id string) (WorkspaceView, error) {
	return s.view(id, func(st *workspace.Store) error {
		st.Reset()
		return nil
	})
}

// SweepIdle removes workspaces untouched for longer than IdleTTL
func (s *WorkspaceService) SweepIdle() int {
	if s.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.opts.IdleTTL)

	s.mu.Lock()
	removed := 0
	for id, entry := range s.entries {
		entry.mu.Lock()
		idle := entry.touched.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(s.entries, id)
			removed++
		}
	}
	count := len(s.entries)
	s.mu.Unlock()

	s.metrics.SetWorkspaces(count)
	s.metrics.AddEvictions(removed)
	if removed > 0 {
		logger.Infow("workspace_sweep", "evicted", removed, "remaining", count)
	}
	return removed
}

// view runs fn under the workspace lock and returns the resulting state.
// On error the state is returned as left by fn.
func (s *WorkspaceService) view(id string, fn func(*workspace.Store) error) (WorkspaceView, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return WorkspaceView{}, ErrWorkspaceNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touched = s.now()
	err := fn(entry.store)
	return WorkspaceView{ID: id, Snapshot: entry.store.Snapshot()}, err
}
