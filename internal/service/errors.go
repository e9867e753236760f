package service

import "errors"

var (
	// ErrWorkspaceNotFound unknown or evicted workspace id
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrWorkspaceLimit max_workspaces reached
	ErrWorkspaceLimit = errors.New("workspace limit reached")
	// ErrTooManyOrders the workspace would exceed max_orders
	ErrTooManyOrders = errors.New("too many orders in workspace")
	// ErrAsyncUnavailable queue or cache disabled
	ErrAsyncUnavailable = errors.New("async analyze is unavailable")
	// ErrJobNotFound unknown or expired job id
	ErrJobNotFound = errors.New("analyze job not found")
	// ErrEmptyBatch a job needs at least one order
	ErrEmptyBatch = errors.New("analyze job has no orders")
)
