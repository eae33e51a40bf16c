package scheduler

import "errors"

var (
	ErrInvalidConfig   = errors.New("scheduler: invalid sweeper configuration")
	ErrSweepInProgress = errors.New("scheduler: a reconciliation sweep is already running")
)
