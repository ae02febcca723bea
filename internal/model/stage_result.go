package model

import (
	"time"
)

const (
	// StatusPending indicates a stage has not started yet.
	StatusPending = "pending"
	// StatusRunning indicates a stage is actively executing.
	StatusRunning = "running"
	// StatusSuccess marks a successful stage execution.
	StatusSuccess = "success"
	// StatusFailed marks a terminal failure during stage execution.
	StatusFailed = "failed"
	// StatusRolledBack indicates a completed stage was unwound after a later failure.
	StatusRolledBack = "rolled_back"
	// StatusCancelled indicates the run was cancelled before or during the stage.
	StatusCancelled = "cancelled"
	// StatusSkipped indicates the stage was not executed (dry-run).
	StatusSkipped = "skipped"
)

// StageResult captures the outcome of executing a single deployment stage.
type StageResult struct {
	StageName string
	Status    string
	Message   string
	Attempts  int
	ExitCode  int
	Stdout    string
	Stderr    string
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}
