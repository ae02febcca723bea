package engine

import (
	"context"
	"time"

	"github.com/vipulsaw/shiplane/internal/transport"
)

// Action performs a stage's remote work and returns the captured output of
// the command that decided its outcome. A nil error means the stage's effects
// are in place on the target host.
type Action func(ctx context.Context, rc *RunContext, tr transport.Transport) (*transport.Result, error)

// Rollback undoes a completed stage's remote effects. Rollbacks are
// best-effort: an error is recorded but never stops the unwind.
type Rollback func(ctx context.Context, rc *RunContext, tr transport.Transport) error

// Stage is a named, idempotent unit of deployment work. Stages are stateless
// descriptors; the order of a stage slice is the dependency order, and each
// stage assumes the previous stage's remote effects are in place.
type Stage struct {
	Name    string
	Summary string

	Action   Action
	Rollback Rollback

	// MaxRetries bounds re-attempts after transient failures. An action is
	// attempted at most MaxRetries+1 times; application failures (non-zero
	// exit codes) are never retried.
	MaxRetries int

	// RetryBackoff is the initial delay between attempts; subsequent delays
	// grow exponentially.
	RetryBackoff time.Duration
}
