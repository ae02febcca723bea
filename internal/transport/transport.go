package transport

import (
	"context"
	"time"
)

// Result captures the output of a single remote command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Transport runs commands on a remote host and captures their output. A
// single Transport instance owns its connection for the duration of one run;
// implementations must support connection reuse across Execute calls.
type Transport interface {
	// Execute runs command on the remote host, blocking until completion,
	// timeout expiry, or context cancellation. A non-zero remote exit code
	// is returned as a CommandError alongside the captured Result.
	Execute(ctx context.Context, command string, timeout time.Duration) (*Result, error)

	// Close releases the underlying connection, if any.
	Close() error
}
