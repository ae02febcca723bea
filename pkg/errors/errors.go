package errors

import (
	"errors"
	"fmt"
)

// ParseError represents a plan file parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures deployment plan validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConnectionError indicates the remote channel could not be established or
// dropped mid-command. Connection errors are transient and eligible for retry.
type ConnectionError struct {
	Host string
	Err  error
}

// NewConnectionError constructs a ConnectionError for the given host.
func NewConnectionError(host string, err error) error {
	return &ConnectionError{Host: host, Err: err}
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Host != "" {
		return fmt.Sprintf("connection error: %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("connection error: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *ConnectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TimeoutError indicates a remote command did not complete within its
// deadline. Timeouts are transient and eligible for retry.
type TimeoutError struct {
	Command string
	Err     error
}

// NewTimeoutError constructs a TimeoutError for the given command.
func NewTimeoutError(command string, err error) error {
	return &TimeoutError{Command: command, Err: err}
}

func (e *TimeoutError) Error() string {
	if e == nil {
		return ""
	}
	if e.Command != "" {
		return fmt.Sprintf("timeout: %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("timeout: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *TimeoutError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CommandError reports a delegated remote command that ran to completion but
// exited non-zero. It is terminal for the stage that issued it: a failing
// test run or config write does not become healthier by retrying.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

// NewCommandError constructs a CommandError.
func NewCommandError(command string, exitCode int, stderr string) error {
	return &CommandError{Command: command, ExitCode: exitCode, Stderr: stderr}
}

func (e *CommandError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stderr != "" {
		return fmt.Sprintf("command failed (exit %d): %s: %s", e.ExitCode, e.Command, e.Stderr)
	}
	return fmt.Sprintf("command failed (exit %d): %s", e.ExitCode, e.Command)
}

// RollbackError reports a failure while unwinding a completed stage. It is
// logged and recorded but never aborts the remainder of the unwind.
type RollbackError struct {
	Stage string
	Err   error
}

// NewRollbackError constructs a RollbackError for the given stage.
func NewRollbackError(stage string, err error) error {
	return &RollbackError{Stage: stage, Err: err}
}

func (e *RollbackError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("rollback error on stage %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying error.
func (e *RollbackError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DeliveryError reports a notification that could not be sent. Delivery
// failures never change the recorded outcome of the run they describe.
type DeliveryError struct {
	Target string
	Err    error
}

// NewDeliveryError constructs a DeliveryError for the given target.
func NewDeliveryError(target string, err error) error {
	return &DeliveryError{Target: target, Err: err}
}

func (e *DeliveryError) Error() string {
	if e == nil {
		return ""
	}
	if e.Target != "" {
		return fmt.Sprintf("delivery error: %s: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("delivery error: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *DeliveryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CancellationError marks a run stopped by an external cancellation signal.
// It triggers the same unwind as a failure but is tagged distinctly.
type CancellationError struct {
	Stage string
	Err   error
}

// NewCancellationError constructs a CancellationError.
func NewCancellationError(stage string, err error) error {
	return &CancellationError{Stage: stage, Err: err}
}

func (e *CancellationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stage != "" {
		return fmt.Sprintf("cancelled during stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("cancelled: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *CancellationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTransient reports whether err is worth retrying: connection drops and
// timeouts qualify, application exit codes and cancellations do not.
func IsTransient(err error) bool {
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return true
	}
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}
