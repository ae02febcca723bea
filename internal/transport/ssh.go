package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	shiplaneerrors "github.com/vipulsaw/shiplane/pkg/errors"
)

const (
	defaultDialTimeout    = 15 * time.Second
	defaultCommandTimeout = 5 * time.Minute
	stderrTailBytes       = 2048
)

// SSHOptions configures an SSH transport.
type SSHOptions struct {
	Host         string
	Port         int
	User         string
	IdentityFile string
	DialTimeout  time.Duration
}

// SSH executes commands over a reused SSH connection. The client is dialed
// lazily on the first Execute call and kept open until Close.
type SSH struct {
	opts SSHOptions

	mu     sync.Mutex
	client *ssh.Client
}

var _ Transport = (*SSH)(nil)

// NewSSH creates an SSH transport for the given target. No connection is
// established until the first Execute call.
func NewSSH(opts SSHOptions) *SSH {
	if opts.Port <= 0 {
		opts.Port = 22
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	return &SSH{opts: opts}
}

func (s *SSH) addr() string {
	return net.JoinHostPort(s.opts.Host, fmt.Sprintf("%d", s.opts.Port))
}

func (s *SSH) connect() (*ssh.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	key, err := os.ReadFile(s.opts.IdentityFile)
	if err != nil {
		return nil, shiplaneerrors.NewConnectionError(s.addr(), fmt.Errorf("read identity file: %w", err))
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, shiplaneerrors.NewConnectionError(s.addr(), fmt.Errorf("parse identity file: %w", err))
	}

	cfg := &ssh.ClientConfig{
		User:            s.opts.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         s.opts.DialTimeout,
	}

	client, err := ssh.Dial("tcp", s.addr(), cfg)
	if err != nil {
		return nil, shiplaneerrors.NewConnectionError(s.addr(), err)
	}

	s.client = client
	return client, nil
}

// reset drops the cached client so the next Execute redials.
func (s *SSH) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		_ = s.client.Close()
		s.client = nil
	}
}

// Execute runs command on the remote host through a fresh session on the
// shared connection. A broken channel invalidates the cached client so a
// retry can reconnect.
func (s *SSH) Execute(ctx context.Context, command string, timeout time.Duration) (*Result, error) {
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}

	client, err := s.connect()
	if err != nil {
		return nil, err
	}

	session, err := client.NewSession()
	if err != nil {
		s.reset()
		return nil, shiplaneerrors.NewConnectionError(s.addr(), err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case runErr := <-done:
		result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
		if runErr == nil {
			return result, nil
		}

		var exitErr *ssh.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitStatus()
			return result, shiplaneerrors.NewCommandError(command, result.ExitCode, tail(stderr.String(), stderrTailBytes))
		}

		// Session ended without an exit status: the channel dropped.
		s.reset()
		result.ExitCode = -1
		return result, shiplaneerrors.NewConnectionError(s.addr(), runErr)

	case <-timer.C:
		s.reset()
		return nil, shiplaneerrors.NewTimeoutError(command, context.DeadlineExceeded)

	case <-ctx.Done():
		s.reset()
		return nil, shiplaneerrors.NewCancellationError("", ctx.Err())
	}
}

// Close tears down the shared connection.
func (s *SSH) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func tail(out string, max int) string {
	out = strings.TrimSpace(out)
	if len(out) <= max {
		return out
	}
	return out[len(out)-max:]
}
