package transport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	shiplaneerrors "github.com/vipulsaw/shiplane/pkg/errors"
)

func TestNewSSHAppliesDefaults(t *testing.T) {
	t.Parallel()

	s := NewSSH(SSHOptions{Host: "10.0.4.21", User: "ubuntu", IdentityFile: "/tmp/key"})
	require.Equal(t, 22, s.opts.Port)
	require.Equal(t, defaultDialTimeout, s.opts.DialTimeout)
	require.Equal(t, "10.0.4.21:22", s.addr())
}

func TestExecuteMissingIdentityFileIsConnectionError(t *testing.T) {
	t.Parallel()

	s := NewSSH(SSHOptions{
		Host:         "10.0.4.21",
		User:         "ubuntu",
		IdentityFile: filepath.Join(t.TempDir(), "missing.pem"),
	})

	_, err := s.Execute(context.Background(), "true", time.Second)

	var connErr *shiplaneerrors.ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.True(t, shiplaneerrors.IsTransient(err))
}

func TestExecuteGarbageIdentityFileIsConnectionError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a key"), 0o600))

	s := NewSSH(SSHOptions{Host: "10.0.4.21", User: "ubuntu", IdentityFile: path})

	_, err := s.Execute(context.Background(), "true", time.Second)

	var connErr *shiplaneerrors.ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.Contains(t, err.Error(), "parse identity file")
}

func TestCloseWithoutConnectionIsNoop(t *testing.T) {
	t.Parallel()

	s := NewSSH(SSHOptions{Host: "10.0.4.21", User: "ubuntu", IdentityFile: "/tmp/key"})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestTailKeepsSuffix(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", tail("  short  ", 10))

	long := strings.Repeat("a", 100) + "END"
	out := tail(long, 10)
	require.Len(t, out, 10)
	require.True(t, strings.HasSuffix(out, "END"))
}
