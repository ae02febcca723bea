package stages

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vipulsaw/shiplane/internal/config"
	"github.com/vipulsaw/shiplane/internal/engine"
	"github.com/vipulsaw/shiplane/internal/transport"
)

type recordingTransport struct {
	commands []string
}

func (r *recordingTransport) Execute(ctx context.Context, command string, timeout time.Duration) (*transport.Result, error) {
	r.commands = append(r.commands, command)
	return &transport.Result{}, nil
}

func (r *recordingTransport) Close() error { return nil }

func testPlan() *config.Plan {
	return &config.Plan{
		Version: "1.0",
		Name:    "flask-app",
		Target: config.Target{
			Host:         "10.0.4.21",
			User:         "ubuntu",
			IdentityFile: "/home/ci/.ssh/deploy.pem",
		},
		App: config.App{
			Name:      "flask-app",
			Repo:      "https://github.com/vipulsaw/flask-app.git",
			Branch:    "main",
			Directory: "/home/ubuntu/flask-app",
			Packages:  []string{"python3-pip", "nginx"},
			Service:   "flask-app",
		},
		Health:   config.Health{URL: "http://10.0.4.21/"},
		Settings: config.Settings{MaxRetries: 2, RetryBackoff: 3},
	}
}

func runAction(t *testing.T, st engine.Stage, rc *engine.RunContext) string {
	t.Helper()
	tr := &recordingTransport{}
	_, err := st.Action(context.Background(), rc, tr)
	require.NoError(t, err)
	require.Len(t, tr.commands, 1)
	return tr.commands[0]
}

func runRollback(t *testing.T, st engine.Stage, rc *engine.RunContext) string {
	t.Helper()
	tr := &recordingTransport{}
	require.NotNil(t, st.Rollback)
	require.NoError(t, st.Rollback(context.Background(), rc, tr))
	require.Len(t, tr.commands, 1)
	return tr.commands[0]
}

func TestPipelineOrderAndPolicy(t *testing.T) {
	t.Parallel()

	pipeline := Pipeline(testPlan())

	names := make([]string, 0, len(pipeline))
	for _, st := range pipeline {
		names = append(names, st.Name)
	}
	require.Equal(t, []string{"install", "sync-repo", "run-tests", "configure-proxy", "configure-service"}, names)

	for _, st := range pipeline {
		if st.Name == "run-tests" {
			require.Zero(t, st.MaxRetries, "test failures are terminal")
			continue
		}
		require.Equal(t, 2, st.MaxRetries)
		require.Equal(t, 3*time.Second, st.RetryBackoff)
	}
}

func TestInstallDependenciesCommand(t *testing.T) {
	t.Parallel()

	rc := engine.NewRunContext(testPlan(), nil)
	cmd := runAction(t, InstallDependencies([]string{"python3-pip", "nginx"}), rc)

	require.Contains(t, cmd, "apt-get update")
	require.Contains(t, cmd, "apt-get install -y python3-pip nginx")
}

func TestInstallDependenciesDefaultsPackages(t *testing.T) {
	t.Parallel()

	st := InstallDependencies(nil)
	require.Contains(t, st.Summary, "git")
	require.Contains(t, st.Summary, "nginx")
	require.Nil(t, st.Rollback)
}

func TestSyncRepositoryCommandAndRollback(t *testing.T) {
	t.Parallel()

	rc := engine.NewRunContext(testPlan(), nil)
	st := SyncRepository()

	cmd := runAction(t, st, rc)
	require.Contains(t, cmd, "git clone --branch main https://github.com/vipulsaw/flask-app.git /home/ubuntu/flask-app")
	require.Contains(t, cmd, "reset --hard origin/main")
	require.Contains(t, cmd, "requirements.txt")

	rb := runRollback(t, st, rc)
	require.Contains(t, rb, "rm -rf /home/ubuntu/flask-app")
}

func TestRunTestsCommandHasNoRollback(t *testing.T) {
	t.Parallel()

	rc := engine.NewRunContext(testPlan(), nil)
	st := RunTests()

	cmd := runAction(t, st, rc)
	require.Contains(t, cmd, "cd /home/ubuntu/flask-app")
	require.Contains(t, cmd, "python3 -m pytest")
	require.Nil(t, st.Rollback)
}

func TestConfigureProxyCommandAndRollback(t *testing.T) {
	t.Parallel()

	rc := engine.NewRunContext(testPlan(), nil)
	st := ConfigureProxy()

	cmd := runAction(t, st, rc)
	require.Contains(t, cmd, "/etc/nginx/sites-available/flask-app")
	require.Contains(t, cmd, "server_name 10.0.4.21;")
	require.Contains(t, cmd, "proxy_pass http://127.0.0.1:8000;")
	require.Contains(t, cmd, "nginx -t")
	require.Contains(t, cmd, "systemctl reload nginx")

	rb := runRollback(t, st, rc)
	require.Contains(t, rb, "rm -f /etc/nginx/sites-enabled/flask-app")
	require.Contains(t, rb, "systemctl reload nginx")
}

func TestConfigureServiceCommandAndRollback(t *testing.T) {
	t.Parallel()

	rc := engine.NewRunContext(testPlan(), nil)
	st := ConfigureService()

	cmd := runAction(t, st, rc)
	require.Contains(t, cmd, "/etc/systemd/system/flask-app.service")
	require.Contains(t, cmd, "WorkingDirectory=/home/ubuntu/flask-app")
	require.Contains(t, cmd, "User=ubuntu")
	require.Contains(t, cmd, "systemctl daemon-reload")
	require.Contains(t, cmd, "systemctl restart flask-app")

	rb := runRollback(t, st, rc)
	require.Contains(t, rb, "disable --now flask-app")
	require.Contains(t, rb, "rm -f /etc/systemd/system/flask-app.service")
}
