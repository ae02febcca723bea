package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	shiplaneerrors "github.com/vipulsaw/shiplane/pkg/errors"
)

const validPlanYAML = `version: "1.0"
name: flask-app
description: sample plan for parser tests
target:
  host: 10.0.4.21
  user: ubuntu
  identity_file: /home/ci/.ssh/deploy.pem
app:
  name: flask-app
  repo: https://github.com/vipulsaw/flask-app.git
  branch: main
  directory: /home/ubuntu/flask-app
  packages: [python3-pip, python3-venv, nginx]
  service: flask-app
health:
  url: http://10.0.4.21/
  interval: 2
  timeout: 60
notify:
  smtp_host: smtp.example.com
  smtp_port: 587
  from: ci@example.com
  recipients: [ops@example.com]
settings:
  command_timeout: 120
  max_retries: 2
  retry_backoff: 3
`

func writePlan(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParsePlanValid(t *testing.T) {
	t.Parallel()

	plan, err := ParsePlan(writePlan(t, validPlanYAML))
	require.NoError(t, err)

	require.Equal(t, "flask-app", plan.Name)
	require.Equal(t, "10.0.4.21", plan.Target.Host)
	require.Equal(t, 22, plan.Target.SSHPort())
	require.Equal(t, "main", plan.App.BranchOrDefault())
	require.Equal(t, []string{"python3-pip", "python3-venv", "nginx"}, plan.App.Packages)
	require.Equal(t, 2*time.Second, plan.Health.IntervalDuration())
	require.Equal(t, 60*time.Second, plan.Health.TimeoutDuration())
	require.Equal(t, 120*time.Second, plan.Settings.CommandTimeoutDuration())
	require.Equal(t, 3*time.Second, plan.Settings.RetryBackoffDuration())
	require.NotNil(t, plan.Notify)
	require.Equal(t, []string{"ops@example.com"}, plan.Notify.Recipients)
}

func TestParsePlanMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParsePlan(filepath.Join(t.TempDir(), "nope.yaml"))

	var parseErr *shiplaneerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParsePlanMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := ParsePlan(writePlan(t, "version: [1,\nname: broken"))

	var parseErr *shiplaneerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParsePlanMissingTargetHost(t *testing.T) {
	t.Parallel()

	missingHost := `version: "1.0"
name: flask-app
target:
  user: ubuntu
  identity_file: /home/ci/.ssh/deploy.pem
app:
  name: flask-app
  repo: https://github.com/vipulsaw/flask-app.git
  directory: /home/ubuntu/flask-app
  service: flask-app
health:
  url: http://10.0.4.21/
`

	_, err := ParsePlan(writePlan(t, missingHost))

	var validationErr *shiplaneerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Field, "host")
}

func TestParsePlanDefaultsWhenSettingsOmitted(t *testing.T) {
	t.Parallel()

	minimal := `version: "1.0"
name: flask-app
target:
  host: 10.0.4.21
  user: ubuntu
  identity_file: /home/ci/.ssh/deploy.pem
app:
  name: flask-app
  repo: https://github.com/vipulsaw/flask-app.git
  directory: /home/ubuntu/flask-app
  service: flask-app
health:
  url: http://10.0.4.21/
`

	plan, err := ParsePlan(writePlan(t, minimal))
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, plan.Settings.CommandTimeoutDuration())
	require.Equal(t, 5*time.Second, plan.Settings.RetryBackoffDuration())
	require.Equal(t, 5*time.Second, plan.Health.IntervalDuration())
	require.Equal(t, 2*time.Minute, plan.Health.TimeoutDuration())
	require.Nil(t, plan.Notify)
}
