package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vipulsaw/shiplane/internal/config"
	"github.com/vipulsaw/shiplane/internal/model"
	shiplaneerrors "github.com/vipulsaw/shiplane/pkg/errors"
)

func sampleReport() *model.Report {
	return &model.Report{
		RunID:    "9f2a7c14-0000-0000-0000-000000000000",
		PlanName: "flask-app",
		Overall:  model.OverallFailed,
		Revision: "4be91afc",
		Duration: 42 * time.Second,
		Results: []model.StageResult{
			{StageName: "install", Status: model.StatusSuccess, Attempts: 1, Duration: 10 * time.Second},
			{StageName: "sync-repo", Status: model.StatusSuccess, Attempts: 2, Duration: 8 * time.Second},
			{StageName: "run-tests", Status: model.StatusFailed, Attempts: 1, ExitCode: 1,
				Stderr: "FAILED tests/test_routes.py::test_index"},
			{StageName: "sync-repo", Status: model.StatusRolledBack, Attempts: 1},
		},
		Health: &model.HealthResult{State: model.HealthSkipped},
	}
}

func TestRenderPayloadFields(t *testing.T) {
	t.Parallel()

	p := Render(sampleReport(), "http://10.0.4.21/")

	require.Equal(t, "flask-app", p.Job)
	require.Equal(t, model.OverallFailed, p.Overall)
	require.Equal(t, "4be91afc", p.Revision)
	require.Equal(t, "http://10.0.4.21/", p.DeployURL)
	require.Len(t, p.Stages, 4)
	require.Equal(t, "run-tests", p.Stages[2].Name)
	require.Equal(t, model.StatusFailed, p.Stages[2].Status)
	require.Equal(t, model.HealthSkipped, p.Health)
	require.Contains(t, p.LogExcerpt, "test_routes")
}

func TestRenderHealthWhenProbeRan(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	r.Overall = model.OverallSuccess
	r.Results = r.Results[:2]
	r.Health = &model.HealthResult{State: model.HealthHealthy, StatusCode: 200}

	p := Render(r, "")
	require.Equal(t, model.HealthHealthy, p.Health)
	require.Empty(t, p.LogExcerpt)
}

func TestRenderExcerptIsCapped(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	r.Results[2].Stderr = strings.Repeat("x", 5000) + "TAIL"

	p := Render(r, "")
	require.Len(t, p.LogExcerpt, excerptLimit)
	require.True(t, strings.HasSuffix(p.LogExcerpt, "TAIL"))
}

func TestSubjectAndBody(t *testing.T) {
	t.Parallel()

	p := Render(sampleReport(), "http://10.0.4.21/")

	require.Equal(t, "[shiplane] flask-app run 9f2a7c14: FAILED", p.Subject())

	body := p.Body()
	require.Contains(t, body, "Deployment failed for flask-app")
	require.Contains(t, body, "Revision: 4be91afc")
	require.Contains(t, body, "URL:      http://10.0.4.21/")
	require.Contains(t, body, "run-tests")
	require.Contains(t, body, "rolled_back")
	require.Contains(t, body, "Log excerpt:")
}

func TestMailerSendFailureIsDeliveryError(t *testing.T) {
	t.Parallel()

	m := NewMailer(&config.Notify{
		SMTPHost: "127.0.0.1",
		SMTPPort: 1,
		From:     "ci@example.com",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := m.Send(ctx, Render(sampleReport(), ""), []string{"ops@example.com"})

	var delErr *shiplaneerrors.DeliveryError
	require.ErrorAs(t, err, &delErr)
}

func TestMailerSendNoRecipientsIsNoop(t *testing.T) {
	t.Parallel()

	m := NewMailer(&config.Notify{SMTPHost: "smtp.example.com", From: "ci@example.com"})
	require.NoError(t, m.Send(context.Background(), Payload{}, nil))
}

func TestMailerRejectsInvalidFromAddress(t *testing.T) {
	t.Parallel()

	m := NewMailer(&config.Notify{SMTPHost: "smtp.example.com", From: "not-an-address"})
	err := m.Send(context.Background(), Payload{}, []string{"ops@example.com"})

	var delErr *shiplaneerrors.DeliveryError
	require.ErrorAs(t, err, &delErr)
}
