package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vipulsaw/shiplane/internal/model"
)

var stageOrder = []string{"install", "sync-repo", "run-tests", "configure-proxy", "configure-service"}

func TestNewModelTracksPipelineOrder(t *testing.T) {
	t.Parallel()

	m := NewModel("flask-app", stageOrder, false)

	require.Equal(t, 5, m.TotalStages())
	require.Equal(t, 0, m.CompletedStages())
	require.False(t, m.IsFinished())
	require.Equal(t, stageOrder, m.order)
	require.Equal(t, model.StatusPending, m.results["install"].Status)
}

func TestNewModelDeduplicatesNames(t *testing.T) {
	t.Parallel()

	m := NewModel("flask-app", []string{"install", "install"}, false)
	require.Equal(t, 1, m.TotalStages())
}
