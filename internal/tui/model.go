package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vipulsaw/shiplane/internal/model"
)

// StageStartMsg indicates a stage has started executing.
type StageStartMsg struct {
	Name string
	Time time.Time
}

// StageResultMsg reports that a stage produced a result (including rollback
// entries for already-completed stages).
type StageResultMsg struct {
	Result model.StageResult
}

// HealthMsg carries the outcome of the post-deploy probe.
type HealthMsg struct {
	Result model.HealthResult
}

type tickMsg struct{}

// Model contains the Bubbletea state for a deployment run.
type Model struct {
	planName       string
	order          []string
	results        map[string]model.StageResult
	health         *model.HealthResult
	total          int
	completed      int
	finished       bool
	cancelled      bool
	failed         bool
	nonInteractive bool
}

// NewModel constructs a TUI model for the given plan name and stage order.
func NewModel(planName string, stageNames []string, nonInteractive bool) Model {
	m := Model{
		planName:       planName,
		results:        make(map[string]model.StageResult),
		nonInteractive: nonInteractive,
	}

	for _, name := range stageNames {
		if _, exists := m.results[name]; exists {
			continue
		}
		m.results[name] = model.StageResult{StageName: name, Status: model.StatusPending}
		m.order = append(m.order, name)
		m.total++
	}

	return m
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// TotalStages returns the number of stages tracked by the model.
func (m Model) TotalStages() int {
	return m.total
}

// CompletedStages returns the number of stages that produced a result.
func (m Model) CompletedStages() int {
	return m.completed
}

// IsFinished reports whether the run has completed.
func (m Model) IsFinished() bool {
	return m.finished
}

func (m *Model) markFinishedIfComplete() {
	if m.total > 0 && m.completed >= m.total {
		m.finished = true
	}
}
