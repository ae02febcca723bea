package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vipulsaw/shiplane/internal/model"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, nil
	case StageStartMsg:
		existing, ok := m.results[msg.Name]
		if !ok {
			return m, nil
		}
		existing.Status = model.StatusRunning
		m.results[msg.Name] = existing
		return m, nil
	case StageResultMsg:
		name := msg.Result.StageName
		existing, ok := m.results[name]
		if !ok {
			return m, nil
		}

		previouslyDone := isTerminalStatus(existing.Status)
		m.results[name] = msg.Result
		if !previouslyDone && isTerminalStatus(msg.Result.Status) {
			m.completed++
			m.markFinishedIfComplete()
		}

		switch msg.Result.Status {
		case model.StatusFailed:
			m.failed = true
			m.finished = true
		case model.StatusCancelled:
			m.cancelled = true
			m.finished = true
		}
		return m, nil
	case HealthMsg:
		res := msg.Result
		m.health = &res
		if !res.Passed() {
			m.failed = true
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, nil
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}

func isTerminalStatus(status string) bool {
	switch status {
	case model.StatusSuccess, model.StatusFailed, model.StatusCancelled,
		model.StatusRolledBack, model.StatusSkipped:
		return true
	}
	return false
}
