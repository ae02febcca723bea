package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/vipulsaw/shiplane/internal/model"
)

// SummaryData aggregates run state for rendering summaries.
type SummaryData struct {
	Total     int
	Completed int
	Finished  bool
	Cancelled bool
	Failed    bool
	Health    *model.HealthResult
}

// Summary renders a textual run summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	var lines []string
	if s.data.Total > 0 {
		lines = append(lines, fmt.Sprintf("Stages: %d/%d completed", s.data.Completed, s.data.Total))
	}

	switch {
	case s.data.Cancelled:
		lines = append(lines, "Run cancelled")
	case s.data.Failed:
		lines = append(lines, "Run failed")
	case s.data.Finished && s.data.Total > 0:
		lines = append(lines, "Run finished successfully")
	}

	if s.data.Health != nil {
		switch s.data.Health.State {
		case model.HealthHealthy:
			lines = append(lines, fmt.Sprintf("Health: healthy (%d) after %d attempt(s)",
				s.data.Health.StatusCode, s.data.Health.Attempts))
		case model.HealthTimedOut:
			lines = append(lines, fmt.Sprintf("Health: timed out after %s", s.data.Health.Elapsed.Truncate(time.Second)))
		default:
			lines = append(lines, fmt.Sprintf("Health: %s", s.data.Health.State))
		}
	}

	return strings.Join(lines, "\n")
}
