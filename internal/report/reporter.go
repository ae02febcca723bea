// Package report renders the final run notification. Delivery failures never
// change the run outcome: a deployment that succeeded stays recorded as
// successful even when nobody could be told about it.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/vipulsaw/shiplane/internal/model"
)

const excerptLimit = 1500

// StageLine is one stage's row in the notification payload.
type StageLine struct {
	Name     string
	Status   string
	Attempts int
	Duration time.Duration
}

// Payload is the structured notification for one run.
type Payload struct {
	Job        string
	RunID      string
	Overall    string
	Revision   string
	DeployURL  string
	Duration   time.Duration
	Stages     []StageLine
	Health     string
	LogExcerpt string
}

// Render builds the notification payload from a finished run report.
func Render(r *model.Report, deployURL string) Payload {
	p := Payload{
		Job:       r.PlanName,
		RunID:     r.RunID,
		Overall:   r.Overall,
		Revision:  r.Revision,
		DeployURL: deployURL,
		Duration:  r.Duration,
		Health:    model.HealthSkipped,
	}

	for _, res := range r.Results {
		p.Stages = append(p.Stages, StageLine{
			Name:     res.StageName,
			Status:   res.Status,
			Attempts: res.Attempts,
			Duration: res.Duration,
		})
	}

	if r.Health != nil {
		p.Health = r.Health.State
	}

	if failure := r.FirstFailure(); failure != nil {
		p.LogExcerpt = excerpt(failure)
	}

	return p
}

// Subject is the one-line summary used as the mail subject.
func (p Payload) Subject() string {
	return fmt.Sprintf("[shiplane] %s run %s: %s", p.Job, shortID(p.RunID), strings.ToUpper(p.Overall))
}

// Body renders the plain-text notification body.
func (p Payload) Body() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Deployment %s for %s\n", p.Overall, p.Job)
	fmt.Fprintf(&b, "Run:      %s\n", p.RunID)
	if p.Revision != "" {
		fmt.Fprintf(&b, "Revision: %s\n", p.Revision)
	}
	if p.DeployURL != "" {
		fmt.Fprintf(&b, "URL:      %s\n", p.DeployURL)
	}
	fmt.Fprintf(&b, "Duration: %s\n", p.Duration.Truncate(time.Millisecond))
	fmt.Fprintf(&b, "Health:   %s\n", p.Health)

	b.WriteString("\nStages:\n")
	for _, line := range p.Stages {
		fmt.Fprintf(&b, "  %-20s %-12s attempts=%d %s\n",
			line.Name, line.Status, line.Attempts, line.Duration.Truncate(time.Millisecond))
	}

	if p.LogExcerpt != "" {
		b.WriteString("\nLog excerpt:\n")
		b.WriteString(p.LogExcerpt)
		b.WriteString("\n")
	}

	return b.String()
}

func excerpt(res *model.StageResult) string {
	out := strings.TrimSpace(res.Stderr)
	if out == "" {
		out = strings.TrimSpace(res.Stdout)
	}
	if out == "" && res.Error != nil {
		out = res.Error.Error()
	}
	if len(out) > excerptLimit {
		out = out[len(out)-excerptLimit:]
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
