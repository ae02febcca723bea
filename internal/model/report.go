package model

import "time"

const (
	// OverallSuccess means every stage succeeded and the health probe passed.
	OverallSuccess = "success"
	// OverallFailed means at least one stage failed, the run was cancelled,
	// or the health probe did not pass.
	OverallFailed = "failed"
)

// Report is the run-scoped record built incrementally by the executor and
// handed to the reporter for emission. It is not persisted anywhere.
type Report struct {
	RunID     string
	PlanName  string
	Overall   string
	Revision  string
	Results   []StageResult
	Health    *HealthResult
	StartedAt time.Time
	Duration  time.Duration
}

// Append records a stage result in run order.
func (r *Report) Append(res StageResult) {
	r.Results = append(r.Results, res)
}

// SetHealth folds the probe outcome into the report. The probe is
// advisory-terminal: it can flip an otherwise successful run to failed but
// never resurrects a failed one.
func (r *Report) SetHealth(h *HealthResult) {
	r.Health = h
	if !h.Passed() {
		r.Overall = OverallFailed
	}
}

// Failed reports whether the run ended in failure.
func (r *Report) Failed() bool {
	return r.Overall == OverallFailed
}

// FirstFailure returns the first failed or cancelled stage result, if any.
func (r *Report) FirstFailure() *StageResult {
	for i := range r.Results {
		switch r.Results[i].Status {
		case StatusFailed, StatusCancelled:
			return &r.Results[i]
		}
	}
	return nil
}
