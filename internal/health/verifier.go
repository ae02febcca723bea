// Package health implements the post-deploy probe. Its outcome is
// advisory-terminal: an unhealthy or timed-out probe fails the run, but
// deployment artifacts stay in place for operator inspection.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/vipulsaw/shiplane/internal/model"
)

const defaultClientTimeout = 5 * time.Second

// Verifier polls an endpoint until it answers with an accepted status code or
// the overall timeout elapses.
type Verifier struct {
	Client *http.Client

	// HealthyStatus classifies response codes. Defaults to 2xx/3xx, matching
	// a plain HEAD/GET reachability check.
	HealthyStatus func(code int) bool
}

// NewVerifier creates a verifier with default client and classification.
func NewVerifier() *Verifier {
	return &Verifier{}
}

func (v *Verifier) client() *http.Client {
	if v.Client != nil {
		return v.Client
	}
	return &http.Client{Timeout: defaultClientTimeout}
}

func (v *Verifier) healthy(code int) bool {
	if v.HealthyStatus != nil {
		return v.HealthyStatus(code)
	}
	return code >= 200 && code < 400
}

// Verify polls endpoint every pollInterval until a healthy response arrives
// or overallTimeout elapses. The first healthy response wins immediately.
func (v *Verifier) Verify(ctx context.Context, endpoint string, pollInterval, overallTimeout time.Duration) model.HealthResult {
	start := time.Now()
	result := model.HealthResult{Endpoint: endpoint}

	deadline := time.NewTimer(overallTimeout)
	defer deadline.Stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// Probe once immediately, then on every tick.
	for {
		result.Attempts++
		code, err := v.probe(ctx, endpoint)
		if err == nil && v.healthy(code) {
			result.State = model.HealthHealthy
			result.StatusCode = code
			result.Elapsed = time.Since(start)
			return result
		}
		result.StatusCode = code
		result.Err = err

		select {
		case <-ctx.Done():
			result.State = model.HealthUnhealthy
			result.Err = ctx.Err()
			result.Elapsed = time.Since(start)
			return result
		case <-deadline.C:
			result.State = model.HealthTimedOut
			result.Elapsed = time.Since(start)
			return result
		case <-ticker.C:
		}
	}
}

func (v *Verifier) probe(ctx context.Context, endpoint string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := v.client().Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
