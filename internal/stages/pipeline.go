// Package stages defines the fixed deployment pipeline: dependency
// installation, repository sync, test run, reverse-proxy configuration, and
// service supervisor setup. Each stage is an opaque remote command sequence
// where exit code 0 means success; the orchestrator does not interpret tool
// output beyond that.
package stages

import (
	"github.com/vipulsaw/shiplane/internal/config"
	"github.com/vipulsaw/shiplane/internal/engine"
)

// Pipeline assembles the ordered stage sequence for a plan. Order is the
// dependency order: every stage assumes the previous stage's remote effects.
func Pipeline(plan *config.Plan) []engine.Stage {
	maxRetries := plan.Settings.MaxRetries
	backoff := plan.Settings.RetryBackoffDuration()

	install := InstallDependencies(plan.App.Packages)
	install.MaxRetries = maxRetries
	install.RetryBackoff = backoff

	sync := SyncRepository()
	sync.MaxRetries = maxRetries
	sync.RetryBackoff = backoff

	tests := RunTests()

	proxy := ConfigureProxy()
	proxy.MaxRetries = maxRetries
	proxy.RetryBackoff = backoff

	service := ConfigureService()
	service.MaxRetries = maxRetries
	service.RetryBackoff = backoff

	return []engine.Stage{install, sync, tests, proxy, service}
}
