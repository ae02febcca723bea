package engine

import (
	"time"

	"github.com/vipulsaw/shiplane/internal/config"
	"github.com/vipulsaw/shiplane/internal/logger"
)

// RunContext carries the configuration for one deployment run. It is built
// once, threaded explicitly through every stage, and never mutated after
// construction (Revision is filled in before the run starts).
type RunContext struct {
	AppName        string
	TargetHost     string
	SSHUser        string
	IdentityFile   string
	AppDir         string
	RepoURL        string
	Branch         string
	ServiceName    string
	Domain         string
	NotifyTargets  []string
	Revision       string
	CommandTimeout time.Duration
	Logger         *logger.Logger
}

// NewRunContext builds a RunContext from a validated deployment plan.
func NewRunContext(plan *config.Plan, log *logger.Logger) *RunContext {
	rc := &RunContext{
		AppName:        plan.App.Name,
		TargetHost:     plan.Target.Host,
		SSHUser:        plan.Target.User,
		IdentityFile:   plan.Target.IdentityFile,
		AppDir:         plan.App.Directory,
		RepoURL:        plan.App.Repo,
		Branch:         plan.App.BranchOrDefault(),
		ServiceName:    plan.App.Service,
		Domain:         plan.App.Domain,
		CommandTimeout: plan.Settings.CommandTimeoutDuration(),
		Logger:         log,
	}
	if plan.Notify != nil {
		rc.NotifyTargets = append(rc.NotifyTargets, plan.Notify.Recipients...)
	}
	if rc.Domain == "" {
		rc.Domain = plan.Target.Host
	}
	return rc
}
