package config

import "time"

// Plan represents a full deployment plan document.
type Plan struct {
	Version     string   `yaml:"version" validate:"required"`
	Name        string   `yaml:"name" validate:"required,min=1,max=100"`
	Description string   `yaml:"description,omitempty"`
	Target      Target   `yaml:"target" validate:"required"`
	App         App      `yaml:"app" validate:"required"`
	Health      Health   `yaml:"health" validate:"required"`
	Notify      *Notify  `yaml:"notify,omitempty" validate:"omitempty"`
	Settings    Settings `yaml:"settings,omitempty"`
}

// Target identifies the remote host every stage executes against.
type Target struct {
	Host         string `yaml:"host" validate:"required,hostname_rfc1123|ip"`
	Port         int    `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	User         string `yaml:"user" validate:"required"`
	IdentityFile string `yaml:"identity_file" validate:"required"`
}

// App describes the application being deployed.
type App struct {
	Name      string   `yaml:"name" validate:"required"`
	Repo      string   `yaml:"repo" validate:"required,git_url"`
	Branch    string   `yaml:"branch,omitempty"`
	Directory string   `yaml:"directory" validate:"required"`
	Packages  []string `yaml:"packages,omitempty" validate:"omitempty,dive,min=1"`
	Service   string   `yaml:"service" validate:"required,service_name"`
	Domain    string   `yaml:"domain,omitempty" validate:"omitempty,hostname_rfc1123|ip"`
}

// Health configures the post-deploy probe.
type Health struct {
	URL      string `yaml:"url" validate:"required,url"`
	Interval int    `yaml:"interval,omitempty" validate:"omitempty,min=1,max=300"`
	Timeout  int    `yaml:"timeout,omitempty" validate:"omitempty,min=1,max=3600"`
}

// Notify configures the email notification emitted after every run.
type Notify struct {
	SMTPHost   string   `yaml:"smtp_host" validate:"required,hostname_rfc1123|ip"`
	SMTPPort   int      `yaml:"smtp_port,omitempty" validate:"omitempty,min=1,max=65535"`
	From       string   `yaml:"from" validate:"required,email"`
	Recipients []string `yaml:"recipients" validate:"required,min=1,dive,email"`
}

// Settings holds execution parameters that apply to every stage.
type Settings struct {
	CommandTimeout int  `yaml:"command_timeout,omitempty" validate:"omitempty,min=1,max=86400"`
	MaxRetries     int  `yaml:"max_retries,omitempty" validate:"omitempty,min=0,max=10"`
	RetryBackoff   int  `yaml:"retry_backoff,omitempty" validate:"omitempty,min=1,max=600"`
	Verbose        bool `yaml:"verbose,omitempty"`
	DryRun         bool `yaml:"dry_run,omitempty"`
}

// Intervals and timeouts are stored in the plan as whole seconds.

// CommandTimeoutDuration returns the per-command timeout as a duration.
func (s Settings) CommandTimeoutDuration() time.Duration {
	if s.CommandTimeout <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.CommandTimeout) * time.Second
}

// RetryBackoffDuration returns the initial retry delay as a duration.
func (s Settings) RetryBackoffDuration() time.Duration {
	if s.RetryBackoff <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.RetryBackoff) * time.Second
}

// IntervalDuration returns the probe polling interval as a duration.
func (h Health) IntervalDuration() time.Duration {
	if h.Interval <= 0 {
		return 5 * time.Second
	}
	return time.Duration(h.Interval) * time.Second
}

// TimeoutDuration returns the probe overall deadline as a duration.
func (h Health) TimeoutDuration() time.Duration {
	if h.Timeout <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(h.Timeout) * time.Second
}

// SSHPort returns the configured SSH port, defaulting to 22.
func (t Target) SSHPort() int {
	if t.Port <= 0 {
		return 22
	}
	return t.Port
}

// BranchOrDefault returns the configured branch, defaulting to main.
func (a App) BranchOrDefault() string {
	if a.Branch == "" {
		return "main"
	}
	return a.Branch
}
