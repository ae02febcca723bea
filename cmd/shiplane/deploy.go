package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vipulsaw/shiplane/internal/config"
	"github.com/vipulsaw/shiplane/internal/engine"
	"github.com/vipulsaw/shiplane/internal/gitinfo"
	"github.com/vipulsaw/shiplane/internal/health"
	"github.com/vipulsaw/shiplane/internal/logger"
	"github.com/vipulsaw/shiplane/internal/model"
	reportpkg "github.com/vipulsaw/shiplane/internal/report"
	"github.com/vipulsaw/shiplane/internal/stages"
	"github.com/vipulsaw/shiplane/internal/transport"
	"github.com/vipulsaw/shiplane/internal/tui"
)

type deployOptions struct {
	PlanPath       string
	DryRun         bool
	Verbose        bool
	NonInteractive bool
}

var deployCmdRunner = runDeploy

func newDeployCmd(root *rootFlags) *cobra.Command {
	opts := deployOptions{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run the deployment pipeline against the plan's target host",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = root.dryRun
			opts.Verbose = root.verbose
			opts.NonInteractive = !term.IsTerminal(int(os.Stdout.Fd()))

			return deployCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.PlanPath, "plan", "p", "", "Path to the deployment plan")
	cmd.MarkFlagRequired("plan") //nolint:errcheck

	return cmd
}

func runDeploy(opts deployOptions) error {
	plan, err := config.ParsePlan(opts.PlanPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	effectiveDryRun := opts.DryRun || plan.Settings.DryRun
	effectiveVerbose := opts.Verbose || plan.Settings.Verbose

	level := "info"
	if effectiveVerbose {
		level = "debug"
	}

	log, err := logger.New(logger.Options{Level: level, Pretty: true})
	if err != nil {
		return err
	}

	rc := engine.NewRunContext(plan, log)

	if !effectiveDryRun {
		revision, err := gitinfo.ResolveRevision(ctx, rc.RepoURL, rc.Branch)
		if err != nil {
			log.Error(err, "could not resolve repository revision, continuing without it")
		} else {
			rc.Revision = revision
		}
	}

	pipeline := stages.Pipeline(plan)
	names := make([]string, 0, len(pipeline))
	for _, st := range pipeline {
		names = append(names, st.Name)
	}

	tr := transport.NewSSH(transport.SSHOptions{
		Host:         plan.Target.Host,
		Port:         plan.Target.SSHPort(),
		User:         plan.Target.User,
		IdentityFile: plan.Target.IdentityFile,
	})
	defer tr.Close()

	modelState := tui.NewModel(plan.App.Name, names, opts.NonInteractive)
	interactive := !opts.NonInteractive

	var program *tea.Program
	var programErr error
	done := make(chan struct{})

	if interactive {
		program = tea.NewProgram(modelState)
		go func() {
			_, programErr = program.Run()
			close(done)
		}()
	}

	dispatch := func(msg tea.Msg) {
		dispatchTuiMessage(interactive, program, &modelState, msg)
	}

	exec := engine.NewExecutor()
	exec.DryRun = effectiveDryRun
	exec.OnStageStart = func(name string) {
		dispatch(tui.StageStartMsg{Name: name})
	}
	exec.OnStageResult = func(res model.StageResult) {
		dispatch(tui.StageResultMsg{Result: res})
	}

	report := exec.Run(ctx, rc, tr, pipeline)

	if !effectiveDryRun {
		if report.Failed() {
			report.SetHealth(&model.HealthResult{State: model.HealthSkipped, Endpoint: plan.Health.URL})
		} else {
			res := health.NewVerifier().Verify(ctx, plan.Health.URL,
				plan.Health.IntervalDuration(), plan.Health.TimeoutDuration())
			report.SetHealth(&res)
			dispatch(tui.HealthMsg{Result: res})
		}
	}

	if interactive {
		if program != nil {
			program.Send(tea.QuitMsg{})
		}
		<-done
		if programErr != nil {
			return programErr
		}
	} else {
		fmt.Fprintln(os.Stdout, modelState.View())
	}

	if plan.Notify != nil && !effectiveDryRun {
		payload := reportpkg.Render(report, plan.Health.URL)
		mailer := reportpkg.NewMailer(plan.Notify)
		if err := mailer.Send(ctx, payload, plan.Notify.Recipients); err != nil {
			// Delivery problems are logged, never escalated into the outcome.
			log.Error(err, "notification delivery failed")
		}
	}

	if report.Failed() {
		return fmt.Errorf("deployment run %s failed", report.RunID)
	}

	return nil
}

func dispatchTuiMessage(interactive bool, program *tea.Program, state *tui.Model, msg tea.Msg) {
	if interactive {
		if program != nil {
			program.Send(msg)
		}
		return
	}

	updated, _ := state.Update(msg)
	if m, ok := updated.(tui.Model); ok {
		*state = m
	}
}
