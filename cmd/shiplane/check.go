package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vipulsaw/shiplane/internal/config"
	"github.com/vipulsaw/shiplane/internal/health"
)

type checkOptions struct {
	PlanPath string
	Probe    bool
}

func newCheckCmd(root *rootFlags) *cobra.Command {
	opts := checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a deployment plan, optionally probing the health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.ParsePlan(opts.PlanPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "plan %q is valid (target %s, service %s)\n",
				plan.Name, plan.Target.Host, plan.App.Service)

			if !opts.Probe {
				return nil
			}

			res := health.NewVerifier().Verify(cmd.Context(), plan.Health.URL,
				plan.Health.IntervalDuration(), plan.Health.TimeoutDuration())
			fmt.Fprintf(cmd.OutOrStdout(), "health: %s (%d attempt(s), %s)\n",
				res.State, res.Attempts, res.Elapsed.Truncate(10*time.Millisecond))
			if !res.Passed() {
				return fmt.Errorf("endpoint %s is %s", plan.Health.URL, res.State)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.PlanPath, "plan", "p", "", "Path to the deployment plan")
	cmd.Flags().BoolVar(&opts.Probe, "probe", false, "Probe the health endpoint after validating")
	cmd.MarkFlagRequired("plan") //nolint:errcheck

	return cmd
}
