package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/vipulsaw/shiplane/internal/model"
	"github.com/vipulsaw/shiplane/internal/transport"
	shiplaneerrors "github.com/vipulsaw/shiplane/pkg/errors"
)

const backoffMultiplier = 1.5

// Executor runs an ordered stage sequence with fail-fast semantics, per-stage
// retry of transient errors, and rollback-on-failure by unwinding completed
// stages in reverse.
type Executor struct {
	DryRun bool

	// OnStageStart and OnStageResult, when set, receive progress events as
	// the run advances. Rollback entries are reported through OnStageResult.
	OnStageStart  func(name string)
	OnStageResult func(res model.StageResult)

	sleep func(time.Duration)
}

// NewExecutor creates an executor.
func NewExecutor() *Executor {
	return &Executor{sleep: time.Sleep}
}

// Run executes stages in order against the transport and returns the run
// report. The report's Overall field reflects stage outcomes only; the caller
// folds in the health probe via Report.SetHealth.
func (e *Executor) Run(ctx context.Context, rc *RunContext, tr transport.Transport, stages []Stage) *model.Report {
	report := &model.Report{
		RunID:     uuid.NewString(),
		PlanName:  rc.AppName,
		Revision:  rc.Revision,
		Overall:   model.OverallSuccess,
		StartedAt: time.Now(),
	}
	defer func() {
		report.Duration = time.Since(report.StartedAt)
	}()

	if e.DryRun {
		for _, st := range stages {
			e.emit(report, model.StageResult{
				StageName: st.Name,
				Status:    model.StatusSkipped,
				Message:   st.Summary,
				Timestamp: time.Now(),
			})
		}
		return report
	}

	var completed []Stage

	for _, st := range stages {
		if e.OnStageStart != nil {
			e.OnStageStart(st.Name)
		}

		res := e.runStage(ctx, rc, tr, st)
		e.emit(report, res)

		if res.Status == model.StatusSuccess {
			completed = append(completed, st)
			continue
		}

		report.Overall = model.OverallFailed
		e.unwind(ctx, rc, tr, completed, report)
		return report
	}

	return report
}

func (e *Executor) emit(report *model.Report, res model.StageResult) {
	report.Append(res)
	if e.OnStageResult != nil {
		e.OnStageResult(res)
	}
}

func (e *Executor) runStage(ctx context.Context, rc *RunContext, tr transport.Transport, st Stage) model.StageResult {
	log := rc.Logger.WithFields(map[string]any{"stage": st.Name})
	start := time.Now()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = st.RetryBackoff
	if bo.InitialInterval <= 0 {
		bo.InitialInterval = time.Second
	}
	bo.Multiplier = backoffMultiplier
	bo.RandomizationFactor = 0
	bo.Reset()

	attempts := 0
	var out *transport.Result
	var lastErr error

	for {
		if err := ctx.Err(); err != nil {
			log.Warn("run cancelled before stage attempt")
			return cancelledResult(st.Name, attempts, err, time.Since(start))
		}

		attempts++
		log.Debug(fmt.Sprintf("attempt %d starting", attempts))

		out, lastErr = st.Action(ctx, rc, tr)
		if lastErr == nil {
			res := model.StageResult{
				StageName: st.Name,
				Status:    model.StatusSuccess,
				Message:   "completed",
				Attempts:  attempts,
				Duration:  time.Since(start),
				Timestamp: time.Now(),
			}
			captureOutput(&res, out)
			log.Info("stage succeeded")
			return res
		}

		var cancelErr *shiplaneerrors.CancellationError
		if errors.As(lastErr, &cancelErr) || ctx.Err() != nil {
			log.Warn("stage interrupted by cancellation")
			return cancelledResult(st.Name, attempts, lastErr, time.Since(start))
		}

		if !shiplaneerrors.IsTransient(lastErr) || attempts > st.MaxRetries {
			break
		}

		delay := bo.NextBackOff()
		log.Error(lastErr, fmt.Sprintf("transient failure, retrying in %s", delay))
		e.sleep(delay)
	}

	res := model.StageResult{
		StageName: st.Name,
		Status:    model.StatusFailed,
		Message:   lastErr.Error(),
		Attempts:  attempts,
		Error:     lastErr,
		Duration:  time.Since(start),
		Timestamp: time.Now(),
	}
	captureOutput(&res, out)

	var cmdErr *shiplaneerrors.CommandError
	if errors.As(lastErr, &cmdErr) {
		res.ExitCode = cmdErr.ExitCode
	}

	log.Error(lastErr, "stage failed")
	return res
}

// unwind rolls back previously succeeded stages in reverse order. The unwind
// runs even when the surrounding context is cancelled, and a failing rollback
// never stops the rest of the unwind.
func (e *Executor) unwind(ctx context.Context, rc *RunContext, tr transport.Transport, completed []Stage, report *model.Report) {
	rbCtx := context.WithoutCancel(ctx)

	for i := len(completed) - 1; i >= 0; i-- {
		st := completed[i]
		if st.Rollback == nil {
			continue
		}

		log := rc.Logger.WithFields(map[string]any{"stage": st.Name})
		start := time.Now()

		res := model.StageResult{
			StageName: st.Name,
			Status:    model.StatusRolledBack,
			Message:   "rolled back",
			Attempts:  1,
			Timestamp: time.Now(),
		}

		if err := st.Rollback(rbCtx, rc, tr); err != nil {
			rbErr := shiplaneerrors.NewRollbackError(st.Name, err)
			log.Error(rbErr, "rollback failed, continuing unwind")
			res.Error = rbErr
			res.Message = rbErr.Error()
		} else {
			log.Info("stage rolled back")
		}

		res.Duration = time.Since(start)
		e.emit(report, res)
	}
}

func cancelledResult(name string, attempts int, err error, elapsed time.Duration) model.StageResult {
	var cancelErr *shiplaneerrors.CancellationError
	if !errors.As(err, &cancelErr) {
		err = shiplaneerrors.NewCancellationError(name, err)
	}
	return model.StageResult{
		StageName: name,
		Status:    model.StatusCancelled,
		Message:   err.Error(),
		Attempts:  attempts,
		Error:     err,
		Duration:  elapsed,
		Timestamp: time.Now(),
	}
}

func captureOutput(res *model.StageResult, out *transport.Result) {
	if out == nil {
		return
	}
	res.Stdout = out.Stdout
	res.Stderr = out.Stderr
	if res.ExitCode == 0 {
		res.ExitCode = out.ExitCode
	}
}
