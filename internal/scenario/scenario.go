// Package scenario drives the ledger through an ordered sequence of
// accounting scenarios and checks a bookkeeping invariant after each one.
//
// Scenarios run strictly in order and are NOT independently repeatable:
// later scenarios verify deltas against ledger state accumulated by earlier
// ones, and the harness never resets the tenant's books. Re-running the
// whole set changes absolute balances but must preserve the conservation
// invariant at every checkpoint.
package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/slms-dev/ledgercheck/internal/core/domain"
	portsrepo "github.com/slms-dev/ledgercheck/internal/core/ports/repositories"
	portssvc "github.com/slms-dev/ledgercheck/internal/core/ports/services"
	"github.com/slms-dev/ledgercheck/internal/invariant"
	"github.com/slms-dev/ledgercheck/internal/report"
)

// Env is everything a scenario needs. One Env serves the whole run.
type Env struct {
	Ledger   portssvc.LedgerService
	Balances portsrepo.BalanceReader
	Check    invariant.Checker
	Fixture  Fixture
	Clock    func() time.Time
	Logger   *slog.Logger
}

func (e *Env) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

// Outcome is what a scenario hands back to the runner. A scenario never
// returns an error and never panics past its boundary; everything it has to
// say fits in here.
type Outcome struct {
	Passed  bool
	Details string
	EntryID *int64
}

func failf(format string, args ...any) Outcome {
	return Outcome{Passed: false, Details: fmt.Sprintf(format, args...)}
}

// Scenario is a named, self-contained check procedure.
type Scenario struct {
	Name string
	Run  func(ctx context.Context, env *Env) Outcome
}

// Runner executes the pipeline sequentially and records every outcome.
type Runner struct {
	env      *Env
	recorder *report.Recorder
}

// NewRunner wires a runner over the given environment and recorder.
func NewRunner(env *Env, recorder *report.Recorder) *Runner {
	return &Runner{env: env, recorder: recorder}
}

// Run executes every scenario in pipeline order, then the cross-validation
// conservation check. It returns the derived summary. Failures are recorded,
// never propagated; only the surrounding process decides the exit code.
func (r *Runner) Run(ctx context.Context) domain.RunSummary {
	return r.RunScenarios(ctx, Pipeline())
}

// RunScenarios executes the given scenarios in order. Split out from Run so
// partial pipelines can be exercised in isolation.
func (r *Runner) RunScenarios(ctx context.Context, scenarios []Scenario) domain.RunSummary {
	for _, sc := range scenarios {
		r.runOne(ctx, sc)
	}
	return r.recorder.Summary()
}

// runOne executes a single scenario behind a panic barrier. An unexpected
// panic becomes a recorded failure with its stack in the log.
func (r *Runner) runOne(ctx context.Context, sc Scenario) {
	r.env.Logger.Info("running scenario", slog.String("scenario", sc.Name))

	outcome := func() (out Outcome) {
		defer func() {
			if rec := recover(); rec != nil {
				r.env.Logger.Error("scenario panicked",
					slog.String("scenario", sc.Name),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))
				out = failf("unexpected panic: %v", rec)
			}
		}()
		return sc.Run(ctx, r.env)
	}()

	r.recorder.Record(sc.Name, outcome.Passed, outcome.Details, outcome.EntryID)

	if outcome.Passed {
		r.env.Logger.Info("scenario passed", slog.String("scenario", sc.Name))
	} else {
		r.env.Logger.Warn("scenario failed",
			slog.String("scenario", sc.Name),
			slog.String("details", outcome.Details))
	}
}
