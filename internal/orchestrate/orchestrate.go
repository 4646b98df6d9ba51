// Package orchestrate runs the full pipeline — validate, analyze, build,
// solve, diagnose — and produces the final entity.Output. Five phases, each
// one's failure short-circuiting the rest with an early return.
package orchestrate

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/schedcu/core/internal/analyze"
	"github.com/schedcu/core/internal/diagnose"
	"github.com/schedcu/core/internal/entity"
	"github.com/schedcu/core/internal/modelbuild"
	"github.com/schedcu/core/internal/solve"
	"github.com/schedcu/core/internal/telemetry"
	"github.com/schedcu/core/internal/validate"
)

// Result is the orchestrator's outcome: either a validation failure (which
// the caller must treat as a process-level failure — never written as an
// output document) or a completed entity.Output.
type Result struct {
	// ValidationErrors is non-empty iff hard input validation failed and
	// no solve was attempted.
	ValidationErrors []validate.Message

	// Output is populated whenever the pipeline reached at least the
	// pre-solve terminal checks; nil only when ValidationErrors is set.
	Output *entity.Output
}

// Run executes the full pipeline against in, logging lifecycle events to
// log and recording solve telemetry to metrics. loc is the project's
// resolved IANA timezone.
func Run(in entity.Input, loc *time.Location, log *zap.SugaredLogger, metrics *telemetry.Registry) Result {
	// Phase 0: validate.
	vr := validate.Validate(in)
	if vr.HasErrors() {
		log.Infow("input failed validation", "error_count", len(vr.Errors))
		return Result{ValidationErrors: vr.Errors}
	}
	for _, w := range vr.Warnings {
		log.Debugw("input validation warning", "code", w.Code, "text", w.Text)
	}

	rules := in.Project.Rules
	numStudents := len(in.Project.Students)
	numShifts := len(in.ShiftInstances)

	// Empty inputs short-circuit to INFEASIBLE before any variables are
	// created.
	if numStudents == 0 || numShifts == 0 {
		log.Infow("empty input, short-circuiting to INFEASIBLE", "students", numStudents, "shifts", numShifts)
		return terminal(entity.StatusInfeasible, diagnose.EmptyInput())
	}

	// Phase 1: analyze.
	a := analyze.Analyze(in, loc)
	log.Infow("analysis complete",
		"overnight_required", a.OvernightRequired,
		"overnight_shifts", len(a.OvernightIndices),
		"conference_blocked_shifts", len(a.ConferenceBlockedIndices),
		"candidate_blocks", len(a.Blocks),
	)

	if a.NoValidBlock {
		log.Infow("no contiguous overnight block available, short-circuiting to INFEASIBLE")
		return terminal(entity.StatusInfeasible, diagnose.NoValidOvernightBlock(a.OvernightRequired))
	}

	effectiveTarget := rules.NumShiftsRequired - max(0, a.OvernightRequired-1)
	if effectiveTarget < 0 {
		effectiveTarget = 0
	}

	// Phase 2: build.
	m := modelbuild.Build(in.Project.Students, in, a, effectiveTarget)
	blockVars := 0
	if len(m.Vars.Y) > 0 {
		blockVars = numStudents * len(a.Blocks)
	}
	metrics.RecordModelSize(numStudents*numShifts, blockVars, m.NumConstraints)
	log.Infow("model built", "assignment_vars", numStudents*numShifts, "block_vars", blockVars, "constraints", m.NumConstraints)

	// Phase 3: solve.
	log.Infow("solve starting", "time_limit_seconds", rules.SolverTimeLimitSeconds)
	solveResult := solve.Solve(m, in.Project.Students, in.ShiftInstances, rules.SolverTimeLimitSeconds)
	metrics.RecordSolve(string(solveResult.Status), solveResult.Duration.Seconds())
	log.Infow("solve finished", "status", solveResult.Status, "duration", solveResult.Duration)

	// Phase 4: diagnose (only reached on a non-success status).
	switch solveResult.Status {
	case entity.StatusOptimal, entity.StatusFeasible:
		return Result{Output: &entity.Output{
			Status:      solveResult.Status,
			Assignments: solveResult.Assignments,
			Diagnostic:  nil,
		}}
	case entity.StatusError:
		return terminal(entity.StatusError, diagnose.EngineUnavailable(wrapEngineError(solveResult.EngineError)))
	default:
		return terminal(entity.StatusInfeasible, diagnose.Infeasible(
			rules.NumShiftsRequired, a.OvernightRequired, effectiveTarget,
			numStudents, numShifts, rules.NoDoubleBooking,
		))
	}
}

func terminal(status entity.Status, d *entity.Diagnostic) Result {
	return Result{Output: &entity.Output{
		Status:      status,
		Assignments: []entity.Assignment{},
		Diagnostic:  d,
	}}
}

func wrapEngineError(err error) error {
	if err == nil {
		return fmt.Errorf("unknown solver engine failure")
	}
	return err
}
