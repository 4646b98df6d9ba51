// Package solve is the solver driver: it configures and invokes the CP-SAT
// solver, then maps its result back to the external {OPTIMAL, FEASIBLE,
// INFEASIBLE, ERROR} taxonomy and an assignment list.
package solve

import (
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"

	"github.com/schedcu/core/internal/entity"
	"github.com/schedcu/core/internal/modelbuild"
)

// numSearchWorkers is fixed at 8: the solver internally parallelizes search
// across 8 worker threads, opaque to the driver.
const numSearchWorkers = 8

// Result is the solver driver's outcome: the mapped status, the projected
// assignments (non-empty only on OPTIMAL/FEASIBLE), and how long the
// underlying solve call took (for telemetry).
type Result struct {
	Status      entity.Status
	Assignments []entity.Assignment
	Duration    time.Duration

	// EngineError holds the underlying error when Status is ERROR and the
	// cause was the solver engine itself (construction/invocation failure),
	// as opposed to a model the solver examined and proved infeasible.
	EngineError error
}

// Solve configures maxTimeInSeconds = max(1, solverTimeLimitSeconds) and
// numSearchWorkers = 8, invokes the CP-SAT solver against m, and projects
// any OPTIMAL/FEASIBLE solution back to (studentId, shiftInstanceId) pairs
// in input order.
func Solve(m *modelbuild.Model, students []entity.Student, shifts []entity.ShiftInstance, solverTimeLimitSeconds int) Result {
	start := time.Now()

	proto_, err := m.Builder.Model()
	if err != nil {
		return Result{Status: entity.StatusError, Duration: time.Since(start), EngineError: fmt.Errorf("failed to instantiate CP model: %w", err)}
	}

	limit := solverTimeLimitSeconds
	if limit < 1 {
		limit = 1
	}
	params := &sppb.SatParameters{
		MaxTimeInSeconds: proto.Float64(float64(limit)),
		NumSearchWorkers: proto.Int32(numSearchWorkers),
	}

	response, err := cpmodel.SolveCpModelWithParameters(proto_, params)
	duration := time.Since(start)
	if err != nil {
		return Result{Status: entity.StatusError, Duration: duration, EngineError: fmt.Errorf("CP-SAT solve failed: %w", err)}
	}

	switch response.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL, cmpb.CpSolverStatus_FEASIBLE:
		status := entity.StatusFeasible
		if response.GetStatus() == cmpb.CpSolverStatus_OPTIMAL {
			status = entity.StatusOptimal
		}
		return Result{
			Status:      status,
			Assignments: projectAssignments(response, m, students, shifts),
			Duration:    duration,
		}
	case cmpb.CpSolverStatus_MODEL_INVALID:
		return Result{Status: entity.StatusError, Duration: duration, EngineError: fmt.Errorf("CP-SAT reported the model as invalid")}
	default:
		// INFEASIBLE, UNKNOWN (including a timed-out search with no
		// feasible point found): both are reported as INFEASIBLE.
		return Result{Status: entity.StatusInfeasible, Duration: duration}
	}
}

func projectAssignments(response *cmpb.CpSolverResponse, m *modelbuild.Model, students []entity.Student, shifts []entity.ShiftInstance) []entity.Assignment {
	var out []entity.Assignment
	for s, student := range students {
		for i, shift := range shifts {
			if cpmodel.SolutionBooleanValue(response, m.Vars.X[s][i]) {
				out = append(out, entity.Assignment{StudentID: student.ID, ShiftInstanceID: shift.ID})
			}
		}
	}
	return out
}
