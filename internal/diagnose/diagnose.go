// Package diagnose builds the structured Diagnostic for every INFEASIBLE/
// ERROR outcome: a one-line message plus bulleted details pointing at the
// likely cause.
package diagnose

import (
	"fmt"

	"github.com/schedcu/core/internal/entity"
)

// EmptyInput is the terminal diagnostic for an empty roster or shift list,
// which short-circuits to INFEASIBLE before any variables are created.
func EmptyInput() *entity.Diagnostic {
	return &entity.Diagnostic{
		Message: "Missing students or shifts.",
		Details: []string{"Need at least one student and one generated shift."},
	}
}

// NoValidOvernightBlock is the terminal diagnostic for when no contiguous
// run exists among the overnight shifts.
func NoValidOvernightBlock(overnightRequired int) *entity.Diagnostic {
	return &entity.Diagnostic{
		Message: "No feasible overnight block exists in the current window.",
		Details: []string{
			fmt.Sprintf("Required overnight shifts/student: %d", overnightRequired),
			"No contiguous overnight run is available from shift offerings and dates.",
		},
	}
}

// EngineUnavailable is the ERROR-path diagnostic for when the solver
// engine could not be initialized or invoked.
func EngineUnavailable(cause error) *entity.Diagnostic {
	return &entity.Diagnostic{
		Message: "The constraint solver engine could not complete this solve.",
		Details: []string{
			cause.Error(),
			"Verify the CP-SAT native solver library is available in this environment.",
		},
	}
}

// Infeasible is the general post-solve diagnostic for when the solver
// examined the model and found (or could not find within the time limit)
// no feasible point.
func Infeasible(userRequested, overnightRequired, effectiveTarget, numStudents, numShifts int, noDoubleBooking bool) *entity.Diagnostic {
	doubleBookingState := "on"
	if !noDoubleBooking {
		doubleBookingState = "off"
	}
	return &entity.Diagnostic{
		Message: "No feasible schedule exists for the current rules.",
		Details: []string{
			fmt.Sprintf("User requested shifts/student: %d", userRequested),
			fmt.Sprintf("Required overnight shifts/student: %d", overnightRequired),
			fmt.Sprintf("Internal target assignments/student: %d", effectiveTarget),
			fmt.Sprintf("Required assignments: %d", numStudents*effectiveTarget),
			fmt.Sprintf("Shift capacity (if all unique): %d", numShifts),
			fmt.Sprintf("Double booking: %s", doubleBookingState),
			"Check min/max per-shift-type constraints and rest-hour conflicts.",
		},
	}
}

// InvalidInput is the process-level (non-output-document) diagnostic text
// used when hard validation errors prevent a solve from ever starting. It is
// written to stderr by cmd/rotation-core, not to the output JSON.
func InvalidInput(messages []string) string {
	out := "input failed validation:"
	for _, m := range messages {
		out += "\n  - " + m
	}
	return out
}
