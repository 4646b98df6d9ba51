// Package entity holds the plain data types the core operates on: students,
// shift types/templates/instances, rules, and the two possible outputs
// (an assignment list or a diagnostic). Every type here is input-decoded or
// output-encoded; none of it owns behavior beyond small, obvious helpers.
package entity

import (
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time of day, used for the conference blackout
// window's start/end. It carries no date or timezone of its own; it is
// always interpreted against a particular local date by the analyzer.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Student is a trainee eligible for shift assignment. Stable across a solve;
// the core never mutates or creates one.
type Student struct {
	ID          string `json:"id"`
	DisplayName string `json:"name,omitempty"`
}

// ShiftType is a category of shift, e.g. "Trauma" or "Overnight". The name
// "Overnight" (case-insensitive, whitespace-trimmed) is semantically special:
// it is the sole trigger for overnight-block contiguity logic. See
// IsOvernightName.
type ShiftType struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MinShifts *int   `json:"minShifts,omitempty"`
	MaxShifts *int   `json:"maxShifts,omitempty"`
}

// IsOvernightName reports whether name is the literal "Overnight" shift-type
// name, ignoring case and surrounding whitespace. This is the authoritative
// signal for overnight quota/block logic; a shift's own IsOvernight hint is
// advisory only and must never substitute for this check.
func IsOvernightName(name string) bool {
	return strings.ToLower(strings.TrimSpace(name)) == "overnight"
}

// ShiftTemplate is a recurring weekly pattern a ShiftInstance is generated
// from. MinShifts/MaxShifts here are the legacy per-template bounds; the
// per-shift-type bounds on ShiftType are what modelbuild actually enforces,
// so these are carried through for completeness but are not separately
// constrained.
type ShiftTemplate struct {
	ID          string `json:"id"`
	ShiftTypeID string `json:"shiftTypeId,omitempty"`
	MinShifts   *int   `json:"minShifts,omitempty"`
	MaxShifts   *int   `json:"maxShifts,omitempty"`
}

// ShiftInstance is a concrete dated occurrence of a shift: an absolute
// instant interval plus the template it was generated from.
type ShiftInstance struct {
	ID            string    `json:"id"`
	TemplateID    string    `json:"templateId"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`

	// IsOvernight is an advisory hint from the generator; it is never used
	// to decide overnight quota/block membership. See IsOvernightName.
	IsOvernight bool `json:"isOvernight,omitempty"`

	// BlockEnd, when present, is the shift's reserved span end, used in
	// place of EndDateTime for the pairwise rest/overlap check. Absent on
	// most inputs; present when the upstream generator materializes an
	// overnight block as a single reserved span.
	BlockEnd *time.Time `json:"blockEnd,omitempty"`
}

// ReservedEnd returns BlockEnd if set, else EndDateTime: the authoritative
// end of this shift's reserved span for overlap/rest purposes.
func (s ShiftInstance) ReservedEnd() time.Time {
	if s.BlockEnd != nil {
		return *s.BlockEnd
	}
	return s.EndDateTime
}

// Rules is the global and per-category rule set for a solve.
type Rules struct {
	NumShiftsRequired      int       `json:"numShiftsRequired"`
	TimeOffHours           int       `json:"timeOffHours"`
	NoDoubleBooking        bool      `json:"noDoubleBooking"`
	ConferenceDay          int       `json:"conferenceDay"`
	ConferenceStartTime    TimeOfDay `json:"conferenceStartTime"`
	ConferenceEndTime      TimeOfDay `json:"conferenceEndTime"`
	Timezone               string    `json:"timezone"`
	SolverTimeLimitSeconds int       `json:"solverTimeLimitSeconds"`
}

// DayBeforeConference returns the weekday (1=Sunday..7=Saturday) that
// precedes Rules.ConferenceDay, wrapping Sunday back to Saturday.
func (r Rules) DayBeforeConference() int {
	if r.ConferenceDay == 1 {
		return 7
	}
	return r.ConferenceDay - 1
}

// Project is the full input catalog: roster, templates, shift types, and
// rules. ShiftInstances live alongside it at the payload's top level (see
// internal/ioadapter) but are analyzed together with it.
type Project struct {
	Students       []Student       `json:"students"`
	ShiftTemplates []ShiftTemplate `json:"shiftTemplates"`
	ShiftTypes     []ShiftType     `json:"shiftTypes"`
	Rules          Rules           `json:"rules"`
}

// Input is the full deserialized payload: project plus shift instances.
type Input struct {
	Project        Project         `json:"project"`
	ShiftInstances []ShiftInstance `json:"shiftInstances"`
}

// Assignment is one (student, shift) pairing in a produced schedule.
type Assignment struct {
	StudentID       string `json:"studentId"`
	ShiftInstanceID string `json:"shiftInstanceId"`
}

// Diagnostic explains why a solve produced no assignment, or why the
// solver engine itself could not run.
type Diagnostic struct {
	Message string   `json:"message"`
	Details []string `json:"details"`
}

// Status is the external outcome taxonomy for a solve.
type Status string

const (
	StatusOptimal     Status = "OPTIMAL"
	StatusFeasible    Status = "FEASIBLE"
	StatusInfeasible  Status = "INFEASIBLE"
	StatusError       Status = "ERROR"
)

// Output is the full result document written to the output JSON path.
type Output struct {
	Status      Status       `json:"status"`
	Assignments []Assignment `json:"assignments"`
	Diagnostic  *Diagnostic  `json:"diagnostic"`
}
