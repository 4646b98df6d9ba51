// Package validate checks the hard and soft invariants a deserialized Input
// must satisfy before analysis begins: a Severity/Code/Result triad, with
// this domain's own codes in place of a generic field-level validator's.
package validate

import (
	"fmt"

	"github.com/schedcu/core/internal/entity"
)

// Severity distinguishes findings that make the input unusable (ERROR) from
// ones the core tolerates by design (WARNING), e.g. a shift instance whose
// template is missing.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// Code identifies the kind of invariant violation found.
type Code string

const (
	CodeDuplicateStudentID    Code = "DUPLICATE_STUDENT_ID"
	CodeDuplicateTemplateID   Code = "DUPLICATE_TEMPLATE_ID"
	CodeDuplicateShiftTypeID  Code = "DUPLICATE_SHIFT_TYPE_ID"
	CodeDuplicateShiftID      Code = "DUPLICATE_SHIFT_ID"
	CodeUnknownShiftTypeRef   Code = "UNKNOWN_SHIFT_TYPE_REF"
	CodeUnknownTemplateRef    Code = "UNKNOWN_TEMPLATE_REF"
	CodeInvalidTimeRange      Code = "INVALID_TIME_RANGE"
	CodeInvalidConferenceDay  Code = "INVALID_CONFERENCE_DAY"
	CodeInvalidBlockEnd       Code = "INVALID_BLOCK_END"
	CodeInvertedShiftBounds   Code = "INVERTED_SHIFT_TYPE_BOUNDS"
)

// Message is a single validation finding.
type Message struct {
	Severity Severity
	Code     Code
	Text     string
}

// Result aggregates validation findings. Errors make the input unusable;
// Warnings describe tolerated-but-notable input shapes.
type Result struct {
	Errors   []Message
	Warnings []Message
}

func (r *Result) addError(code Code, format string, args ...any) {
	r.Errors = append(r.Errors, Message{Severity: Error, Code: code, Text: fmt.Sprintf(format, args...)})
}

func (r *Result) addWarning(code Code, format string, args ...any) {
	r.Warnings = append(r.Warnings, Message{Severity: Warning, Code: code, Text: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any hard invariant was violated.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Validate checks input against every hard and soft invariant this domain
// places on a deserialized payload. Unknown ShiftInstance.templateId
// references are recorded as warnings only — a missing template just means
// that shift's per-type bounds are silently skipped, never a hard error.
// A shift type whose minShifts exceeds its maxShifts is also only a
// warning; every other violation here is a hard error.
func Validate(in entity.Input) *Result {
	r := &Result{}

	seenStudents := make(map[string]bool, len(in.Project.Students))
	for _, s := range in.Project.Students {
		if seenStudents[s.ID] {
			r.addError(CodeDuplicateStudentID, "duplicate student id %q", s.ID)
		}
		seenStudents[s.ID] = true
	}

	shiftTypeIDs := make(map[string]bool, len(in.Project.ShiftTypes))
	for _, t := range in.Project.ShiftTypes {
		if shiftTypeIDs[t.ID] {
			r.addError(CodeDuplicateShiftTypeID, "duplicate shift type id %q", t.ID)
		}
		shiftTypeIDs[t.ID] = true
		if t.MinShifts != nil && t.MaxShifts != nil && *t.MinShifts > *t.MaxShifts {
			r.addWarning(CodeInvertedShiftBounds, "shift type %q has minShifts %d > maxShifts %d; model will be infeasible", t.ID, *t.MinShifts, *t.MaxShifts)
		}
	}

	templateIDs := make(map[string]bool, len(in.Project.ShiftTemplates))
	for _, t := range in.Project.ShiftTemplates {
		if templateIDs[t.ID] {
			r.addError(CodeDuplicateTemplateID, "duplicate shift template id %q", t.ID)
		}
		templateIDs[t.ID] = true
		if t.ShiftTypeID != "" && !shiftTypeIDs[t.ShiftTypeID] {
			r.addError(CodeUnknownShiftTypeRef, "shift template %q references unknown shift type %q", t.ID, t.ShiftTypeID)
		}
	}

	shiftIDs := make(map[string]bool, len(in.ShiftInstances))
	for _, sh := range in.ShiftInstances {
		if shiftIDs[sh.ID] {
			r.addError(CodeDuplicateShiftID, "duplicate shift instance id %q", sh.ID)
		}
		shiftIDs[sh.ID] = true

		if !sh.StartDateTime.Before(sh.EndDateTime) {
			r.addError(CodeInvalidTimeRange, "shift instance %q has startDateTime >= endDateTime", sh.ID)
		}
		if sh.BlockEnd != nil && sh.BlockEnd.Before(sh.EndDateTime) {
			r.addError(CodeInvalidBlockEnd, "shift instance %q has blockEnd before endDateTime", sh.ID)
		}
		if !templateIDs[sh.TemplateID] {
			r.addWarning(CodeUnknownTemplateRef, "shift instance %q references unknown template %q; its per-type bounds are skipped", sh.ID, sh.TemplateID)
		}
	}

	if in.Project.Rules.ConferenceDay < 1 || in.Project.Rules.ConferenceDay > 7 {
		r.addError(CodeInvalidConferenceDay, "conferenceDay %d is outside 1..7", in.Project.Rules.ConferenceDay)
	}

	return r
}
