// Package analyze implements the shift analyzer: a pure, total,
// side-effect-free pass over the input shifts and rules that the model
// builder consumes. Nothing here touches the solver or does I/O.
package analyze

import (
	"sort"
	"time"

	"github.com/schedcu/core/internal/entity"
)

// Block is a candidate overnight block: a contiguous window of exactly
// overnightRequired overnight shifts with consecutive starts exactly 24h
// apart. Windows may overlap one another. ShiftIndices are indices into the Analysis's shift slice (which is
// input order, same as entity.Input.ShiftInstances).
type Block struct {
	ShiftIndices []int
	SpanStart    time.Time
	SpanEnd      time.Time
}

// Analysis is the complete, pre-computed bundle the model builder consumes.
type Analysis struct {
	Shifts []entity.ShiftInstance

	// OvernightShiftTypeIDs is the set of ShiftType ids whose name is
	// "Overnight" (case/whitespace-insensitive). Authoritative for
	// overnight membership; see entity.IsOvernightName.
	OvernightShiftTypeIDs map[string]bool

	// OvernightRequired is max(0, minShifts) of any overnight shift type,
	// 0 if none exists.
	OvernightRequired int

	// OvernightIndices are the indices of shifts whose template resolves
	// to an overnight shift type.
	OvernightIndices []int

	// ConferenceBlockedIndices are shifts overlapping the conference
	// blackout window in the project's local timezone.
	ConferenceBlockedIndices []int

	// PreConferenceOvernightIndices are overnight shifts whose local
	// start weekday equals DayBeforeConference.
	PreConferenceOvernightIndices []int

	// Blocks holds every candidate overnight block, populated only when
	// OvernightRequired > 1. Nil/empty with NoValidBlock true means the
	// analyzer could not find any contiguous run and the caller must
	// short-circuit to INFEASIBLE before building a model.
	Blocks []Block

	// NoValidBlock is true iff OvernightRequired > 1 and no contiguous
	// run of that length exists among the overnight shifts.
	NoValidBlock bool
}

// Analyze computes the Analysis bundle for in's shifts under rules and
// shiftTypes/templates, projecting timestamps through loc (the project's
// IANA timezone, already resolved by the caller).
func Analyze(in entity.Input, loc *time.Location) Analysis {
	shifts := in.ShiftInstances
	rules := in.Project.Rules

	templatesByID := make(map[string]entity.ShiftTemplate, len(in.Project.ShiftTemplates))
	for _, t := range in.Project.ShiftTemplates {
		templatesByID[t.ID] = t
	}

	overnightTypeIDs := make(map[string]bool)
	overnightRequired := 0
	foundOvernightType := false
	for _, t := range in.Project.ShiftTypes {
		if !entity.IsOvernightName(t.Name) {
			continue
		}
		overnightTypeIDs[t.ID] = true
		if !foundOvernightType {
			// First matching shift type wins, matching the original
			// solver's break-on-first-match (ortools_solver.py).
			if t.MinShifts != nil {
				overnightRequired = max(0, *t.MinShifts)
			}
			foundOvernightType = true
		}
	}

	a := Analysis{
		Shifts:                shifts,
		OvernightShiftTypeIDs: overnightTypeIDs,
		OvernightRequired:     overnightRequired,
	}

	dayBeforeConference := rules.DayBeforeConference()

	for idx, sh := range shifts {
		template, hasTemplate := templatesByID[sh.TemplateID]
		isOvernight := hasTemplate && overnightTypeIDs[template.ShiftTypeID]

		if isOvernight {
			a.OvernightIndices = append(a.OvernightIndices, idx)
			localStart := sh.StartDateTime.In(loc)
			if weekday(localStart) == dayBeforeConference {
				a.PreConferenceOvernightIndices = append(a.PreConferenceOvernightIndices, idx)
			}
		}

		if overlapsConferenceBlackout(sh, rules, loc) {
			a.ConferenceBlockedIndices = append(a.ConferenceBlockedIndices, idx)
		}
	}

	if overnightRequired > 1 {
		a.Blocks = candidateBlocks(shifts, a.OvernightIndices, overnightRequired)
		a.NoValidBlock = len(a.Blocks) == 0
	}

	return a
}

// weekday maps Go's time.Weekday (Sunday=0) to this domain's 1=Sunday..7=Saturday
// convention.
func weekday(t time.Time) int {
	return int(t.Weekday()) + 1
}

// overlapsConferenceBlackout reports whether shift overlaps the recurring
// weekly conference window, checked against every local calendar date the
// shift spans. The window is [conferenceStart, conferenceEnd)
// on each local date whose weekday equals rules.ConferenceDay; if the end
// time is at or before the start time, the window is extended 24h to handle
// an overnight blackout.
func overlapsConferenceBlackout(sh entity.ShiftInstance, rules entity.Rules, loc *time.Location) bool {
	localStart := sh.StartDateTime.In(loc)
	localEnd := sh.EndDateTime.In(loc)

	day := truncateToDate(localStart)
	lastDay := truncateToDate(localEnd)

	for !day.After(lastDay) {
		if weekday(day) == rules.ConferenceDay {
			windowStart := time.Date(day.Year(), day.Month(), day.Day(), rules.ConferenceStartTime.Hour, rules.ConferenceStartTime.Minute, 0, 0, loc)
			windowEnd := time.Date(day.Year(), day.Month(), day.Day(), rules.ConferenceEndTime.Hour, rules.ConferenceEndTime.Minute, 0, 0, loc)
			if !windowEnd.After(windowStart) {
				windowEnd = windowEnd.Add(24 * time.Hour)
			}
			if localStart.Before(windowEnd) && windowStart.Before(localEnd) {
				return true
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return false
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// candidateBlocks finds every window of exactly blockLen consecutive
// overnight shifts (sorted by start instant) whose consecutive starts are
// exactly 86,400 seconds apart. A longer run yields one block per window
// position, so returned blocks may share shifts.
func candidateBlocks(shifts []entity.ShiftInstance, overnightIndices []int, blockLen int) []Block {
	ordered := append([]int(nil), overnightIndices...)
	sort.Slice(ordered, func(i, j int) bool {
		return shifts[ordered[i]].StartDateTime.Before(shifts[ordered[j]].StartDateTime)
	})

	var blocks []Block
	for start := 0; start+blockLen <= len(ordered); start++ {
		window := ordered[start : start+blockLen]
		consecutive := true
		for i := 1; i < len(window); i++ {
			gap := shifts[window[i]].StartDateTime.Sub(shifts[window[i-1]].StartDateTime)
			if gap != 24*time.Hour {
				consecutive = false
				break
			}
		}
		if !consecutive {
			continue
		}
		indices := append([]int(nil), window...)
		blocks = append(blocks, Block{
			ShiftIndices: indices,
			SpanStart:    shifts[window[0]].StartDateTime,
			SpanEnd:      shifts[window[len(window)-1]].ReservedEnd(),
		})
	}
	return blocks
}
