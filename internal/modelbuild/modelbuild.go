// Package modelbuild translates an analyze.Analysis into a CP-SAT boolean
// model. It depends on the or-tools cpmodel binding
// (github.com/google/or-tools/ortools/sat/go/cpmodel): boolean variables,
// linear expressions, and AddEquality/AddLessOrEqual/AddGreaterOrEqual.
package modelbuild

import (
	"strconv"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/schedcu/core/internal/analyze"
	"github.com/schedcu/core/internal/entity"
)

// VarTable holds every decision variable the builder allocated, indexed so
// the solver driver can project a solution back into assignments.
type VarTable struct {
	// X[studentIdx][shiftIdx] is the boolean decision for whether that
	// student takes that shift.
	X [][]cpmodel.BoolVar

	// Y[studentIdx][blockIdx] is the boolean decision for whether that
	// student is assigned that candidate overnight block. Empty when
	// OvernightRequired <= 1.
	Y [][]cpmodel.BoolVar
}

// Model is the built CP-SAT model plus bookkeeping the driver and telemetry
// need.
type Model struct {
	Builder        *cpmodel.CpModelBuilder
	Vars           VarTable
	NumStudents    int
	NumShifts      int
	EffectiveTarget int

	// NumConstraints is an approximate count of constraints emitted, used
	// only for the metrics gauge; it is not solver-meaningful.
	NumConstraints int
}

// Build constructs the CP-SAT model for the given students, rules, analysis,
// and per-shift-type bounds (resolved from ShiftTemplate/ShiftType via
// analysis' source shifts). effectiveTarget is
// max(0, numShiftsRequired - max(0, overnightRequired-1)).
func Build(students []entity.Student, in entity.Input, a analyze.Analysis, effectiveTarget int) *Model {
	numStudents := len(students)
	numShifts := len(a.Shifts)

	b := cpmodel.NewCpModelBuilder()
	m := &Model{
		Builder:         b,
		NumStudents:     numStudents,
		NumShifts:       numShifts,
		EffectiveTarget: effectiveTarget,
	}

	// 1. Variables.
	m.Vars.X = make([][]cpmodel.BoolVar, numStudents)
	for s := range students {
		m.Vars.X[s] = make([]cpmodel.BoolVar, numShifts)
		for i := range a.Shifts {
			m.Vars.X[s][i] = b.NewBoolVar().WithName(varName(s, i))
		}
	}

	overnightRequired := a.OvernightRequired
	if overnightRequired > 1 {
		m.Vars.Y = make([][]cpmodel.BoolVar, numStudents)
		for s := range students {
			m.Vars.Y[s] = make([]cpmodel.BoolVar, len(a.Blocks))
			for w := range a.Blocks {
				m.Vars.Y[s][w] = b.NewBoolVar().WithName(blockVarName(s, w))
			}
		}
	}

	// 2. Per-student total.
	for s := range students {
		expr := cpmodel.NewLinearExpr()
		for i := range a.Shifts {
			expr.Add(m.Vars.X[s][i])
		}
		b.AddEquality(expr, cpmodel.NewConstant(int64(effectiveTarget)))
		m.NumConstraints++
	}

	// 3. Overnight count.
	if overnightRequired > 0 {
		for s := range students {
			expr := cpmodel.NewLinearExpr()
			for _, i := range a.OvernightIndices {
				expr.Add(m.Vars.X[s][i])
			}
			b.AddEquality(expr, cpmodel.NewConstant(int64(overnightRequired)))
			m.NumConstraints++
		}
	}

	// 4. Block contiguity.
	if overnightRequired > 1 {
		buildBlockContiguity(b, m, a)
	}

	// 5. No double-booking.
	if in.Project.Rules.NoDoubleBooking {
		for i := range a.Shifts {
			expr := cpmodel.NewLinearExpr()
			for s := range students {
				expr.Add(m.Vars.X[s][i])
			}
			b.AddLessOrEqual(expr, cpmodel.NewConstant(1))
			m.NumConstraints++
		}
	}

	// 6. Conference blackout.
	for _, i := range a.ConferenceBlockedIndices {
		for s := range students {
			b.AddEquality(m.Vars.X[s][i], cpmodel.NewConstant(0))
			m.NumConstraints++
		}
	}

	// 7. Pre-conference overnight ban.
	for _, i := range a.PreConferenceOvernightIndices {
		for s := range students {
			b.AddEquality(m.Vars.X[s][i], cpmodel.NewConstant(0))
			m.NumConstraints++
		}
	}

	// 8. Pairwise rest/overlap.
	minRest := int64(in.Project.Rules.TimeOffHours) * 3600
	for i := 0; i < numShifts; i++ {
		for j := i + 1; j < numShifts; j++ {
			if !forbidsPair(a.Shifts[i], a.Shifts[j], minRest) {
				continue
			}
			for s := range students {
				expr := cpmodel.NewLinearExpr()
				expr.Add(m.Vars.X[s][i])
				expr.Add(m.Vars.X[s][j])
				b.AddLessOrEqual(expr, cpmodel.NewConstant(1))
				m.NumConstraints++
			}
		}
	}

	// 9. Per-shift-type bounds.
	buildShiftTypeBounds(b, m, students, in)

	return m
}

func varName(studentIdx, shiftIdx int) string {
	return "x_" + strconv.Itoa(studentIdx) + "_" + strconv.Itoa(shiftIdx)
}

func blockVarName(studentIdx, blockIdx int) string {
	return "y_" + strconv.Itoa(studentIdx) + "_" + strconv.Itoa(blockIdx)
}

// forbidsPair reports whether shifts i and j may never both be assigned to
// the same student: either their reserved spans overlap, or the gap between
// them is shorter than minRest seconds. Uses ReservedEnd (blockEnd when
// present) as the authoritative span end.
func forbidsPair(si, sj entity.ShiftInstance, minRestSeconds int64) bool {
	startI, endI := si.StartDateTime, si.ReservedEnd()
	startJ, endJ := sj.StartDateTime, sj.ReservedEnd()

	if startI.Before(endJ) && startJ.Before(endI) {
		return true
	}

	var gap int64
	if !endI.After(startJ) {
		gap = int64(startJ.Sub(endI).Seconds())
	} else {
		gap = int64(startI.Sub(endJ).Seconds())
	}
	return gap < minRestSeconds
}

// buildBlockContiguity emits the constraints tying block choice to overnight
// membership: exactly one block chosen per student, overnight membership
// driven entirely by the chosen block, and the block's reserved span
// excluding any overlapping non-member shift.
func buildBlockContiguity(b *cpmodel.CpModelBuilder, m *Model, a analyze.Analysis) {
	memberOf := make(map[int][]int, len(a.OvernightIndices)) // shift idx -> block indices covering it
	for w, block := range a.Blocks {
		for _, i := range block.ShiftIndices {
			memberOf[i] = append(memberOf[i], w)
		}
	}

	isBlockMember := make([]map[int]bool, len(a.Blocks))
	for w, block := range a.Blocks {
		set := make(map[int]bool, len(block.ShiftIndices))
		for _, i := range block.ShiftIndices {
			set[i] = true
		}
		isBlockMember[w] = set
	}

	for s := range m.Vars.X {
		// exactly one block chosen
		blockExpr := cpmodel.NewLinearExpr()
		for w := range a.Blocks {
			blockExpr.Add(m.Vars.Y[s][w])
		}
		b.AddEquality(blockExpr, cpmodel.NewConstant(1))
		m.NumConstraints++

		for _, i := range a.OvernightIndices {
			covering := memberOf[i]
			if len(covering) == 0 {
				b.AddEquality(m.Vars.X[s][i], cpmodel.NewConstant(0))
				m.NumConstraints++
				continue
			}
			expr := cpmodel.NewLinearExpr()
			for _, w := range covering {
				expr.Add(m.Vars.Y[s][w])
			}
			b.AddEquality(m.Vars.X[s][i], expr)
			m.NumConstraints++
		}

		for w, block := range a.Blocks {
			for j := range a.Shifts {
				if isBlockMember[w][j] {
					continue
				}
				if overlapsSpan(a.Shifts[j], block.SpanStart, block.SpanEnd) {
					expr := cpmodel.NewLinearExpr()
					expr.Add(m.Vars.X[s][j])
					expr.Add(m.Vars.Y[s][w])
					b.AddLessOrEqual(expr, cpmodel.NewConstant(1))
					m.NumConstraints++
				}
			}
		}
	}
}

func overlapsSpan(sh entity.ShiftInstance, spanStart, spanEnd time.Time) bool {
	return sh.StartDateTime.Before(spanEnd) && spanStart.Before(sh.ReservedEnd())
}

func buildShiftTypeBounds(b *cpmodel.CpModelBuilder, m *Model, students []entity.Student, in entity.Input) {
	templatesByID := make(map[string]entity.ShiftTemplate, len(in.Project.ShiftTemplates))
	for _, t := range in.Project.ShiftTemplates {
		templatesByID[t.ID] = t
	}
	shiftTypesByID := make(map[string]entity.ShiftType, len(in.Project.ShiftTypes))
	for _, t := range in.Project.ShiftTypes {
		shiftTypesByID[t.ID] = t
	}

	shiftsByType := make(map[string][]int)
	for idx, sh := range in.ShiftInstances {
		template, ok := templatesByID[sh.TemplateID]
		if !ok || template.ShiftTypeID == "" {
			continue
		}
		shiftsByType[template.ShiftTypeID] = append(shiftsByType[template.ShiftTypeID], idx)
	}

	for typeID, indices := range shiftsByType {
		shiftType, ok := shiftTypesByID[typeID]
		if !ok {
			continue
		}
		if shiftType.MinShifts == nil && shiftType.MaxShifts == nil {
			continue
		}
		for s := range students {
			expr := cpmodel.NewLinearExpr()
			for _, i := range indices {
				expr.Add(m.Vars.X[s][i])
			}
			if shiftType.MinShifts != nil {
				b.AddGreaterOrEqual(expr, cpmodel.NewConstant(int64(*shiftType.MinShifts)))
				m.NumConstraints++
			}
			if shiftType.MaxShifts != nil {
				b.AddLessOrEqual(expr, cpmodel.NewConstant(int64(*shiftType.MaxShifts)))
				m.NumConstraints++
			}
		}
	}
}
