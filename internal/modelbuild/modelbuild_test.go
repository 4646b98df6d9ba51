package modelbuild

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedcu/core/internal/analyze"
	"github.com/schedcu/core/internal/entity"
)

func at(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

func simpleInput() (entity.Input, []entity.Student, analyze.Analysis) {
	students := []entity.Student{{ID: "s1"}, {ID: "s2"}}
	shifts := []entity.ShiftInstance{
		{ID: "sh1", TemplateID: "tpl", StartDateTime: at("2026-03-02T08:00:00Z"), EndDateTime: at("2026-03-02T16:00:00Z")},
		{ID: "sh2", TemplateID: "tpl", StartDateTime: at("2026-03-03T08:00:00Z"), EndDateTime: at("2026-03-03T16:00:00Z")},
	}
	in := entity.Input{
		Project: entity.Project{
			Students:       students,
			ShiftTemplates: []entity.ShiftTemplate{{ID: "tpl"}},
			Rules:          entity.Rules{NumShiftsRequired: 1, NoDoubleBooking: true},
		},
		ShiftInstances: shifts,
	}
	a := analyze.Analyze(in, time.UTC)
	return in, students, a
}

func TestBuildAllocatesOneAssignmentVarPerStudentPerShift(t *testing.T) {
	in, students, a := simpleInput()
	m := Build(students, in, a, 1)

	require.Len(t, m.Vars.X, len(students))
	for _, row := range m.Vars.X {
		assert.Len(t, row, len(a.Shifts))
	}
	assert.Empty(t, m.Vars.Y, "no block vars expected when overnightRequired <= 1")
}

func TestBuildEmitsPerStudentTotalConstraints(t *testing.T) {
	in, students, a := simpleInput()
	m := Build(students, in, a, 1)

	// at least one equality constraint per student for the total, plus the
	// no-double-booking constraint per shift.
	assert.GreaterOrEqual(t, m.NumConstraints, len(students)+len(a.Shifts))
}

func TestBuildAllocatesBlockVarsWhenOvernightRequiredGreaterThanOne(t *testing.T) {
	shiftType := entity.ShiftType{ID: "ot", Name: "Overnight", MinShifts: intPtr(2)}
	template := entity.ShiftTemplate{ID: "tpl-ot", ShiftTypeID: "ot"}
	shifts := []entity.ShiftInstance{
		{ID: "a", TemplateID: "tpl-ot", StartDateTime: at("2026-03-02T20:00:00Z"), EndDateTime: at("2026-03-03T06:00:00Z")},
		{ID: "b", TemplateID: "tpl-ot", StartDateTime: at("2026-03-03T20:00:00Z"), EndDateTime: at("2026-03-04T06:00:00Z")},
	}
	students := []entity.Student{{ID: "s1"}}
	in := entity.Input{
		Project: entity.Project{
			Students:       students,
			ShiftTypes:     []entity.ShiftType{shiftType},
			ShiftTemplates: []entity.ShiftTemplate{template},
			Rules:          entity.Rules{NumShiftsRequired: 2},
		},
		ShiftInstances: shifts,
	}
	a := analyze.Analyze(in, time.UTC)
	require.False(t, a.NoValidBlock)

	m := Build(students, in, a, 1)
	require.Len(t, m.Vars.Y, 1)
	assert.Len(t, m.Vars.Y[0], len(a.Blocks))
}

func intPtr(v int) *int { return &v }
