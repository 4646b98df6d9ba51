package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedcu/core/internal/entity"
)

func intPtr(v int) *int { return &v }

func baseInput() entity.Input {
	return entity.Input{
		Project: entity.Project{
			Students: []entity.Student{{ID: "s1"}, {ID: "s2"}},
			ShiftTypes: []entity.ShiftType{
				{ID: "t1", Name: "Trauma"},
			},
			ShiftTemplates: []entity.ShiftTemplate{
				{ID: "tpl1", ShiftTypeID: "t1"},
			},
			Rules: entity.Rules{ConferenceDay: 2},
		},
		ShiftInstances: []entity.ShiftInstance{
			{ID: "sh1", TemplateID: "tpl1",
				StartDateTime: mustParse("2026-01-05T08:00:00Z"),
				EndDateTime:   mustParse("2026-01-05T16:00:00Z")},
		},
	}
}

func TestValidateCleanInputHasNoErrors(t *testing.T) {
	r := Validate(baseInput())
	assert.False(t, r.HasErrors())
	assert.Empty(t, r.Warnings)
}

func TestValidateDuplicateStudentID(t *testing.T) {
	in := baseInput()
	in.Project.Students = append(in.Project.Students, entity.Student{ID: "s1"})

	r := Validate(in)
	require.True(t, r.HasErrors())
	assert.Equal(t, CodeDuplicateStudentID, r.Errors[0].Code)
}

func TestValidateDuplicateShiftID(t *testing.T) {
	in := baseInput()
	in.ShiftInstances = append(in.ShiftInstances, in.ShiftInstances[0])

	r := Validate(in)
	require.True(t, r.HasErrors())
	found := false
	for _, e := range r.Errors {
		if e.Code == CodeDuplicateShiftID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateUnknownShiftTypeRef(t *testing.T) {
	in := baseInput()
	in.Project.ShiftTemplates[0].ShiftTypeID = "missing-type"

	r := Validate(in)
	require.True(t, r.HasErrors())
	assert.Equal(t, CodeUnknownShiftTypeRef, r.Errors[0].Code)
}

func TestValidateUnknownTemplateRefIsWarningOnly(t *testing.T) {
	in := baseInput()
	in.ShiftInstances[0].TemplateID = "missing-template"

	r := Validate(in)
	assert.False(t, r.HasErrors())
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, CodeUnknownTemplateRef, r.Warnings[0].Code)
}

func TestValidateInvertedTimeRange(t *testing.T) {
	in := baseInput()
	in.ShiftInstances[0].StartDateTime, in.ShiftInstances[0].EndDateTime =
		in.ShiftInstances[0].EndDateTime, in.ShiftInstances[0].StartDateTime

	r := Validate(in)
	require.True(t, r.HasErrors())
	assert.Equal(t, CodeInvalidTimeRange, r.Errors[0].Code)
}

func TestValidateBlockEndBeforeEnd(t *testing.T) {
	in := baseInput()
	early := in.ShiftInstances[0].StartDateTime
	in.ShiftInstances[0].BlockEnd = &early

	r := Validate(in)
	require.True(t, r.HasErrors())
	assert.Equal(t, CodeInvalidBlockEnd, r.Errors[0].Code)
}

func TestValidateInvalidConferenceDay(t *testing.T) {
	in := baseInput()
	in.Project.Rules.ConferenceDay = 9

	r := Validate(in)
	require.True(t, r.HasErrors())
	assert.Equal(t, CodeInvalidConferenceDay, r.Errors[0].Code)
}

func TestValidateInvertedShiftTypeBoundsIsWarning(t *testing.T) {
	in := baseInput()
	in.Project.ShiftTypes[0].MinShifts = intPtr(5)
	in.Project.ShiftTypes[0].MaxShifts = intPtr(2)

	r := Validate(in)
	assert.False(t, r.HasErrors())
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, CodeInvertedShiftBounds, r.Warnings[0].Code)
}

func mustParse(v string) time.Time {
	parsed, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return parsed
}
