package orchestrate

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schedcu/core/internal/entity"
	"github.com/schedcu/core/internal/telemetry"
)

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()
	l, err := zap.NewDevelopment()
	require.NoError(t, err)
	return l.Sugar()
}

// newIsolatedRegisterer gives each test its own Prometheus registry, so
// concurrent tests don't collide on the global DefaultRegisterer.
func newIsolatedRegisterer() prometheus.Registerer {
	return prometheus.NewRegistry()
}

func intPtr(v int) *int { return &v }

func at(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

// S1: one student, one shift, numShiftsRequired=1 -> feasible, one assignment.
func TestRunTrivialFeasible(t *testing.T) {
	in := entity.Input{
		Project: entity.Project{
			Students:       []entity.Student{{ID: "s1"}},
			ShiftTemplates: []entity.ShiftTemplate{{ID: "tpl"}},
			Rules:          entity.Rules{NumShiftsRequired: 1, ConferenceDay: 1, SolverTimeLimitSeconds: 5},
		},
		ShiftInstances: []entity.ShiftInstance{
			{ID: "sh1", TemplateID: "tpl", StartDateTime: at("2026-04-06T08:00:00Z"), EndDateTime: at("2026-04-06T16:00:00Z")},
		},
	}

	result := Run(in, time.UTC, testLogger(t), telemetry.NewWithRegistry(newIsolatedRegisterer()))

	require.Nil(t, result.ValidationErrors)
	require.NotNil(t, result.Output)
	assert.Contains(t, []entity.Status{entity.StatusOptimal, entity.StatusFeasible}, result.Output.Status)
	require.Len(t, result.Output.Assignments, 1)
	assert.Equal(t, "s1", result.Output.Assignments[0].StudentID)
	assert.Equal(t, "sh1", result.Output.Assignments[0].ShiftInstanceID)
}

// S2: empty roster short-circuits to INFEASIBLE before any model is built.
func TestRunEmptyRosterIsInfeasible(t *testing.T) {
	in := entity.Input{
		Project: entity.Project{
			Rules: entity.Rules{NumShiftsRequired: 1, ConferenceDay: 1},
		},
		ShiftInstances: []entity.ShiftInstance{
			{ID: "sh1", TemplateID: "tpl", StartDateTime: at("2026-04-06T08:00:00Z"), EndDateTime: at("2026-04-06T16:00:00Z")},
		},
	}

	result := Run(in, time.UTC, testLogger(t), telemetry.NewWithRegistry(newIsolatedRegisterer()))

	require.NotNil(t, result.Output)
	assert.Equal(t, entity.StatusInfeasible, result.Output.Status)
	require.NotNil(t, result.Output.Diagnostic)
	assert.Contains(t, result.Output.Diagnostic.Message, "Missing students or shifts")
}

// S4: overnight shifts have a gap, so no 3-run block exists.
func TestRunNoValidOvernightBlockIsInfeasible(t *testing.T) {
	shiftType := entity.ShiftType{ID: "ot", Name: "Overnight", MinShifts: intPtr(3)}
	template := entity.ShiftTemplate{ID: "tpl-ot", ShiftTypeID: "ot"}

	base := at("2026-04-06T20:00:00Z")
	shifts := []entity.ShiftInstance{
		{ID: "n1", TemplateID: template.ID, StartDateTime: base, EndDateTime: base.Add(10 * time.Hour)},
		{ID: "n2", TemplateID: template.ID, StartDateTime: base.Add(24 * time.Hour), EndDateTime: base.Add(24*time.Hour + 10*time.Hour)},
		// gap of two days before the third shift breaks contiguity
		{ID: "n3", TemplateID: template.ID, StartDateTime: base.Add(72 * time.Hour), EndDateTime: base.Add(72*time.Hour + 10*time.Hour)},
	}

	in := entity.Input{
		Project: entity.Project{
			Students:       []entity.Student{{ID: "s1"}},
			ShiftTypes:     []entity.ShiftType{shiftType},
			ShiftTemplates: []entity.ShiftTemplate{template},
			Rules:          entity.Rules{NumShiftsRequired: 3, ConferenceDay: 1},
		},
		ShiftInstances: shifts,
	}

	result := Run(in, time.UTC, testLogger(t), telemetry.NewWithRegistry(newIsolatedRegisterer()))

	require.NotNil(t, result.Output)
	assert.Equal(t, entity.StatusInfeasible, result.Output.Status)
	require.NotNil(t, result.Output.Diagnostic)
	assert.Contains(t, result.Output.Diagnostic.Message, "No feasible overnight block")
}

// Hard validation failures never reach the solve stage.
func TestRunValidationFailureShortCircuits(t *testing.T) {
	in := entity.Input{
		Project: entity.Project{
			Students: []entity.Student{{ID: "dup"}, {ID: "dup"}},
			Rules:    entity.Rules{ConferenceDay: 1},
		},
	}

	result := Run(in, time.UTC, testLogger(t), telemetry.NewWithRegistry(newIsolatedRegisterer()))

	require.Nil(t, result.Output)
	require.NotEmpty(t, result.ValidationErrors)
}
