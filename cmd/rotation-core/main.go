// Command rotation-core reads an input JSON document, runs it through the
// solve pipeline, and writes the result JSON document. Exit codes: 0 for
// any completed run (the outcome lives in the output document, including
// INFEASIBLE and ERROR), 2 for argument-count violations, 1 for anything
// that fails before the solve stage is reached (unreadable or malformed
// JSON, unparseable shift timestamps, hard input-validation errors) — those
// are process-level failures and never produce an output document. Other
// absent keys are not rejected as such; they decode to zero values.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/schedcu/core/internal/diagnose"
	"github.com/schedcu/core/internal/ioadapter"
	"github.com/schedcu/core/internal/logger"
	"github.com/schedcu/core/internal/orchestrate"
	"github.com/schedcu/core/internal/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: rotation-core <input.json> <output.json>")
		return 2
	}
	inputPath, outputPath := args[0], args[1]

	log, err := logger.New("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync() //nolint:errcheck
	log = logger.WithRun(log, uuid.NewString())

	// Input JSON is read and fully parsed before any model construction begins.
	in, err := ioadapter.ReadInput(inputPath)
	if err != nil {
		log.Errorw("failed to read input", "error", err)
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	timezoneName := in.Project.Rules.Timezone
	if timezoneName == "" {
		timezoneName = "UTC"
	}
	loc, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Warnw("unresolvable project timezone, falling back to UTC", "timezone", timezoneName, "error", err)
		loc = time.UTC
	}

	metrics := telemetry.New()

	result := orchestrate.Run(in, loc, log, metrics)
	if result.ValidationErrors != nil {
		messages := make([]string, len(result.ValidationErrors))
		for i, m := range result.ValidationErrors {
			messages[i] = fmt.Sprintf("[%s] %s", m.Code, m.Text)
		}
		text := diagnose.InvalidInput(messages)
		log.Errorw("input failed validation", "errors", messages)
		fmt.Fprintln(os.Stderr, text)
		return 1
	}

	if err := ioadapter.WriteOutput(outputPath, *result.Output); err != nil {
		log.Errorw("failed to write output", "error", err)
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	log.Infow("run complete", "status", result.Output.Status, "assignments", len(result.Output.Assignments))
	return 0
}
