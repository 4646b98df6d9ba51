// Package logger builds the structured logger used across the pipeline: a
// production/development zap.Config split plus a run-correlation-ID idiom
// for tagging every line from one invocation.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a *zap.SugaredLogger configured for the given environment.
// Defaults to production mode if env is empty or unrecognized. This core
// consults no environment variables itself (spec.md §6: the only env-var
// consultation permitted anywhere is IANA timezone resolution, handled by
// cmd/rotation-core), so env is always caller-supplied, never read here.
//
// Development mode: console output, Debug level and above, colorized.
// Production mode: JSON output to stdout, Info level and above.
func New(env string) (*zap.SugaredLogger, error) {
	var config zap.Config
	switch env {
	case "development", "dev":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// WithRun returns a child logger tagged with runID, so every line from a
// single core invocation can be grepped together.
func WithRun(log *zap.SugaredLogger, runID string) *zap.SugaredLogger {
	return log.With("run_id", runID)
}
