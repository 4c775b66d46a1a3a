// Package logging builds the zap logger winrtgen runs with.
//
// Library packages take a *zap.Logger explicitly and substitute zap.NewNop
// for nil, so only the CLI entry points construct a real logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. verbose lowers the level to debug; json
// switches from console output to production JSON.
func New(verbose, json bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	var cfg zap.Config
	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		// Generation runs are short; timestamps only add noise on a console.
		cfg.EncoderConfig.EncodeTime = nil
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	return cfg.Build()
}
