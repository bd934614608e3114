package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ebay-manager/internal/config"
)

// NewLogger builds the process-wide zap logger: colored console output in
// development, JSON in production. Every component receives it through the
// dependency graph rather than a package-level singleton.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.IsDevelopment() {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	zapConfig.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Logging.Level))

	return zapConfig.Build()
}

// parseLevel maps the configured level name; unknown names fall back to info.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
