package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the application logger.
type Options struct {
	Level string
	// OutputPath is a file path, "stderr" or "stdout".
	OutputPath string
	// Writer, when set, receives the JSON log lines instead of OutputPath.
	Writer io.Writer
}

// NewLogger builds a production ready structured logger.
func NewLogger(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	if opts.Writer != nil {
		core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), zapcore.AddSync(opts.Writer), cfg.Level)
		return zap.New(core), nil
	}
	output := strings.TrimSpace(opts.OutputPath)
	if output == "" {
		output = "stderr"
	}
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{output}
	return cfg.Build()
}

// ParseLevel converts a level name into a zap level. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(normalized)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// WithOperation enriches the logger with operation and flow identifiers.
func WithOperation(logger *zap.Logger, operation, flowID string) *zap.Logger {
	fields := []zap.Field{zap.String("operation", operation)}
	if flowID != "" {
		fields = append(fields, zap.String("flow_id", flowID))
	}
	return logger.With(fields...)
}
