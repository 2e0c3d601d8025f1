package logger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	fieldRequestID = "request_id"
	fieldTraceID   = "trace_id"
)

// Config selects the encoder, level and outputs of the loggers built for a Context.
type Config struct {
	Development bool
	Format      string // "text" or "json"
	FilePath    string
	MinLevel    zapcore.Level
}

// NewDevelopmentConfig returns a debug level text configuration.
func NewDevelopmentConfig() Config {
	return Config{
		Development: true,
		Format:      "text",
		MinLevel:    zapcore.DebugLevel,
	}
}

// NewProductionConfig returns an info level json configuration.
func NewProductionConfig() Config {
	return Config{
		Format:   "json",
		MinLevel: zapcore.InfoLevel,
	}
}

// Build creates a zap logger from the config.
func (c Config) Build() (*zap.Logger, error) {
	var zc zap.Config
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	if strings.ToLower(c.Format) == "text" {
		zc.Encoding = "console"
	} else {
		zc.Encoding = "json"
	}
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Level = zap.NewAtomicLevelAt(c.MinLevel)

	if len(c.FilePath) > 0 {
		zc.OutputPaths = append(zc.OutputPaths, c.FilePath)
	}

	return zc.Build()
}

// ContextWithLogConfig stores the config in the Context and replaces its Logger with one
// built from the config.
func ContextWithLogConfig(ctx context.Context, config Config) context.Context {
	ctx = context.WithValue(ctx, KeyConfig, config)
	return ContextWithLogger(ctx, newLogger(ctx))
}

// NewLoggerFromContext returns the Logger from the Context, or a new Logger if none
// is set.
func NewLoggerFromContext(ctx context.Context) *zap.Logger {
	v := ctx.Value(KeyLogger)

	if v == nil {
		return newLogger(ctx)
	}

	return v.(*zap.Logger)
}

// newLogger builds a Logger from the Context's config (production when unset) and adds
// the request and trace ID fields found in the Context.
func newLogger(ctx context.Context) *zap.Logger {
	config := NewProductionConfig()
	if v := ctx.Value(KeyConfig); v != nil {
		config = v.(Config)
	}

	logger, err := config.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger : %s\n", err)
		logger = zap.NewNop()
	}

	if v := ctx.Value(KeyRequestID); v != nil {
		logger = logger.With(zap.String(fieldRequestID, v.(string)))
	}
	if v := ctx.Value(KeyTraceID); v != nil {
		logger = logger.With(zap.String(fieldTraceID, v.(string)))
	}

	return logger
}

func sugar(ctx context.Context) *zap.SugaredLogger {
	return NewLoggerFromContext(ctx).WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// Info adds an info level entry to the log.
func Info(ctx context.Context, format string, values ...interface{}) {
	sugar(ctx).Infof(format, values...)
}

// Verbose adds a debug level entry to the log.
func Verbose(ctx context.Context, format string, values ...interface{}) {
	sugar(ctx).Debugf(format, values...)
}

// Warn adds a warning level entry to the log.
func Warn(ctx context.Context, format string, values ...interface{}) {
	sugar(ctx).Warnf(format, values...)
}

// Error adds an error level entry to the log.
func Error(ctx context.Context, format string, values ...interface{}) {
	sugar(ctx).Errorf(format, values...)
}

// Fatal adds a fatal level entry to the log and exits the process.
func Fatal(ctx context.Context, format string, values ...interface{}) {
	sugar(ctx).Fatalf(format, values...)
}

// Elapsed logs the time since start at debug level. Use with defer.
func Elapsed(ctx context.Context, start time.Time, label string) {
	sugar(ctx).Debugf("%s : elapsed %s", label, time.Since(start))
}

// Sync flushes the Context's Logger.
func Sync(ctx context.Context) {
	NewLoggerFromContext(ctx).Sync()
}
