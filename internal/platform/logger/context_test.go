package logger

import (
	"context"
	"regexp"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext()

	if ctx.Value(KeyLogger) == nil {
		t.Errorf("Want not nil, got nil")
	}

	if ctx.Value(KeyRequestID) == "" {
		t.Errorf("Expected request ID value to be non-empty")
	}

	requestID := ctx.Value(KeyRequestID).(string)

	if len(requestID) != 36 {
		t.Errorf("Got %v, want %v", len(requestID), 36)
	}
}

func TestContextWithRequestID(t *testing.T) {
	ctx := context.Background()

	gotNotSet := RequestIDFromContext(ctx)

	pattern := "unknown/[[:ascii:]]{36}"
	match, _ := regexp.MatchString(pattern, gotNotSet)

	if !match {
		t.Errorf("%v did not match %v", gotNotSet, pattern)
	}

	want := "foo"
	ctx = ContextWithRequestID(ctx, want)

	if ctx.Value(KeyLogger) == nil {
		t.Errorf("Want not nil, got nil")
	}

	got := RequestIDFromContext(ctx)
	if got != want {
		t.Errorf("Got %v, want %v", got, want)
	}
}

func TestContextWithTraceID(t *testing.T) {
	ctx := ContextWithNoLogger(context.Background())

	if got := TraceIDFromContext(ctx); got != "" {
		t.Errorf("Got %q, want empty trace ID", got)
	}

	ctx = ContextWithTraceID(ctx, "trace-1")
	if got := TraceIDFromContext(ctx); got != "trace-1" {
		t.Errorf("Got %q, want %q", got, "trace-1")
	}
}

func TestContextWithTraceIDFieldOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	ctx = ContextWithTraceID(ctx, "trace-1")
	ctx = ContextWithTraceID(ctx, "trace-1")
	Info(ctx, "first")

	ctx = ContextWithTraceID(ctx, "trace-2")
	Info(ctx, "second")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("Got %d entries, want 2", len(entries))
	}

	for i, want := range []string{"trace-1", "trace-2"} {
		var ids []string
		for _, field := range entries[i].Context {
			if field.Key == fieldTraceID {
				ids = append(ids, field.String)
			}
		}

		if len(ids) != 1 || ids[0] != want {
			t.Errorf("Entry %d trace fields : got %v, want [%s]", i, ids, want)
		}
	}
}

func TestContextWithLogger(t *testing.T) {
	ctx := context.Background()

	logger, _ := zap.NewProduction()
	ctx = ContextWithLogger(ctx, logger)

	if ctx.Value(KeyLogger) != logger {
		t.Errorf("Want %v, got %v", logger, ctx.Value(KeyLogger))
	}
}

func TestNewLoggerFromContext_nilLogger(t *testing.T) {
	ctx := context.Background()

	logger := NewLoggerFromContext(ctx)

	if logger == nil {
		t.Errorf("Want non-nil Logger")
	}
}

func TestContextWithLogConfig(t *testing.T) {
	ctx := ContextWithLogConfig(context.Background(), NewDevelopmentConfig())

	if _, ok := ctx.Value(KeyConfig).(Config); !ok {
		t.Fatalf("Config not stored in context")
	}

	// Named and request scoped loggers keep working from a configured context.
	ctx = ContextWithNamedLogger(ContextWithRequestID(ctx, "bar"), "ledger")
	Verbose(ctx, "%s : configured", "test")

	if RequestIDFromContext(ctx) != "bar" {
		t.Errorf("Request ID lost")
	}
}
