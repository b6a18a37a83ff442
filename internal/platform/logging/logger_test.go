package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core)).Named("sofascore").With("provider", "sofascore")

	logger.WarnContext(context.Background(), "skip match", "match_id", int64(42), "error", errors.New("status=503"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got=%d", len(entries))
	}
	entry := entries[0]
	if entry.Message != "skip match" || entry.Level != zapcore.WarnLevel {
		t.Fatalf("unexpected entry: %+v", entry.Entry)
	}
	if entry.LoggerName != "sofascore" {
		t.Fatalf("unexpected logger name: %q", entry.LoggerName)
	}
	fields := entry.ContextMap()
	if fields["provider"] != "sofascore" {
		t.Fatalf("expected provider field, got %v", fields)
	}
	if fields["match_id"] != int64(42) {
		t.Fatalf("expected match_id field, got %v", fields["match_id"])
	}
	if fields["error"] != "status=503" {
		t.Fatalf("expected error field, got %v", fields["error"])
	}
}

func TestLogger_OddArgsAndNilReceiver(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))
	logger.Info("dangling", "only-key")
	logger.Debug("filtered by level")

	if logs.Len() != 1 {
		t.Fatalf("expected one entry, got=%d", logs.Len())
	}
	if _, ok := logs.All()[0].ContextMap()["only-key"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}

	var nilLogger *Logger
	nilLogger.Info("must not panic")
}
