package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestContextHelpers checks that named and annotated loggers travel through the context.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	base := NewWithSink(zapcore.DebugLevel, zapcore.AddSync(&buf))

	ctx := ToContext(context.Background(), base)
	ctx = WithName(ctx, "scheduler")
	ctx = WithKV(ctx, "state", "show-current-time")
	ctx = WithFields(ctx, zap.String("policy", "strict"))

	InfoKV(ctx, "Cycle finished", "dispatched", true)

	out := buf.String()
	require.Contains(t, out, "scheduler")
	require.Contains(t, out, "strict")
	require.Contains(t, out, "Cycle finished")
	require.Contains(t, out, "show-current-time")
}

// TestFromContext_Fallback ensures a bare context yields the global logger.
func TestFromContext_Fallback(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithLevel verifies that the option raises the threshold of a derived logger.
func TestWithLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := NewWithSink(zapcore.DebugLevel, zapcore.AddSync(&buf), WithLevel(zapcore.WarnLevel))
	l.Info("hidden")
	l.Warn("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

// TestOverrideLevel verifies that a context logger can be pinned below the level of its parent.
func TestOverrideLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := ToContext(context.Background(), NewWithSink(zapcore.WarnLevel, zapcore.AddSync(&buf)))

	DebugKV(ctx, "parent debug")
	DebugKV(OverrideLevel(ctx, zapcore.DebugLevel), "child debug")

	require.NotContains(t, buf.String(), "parent debug")
	require.Contains(t, buf.String(), "child debug")
}
