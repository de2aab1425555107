package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New("debug", "text", &buf), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		key   string
		val   string
	}{
		{"DEBUG", "dbg", "a", "1"},
		{"INFO", "inf", "b", "2"},
		{"WARN", "wrn", "c", "3"},
		{"ERROR", "err", "d", "4"},
	}

	for _, tc := range tests {
		require.Contains(t, out, "level="+tc.level)
		require.Contains(t, out, "msg="+tc.msg)
		require.Contains(t, out, tc.key+"="+tc.val)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("op", "load", "user", "alice").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"level=INFO", "msg=hello", "op=load", "user=alice", "k=v"} {
		require.Contains(t, out, s)
	}
}

func TestNew_JSONFormatAndLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "json", &buf)
	ctx := context.Background()

	log.Info(ctx, "skipped")
	log.Warn(ctx, "kept", "n", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	require.Equal(t, "kept", rec["msg"])
	require.Equal(t, "WARN", rec["level"])
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.Warn(ctx, "x")
	log.Error(ctx, "x")
	log.With("a", 1).Info(ctx, "x")
}
