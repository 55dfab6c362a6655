// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func setup(t *testing.T, cfg Config, buf *bytes.Buffer) *slog.Logger {
	t.Helper()
	logger, closer, err := Setup("simcord", "1.0.0", cfg, buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })
	return logger
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), "Failed to parse JSON: %s", data)
	return entry
}

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(t, Config{Format: "json"}, &buf)

	logger.Info("test message")

	entry := decode(t, buf.Bytes())
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "simcord", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Contains(t, entry, "time", "time field missing")
	assert.Contains(t, entry, "level", "level field missing")
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(t, Config{Format: "text"}, &buf)

	logger.Info("test message")

	output := buf.String()
	assert.Contains(t, output, "test message", "Output missing message")
	assert.Contains(t, output, "service=simcord", "Output missing service")
}

func TestSetup_DefaultFormatIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(t, Config{}, &buf)

	logger.Info("test message")

	decode(t, buf.Bytes())
}

func TestSetup_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(t, Config{Level: "warn"}, &buf)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Equal(t, "kept", decode(t, buf.Bytes())["msg"])
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, _, err := Setup("simcord", "1.0.0", Config{Level: "loud"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestSetup_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simcord.log")
	var buf bytes.Buffer
	logger, closer, err := Setup("simcord", "1.0.0", Config{Format: "text", File: path}, &buf)
	require.NoError(t, err)

	logger.Info("fanned out", "guild_id", "1000")
	require.NoError(t, closer.Close())

	assert.Contains(t, buf.String(), "fanned out")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	entry := decode(t, scanner.Bytes())
	assert.Equal(t, "fanned out", entry["msg"])
	assert.Equal(t, "1000", entry["guild_id"])
}

func TestHandler_TraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(t, Config{}, &buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "traced message")

	entry := decode(t, buf.Bytes())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
}

func TestHandler_NoTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(t, Config{}, &buf)

	logger.Info("no trace message")

	entry := decode(t, buf.Bytes())
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "span_id")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
