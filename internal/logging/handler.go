// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package logging provides structured logging with OpenTelemetry trace context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/otel/trace"
)

// Config selects the log sinks.
type Config struct {
	// Format is "json" or "text". Empty means json.
	Format string `koanf:"format"`
	// Level is a slog level name. Empty means info.
	Level string `koanf:"level"`
	// File, when set, receives a JSON copy of every record.
	File string `koanf:"file"`
}

// withTrace adds the active span's ids to each record.
func withTrace() slogmulti.Middleware {
	return slogmulti.NewHandleInlineMiddleware(
		func(ctx context.Context, r slog.Record, next func(context.Context, slog.Record) error) error {
			spanCtx := trace.SpanContextFromContext(ctx)
			if spanCtx.HasTraceID() {
				r.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
			}
			if spanCtx.HasSpanID() {
				r.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
			}
			return next(ctx, r)
		},
	)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, oops.Code("LOG_LEVEL_INVALID").With("level", name).Wrap(err)
	}
	return level, nil
}

func newHandler(format string, w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// Setup creates a configured slog.Logger writing to w, or os.Stderr when w
// is nil. The returned closer releases the log file, if any.
func Setup(service, version string, cfg Config, w io.Writer) (*slog.Logger, io.Closer, error) {
	if w == nil {
		w = os.Stderr
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	sinks := []slog.Handler{newHandler(cfg.Format, w, opts)}
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o600) //nolint:gosec // operator supplied path
		if err != nil {
			return nil, nil, oops.Code("LOG_FILE_OPEN_FAILED").With("path", cfg.File).Wrap(err)
		}
		sinks = append(sinks, slog.NewJSONHandler(f, opts))
		closer = f
	}

	handler := slogmulti.Pipe(withTrace()).Handler(slogmulti.Fanout(sinks...))
	logger := slog.New(handler).With(
		slog.String("service", service),
		slog.String("version", version),
	)
	return logger, closer, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
