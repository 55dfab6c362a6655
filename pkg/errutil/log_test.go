// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/pkg/errutil"
)

func logEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log: %s", buf.String())
	return entry
}

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLogError_WithOopsError(t *testing.T) {
	var buf bytes.Buffer
	err := oops.Code("TEST_ERROR").
		With("key", "value").
		Errorf("something failed")

	errutil.LogError(context.Background(), newLogger(&buf), "operation failed", err, "route", "get_guild")

	entry := logEntry(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "operation failed", entry["msg"])
	assert.Equal(t, "TEST_ERROR", entry["code"])
	assert.Equal(t, "get_guild", entry["route"])
	assert.Equal(t, map[string]any{"key": "value"}, entry["context"])
}

func TestLogError_WithCatalogError(t *testing.T) {
	var buf bytes.Buffer
	form := apierror.NewFormErrors()
	form.Add("name", apierror.Required())

	errutil.LogError(context.Background(), newLogger(&buf), "request rejected", apierror.WithForm(form))

	entry := logEntry(t, &buf)
	assert.Equal(t, "DEBUG", entry["level"])
	assert.InDelta(t, 400, entry["status"], 0)
	assert.InDelta(t, apierror.InvalidFormBody.Code, entry["code"], 0)
	assert.Equal(t, []any{"name"}, entry["fields"])
}

func TestLogError_WithStandardError(t *testing.T) {
	var buf bytes.Buffer

	errutil.LogError(context.Background(), newLogger(&buf), "operation failed", errors.New("standard error"))

	entry := logEntry(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Contains(t, entry["error"], "standard error")
}
