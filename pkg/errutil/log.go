// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package errutil logs and asserts on the structured errors returned by the
// simulated backend.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/holomush/simcord/internal/apierror"
)

// LogError logs err with its structured context.
//
// Catalog errors are client failures and are logged at debug level with
// their HTTP status and numeric code. Other oops errors are logged at error
// level with their code and context. Anything else is logged as a string.
func LogError(ctx context.Context, logger *slog.Logger, msg string, err error, attrs ...any) {
	if apiErr, ok := apierror.As(err); ok {
		attrs = append(attrs,
			"status", apiErr.Status,
			"code", apiErr.Code,
			"error", apiErr.Message,
		)
		if !apiErr.Form.Empty() {
			attrs = append(attrs, "fields", apiErr.Form.Paths())
		}
		logger.DebugContext(ctx, msg, attrs...)
		return
	}

	if oopsErr, ok := oops.AsOops(err); ok {
		attrs = append(attrs, "error", oopsErr.Error())
		if code := oopsErr.Code(); code != "" {
			attrs = append(attrs, "code", code)
		}
		if fields := oopsErr.Context(); len(fields) > 0 {
			attrs = append(attrs, "context", fields)
		}
		logger.ErrorContext(ctx, msg, attrs...)
		return
	}

	logger.ErrorContext(ctx, msg, append(attrs, "error", err.Error())...)
}
