// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/simcord/internal/apierror"
)

// AssertErrorCode asserts that err is an oops error with the given code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	assert.Equal(t, code, oopsErr.Code())
}

// AssertErrorContext asserts that err is an oops error with the given context key/value.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	ctx := oopsErr.Context()
	assert.Contains(t, ctx, key)
	assert.Equal(t, value, ctx[key])
}

// AssertAPIError asserts that err is the given catalog error and returns it
// for further checks on its form tree.
func AssertAPIError(t *testing.T, err error, def apierror.Definition) *apierror.Error {
	t.Helper()
	apiErr, ok := apierror.As(err)
	require.True(t, ok, "expected catalog error %s, got %v", def.Name, err)
	assert.Equal(t, def.Name, apiErr.Name)
	assert.Equal(t, def.Code, apiErr.Code)
	assert.Equal(t, def.Status, apiErr.Status)
	return apiErr
}
