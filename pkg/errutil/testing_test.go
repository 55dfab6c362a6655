// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/pkg/errutil"
)

func TestAssertErrorCode_MatchingCode(t *testing.T) {
	err := oops.Code("MY_CODE").Errorf("test error")
	errutil.AssertErrorCode(t, err, "MY_CODE")
}

func TestAssertErrorContext_MatchingKeyValue(t *testing.T) {
	err := oops.With("user_id", "123").Errorf("test error")
	errutil.AssertErrorContext(t, err, "user_id", "123")
}

func TestAssertAPIError_ReturnsCatalogError(t *testing.T) {
	apiErr := errutil.AssertAPIError(t, apierror.New(apierror.UnknownGuild), apierror.UnknownGuild)
	assert.Equal(t, "Unknown Guild", apiErr.Message)
	errutil.AssertErrorCode(t, apierror.New(apierror.UnknownGuild), "UNKNOWN_GUILD")
}
