// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package backend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/holomush/simcord/pkg/backend"
)

func TestBackend_StartsNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	b, err := backend.New(testSpec(), backend.WithSink(backend.SinkFunc(func(string, any) {})))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = b.Connect(ctx, memberID)
	require.NoError(t, err)
	_, err = b.Resource("channels", textID, "messages").As(memberID).Post(ctx, map[string]any{"content": "hi"})
	require.NoError(t, err)
	_, err = b.Resource("guilds", guildID).Get(ctx)
	require.NoError(t, err)
}
