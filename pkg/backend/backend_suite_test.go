// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package backend_test

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/pkg/backend"
)

func TestBackend(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Backend Suite")
}

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	ownerID    snowflake.ID = 100
	memberID   snowflake.ID = 101
	outsiderID snowflake.ID = 102
	guildID    snowflake.ID = 1000
	textID     snowflake.ID = 2000
)

func ptr[T any](v T) *T { return &v }

// testSpec is one guild with an owner, a member and a text channel, plus a
// user who belongs nowhere.
func testSpec() backend.StoreSpec {
	return backend.StoreSpec{
		Users: []backend.UserSpec{
			{ID: ptr(ownerID), Username: ptr("owner")},
			{ID: ptr(memberID), Username: ptr("member")},
			{ID: ptr(outsiderID), Username: ptr("outsider")},
		},
		Guilds: []backend.GuildSpec{{
			ID:       ptr(guildID),
			Name:     ptr("Suite"),
			OwnerID:  ptr(ownerID),
			Members:  []backend.MemberSpec{{UserID: ptr(ownerID)}, {UserID: ptr(memberID)}},
			Channels: []backend.ChannelSpec{{ID: ptr(textID), Name: ptr("general")}},
		}},
	}
}

func newBackend(opts ...backend.Option) (*backend.Backend, *gateway.Recorder) {
	GinkgoHelper()
	rec := gateway.NewRecorder()
	opts = append([]backend.Option{
		backend.WithSink(rec),
		backend.WithClock(func() time.Time { return epoch }),
		backend.WithUser(ownerID),
	}, opts...)
	b, err := backend.New(testSpec(), opts...)
	Expect(err).NotTo(HaveOccurred())
	return b, rec
}
