// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package backend_test

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/discordgo"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/pkg/backend"
)

// decodeAs re-reads a response with a production client library's types.
func decodeAs[T any](res *backend.Response) *T {
	GinkgoHelper()
	var out T
	Expect(res.Decode(&out)).To(Succeed())
	return &out
}

var _ = Describe("client library conformance", func() {
	var (
		ctx context.Context
		b   *backend.Backend
		rec *gateway.Recorder
	)

	BeforeEach(func() {
		ctx = context.Background()
		b, rec = newBackend()
	})

	It("decodes users", func() {
		res, err := b.Resource("users", "@me").Get(ctx)
		Expect(err).NotTo(HaveOccurred())

		u := decodeAs[discordgo.User](res)
		Expect(u.ID).To(Equal(ownerID.String()))
		Expect(u.Username).To(Equal("owner"))
		Expect(u.Discriminator).To(HaveLen(4))
	})

	It("decodes messages with mentions", func() {
		res, err := b.Resource("channels", textID, "messages").
			As(memberID).
			Post(ctx, map[string]any{"content": "ping <@100>"})
		Expect(err).NotTo(HaveOccurred())

		m := decodeAs[discordgo.Message](res)
		Expect(m.ChannelID).To(Equal(textID.String()))
		Expect(m.Content).To(Equal("ping <@100>"))
		Expect(m.Author).NotTo(BeNil())
		Expect(m.Author.ID).To(Equal(memberID.String()))
		Expect(m.Mentions).To(HaveLen(1))
		Expect(m.Mentions[0].ID).To(Equal(ownerID.String()))
	})

	It("decodes channels", func() {
		res, err := b.Resource("channels", textID).Get(ctx)
		Expect(err).NotTo(HaveOccurred())

		ch := decodeAs[discordgo.Channel](res)
		Expect(ch.ID).To(Equal(textID.String()))
		Expect(ch.GuildID).To(Equal(guildID.String()))
		Expect(ch.Name).To(Equal("general"))
		Expect(ch.Type).To(Equal(discordgo.ChannelTypeGuildText))
	})

	It("decodes roles with string permissions", func() {
		res, err := b.Resource("guilds", guildID, "roles").
			Post(ctx, map[string]any{"name": "mods", "permissions": "8192"})
		Expect(err).NotTo(HaveOccurred())

		r := decodeAs[discordgo.Role](res)
		Expect(r.Name).To(Equal("mods"))
		Expect(r.Permissions).To(Equal(int64(discordgo.PermissionManageMessages)))
	})

	It("decodes guilds", func() {
		res, err := b.Resource("guilds", guildID).Get(ctx)
		Expect(err).NotTo(HaveOccurred())

		g := decodeAs[discordgo.Guild](res)
		Expect(g.ID).To(Equal(guildID.String()))
		Expect(g.OwnerID).To(Equal(ownerID.String()))
		Expect(g.Roles).NotTo(BeEmpty())
		Expect(g.Roles[0].ID).To(Equal(guildID.String()), "@everyone shares the guild id")
	})

	It("decodes the READY payload", func() {
		_, err := b.Connect(ctx, memberID)
		Expect(err).NotTo(HaveOccurred())

		ready := rec.Named(gateway.EventReady)
		Expect(ready).To(HaveLen(1))
		data, err := ready[0].JSON()
		Expect(err).NotTo(HaveOccurred())

		var r discordgo.Ready
		Expect(json.Unmarshal(data, &r)).To(Succeed())
		Expect(r.Version).To(Equal(10))
		Expect(r.SessionID).NotTo(BeEmpty())
		Expect(r.User.ID).To(Equal(memberID.String()))
		Expect(r.Guilds).To(HaveLen(1))
		Expect(r.Guilds[0].ID).To(Equal(guildID.String()))
	})
})
