// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package backend_test

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/wire"
	"github.com/holomush/simcord/pkg/backend"
)

func apiError(err error) *apierror.Error {
	GinkgoHelper()
	Expect(err).To(HaveOccurred())
	apiErr, ok := apierror.As(err)
	Expect(ok).To(BeTrue(), "not a catalog error: %v", err)
	return apiErr
}

var _ = Describe("Backend", func() {
	var (
		ctx context.Context
		b   *backend.Backend
		rec *gateway.Recorder
	)

	BeforeEach(func() {
		ctx = context.Background()
		b, rec = newBackend()
	})

	Describe("construction", func() {
		It("uses the configured session user", func() {
			Expect(b.CurrentUser()).To(Equal(ownerID))
		})

		It("defaults the session user to the application bot", func() {
			plain, err := backend.New(backend.StoreSpec{})
			Expect(err).NotTo(HaveOccurred())
			Expect(plain.CurrentUser()).NotTo(BeZero())

			res, err := plain.Resource("oauth2", "applications", "@me").Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			var app struct {
				ID string `json:"id"`
				Bot struct {
					ID string `json:"id"`
				} `json:"bot"`
			}
			Expect(res.Decode(&app)).To(Succeed())
			Expect(app.Bot.ID).To(Equal(plain.CurrentUser().String()))
		})

		It("rejects a seed whose invite names an unknown channel", func() {
			spec := testSpec()
			spec.Invites = []backend.InviteSpec{{ChannelID: ptr(snowflake.ID(9999))}}
			_, err := backend.New(spec)
			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal("INVITE_CHANNEL_UNKNOWN"))
			Expect(oopsErr.Context()).To(HaveKeyWithValue("index", 0))
		})

		It("loads a seed file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "seed.yaml")
			Expect(os.WriteFile(path, []byte(`version: "1.0.0"
current_user: 7
users:
  7: {username: seven}
guilds:
  50:
    name: From File
    owner_id: 7
    channels:
      60: {name: lobby}
`), 0o600)).To(Succeed())

			loaded, err := backend.Load(path, backend.WithClock(func() time.Time { return epoch }))
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.CurrentUser()).To(Equal(snowflake.ID(7)))

			res, err := loaded.Resource("channels", snowflake.ID(60)).Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			ch, ok := res.Value.(wire.Channel)
			Expect(ok).To(BeTrue())
			Expect(ch.GuildID).To(HaveValue(Equal(snowflake.ID(50))))
		})
	})

	Describe("Resource", func() {
		It("runs as the session user by default", func() {
			res, err := b.Resource("users", "@me").Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			var me struct {
				ID       string `json:"id"`
				Username string `json:"username"`
			}
			Expect(res.Decode(&me)).To(Succeed())
			Expect(me.Username).To(Equal("owner"))
		})

		It("posts a message and dispatches it", func() {
			res, err := b.Resource("channels", textID, "messages").
				As(memberID).
				Post(ctx, map[string]any{"content": "hello <@100>"})
			Expect(err).NotTo(HaveOccurred())

			msg, ok := res.Value.(wire.Message)
			Expect(ok).To(BeTrue())
			Expect(msg.Author.ID).To(Equal(memberID))
			Expect(msg.Mentions).To(HaveLen(1))
			body, err := res.JSON()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`"content":"hello <@100>"`))

			events := rec.Named(gateway.EventMessageCreate)
			Expect(events).To(HaveLen(1))
			data, err := events[0].JSON()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"content":"hello <@100>"`))
		})

		It("accepts raw JSON bodies", func() {
			_, err := b.Resource("channels", textID, "messages").Post(ctx, []byte(`{"content":"raw"}`))
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns catalog errors", func() {
			_, err := b.Resource("channels", textID, "messages").
				As(outsiderID).
				Post(ctx, map[string]any{"content": "hi"})
			Expect(apiError(err).Name).To(Equal(apierror.MissingAccess.Name))
			Expect(rec.Len()).To(BeZero())
		})

		It("reports form errors by path", func() {
			_, err := b.Resource("channels", textID, "messages").Post(ctx, map[string]any{"content": 5})
			apiErr := apiError(err)
			Expect(apiErr.Name).To(Equal(apierror.InvalidFormBody.Name))
			Expect(apiErr.Form.At("content")).NotTo(BeNil())
		})

		It("passes the query string", func() {
			for _, content := range []string{"one", "two", "three"} {
				_, err := b.Resource("channels", textID, "messages").Post(ctx, map[string]any{"content": content})
				Expect(err).NotTo(HaveOccurred())
			}
			res, err := b.Resource("channels", textID, "messages").
				WithQuery(url.Values{"limit": {"2"}}).
				Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			var msgs []struct {
				Content string `json:"content"`
			}
			Expect(res.Decode(&msgs)).To(Succeed())
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0].Content).To(Equal("three"))
		})

		It("records the audit reason", func() {
			_, err := b.Resource("guilds", guildID).
				WithReason("rebrand").
				Patch(ctx, map[string]any{"name": "Renamed"})
			Expect(err).NotTo(HaveOccurred())

			res, err := b.Resource("guilds", guildID, "audit-logs").Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			var log struct {
				Entries []struct {
					Reason string `json:"reason"`
				} `json:"audit_log_entries"`
			}
			Expect(res.Decode(&log)).To(Succeed())
			Expect(log.Entries).NotTo(BeEmpty())
			Expect(log.Entries[0].Reason).To(Equal("rebrand"))
		})

		It("uploads files", func() {
			res, err := b.Resource("channels", textID, "messages").
				WithFiles(backend.File{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hi")}).
				Post(ctx, map[string]any{})
			Expect(err).NotTo(HaveOccurred())
			msg, ok := res.Value.(wire.Message)
			Expect(ok).To(BeTrue())
			Expect(msg.Attachments).To(HaveLen(1))
			Expect(msg.Attachments[0].Filename).To(Equal("notes.txt"))
		})

		It("answers deletes with no content", func() {
			res, err := b.Resource("channels", textID, "messages").Post(ctx, map[string]any{"content": "bye"})
			Expect(err).NotTo(HaveOccurred())
			msg := res.Value.(wire.Message)

			res, err = b.Resource("channels", textID, "messages", msg.ID).Delete(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.NoContent()).To(BeTrue())
			Expect(res.Decode(&struct{}{})).NotTo(Succeed())
		})

		It("rejects unsupported segment types", func() {
			_, err := b.Resource("channels", 1.5).Get(ctx)
			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal("RESOURCE_SEGMENT_INVALID"))
		})

		It("rejects unknown routes", func() {
			_, err := b.Resource("nowhere").Get(ctx)
			Expect(apiError(err).Name).To(Equal(apierror.UnknownRoute.Name))
		})
	})

	Describe("gateway", func() {
		It("sends READY then one GUILD_CREATE per guild on connect", func() {
			sess, err := b.Connect(ctx, memberID)
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.Guilds).To(HaveLen(1))

			events := rec.Events()
			Expect(events).To(HaveLen(2))
			Expect(events[0].Name).To(Equal(string(gateway.EventReady)))
			Expect(events[1].Name).To(Equal(string(gateway.EventGuildCreate)))
		})

		It("drops events the session's intents do not cover", func() {
			b, rec = newBackend(backend.WithIntents(gateway.IntentGuilds))
			_, err := b.Resource("channels", textID, "messages").Post(ctx, map[string]any{"content": "quiet"})
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Named(gateway.EventMessageCreate)).To(BeEmpty())

			_, err = b.Resource("guilds", guildID).Patch(ctx, map[string]any{"name": "Loud"})
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Named(gateway.EventGuildUpdate)).To(HaveLen(1))
		})

		It("consults a capability predicate", func() {
			var asked []backend.Intents
			b, rec = newBackend(backend.WithCapability(func(required backend.Intents) bool {
				asked = append(asked, required)
				return false
			}))
			_, err := b.Resource("channels", textID, "messages").Post(ctx, map[string]any{"content": "x"})
			Expect(err).NotTo(HaveOccurred())
			Expect(asked).To(ContainElement(gateway.IntentGuildMessages))
			Expect(rec.Len()).To(BeZero())
		})

		It("delivers to a sink attached later", func() {
			late := gateway.NewRecorder()
			b.SetSink(late)
			_, err := b.Resource("channels", textID, "messages").Post(ctx, map[string]any{"content": "late"})
			Expect(err).NotTo(HaveOccurred())
			Expect(late.Named(gateway.EventMessageCreate)).To(HaveLen(1))
			Expect(rec.Len()).To(BeZero())
		})
	})

	Describe("concurrency", func() {
		It("serializes writers and shares readers", func() {
			var wg sync.WaitGroup
			for i := range 8 {
				wg.Add(2)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := b.Resource("channels", textID, "messages").Post(ctx, map[string]any{"content": "n"})
					Expect(err).NotTo(HaveOccurred(), "writer %d", i)
				}()
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := b.Resource("channels", textID).Get(ctx)
					Expect(err).NotTo(HaveOccurred(), "reader %d", i)
				}()
			}
			wg.Wait()
			Expect(rec.Named(gateway.EventMessageCreate)).To(HaveLen(8))
		})

		It("delivers each connect sequence without interleaving", func() {
			var wg sync.WaitGroup
			for i := range 8 {
				wg.Add(2)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := b.Connect(ctx, 0)
					Expect(err).NotTo(HaveOccurred(), "connect %d", i)
				}()
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := b.Resource("channels", textID, "messages").Post(ctx, map[string]any{"content": "n"})
					Expect(err).NotTo(HaveOccurred(), "writer %d", i)
				}()
			}
			wg.Wait()

			events := rec.Events()
			readies := 0
			for i, ev := range events {
				if ev.Name != string(gateway.EventReady) {
					continue
				}
				readies++
				Expect(i+1).To(BeNumerically("<", len(events)))
				Expect(events[i+1].Name).To(Equal(string(gateway.EventGuildCreate)), "event after READY #%d", readies)
			}
			Expect(readies).To(Equal(8))
		})
	})

	Describe("metrics", func() {
		It("registers its collectors once", func() {
			reg := prometheus.NewRegistry()
			Expect(func() { backend.RegisterMetrics(reg) }).NotTo(Panic())
		})
	})

	It("lists its routes", func() {
		Expect(b.Routes()).To(ContainElement("POST channels/{channel}/messages"))
	})
})
