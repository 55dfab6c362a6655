// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package store holds the canonical in-memory state of one simulated backend.
//
// The store performs no validation. Every mutation goes through a request
// handler, which is responsible for checking before it writes.
package store

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/holomush/simcord/internal/ids"
	"github.com/holomush/simcord/internal/model"
)

// Store owns one collection per entity family plus the id and code
// generators. Two stores never share state.
type Store struct {
	IDs *ids.Generator

	Guilds          *model.Map[*model.Guild]
	PrivateChannels *model.Map[*model.Channel]
	Users           *model.Map[*model.User]
	Applications    *model.Map[*model.Application]
	Webhooks        *model.Map[*model.Webhook]
	Invites         *orderedmap.OrderedMap[string, *model.Invite]
	VoiceRegions    *orderedmap.OrderedMap[string, *model.VoiceRegion]

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for timestamps and generated ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithGenerator replaces the id generator.
func WithGenerator(g *ids.Generator) Option {
	return func(s *Store) {
		s.IDs = g
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		Guilds:          model.NewMap[*model.Guild](),
		PrivateChannels: model.NewMap[*model.Channel](),
		Users:           model.NewMap[*model.User](),
		Applications:    model.NewMap[*model.Application](),
		Webhooks:        model.NewMap[*model.Webhook](),
		Invites:         orderedmap.New[string, *model.Invite](),
		VoiceRegions:    orderedmap.New[string, *model.VoiceRegion](),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.IDs == nil {
		s.IDs = ids.NewGenerator(ids.WithClock(s.now))
	}
	return s
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Guild looks up a guild by id.
func (s *Store) Guild(id snowflake.ID) (*model.Guild, bool) {
	return s.Guilds.Get(id)
}

// Channel finds a channel across every guild and the private channels. The
// owning guild is nil for DM channels.
func (s *Store) Channel(id snowflake.ID) (*model.Channel, *model.Guild, bool) {
	if ch, ok := s.PrivateChannels.Get(id); ok {
		return ch, nil, true
	}
	for pair := s.Guilds.Oldest(); pair != nil; pair = pair.Next() {
		if ch, ok := pair.Value.Channel(id); ok {
			return ch, pair.Value, true
		}
	}
	return nil, nil, false
}

// AllUsers returns every known user: registered users followed by application
// bot users not already registered.
func (s *Store) AllUsers() []*model.User {
	users := model.Values(s.Users)
	for pair := s.Applications.Oldest(); pair != nil; pair = pair.Next() {
		bot := pair.Value.Bot
		if bot != nil && !model.Has(s.Users, bot.ID) {
			users = append(users, bot)
		}
	}
	return users
}

// User looks up a user among registered users and application bots.
func (s *Store) User(id snowflake.ID) (*model.User, bool) {
	if u, ok := s.Users.Get(id); ok {
		return u, true
	}
	for pair := s.Applications.Oldest(); pair != nil; pair = pair.Next() {
		if bot := pair.Value.Bot; bot != nil && bot.ID == id {
			return bot, true
		}
	}
	return nil, false
}

// Application returns the first registered application, which is the one the
// simulated session is authenticated as.
func (s *Store) Application() (*model.Application, bool) {
	pair := s.Applications.Oldest()
	if pair == nil {
		return nil, false
	}
	return pair.Value, true
}

// Template finds a guild template by code along with its source guild.
func (s *Store) Template(code string) (*model.GuildTemplate, *model.Guild, bool) {
	for pair := s.Guilds.Oldest(); pair != nil; pair = pair.Next() {
		if t := pair.Value.Template; t != nil && t.Code == code {
			return t, pair.Value, true
		}
	}
	return nil, nil, false
}

// Invite looks up an invite by code.
func (s *Store) Invite(code string) (*model.Invite, bool) {
	return s.Invites.Get(code)
}

// Webhook looks up a webhook by id.
func (s *Store) Webhook(id snowflake.ID) (*model.Webhook, bool) {
	return s.Webhooks.Get(id)
}

// GuildsOf returns the guilds the user is a member of, in store order.
func (s *Store) GuildsOf(userID snowflake.ID) []*model.Guild {
	var out []*model.Guild
	for pair := s.Guilds.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := pair.Value.Member(userID); ok || pair.Value.OwnerID == userID {
			out = append(out, pair.Value)
		}
	}
	return out
}

// DMChannel finds an existing one-to-one DM between the two users.
func (s *Store) DMChannel(a, b snowflake.ID) (*model.Channel, bool) {
	for pair := s.PrivateChannels.Oldest(); pair != nil; pair = pair.Next() {
		ch := pair.Value
		if ch.Type != model.ChannelTypeDM || ch.DM == nil || len(ch.DM.RecipientIDs) != 2 {
			continue
		}
		r := ch.DM.RecipientIDs
		if (r[0] == a && r[1] == b) || (r[0] == b && r[1] == a) {
			return ch, true
		}
	}
	return nil, false
}
