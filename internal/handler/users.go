// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/holomush/simcord/internal/access"
	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

// MaxGuildListLimit caps a users/@me/guilds page.
const MaxGuildListLimit = 200

func (s *Service) userRoutes() []Route {
	return []Route{
		{Method: MethodGet, Pattern: "users/@me", Name: "users.me", Handle: s.getCurrentUser()},
		{Method: MethodGet, Pattern: "users/{user}", Name: "users.get", Handle: s.getUser()},
		{Method: MethodGet, Pattern: "users/@me/guilds", Name: "users.me.guilds", Handle: s.listCurrentUserGuilds()},
		{Method: MethodDelete, Pattern: "users/@me/guilds/{guild}", Name: "users.me.guilds.leave", Handle: s.leaveGuild()},
		{Method: MethodGet, Pattern: "users/@me/channels", Name: "users.me.channels", Handle: s.listPrivateChannels()},
		{Method: MethodPost, Pattern: "users/@me/channels", Name: "users.me.channels.create", Handle: s.createDM()},
		{Method: MethodGet, Pattern: "voice/regions", Name: "voice.regions", Handle: s.listVoiceRegions()},
		{Method: MethodGet, Pattern: "oauth2/applications/@me", Name: "oauth2.application", Handle: s.getApplication()},
	}
}

func (s *Service) resolveSelf(t *target) error {
	u, ok := s.store.User(t.req.UserID)
	if !ok {
		return apierror.New(apierror.UnknownUser)
	}
	t.user = u
	return nil
}

func (s *Service) getCurrentUser() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveSelf,
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			return s.conv.CurrentUser(t.user), nil
		},
	})
}

func (s *Service) getUser() HandlerFunc {
	return run(s, op[noBody]{
		resolve: func(t *target) error {
			id, ok := parseID(t.req.Param("user"))
			if !ok {
				return apierror.New(apierror.UnknownUser)
			}
			u, ok := s.store.User(id)
			if !ok {
				return apierror.New(apierror.UnknownUser)
			}
			t.user = u
			return nil
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			return s.conv.User(t.user), nil
		},
	})
}

// guildQuery holds the paging parameters of users/@me/guilds.
type guildQuery struct {
	Limit  int           `json:"-"`
	Before *snowflake.ID `json:"-"`
	After  *snowflake.ID `json:"-"`
}

func (s *Service) listCurrentUserGuilds() HandlerFunc {
	return run(s, op[guildQuery]{
		structural: func(t *target, q *guildQuery, form *apierror.FormErrors) {
			q.Limit = queryInt(t, form, "limit", 1, MaxGuildListLimit, MaxGuildListLimit)
			q.Before = querySnowflake(t, form, "before")
			q.After = querySnowflake(t, form, "after")
		},
		apply: func(_ context.Context, t *target, q *guildQuery) (any, error) {
			out := []wire.PartialGuild{}
			for _, g := range s.store.GuildsOf(t.req.UserID) {
				if (q.Before != nil && g.ID >= *q.Before) || (q.After != nil && g.ID <= *q.After) {
					continue
				}
				if len(out) == q.Limit {
					break
				}
				subject, err := access.ForGuild(g, t.req.UserID, nil)
				if err != nil {
					continue
				}
				out = append(out, s.conv.PartialGuild(g, t.req.UserID, subject.Perms))
			}
			return out, nil
		},
	})
}

// leaveGuild removes the requester from a guild. Owners cannot leave.
func (s *Service) leaveGuild() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.memberOf(t)
		},
		check: func(t *target, _ *noBody, _ *apierror.FormErrors) error {
			if t.guild.OwnerID == t.req.UserID {
				return apierror.New(apierror.InvalidGuild)
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, _ *noBody) (any, error) {
			g, id := t.guild, t.req.UserID
			g.Members.Delete(id)
			g.Presences.Delete(id)
			g.VoiceStates.Delete(id)
			s.emit(ctx, nil, gateway.EventGuildMemberRemove, wire.GuildMemberRemove{GuildID: g.ID, User: s.conv.UserByID(id)})
			s.emit(ctx, nil, gateway.EventGuildDelete, wire.UnavailableGuild{ID: g.ID})
			return nil, nil
		},
	})
}

func (s *Service) listPrivateChannels() HandlerFunc {
	return run(s, op[noBody]{
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := []wire.Channel{}
			for _, ch := range s.privateChannelsOf(t.req.UserID) {
				out = append(out, s.conv.Channel(ch))
			}
			return out, nil
		},
	})
}

func (s *Service) privateChannelsOf(userID snowflake.ID) []*model.Channel {
	var out []*model.Channel
	for _, ch := range model.Values(s.store.PrivateChannels) {
		if ch.DM != nil && model.ContainsID(ch.DM.RecipientIDs, userID) {
			out = append(out, ch)
		}
	}
	return out
}

// createDM opens a DM with the recipient, returning the existing one when
// there is one.
func (s *Service) createDM() HandlerFunc {
	return run(s, op[wire.DMCreate]{
		check: func(_ *target, b *wire.DMCreate, _ *apierror.FormErrors) error {
			if _, ok := s.store.User(b.RecipientID); !ok {
				return apierror.New(apierror.UnknownUser)
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, b *wire.DMCreate) (any, error) {
			if ch, ok := s.store.DMChannel(t.req.UserID, b.RecipientID); ok {
				return s.conv.Channel(ch), nil
			}
			ch, err := s.engine.AddChannel(nil, defaults.ChannelSpec{
				Type:         model.Ptr(model.ChannelTypeDM),
				RecipientIDs: []snowflake.ID{t.req.UserID, b.RecipientID},
			})
			if err != nil {
				return nil, err
			}
			out := s.conv.Channel(ch)
			s.emit(ctx, ch, gateway.EventChannelCreate, out)
			return out, nil
		},
	})
}

func (s *Service) listVoiceRegions() HandlerFunc {
	return run(s, op[noBody]{
		apply: func(_ context.Context, _ *target, _ *noBody) (any, error) {
			return s.voiceRegions(), nil
		},
	})
}

func (s *Service) getApplication() HandlerFunc {
	return run(s, op[noBody]{
		apply: func(_ context.Context, _ *target, _ *noBody) (any, error) {
			app, ok := s.store.Application()
			if !ok {
				return nil, apierror.New(apierror.UnknownApplication)
			}
			return s.conv.Application(app), nil
		},
	})
}
