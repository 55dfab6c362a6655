// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

// placeholder returns the key a guild create body uses for the i-th role or
// channel. Entries without an id cannot be referenced.
func placeholder(id *wire.IntOrString, i int) string {
	if id == nil {
		return "#" + strconv.Itoa(i)
	}
	return id.String
}

func intOrString(n int) *wire.IntOrString {
	return &wire.IntOrString{Int: int64(n), String: strconv.Itoa(n)}
}

// defaultGuildChannels is the layout of a guild created without channels,
// and the placeholder of its system channel.
func defaultGuildChannels() ([]wire.GuildChannelRequest, *wire.IntOrString) {
	return []wire.GuildChannelRequest{
		{ID: intOrString(1), Name: defaults.TextCategoryName, Type: model.Ptr(model.ChannelTypeCategory)},
		{ID: intOrString(2), Name: defaults.TextChannelName, Type: model.Ptr(model.ChannelTypeText), ParentID: intOrString(1)},
		{ID: intOrString(3), Name: defaults.VoiceCategoryName, Type: model.Ptr(model.ChannelTypeCategory)},
		{ID: intOrString(4), Name: defaults.VoiceChannelName, Type: model.Ptr(model.ChannelTypeVoice), ParentID: intOrString(3)},
	}, intOrString(2)
}

func (s *Service) checkGuildLimit(userID snowflake.ID) error {
	if len(s.store.GuildsOf(userID)) >= s.maxGuilds {
		return apierror.New(apierror.MaximumGuildsReached)
	}
	return nil
}

// checkGuildCreate validates the placeholder references of a guild create
// body. A parent must be a category defined earlier in the list.
func checkGuildCreate(b *wire.GuildCreate, form *apierror.FormErrors) {
	roles := make(map[string]bool, len(b.Roles))
	for i, r := range b.Roles {
		roles[placeholder(r.ID, i)] = true
	}
	all := make(map[string]model.ChannelType, len(b.Channels))
	for i, c := range b.Channels {
		all[placeholder(c.ID, i)] = lo.FromPtr(c.Type)
	}

	seen := make(map[string]model.ChannelType, len(b.Channels))
	for i, c := range b.Channels {
		kind := lo.FromPtr(c.Type)
		path := fmt.Sprintf("channels.%d", i)
		if c.ParentID != nil {
			parent, defined := seen[c.ParentID.String]
			_, exists := all[c.ParentID.String]
			switch {
			case kind == model.ChannelTypeCategory || (defined && parent != model.ChannelTypeCategory):
				form.Add(path+".parent_id", apierror.Semantic(apierror.CodeParentNotCategory, "Parent must be a category"))
			case !defined && exists:
				form.Add(path+".parent_id", apierror.Semantic(apierror.CodeParentOrder, "Parent must be defined before its children"))
			case !exists:
				form.Add(path+".parent_id", apierror.Semantic(apierror.CodeUnknownChannelRef, "Unknown channel"))
			}
		}
		for j, ow := range c.PermissionOverwrites {
			if ow.Type == model.OverwriteTypeRole && !roles[ow.ID.String] {
				form.Add(fmt.Sprintf("%s.permission_overwrites.%d.id", path, j),
					apierror.Semantic(apierror.CodeUnknownRoleRef, "Unknown role"))
			}
		}
		seen[placeholder(c.ID, i)] = kind
	}

	if b.AFKChannelID != nil {
		kind, ok := all[b.AFKChannelID.String]
		switch {
		case !ok:
			form.Add("afk_channel_id", apierror.Semantic(apierror.CodeUnknownChannelRef, "Unknown channel"))
		case kind != model.ChannelTypeVoice:
			form.Add("afk_channel_id", apierror.Semantic(apierror.CodeAFKChannelNotVoice, "AFK channel must be a voice channel"))
		}
	}
	if b.SystemChannelID != nil {
		kind, ok := all[b.SystemChannelID.String]
		switch {
		case !ok:
			form.Add("system_channel_id", apierror.Semantic(apierror.CodeUnknownChannelRef, "Unknown channel"))
		case kind != model.ChannelTypeText:
			form.Add("system_channel_id", apierror.Semantic(apierror.CodeSystemChannelNotText, "System channel must be a text channel"))
		}
	}
}

func (s *Service) createGuild() HandlerFunc {
	return run(s, op[wire.GuildCreate]{
		check: func(t *target, b *wire.GuildCreate, form *apierror.FormErrors) error {
			if err := s.checkGuildLimit(t.req.UserID); err != nil {
				return err
			}
			checkGuildCreate(b, form)
			return nil
		},
		apply: func(ctx context.Context, t *target, b *wire.GuildCreate) (any, error) {
			g, err := s.buildGuild(ctx, t.req.UserID, b)
			if err != nil {
				return nil, err
			}
			return s.conv.Guild(g), nil
		},
	})
}

// buildGuild allocates Snowflakes for the body's placeholders and creates
// the guild owned by ownerID. The first role becomes @everyone.
func (s *Service) buildGuild(ctx context.Context, ownerID snowflake.ID, b *wire.GuildCreate) (*model.Guild, error) {
	gid := s.store.IDs.Next()

	roleIDs := make(map[string]snowflake.ID, len(b.Roles))
	roles := make([]defaults.RoleSpec, 0, len(b.Roles))
	for i, r := range b.Roles {
		spec := defaults.RoleSpec{
			Color:       r.Color,
			Hoist:       r.Hoist,
			Permissions: r.Permissions,
			Mentionable: r.Mentionable,
		}
		if i == 0 {
			spec.ID = model.Ptr(gid)
		} else {
			spec.ID = model.Ptr(s.store.IDs.Next())
			spec.Name = r.Name
		}
		roleIDs[placeholder(r.ID, i)] = *spec.ID
		roles = append(roles, spec)
	}

	requested, system := b.Channels, b.SystemChannelID
	if len(requested) == 0 {
		requested, system = defaultGuildChannels()
	}
	channelIDs := make(map[string]snowflake.ID, len(requested))
	for i, c := range requested {
		channelIDs[placeholder(c.ID, i)] = s.store.IDs.Next()
	}
	lookup := func(ref *wire.IntOrString) *snowflake.ID {
		if ref == nil {
			return nil
		}
		id, ok := channelIDs[ref.String]
		return lo.Ternary(ok, &id, nil)
	}

	channels := make([]defaults.ChannelSpec, 0, len(requested))
	for i, c := range requested {
		spec := defaults.ChannelSpec{
			ID:               model.Ptr(channelIDs[placeholder(c.ID, i)]),
			Type:             c.Type,
			Name:             model.Ptr(c.Name),
			ParentID:         lookup(c.ParentID),
			Topic:            c.Topic,
			NSFW:             c.NSFW,
			RateLimitPerUser: c.RateLimitPerUser,
			Bitrate:          c.Bitrate,
			UserLimit:        c.UserLimit,
		}
		for _, ow := range c.PermissionOverwrites {
			subject := snowflake.ID(ow.ID.Int)
			if ow.Type == model.OverwriteTypeRole {
				subject = roleIDs[ow.ID.String]
			}
			spec.Overwrites = append(spec.Overwrites, defaults.OverwriteSpec{
				ID:    model.Ptr(subject),
				Type:  model.Ptr(ow.Type),
				Allow: ow.Allow,
				Deny:  ow.Deny,
			})
		}
		channels = append(channels, spec)
	}

	g, err := s.engine.AddGuild(defaults.GuildSpec{
		ID:                          &gid,
		Name:                        &b.Name,
		Icon:                        imageHash(b.Icon),
		OwnerID:                     &ownerID,
		Region:                      b.Region,
		VerificationLevel:           b.VerificationLevel,
		DefaultMessageNotifications: b.DefaultMessageNotifications,
		ExplicitContentFilter:       b.ExplicitContentFilter,
		AFKTimeout:                  b.AFKTimeout,
		AFKChannelID:                lookup(b.AFKChannelID),
		SystemChannelID:             lookup(system),
		SystemChannelFlags:          b.SystemChannelFlags,
		Features:                    []string{},
		Roles:                       roles,
		Channels:                    channels,
		Members:                     []defaults.MemberSpec{{UserID: &ownerID}},
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, nil, gateway.EventGuildCreate, s.conv.GatewayGuild(g))
	return g, nil
}
