// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"context"
	"fmt"
	"slices"

	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"

	"github.com/holomush/simcord/internal/access"
	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

func (s *Service) channelRoutes() []Route {
	return []Route{
		{Method: MethodGet, Pattern: "channels/{channel}", Name: "channels.get", Handle: s.getChannel()},
		{Method: MethodPatch, Pattern: "channels/{channel}", Name: "channels.modify", Handle: s.modifyChannel()},
		{Method: MethodDelete, Pattern: "channels/{channel}", Name: "channels.delete", Handle: s.deleteChannel()},
		{Method: MethodGet, Pattern: "channels/{channel}/invites", Name: "channels.invites.list", Handle: s.listChannelInvites()},
		{Method: MethodPost, Pattern: "channels/{channel}/invites", Name: "channels.invites.create", Handle: s.createInvite()},
		{Method: MethodGet, Pattern: "channels/{channel}/webhooks", Name: "channels.webhooks.list", Handle: s.listChannelWebhooks()},
		{Method: MethodPost, Pattern: "channels/{channel}/webhooks", Name: "channels.webhooks.create", Handle: s.createWebhook()},
		{Method: MethodGet, Pattern: "guilds/{guild}/channels", Name: "guilds.channels.list", Handle: s.listGuildChannels()},
		{Method: MethodPost, Pattern: "guilds/{guild}/channels", Name: "guilds.channels.create", Handle: s.createGuildChannel()},
	}
}

// channelEvent picks the thread variant of a channel event for threads.
func channelEvent(ch *model.Channel, channel, thread gateway.EventName) gateway.EventName {
	if ch.Type.IsThread() {
		return thread
	}
	return channel
}

// manageChannel authorizes MANAGE_CHANNELS, or MANAGE_THREADS for threads.
// The owner of a thread may manage it too.
func (s *Service) manageChannel(t *target) error {
	if !t.channel.InGuild() {
		return apierror.New(apierror.CannotExecuteOnDM)
	}
	if err := s.viewChannel(t); err != nil {
		return err
	}
	if th := t.channel.Thread; th != nil {
		if th.OwnerID == t.req.UserID {
			return nil
		}
		return access.Require(t.subject.Perms, model.PermissionManageThreads)
	}
	return access.Require(t.subject.Perms, model.PermissionManageChannels)
}

func (s *Service) getChannel() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveChannel,
		authorize: func(t *target, _ *noBody) error {
			return s.viewChannel(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			return s.conv.Channel(t.channel), nil
		},
	})
}

// checkParent validates a parent reference: it must be a category of the
// same guild, and categories cannot be nested.
func checkParent(g *model.Guild, kind model.ChannelType, parentID snowflake.ID, form *apierror.FormErrors) {
	parent, ok := g.Channel(parentID)
	switch {
	case !ok:
		form.Add("parent_id", apierror.Semantic(apierror.CodeUnknownChannelRef, "Unknown channel"))
	case parent.Type != model.ChannelTypeCategory || kind == model.ChannelTypeCategory:
		form.Add("parent_id", apierror.Semantic(apierror.CodeParentNotCategory, "Not a category"))
	}
}

// checkOverwriteTargets requires role overwrites to name roles of g.
func checkOverwriteTargets(g *model.Guild, overwrites []wire.OverwriteRequest, form *apierror.FormErrors) {
	for i, ow := range overwrites {
		if ow.Type == model.OverwriteTypeRole && !model.Has(g.Roles, ow.ID) {
			form.Add(fmt.Sprintf("permission_overwrites.%d.id", i),
				apierror.Semantic(apierror.CodeUnknownRoleRef, "Unknown role"))
		}
	}
}

func overwriteSpecs(overwrites []wire.OverwriteRequest) []defaults.OverwriteSpec {
	return lo.Map(overwrites, func(ow wire.OverwriteRequest, _ int) defaults.OverwriteSpec {
		return defaults.OverwriteSpec{
			ID:    model.Ptr(ow.ID),
			Type:  model.Ptr(ow.Type),
			Allow: model.Ptr(lo.FromPtr(ow.Allow)),
			Deny:  model.Ptr(lo.FromPtr(ow.Deny)),
		}
	})
}

func (s *Service) modifyChannel() HandlerFunc {
	return run(s, op[wire.ChannelModify]{
		resolve: s.resolveChannel,
		structural: func(t *target, b *wire.ChannelModify, form *apierror.FormErrors) {
			if v, ok := b.PermissionOverwrites.Value(); ok {
				for i, ow := range v {
					s.validator.StructInto(form, fmt.Sprintf("permission_overwrites.%d", i), ow)
				}
			}
		},
		authorize: func(t *target, b *wire.ChannelModify) error {
			if err := s.manageChannel(t); err != nil {
				return err
			}
			if b.PermissionOverwrites.Set {
				return access.Require(t.subject.Perms, model.PermissionManageRoles)
			}
			return nil
		},
		check: func(t *target, b *wire.ChannelModify, form *apierror.FormErrors) error {
			if v, ok := b.Type.Value(); ok && v != t.channel.Type {
				convertible := t.channel.Type == model.ChannelTypeText || t.channel.Type == model.ChannelTypeNews
				if !convertible {
					form.Add("type", apierror.Semantic(apierror.CodeChannelTypeInvalid, "Cannot convert this channel type"))
				}
			}
			if v, ok := b.ParentID.Value(); ok {
				if t.channel.Type.IsThread() {
					form.Add("parent_id", apierror.Semantic(apierror.CodeParentNotCategory, "Not a category"))
				} else {
					checkParent(t.guild, t.channel.Type, v, form)
				}
			}
			if v, ok := b.PermissionOverwrites.Value(); ok {
				checkOverwriteTargets(t.guild, v, form)
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, b *wire.ChannelModify) (any, error) {
			ch := t.channel
			var changes changeSet
			if v, ok := b.Name.Value(); ok {
				changes.add("name", ch.Name, v)
				ch.Name = v
			}
			if v, ok := b.Type.Value(); ok {
				changes.add("type", ch.Type, v)
				ch.Type = v
			}
			if v, ok := b.Position.Value(); ok && !ch.Type.IsThread() {
				changes.add("position", ch.Position, v)
				ch.Position = v
			}
			if b.ParentID.Set && !ch.Type.IsThread() {
				changes.add("parent_id", ch.ParentID, b.ParentID.Ptr())
				ch.ParentID = b.ParentID.Ptr()
			}
			if text := ch.Text; text != nil {
				if b.Topic.Set && !ch.Type.IsThread() {
					changes.add("topic", text.Topic, b.Topic.Ptr())
					text.Topic = b.Topic.Ptr()
				}
				if v, ok := b.NSFW.Value(); ok {
					changes.add("nsfw", text.NSFW, v)
					text.NSFW = v
				}
				if v, ok := b.RateLimitPerUser.Value(); ok {
					changes.add("rate_limit_per_user", text.RateLimitPerUser, v)
					text.RateLimitPerUser = v
				}
			}
			if voice := ch.Voice; voice != nil {
				if v, ok := b.Bitrate.Value(); ok {
					changes.add("bitrate", voice.Bitrate, v)
					voice.Bitrate = v
				}
				if v, ok := b.UserLimit.Value(); ok {
					changes.add("user_limit", voice.UserLimit, v)
					voice.UserLimit = v
				}
				if b.RTCRegion.Set {
					changes.add("rtc_region", voice.RTCRegion, b.RTCRegion.Ptr())
					voice.RTCRegion = b.RTCRegion.Ptr()
				}
				if v, ok := b.NSFW.Value(); ok {
					changes.add("nsfw", voice.NSFW, v)
					voice.NSFW = v
				}
			}
			if b.PermissionOverwrites.Set && !ch.Type.IsThread() {
				v, _ := b.PermissionOverwrites.Value()
				s.replaceOverwrites(t, v)
			}
			if len(changes) > 0 {
				action := lo.Ternary(ch.Type.IsThread(), model.AuditLogThreadUpdate, model.AuditLogChannelUpdate)
				s.audit(t.guild, t.req, action, ch.ID, changes, nil)
			}

			out := s.conv.Channel(ch)
			s.emit(ctx, ch, channelEvent(ch, gateway.EventChannelUpdate, gateway.EventThreadUpdate), out)
			return out, nil
		},
	})
}

// replaceOverwrites swaps the channel's overwrites for the requested set,
// auditing each created, updated and deleted overwrite.
func (s *Service) replaceOverwrites(t *target, requested []wire.OverwriteRequest) {
	ch, g := t.channel, t.guild
	next := model.NewMap[*model.Overwrite]()
	for _, spec := range overwriteSpecs(requested) {
		ow := s.engine.Overwrite(g, spec)
		next.Set(ow.ID, ow)
	}

	auditOverwrite := func(action model.AuditLogEvent, ow *model.Overwrite, changes changeSet) {
		opts := &model.AuditLogOptions{
			ID:   model.Ptr(ow.ID),
			Type: model.Ptr(fmt.Sprint(int(ow.Type))),
		}
		if ow.Type == model.OverwriteTypeRole {
			if r, ok := g.Role(ow.ID); ok {
				opts.RoleName = model.Ptr(r.Name)
			}
		}
		s.audit(g, t.req, action, ch.ID, changes, opts)
	}
	for _, old := range model.Values(ch.Overwrites) {
		if _, kept := next.Get(old.ID); !kept {
			var c changeSet
			c.removed("id", old.ID)
			c.removed("type", old.Type)
			c.removed("allow", old.Allow)
			c.removed("deny", old.Deny)
			auditOverwrite(model.AuditLogChannelOverwriteDelete, old, c)
		}
	}
	for _, ow := range model.Values(next) {
		old, existed := ch.Overwrite(ow.ID)
		var c changeSet
		if !existed {
			c.created("id", ow.ID)
			c.created("type", ow.Type)
			c.created("allow", ow.Allow)
			c.created("deny", ow.Deny)
			auditOverwrite(model.AuditLogChannelOverwriteCreate, ow, c)
			continue
		}
		c.add("allow", old.Allow, ow.Allow)
		c.add("deny", old.Deny, ow.Deny)
		if len(c) > 0 {
			auditOverwrite(model.AuditLogChannelOverwriteUpdate, ow, c)
		}
	}
	ch.Overwrites = next
}

func (s *Service) deleteChannel() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveChannel,
		authorize: func(t *target, _ *noBody) error {
			if !t.channel.InGuild() {
				return s.viewChannel(t)
			}
			return s.manageChannel(t)
		},
		apply: func(ctx context.Context, t *target, _ *noBody) (any, error) {
			ch := t.channel
			out := s.conv.Channel(ch)
			if !ch.InGuild() {
				s.closePrivateChannel(t)
				return out, nil
			}

			g := t.guild
			for _, child := range model.Values(g.Channels) {
				if child.ParentID == nil || *child.ParentID != ch.ID {
					continue
				}
				if child.Type.IsThread() {
					g.Channels.Delete(child.ID)
					s.emit(ctx, child, gateway.EventThreadDelete, s.conv.Channel(child))
					continue
				}
				child.ParentID = nil
				s.emit(ctx, child, gateway.EventChannelUpdate, s.conv.Channel(child))
			}
			g.Channels.Delete(ch.ID)
			s.forgetChannel(g, ch.ID)

			var changes changeSet
			changes.removed("name", ch.Name)
			changes.removed("type", ch.Type)
			action := lo.Ternary(ch.Type.IsThread(), model.AuditLogThreadDelete, model.AuditLogChannelDelete)
			s.audit(g, t.req, action, ch.ID, changes, nil)

			s.emit(ctx, ch, channelEvent(ch, gateway.EventChannelDelete, gateway.EventThreadDelete), out)
			return out, nil
		},
	})
}

// forgetChannel drops invites, webhooks and guild references that point at
// a deleted channel.
func (s *Service) forgetChannel(g *model.Guild, id snowflake.ID) {
	for pair := s.store.Invites.Oldest(); pair != nil; {
		next := pair.Next()
		if pair.Value.ChannelID == id {
			s.store.Invites.Delete(pair.Key)
		}
		pair = next
	}
	for _, w := range model.Values(s.store.Webhooks) {
		if w.ChannelID != nil && *w.ChannelID == id {
			s.store.Webhooks.Delete(w.ID)
		}
	}
	for _, ref := range []**snowflake.ID{
		&g.AFKChannelID, &g.SystemChannelID, &g.RulesChannelID,
		&g.PublicUpdatesChannelID, &g.WidgetChannelID,
	} {
		if *ref != nil && **ref == id {
			*ref = nil
		}
	}
	if ws := g.WelcomeScreen; ws != nil {
		ws.Channels = slices.DeleteFunc(ws.Channels, func(c model.WelcomeChannel) bool { return c.ChannelID == id })
	}
}

// closePrivateChannel leaves a group DM. Closing a one-to-one DM keeps it,
// so reopening returns the same channel.
func (s *Service) closePrivateChannel(t *target) {
	ch := t.channel
	if ch.Type != model.ChannelTypeGroupDM {
		return
	}
	ch.DM.RecipientIDs = slices.DeleteFunc(ch.DM.RecipientIDs, func(id snowflake.ID) bool { return id == t.req.UserID })
	if len(ch.DM.RecipientIDs) == 0 {
		s.store.PrivateChannels.Delete(ch.ID)
		return
	}
	if ch.DM.OwnerID != nil && *ch.DM.OwnerID == t.req.UserID {
		ch.DM.OwnerID = model.Ptr(ch.DM.RecipientIDs[0])
	}
}

func (s *Service) listGuildChannels() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.memberOf(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			channels, _ := s.conv.Channels(t.guild)
			return channels, nil
		},
	})
}

func (s *Service) createGuildChannel() HandlerFunc {
	return run(s, op[wire.ChannelCreate]{
		resolve: s.resolveGuild,
		authorize: func(t *target, b *wire.ChannelCreate) error {
			required := model.PermissionManageChannels
			if len(b.PermissionOverwrites) > 0 {
				required |= model.PermissionManageRoles
			}
			return s.guildPermission(t, required)
		},
		check: func(t *target, b *wire.ChannelCreate, form *apierror.FormErrors) error {
			kind := lo.FromPtrOr(b.Type, model.ChannelTypeText)
			if b.ParentID != nil {
				checkParent(t.guild, kind, *b.ParentID, form)
			}
			checkOverwriteTargets(t.guild, b.PermissionOverwrites, form)
			return nil
		},
		apply: func(ctx context.Context, t *target, b *wire.ChannelCreate) (any, error) {
			kind := lo.FromPtrOr(b.Type, model.ChannelTypeText)
			spec := defaults.ChannelSpec{
				Type:                       &kind,
				Name:                       &b.Name,
				Position:                   b.Position,
				ParentID:                   b.ParentID,
				Topic:                      b.Topic,
				NSFW:                       b.NSFW,
				RateLimitPerUser:           b.RateLimitPerUser,
				DefaultAutoArchiveDuration: b.DefaultAutoArchiveDuration,
				Bitrate:                    b.Bitrate,
				UserLimit:                  b.UserLimit,
				RTCRegion:                  b.RTCRegion,
				VideoQualityMode:           b.VideoQualityMode,
				Overwrites:                 overwriteSpecs(b.PermissionOverwrites),
			}
			if kind == model.ChannelTypeCategory {
				spec.ParentID = nil
			}
			ch, err := s.engine.AddChannel(t.guild, spec)
			if err != nil {
				return nil, err
			}

			var changes changeSet
			changes.created("name", ch.Name)
			changes.created("type", ch.Type)
			changes.created("permission_overwrites", s.conv.Overwrites(ch))
			s.audit(t.guild, t.req, model.AuditLogChannelCreate, ch.ID, changes, nil)

			out := s.conv.Channel(ch)
			s.emit(ctx, ch, gateway.EventChannelCreate, out)
			return out, nil
		},
	})
}
