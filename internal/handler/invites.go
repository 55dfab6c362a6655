// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/holomush/simcord/internal/access"
	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

// Invite target types.
const (
	InviteTargetStream      = 1
	InviteTargetApplication = 2
)

func (s *Service) inviteRoutes() []Route {
	return []Route{
		{Method: MethodGet, Pattern: "invites/{code}", Name: "invites.get", Handle: s.getInvite()},
		{Method: MethodDelete, Pattern: "invites/{code}", Name: "invites.delete", Handle: s.deleteInvite()},
	}
}

// resolveInvite finds a live invite. Expired and used-up invites are gone.
func (s *Service) resolveInvite(t *target) error {
	inv, ok := s.store.Invite(t.req.Param("code"))
	if !ok {
		return apierror.New(apierror.UnknownInvite)
	}
	if exp := inv.ExpiresAt(); exp != nil && !s.store.Now().Before(*exp) {
		return apierror.New(apierror.UnknownInvite)
	}
	if inv.MaxUses > 0 && inv.Uses >= inv.MaxUses {
		return apierror.New(apierror.UnknownInvite)
	}
	t.invite = inv
	return nil
}

func onlineCount(g *model.Guild) int {
	return lo.CountBy(model.Values(g.Presences), func(p *model.Presence) bool {
		return p.Status != model.StatusOffline
	})
}

func (s *Service) getInvite() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveInvite,
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := s.conv.Invite(t.invite, false)
			if queryBool(t, "with_counts") && t.invite.GuildID != nil {
				if g, ok := s.store.Guild(*t.invite.GuildID); ok {
					out.ApproximateMemberCount = model.Ptr(g.Members.Len())
					out.ApproximatePresenceCount = model.Ptr(onlineCount(g))
				}
			}
			return out, nil
		},
	})
}

// deleteInvite needs MANAGE_CHANNELS on the invite's channel, or
// MANAGE_GUILD in its guild.
func (s *Service) deleteInvite() HandlerFunc {
	return run(s, op[noBody]{
		resolve: func(t *target) error {
			if err := s.resolveInvite(t); err != nil {
				return err
			}
			ch, g, ok := s.store.Channel(t.invite.ChannelID)
			if !ok {
				return apierror.New(apierror.UnknownInvite)
			}
			t.channel, t.guild = ch, g
			return nil
		},
		authorize: func(t *target, _ *noBody) error {
			if t.guild == nil {
				return s.viewChannel(t)
			}
			if err := s.viewChannel(t); err != nil {
				return err
			}
			if access.Has(t.subject.Perms, model.PermissionManageChannels) {
				return nil
			}
			return s.guildPermission(t, model.PermissionManageGuild)
		},
		apply: func(ctx context.Context, t *target, _ *noBody) (any, error) {
			inv := t.invite
			out := s.conv.Invite(inv, false)
			s.store.Invites.Delete(inv.Code)
			if t.guild != nil {
				s.audit(t.guild, t.req, model.AuditLogInviteDelete, t.guild.ID, inviteChanges(inv, true), nil)
			}
			s.emit(ctx, t.channel, gateway.EventInviteDelete, wire.InviteDelete{
				ChannelID: inv.ChannelID,
				GuildID:   inv.GuildID,
				Code:      inv.Code,
			})
			return out, nil
		},
	})
}

func inviteChanges(inv *model.Invite, deleted bool) changeSet {
	var c changeSet
	record := lo.Ternary(deleted, c.removed, c.created)
	record("code", inv.Code)
	record("channel_id", inv.ChannelID)
	record("inviter_id", inv.InviterID)
	record("uses", inv.Uses)
	record("max_uses", inv.MaxUses)
	record("max_age", inv.MaxAge)
	record("temporary", inv.Temporary)
	return c
}

func (s *Service) listChannelInvites() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveChannel,
		authorize: func(t *target, _ *noBody) error {
			if !t.channel.InGuild() {
				return apierror.New(apierror.InvalidChannelType)
			}
			return s.channelPermission(t, model.PermissionManageChannels)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := []wire.Invite{}
			for _, inv := range s.liveInvites() {
				if inv.ChannelID == t.channel.ID {
					out = append(out, s.conv.Invite(inv, true))
				}
			}
			return out, nil
		},
	})
}

// liveInvites returns the invites that have not expired.
func (s *Service) liveInvites() []*model.Invite {
	now := s.store.Now()
	var out []*model.Invite
	for pair := s.store.Invites.Oldest(); pair != nil; pair = pair.Next() {
		if exp := pair.Value.ExpiresAt(); exp != nil && !now.Before(*exp) {
			continue
		}
		out = append(out, pair.Value)
	}
	return out
}

func (s *Service) createInvite() HandlerFunc {
	return run(s, op[wire.InviteCreateRequest]{
		resolve: s.resolveChannel,
		structural: func(_ *target, b *wire.InviteCreateRequest, form *apierror.FormErrors) {
			switch lo.FromPtr(b.TargetType) {
			case InviteTargetStream:
				if b.TargetUserID == nil {
					form.Add("target_user_id", apierror.Required())
				}
			case InviteTargetApplication:
				form.Add("target_application_id", apierror.Required())
			}
		},
		authorize: func(t *target, _ *wire.InviteCreateRequest) error {
			if !t.channel.InGuild() {
				return apierror.New(apierror.InvalidChannelType)
			}
			return s.channelPermission(t, model.PermissionCreateInstantInvite)
		},
		check: func(t *target, b *wire.InviteCreateRequest, form *apierror.FormErrors) error {
			if t.channel.Type == model.ChannelTypeCategory || t.channel.Type.IsThread() {
				return apierror.New(apierror.InvalidChannelType)
			}
			if b.TargetUserID != nil {
				if _, ok := t.guild.Member(*b.TargetUserID); !ok {
					form.Add("target_user_id", apierror.Semantic(apierror.CodeUnknownUserRef,
						fmt.Sprintf("Unknown user %s", *b.TargetUserID)))
				}
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, b *wire.InviteCreateRequest) (any, error) {
			maxAge := lo.FromPtrOr(b.MaxAge, defaults.InviteMaxAge)
			maxUses := lo.FromPtr(b.MaxUses)
			temporary := lo.FromPtr(b.Temporary)
			if !lo.FromPtr(b.Unique) {
				for _, inv := range s.liveInvites() {
					if inv.ChannelID == t.channel.ID && inv.InviterID != nil && *inv.InviterID == t.req.UserID &&
						inv.MaxAge == maxAge && inv.MaxUses == maxUses && inv.Temporary == temporary &&
						inv.TargetType == nil && b.TargetType == nil {
						return s.conv.Invite(inv, true), nil
					}
				}
			}
			inv, err := s.engine.AddInvite(defaults.InviteSpec{
				ChannelID:    &t.channel.ID,
				InviterID:    &t.req.UserID,
				MaxAge:       &maxAge,
				MaxUses:      &maxUses,
				Temporary:    &temporary,
				TargetType:   b.TargetType,
				TargetUserID: b.TargetUserID,
			})
			if err != nil {
				return nil, err
			}
			s.audit(t.guild, t.req, model.AuditLogInviteCreate, t.guild.ID, inviteChanges(inv, false), nil)
			s.emit(ctx, t.channel, gateway.EventInviteCreate, s.conv.InviteCreate(inv))
			return s.conv.Invite(inv, true), nil
		},
	})
}
