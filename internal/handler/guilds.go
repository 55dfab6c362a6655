// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"

	"github.com/holomush/simcord/internal/access"
	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

// Audit log and member list paging bounds.
const (
	MaxAuditLogLimit     = 100
	DefaultAuditLogLimit = 50
	MaxMemberListLimit   = 1000
)

func (s *Service) guildRoutes() []Route {
	return []Route{
		{Method: MethodPost, Pattern: "guilds", Name: "guilds.create", Handle: s.createGuild()},
		{Method: MethodGet, Pattern: "guilds/{guild}", Name: "guilds.get", Handle: s.getGuild()},
		{Method: MethodPatch, Pattern: "guilds/{guild}", Name: "guilds.modify", Handle: s.modifyGuild()},
		{Method: MethodDelete, Pattern: "guilds/{guild}", Name: "guilds.delete", Handle: s.deleteGuild()},
		{Method: MethodGet, Pattern: "guilds/{guild}/roles", Name: "guilds.roles.list", Handle: s.listRoles()},
		{Method: MethodPost, Pattern: "guilds/{guild}/roles", Name: "guilds.roles.create", Handle: s.createRole()},
		{Method: MethodGet, Pattern: "guilds/{guild}/members", Name: "guilds.members.list", Handle: s.listMembers()},
		{Method: MethodGet, Pattern: "guilds/{guild}/members/{user}", Name: "guilds.members.get", Handle: s.getMember()},
		{Method: MethodDelete, Pattern: "guilds/{guild}/members/{user}", Name: "guilds.members.kick", Handle: s.kickMember()},
		{Method: MethodGet, Pattern: "guilds/{guild}/emojis", Name: "guilds.emojis.list", Handle: s.listEmojis()},
		{Method: MethodPost, Pattern: "guilds/{guild}/emojis", Name: "guilds.emojis.create", Handle: s.createEmoji()},
		{Method: MethodGet, Pattern: "guilds/{guild}/emojis/{emoji}", Name: "guilds.emojis.get", Handle: s.getEmoji()},
		{Method: MethodDelete, Pattern: "guilds/{guild}/emojis/{emoji}", Name: "guilds.emojis.delete", Handle: s.deleteEmoji()},
		{Method: MethodGet, Pattern: "guilds/{guild}/audit-logs", Name: "guilds.audit_log", Handle: s.getAuditLog()},
		{Method: MethodGet, Pattern: "guilds/{guild}/invites", Name: "guilds.invites.list", Handle: s.listGuildInvites()},
		{Method: MethodGet, Pattern: "guilds/{guild}/webhooks", Name: "guilds.webhooks.list", Handle: s.listGuildWebhooks()},
		{Method: MethodGet, Pattern: "guilds/{guild}/regions", Name: "guilds.regions", Handle: s.listGuildRegions()},
		{Method: MethodGet, Pattern: "guilds/{guild}/scheduled-events", Name: "guilds.events.list", Handle: s.listScheduledEvents()},
		{Method: MethodGet, Pattern: "guilds/{guild}/scheduled-events/{event}", Name: "guilds.events.get", Handle: s.getScheduledEvent()},
		{Method: MethodGet, Pattern: "guilds/{guild}/welcome-screen", Name: "guilds.welcome_screen", Handle: s.getWelcomeScreen()},
	}
}

// topPosition is the highest role position userID holds in g. The owner
// outranks every role.
func topPosition(g *model.Guild, userID snowflake.ID) int {
	if userID == g.OwnerID {
		return math.MaxInt
	}
	m, ok := g.Member(userID)
	if !ok {
		return -1
	}
	top := 0
	for _, id := range m.RoleIDs {
		if r, ok := g.Role(id); ok && r.Position > top {
			top = r.Position
		}
	}
	return top
}

func (s *Service) getGuild() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.memberOf(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := s.conv.Guild(t.guild)
			out.Permissions = wire.PermissionString(t.subject.Perms)
			if queryBool(t, "with_counts") {
				out.ApproximateMemberCount = model.Ptr(t.guild.Members.Len())
				out.ApproximatePresenceCount = model.Ptr(onlineCount(t.guild))
			}
			return out, nil
		},
	})
}

// checkGuildChannel validates a channel reference in a guild modify body.
func checkGuildChannel(g *model.Guild, form *apierror.FormErrors, path string, id snowflake.ID, ok func(model.ChannelType) bool, code, msg string) {
	ch, found := g.Channel(id)
	if !found {
		form.Add(path, apierror.Semantic(apierror.CodeUnknownChannelRef, "Unknown channel"))
		return
	}
	if !ok(ch.Type) {
		form.Add(path, apierror.Semantic(code, msg))
	}
}

func isVoice(t model.ChannelType) bool { return t == model.ChannelTypeVoice }
func isText(t model.ChannelType) bool  { return t == model.ChannelTypeText || t == model.ChannelTypeNews }

func (s *Service) modifyGuild() HandlerFunc {
	return run(s, op[wire.GuildModify]{
		resolve: s.resolveGuild,
		authorize: func(t *target, b *wire.GuildModify) error {
			if err := s.guildPermission(t, model.PermissionManageGuild); err != nil {
				return err
			}
			if b.OwnerID.Set && t.req.UserID != t.guild.OwnerID {
				return apierror.New(apierror.MissingPermissions)
			}
			return nil
		},
		check: func(t *target, b *wire.GuildModify, form *apierror.FormErrors) error {
			g := t.guild
			if v, ok := b.OwnerID.Value(); ok {
				if _, found := g.Member(v); !found {
					form.Add("owner_id", apierror.Semantic(apierror.CodeUnknownUserRef, "Unknown member"))
				}
			}
			if v, ok := b.AFKChannelID.Value(); ok {
				checkGuildChannel(g, form, "afk_channel_id", v, isVoice, apierror.CodeAFKChannelNotVoice, "AFK channel must be a voice channel")
			}
			if v, ok := b.SystemChannelID.Value(); ok {
				checkGuildChannel(g, form, "system_channel_id", v, isText, apierror.CodeSystemChannelNotText, "System channel must be a text channel")
			}
			if v, ok := b.RulesChannelID.Value(); ok {
				checkGuildChannel(g, form, "rules_channel_id", v, isText, apierror.CodeSystemChannelNotText, "Rules channel must be a text channel")
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, b *wire.GuildModify) (any, error) {
			g := t.guild
			st := &g.Settings
			var changes changeSet
			if v, ok := b.Name.Value(); ok {
				changes.add("name", g.Name, v)
				g.Name = v
			}
			if b.Description.Set {
				changes.add("description", g.Description, b.Description.Ptr())
				g.Description = b.Description.Ptr()
			}
			if v, ok := b.Region.Value(); ok {
				changes.add("region", st.Region, v)
				st.Region = v
			}
			if v, ok := b.VerificationLevel.Value(); ok {
				changes.add("verification_level", st.VerificationLevel, v)
				st.VerificationLevel = v
			}
			if v, ok := b.DefaultMessageNotifications.Value(); ok {
				changes.add("default_message_notifications", st.DefaultMessageNotifications, v)
				st.DefaultMessageNotifications = v
			}
			if v, ok := b.ExplicitContentFilter.Value(); ok {
				changes.add("explicit_content_filter", st.ExplicitContentFilter, v)
				st.ExplicitContentFilter = v
			}
			if v, ok := b.AFKTimeout.Value(); ok {
				changes.add("afk_timeout", st.AFKTimeout, v)
				st.AFKTimeout = v
			}
			if v, ok := b.SystemChannelFlags.Value(); ok {
				changes.add("system_channel_flags", st.SystemChannelFlags, v)
				st.SystemChannelFlags = v
			}
			if v, ok := b.PreferredLocale.Value(); ok {
				changes.add("preferred_locale", st.PreferredLocale, v)
				st.PreferredLocale = v
			}
			if b.AFKChannelID.Set {
				changes.add("afk_channel_id", g.AFKChannelID, b.AFKChannelID.Ptr())
				g.AFKChannelID = b.AFKChannelID.Ptr()
			}
			if b.SystemChannelID.Set {
				changes.add("system_channel_id", g.SystemChannelID, b.SystemChannelID.Ptr())
				g.SystemChannelID = b.SystemChannelID.Ptr()
			}
			if b.RulesChannelID.Set {
				changes.add("rules_channel_id", g.RulesChannelID, b.RulesChannelID.Ptr())
				g.RulesChannelID = b.RulesChannelID.Ptr()
			}
			if v, ok := b.OwnerID.Value(); ok {
				changes.add("owner_id", g.OwnerID, v)
				g.OwnerID = v
			}
			if len(changes) > 0 {
				s.audit(g, t.req, model.AuditLogGuildUpdate, g.ID, changes, nil)
			}

			out := s.conv.Guild(g)
			s.emit(ctx, nil, gateway.EventGuildUpdate, out)
			return out, nil
		},
	})
}

// deleteGuild removes a guild the requester owns, with its invites and
// webhooks.
func (s *Service) deleteGuild() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			if err := s.memberOf(t); err != nil {
				return err
			}
			if t.req.UserID != t.guild.OwnerID {
				return apierror.New(apierror.MissingPermissions)
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, _ *noBody) (any, error) {
			g := t.guild
			for pair := s.store.Invites.Oldest(); pair != nil; {
				next := pair.Next()
				if pair.Value.GuildID != nil && *pair.Value.GuildID == g.ID {
					s.store.Invites.Delete(pair.Key)
				}
				pair = next
			}
			for _, w := range model.Values(s.store.Webhooks) {
				if w.GuildID != nil && *w.GuildID == g.ID {
					s.store.Webhooks.Delete(w.ID)
				}
			}
			s.store.Guilds.Delete(g.ID)
			s.emit(ctx, nil, gateway.EventGuildDelete, wire.UnavailableGuild{ID: g.ID})
			return nil, nil
		},
	})
}

func (s *Service) listRoles() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.memberOf(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			return s.conv.Roles(t.guild), nil
		},
	})
}

// createRole adds a role. A requester cannot grant permissions it lacks.
func (s *Service) createRole() HandlerFunc {
	return run(s, op[wire.RoleCreate]{
		resolve: s.resolveGuild,
		authorize: func(t *target, b *wire.RoleCreate) error {
			if err := s.guildPermission(t, model.PermissionManageRoles); err != nil {
				return err
			}
			return access.Require(t.subject.Perms, lo.FromPtr(b.Permissions))
		},
		apply: func(ctx context.Context, t *target, b *wire.RoleCreate) (any, error) {
			perms := lo.FromPtrOr(b.Permissions, t.guild.EveryoneRole().Permissions)
			r := s.engine.AddRole(t.guild, defaults.RoleSpec{
				Name:         model.Ptr(lo.FromPtrOr(b.Name, defaults.RoleName)),
				Color:        b.Color,
				Hoist:        b.Hoist,
				UnicodeEmoji: b.UnicodeEmoji,
				Permissions:  &perms,
				Mentionable:  b.Mentionable,
			})
			var changes changeSet
			changes.created("name", r.Name)
			changes.created("permissions", r.Permissions.String())
			changes.created("color", r.Color)
			changes.created("hoist", r.Hoist)
			changes.created("mentionable", r.Mentionable)
			s.audit(t.guild, t.req, model.AuditLogRoleCreate, r.ID, changes, nil)

			out := s.conv.Role(r)
			s.emit(ctx, nil, gateway.EventGuildRoleCreate, wire.GuildRoleEvent{GuildID: t.guild.ID, Role: out})
			return out, nil
		},
	})
}

// memberQuery holds the paging parameters of a member list.
type memberQuery struct {
	Limit int           `json:"-"`
	After *snowflake.ID `json:"-"`
}

func (s *Service) listMembers() HandlerFunc {
	return run(s, op[memberQuery]{
		resolve: s.resolveGuild,
		structural: func(t *target, q *memberQuery, form *apierror.FormErrors) {
			q.Limit = queryInt(t, form, "limit", 1, MaxMemberListLimit, 1)
			q.After = querySnowflake(t, form, "after")
		},
		authorize: func(t *target, _ *memberQuery) error {
			return s.memberOf(t)
		},
		apply: func(_ context.Context, t *target, q *memberQuery) (any, error) {
			members := model.Values(t.guild.Members)
			slices.SortFunc(members, func(a, b *model.Member) int { return cmp.Compare(a.UserID, b.UserID) })
			out := []wire.Member{}
			for _, m := range members {
				if q.After != nil && m.UserID <= *q.After {
					continue
				}
				if len(out) == q.Limit {
					break
				}
				out = append(out, s.conv.Member(m, true))
			}
			return out, nil
		},
	})
}

func (s *Service) resolveMember(t *target) error {
	if err := s.resolveGuild(t); err != nil {
		return err
	}
	id, ok := parseID(t.req.Param("user"))
	if !ok {
		return apierror.New(apierror.UnknownUser)
	}
	m, ok := t.guild.Member(id)
	if !ok {
		return apierror.New(apierror.UnknownMember)
	}
	t.member = m
	return nil
}

func (s *Service) getMember() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveMember,
		authorize: func(t *target, _ *noBody) error {
			return s.memberOf(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			return s.conv.Member(t.member, true), nil
		},
	})
}

// kickMember removes a member. The owner cannot be kicked, and the requester
// must outrank the target.
func (s *Service) kickMember() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveMember,
		authorize: func(t *target, _ *noBody) error {
			if err := s.guildPermission(t, model.PermissionKickMembers); err != nil {
				return err
			}
			kicked := t.member.UserID
			if kicked == t.guild.OwnerID || topPosition(t.guild, t.req.UserID) <= topPosition(t.guild, kicked) {
				return apierror.New(apierror.MissingPermissions)
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, _ *noBody) (any, error) {
			g, id := t.guild, t.member.UserID
			g.Members.Delete(id)
			g.Presences.Delete(id)
			g.VoiceStates.Delete(id)
			s.audit(g, t.req, model.AuditLogMemberKick, id, nil, nil)
			s.emit(ctx, nil, gateway.EventGuildMemberRemove, wire.GuildMemberRemove{
				GuildID: g.ID,
				User:    s.conv.UserByID(id),
			})
			return nil, nil
		},
	})
}

func (s *Service) listEmojis() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.memberOf(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			return s.conv.Emojis(t.guild), nil
		},
	})
}

func (s *Service) resolveEmoji(t *target) error {
	if err := s.resolveGuild(t); err != nil {
		return err
	}
	id, ok := parseID(t.req.Param("emoji"))
	if !ok {
		return apierror.New(apierror.UnknownEmoji)
	}
	e, ok := t.guild.Emoji(id)
	if !ok {
		return apierror.New(apierror.UnknownEmoji)
	}
	t.emoji = e
	return nil
}

func (s *Service) getEmoji() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveEmoji,
		authorize: func(t *target, _ *noBody) error {
			return s.memberOf(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			return s.conv.Emoji(t.emoji), nil
		},
	})
}

func (s *Service) emitEmojis(ctx context.Context, g *model.Guild) {
	s.emit(ctx, nil, gateway.EventGuildEmojisUpdate, wire.GuildEmojisUpdate{GuildID: g.ID, Emojis: s.conv.Emojis(g)})
}

func (s *Service) createEmoji() HandlerFunc {
	return run(s, op[wire.EmojiCreate]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *wire.EmojiCreate) error {
			return s.guildPermission(t, model.PermissionManageEmojisAndStickers)
		},
		check: func(t *target, b *wire.EmojiCreate, form *apierror.FormErrors) error {
			for _, id := range b.Roles {
				if _, ok := t.guild.Role(id); !ok {
					form.Add("roles", apierror.Semantic(apierror.CodeUnknownRoleRef, "Unknown role"))
					break
				}
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, b *wire.EmojiCreate) (any, error) {
			e := s.engine.AddEmoji(t.guild, defaults.EmojiSpec{
				Name:      &b.Name,
				Roles:     b.Roles,
				CreatorID: &t.req.UserID,
				Animated:  model.Ptr(strings.HasPrefix(b.Image, "data:image/gif")),
			})
			var changes changeSet
			changes.created("name", e.Name)
			s.audit(t.guild, t.req, model.AuditLogEmojiCreate, e.ID, changes, nil)
			s.emitEmojis(ctx, t.guild)
			return s.conv.Emoji(e), nil
		},
	})
}

func (s *Service) deleteEmoji() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveEmoji,
		authorize: func(t *target, _ *noBody) error {
			return s.guildPermission(t, model.PermissionManageEmojisAndStickers)
		},
		apply: func(ctx context.Context, t *target, _ *noBody) (any, error) {
			t.guild.Emojis.Delete(t.emoji.ID)
			var changes changeSet
			changes.removed("name", t.emoji.Name)
			s.audit(t.guild, t.req, model.AuditLogEmojiDelete, t.emoji.ID, changes, nil)
			s.emitEmojis(ctx, t.guild)
			return nil, nil
		},
	})
}

// auditQuery holds the filters of an audit log read.
type auditQuery struct {
	Limit      int           `json:"-"`
	UserID     *snowflake.ID `json:"-"`
	ActionType int           `json:"-"`
	Before     *snowflake.ID `json:"-"`
	After      *snowflake.ID `json:"-"`
}

func (q *auditQuery) keep(e *model.AuditLogEntry) bool {
	switch {
	case q.UserID != nil && (e.UserID == nil || *e.UserID != *q.UserID):
		return false
	case q.ActionType != 0 && int(e.ActionType) != q.ActionType:
		return false
	case q.Before != nil && e.ID >= *q.Before:
		return false
	case q.After != nil && e.ID <= *q.After:
		return false
	}
	return true
}

func (s *Service) getAuditLog() HandlerFunc {
	return run(s, op[auditQuery]{
		resolve: s.resolveGuild,
		structural: func(t *target, q *auditQuery, form *apierror.FormErrors) {
			q.Limit = queryInt(t, form, "limit", 1, MaxAuditLogLimit, DefaultAuditLogLimit)
			q.UserID = querySnowflake(t, form, "user_id")
			q.ActionType = queryInt(t, form, "action_type", 0, math.MaxInt32, 0)
			q.Before = querySnowflake(t, form, "before")
			q.After = querySnowflake(t, form, "after")
		},
		authorize: func(t *target, _ *auditQuery) error {
			return s.guildPermission(t, model.PermissionViewAuditLog)
		},
		apply: func(_ context.Context, t *target, q *auditQuery) (any, error) {
			entries := lo.Filter(t.guild.AuditLog, func(e *model.AuditLogEntry, _ int) bool { return q.keep(e) })
			slices.SortFunc(entries, func(a, b *model.AuditLogEntry) int { return cmp.Compare(b.ID, a.ID) })
			return s.conv.AuditLog(t.guild, entries[:min(len(entries), q.Limit)]), nil
		},
	})
}

func (s *Service) listGuildInvites() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.guildPermission(t, model.PermissionManageGuild)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := []wire.Invite{}
			for _, inv := range s.liveInvites() {
				if inv.GuildID != nil && *inv.GuildID == t.guild.ID {
					out = append(out, s.conv.Invite(inv, true))
				}
			}
			return out, nil
		},
	})
}

func (s *Service) listGuildWebhooks() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.guildPermission(t, model.PermissionManageWebhooks)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := []wire.Webhook{}
			for _, w := range model.Values(s.store.Webhooks) {
				if w.GuildID != nil && *w.GuildID == t.guild.ID {
					out = append(out, s.conv.Webhook(w, true))
				}
			}
			return out, nil
		},
	})
}

func (s *Service) voiceRegions() []wire.VoiceRegion {
	out := []wire.VoiceRegion{}
	for pair := s.store.VoiceRegions.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, s.conv.VoiceRegion(pair.Value))
	}
	return out
}

func (s *Service) listGuildRegions() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.memberOf(t)
		},
		apply: func(_ context.Context, _ *target, _ *noBody) (any, error) {
			return s.voiceRegions(), nil
		},
	})
}

func (s *Service) listScheduledEvents() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.memberOf(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := []wire.ScheduledEvent{}
			for _, e := range model.Values(t.guild.ScheduledEvents) {
				out = append(out, s.conv.ScheduledEvent(e))
			}
			return out, nil
		},
	})
}

func (s *Service) getScheduledEvent() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.memberOf(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			id, ok := parseID(t.req.Param("event"))
			if !ok {
				return nil, apierror.New(apierror.UnknownGuildScheduledEvent)
			}
			e, ok := t.guild.ScheduledEvents.Get(id)
			if !ok {
				return nil, apierror.New(apierror.UnknownGuildScheduledEvent)
			}
			return s.conv.ScheduledEvent(e), nil
		},
	})
}

func (s *Service) getWelcomeScreen() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.memberOf(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			if t.guild.WelcomeScreen == nil {
				return nil, apierror.New(apierror.UnknownGuildWelcomeScreen)
			}
			return s.conv.WelcomeScreen(t.guild.WelcomeScreen), nil
		},
	})
}
