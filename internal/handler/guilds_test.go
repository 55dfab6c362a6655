// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler_test

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/handler"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

func (h *harness) createGuild(body map[string]any) *model.Guild {
	h.t.Helper()
	out, err := h.call(outsiderID, handler.MethodPost, body, "guilds")
	require.NoError(h.t, err)
	g, ok := h.store.Guild(out.(wire.Guild).ID)
	require.True(h.t, ok)
	return g
}

func channelNamed(g *model.Guild, name string) *model.Channel {
	for _, ch := range model.Values(g.Channels) {
		if ch.Name == name {
			return ch
		}
	}
	return nil
}

func TestCreateGuild_DefaultLayout(t *testing.T) {
	h := newHarness(t)
	g := h.createGuild(map[string]any{"name": "Fresh"})

	assert.Equal(t, "Fresh", g.Name)
	assert.Equal(t, outsiderID, g.OwnerID)
	assert.True(t, model.Has(g.Members, outsiderID))
	assert.Equal(t, 4, g.Channels.Len())

	general := channelNamed(g, defaults.TextChannelName)
	require.NotNil(t, general)
	require.NotNil(t, general.ParentID)
	parent, ok := g.Channel(*general.ParentID)
	require.True(t, ok)
	assert.Equal(t, model.ChannelTypeCategory, parent.Type)
	require.NotNil(t, g.SystemChannelID)
	assert.Equal(t, general.ID, *g.SystemChannelID)

	assert.NotNil(t, g.EveryoneRole())
	assert.Len(t, h.events.Named(gateway.EventGuildCreate), 1)
}

func TestCreateGuild_ResolvesPlaceholders(t *testing.T) {
	h := newHarness(t)
	g := h.createGuild(map[string]any{
		"name": "Placeholders",
		"roles": []map[string]any{
			{"id": 0, "permissions": "1024"},
			{"id": 1, "name": "mods"},
		},
		"channels": []map[string]any{
			{"id": 10, "name": "cat", "type": 4},
			{"id": 11, "name": "chat", "type": 0, "parent_id": 10, "permission_overwrites": []map[string]any{
				{"id": 1, "type": 0, "allow": "8192"},
			}},
		},
		"system_channel_id": 11,
	})

	assert.Equal(t, model.PermissionViewChannel, g.EveryoneRole().Permissions)
	var mods *model.Role
	for _, r := range model.Values(g.Roles) {
		if r.Name == "mods" {
			mods = r
		}
	}
	require.NotNil(t, mods)

	chat := channelNamed(g, "chat")
	require.NotNil(t, chat)
	ow, ok := chat.Overwrite(mods.ID)
	require.True(t, ok)
	assert.Equal(t, model.PermissionManageMessages, ow.Allow)
	require.NotNil(t, g.SystemChannelID)
	assert.Equal(t, chat.ID, *g.SystemChannelID)
}

func TestCreateGuild_PlaceholderErrors(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		path string
		code string
	}{
		{
			name: "parent defined after child",
			body: map[string]any{"name": "Bad", "channels": []map[string]any{
				{"id": 1, "name": "child", "parent_id": 2},
				{"id": 2, "name": "cat", "type": 4},
			}},
			path: "channels.0.parent_id",
			code: apierror.CodeParentOrder,
		},
		{
			name: "parent is not a category",
			body: map[string]any{"name": "Bad", "channels": []map[string]any{
				{"id": 1, "name": "text"},
				{"id": 2, "name": "child", "parent_id": 1},
			}},
			path: "channels.1.parent_id",
			code: apierror.CodeParentNotCategory,
		},
		{
			name: "unknown parent",
			body: map[string]any{"name": "Bad", "channels": []map[string]any{
				{"id": 1, "name": "child", "parent_id": 9},
			}},
			path: "channels.0.parent_id",
			code: apierror.CodeUnknownChannelRef,
		},
		{
			name: "overwrite for unknown role",
			body: map[string]any{"name": "Bad", "channels": []map[string]any{
				{"id": 1, "name": "text", "permission_overwrites": []map[string]any{{"id": 5, "type": 0}}},
			}},
			path: "channels.0.permission_overwrites.0.id",
			code: apierror.CodeUnknownRoleRef,
		},
		{
			name: "afk channel is not voice",
			body: map[string]any{"name": "Bad", "channels": []map[string]any{
				{"id": 1, "name": "text"},
			}, "afk_channel_id": 1},
			path: "afk_channel_id",
			code: apierror.CodeAFKChannelNotVoice,
		},
		{
			name: "system channel is not text",
			body: map[string]any{"name": "Bad", "channels": []map[string]any{
				{"id": 1, "name": "voice", "type": 2},
			}, "system_channel_id": 1},
			path: "system_channel_id",
			code: apierror.CodeSystemChannelNotText,
		},
		{
			name: "name too short",
			body: map[string]any{"name": "x"},
			path: "name",
			code: apierror.CodeBadLength,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.call(outsiderID, handler.MethodPost, tt.body, "guilds")
			requireFormError(t, err, tt.path, tt.code)
			assert.Equal(t, 1, h.store.Guilds.Len())
		})
	}
}

func TestCreateGuild_MaximumGuildsReached(t *testing.T) {
	h := newHarness(t, handler.WithMaxGuilds(1))
	_, err := h.call(memberID, handler.MethodPost, map[string]any{"name": "Second"}, "guilds")
	requireAPIError(t, err, apierror.MaximumGuildsReached)

	_, err = h.call(outsiderID, handler.MethodPost, map[string]any{"name": "First"}, "guilds")
	require.NoError(t, err)
}

func TestGetGuild_WithCounts(t *testing.T) {
	h := newHarness(t)
	out, err := h.query(memberID, url.Values{"with_counts": {"true"}}, "guilds", id(guildID))
	require.NoError(t, err)
	g := out.(wire.Guild)
	require.NotNil(t, g.ApproximateMemberCount)
	assert.Equal(t, 2, *g.ApproximateMemberCount)
	require.NotNil(t, g.Permissions)

	_, err = h.query(outsiderID, url.Values{}, "guilds", id(guildID))
	requireAPIError(t, err, apierror.MissingAccess)
}

func TestModifyGuild_AuditsChanges(t *testing.T) {
	h := newHarness(t)
	out, err := h.call(ownerID, handler.MethodPatch, map[string]any{"name": "Renamed", "afk_timeout": 60}, "guilds", id(guildID))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", out.(wire.Guild).Name)

	entry := h.guild.AuditLog[len(h.guild.AuditLog)-1]
	assert.Equal(t, model.AuditLogGuildUpdate, entry.ActionType)
	keys := []string{}
	for _, c := range entry.Changes {
		keys = append(keys, c.Key)
	}
	assert.ElementsMatch(t, []string{"name", "afk_timeout"}, keys)
	assert.Len(t, h.events.Named(gateway.EventGuildUpdate), 1)
}

func TestModifyGuild_Authorization(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(memberID, handler.MethodPatch, map[string]any{"name": "Mine"}, "guilds", id(guildID))
	requireAPIError(t, err, apierror.MissingPermissions)

	admin := h.engine.AddRole(h.guild, defaults.RoleSpec{Permissions: ptr(model.PermissionAdministrator)})
	m, _ := h.guild.Member(memberID)
	m.RoleIDs = append(m.RoleIDs, admin.ID)

	_, err = h.call(memberID, handler.MethodPatch, map[string]any{"name": "Mine"}, "guilds", id(guildID))
	require.NoError(t, err)
	_, err = h.call(memberID, handler.MethodPatch, map[string]any{"owner_id": id(memberID)}, "guilds", id(guildID))
	requireAPIError(t, err, apierror.MissingPermissions)
}

func TestModifyGuild_AFKChannelMustBeVoice(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(ownerID, handler.MethodPatch, map[string]any{"afk_channel_id": id(textID)}, "guilds", id(guildID))
	requireFormError(t, err, "afk_channel_id", apierror.CodeAFKChannelNotVoice)

	_, err = h.call(ownerID, handler.MethodPatch, map[string]any{"afk_channel_id": id(voiceID)}, "guilds", id(guildID))
	require.NoError(t, err)
	assert.Equal(t, voiceID, *h.guild.AFKChannelID)
}

func TestDeleteGuild_OwnerOnly(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(memberID, handler.MethodDelete, nil, "guilds", id(guildID))
	requireAPIError(t, err, apierror.MissingPermissions)

	_, err = h.call(ownerID, handler.MethodDelete, nil, "guilds", id(guildID))
	require.NoError(t, err)
	_, ok := h.store.Guild(guildID)
	assert.False(t, ok)
	assert.Len(t, h.events.Named(gateway.EventGuildDelete), 1)
}

func TestCreateRole_CannotGrantMissingPermissions(t *testing.T) {
	h := newHarness(t)
	managers := h.engine.AddRole(h.guild, defaults.RoleSpec{Permissions: ptr(model.PermissionManageRoles)})
	m, _ := h.guild.Member(memberID)
	m.RoleIDs = append(m.RoleIDs, managers.ID)

	_, err := h.call(memberID, handler.MethodPost, map[string]any{
		"name":        "escalate",
		"permissions": strconv.FormatUint(uint64(model.PermissionAdministrator), 10),
	}, "guilds", id(guildID), "roles")
	requireAPIError(t, err, apierror.MissingPermissions)

	out, err := h.call(memberID, handler.MethodPost, map[string]any{"name": "helpers", "permissions": "0"}, "guilds", id(guildID), "roles")
	require.NoError(t, err)
	assert.Equal(t, "helpers", out.(wire.Role).Name)
	assert.Len(t, h.events.Named(gateway.EventGuildRoleCreate), 1)
}

func TestKickMember(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(memberID, handler.MethodDelete, nil, "guilds", id(guildID), "members", id(ownerID))
	requireAPIError(t, err, apierror.MissingPermissions)

	_, err = h.call(ownerID, handler.MethodDelete, nil, "guilds", id(guildID), "members", id(memberID))
	require.NoError(t, err)
	assert.False(t, model.Has(h.guild.Members, memberID))
	assert.Len(t, h.events.Named(gateway.EventGuildMemberRemove), 1)

	_, err = h.query(ownerID, url.Values{}, "guilds", id(guildID), "members", id(memberID))
	requireAPIError(t, err, apierror.UnknownMember)
}

func TestListMembers_Paging(t *testing.T) {
	h := newHarness(t)
	out, err := h.query(ownerID, url.Values{"limit": {"1000"}}, "guilds", id(guildID), "members")
	require.NoError(t, err)
	assert.Len(t, out.([]wire.Member), 2)

	out, err = h.query(ownerID, url.Values{"limit": {"10"}, "after": {id(ownerID)}}, "guilds", id(guildID), "members")
	require.NoError(t, err)
	require.Len(t, out.([]wire.Member), 1)

	_, err = h.query(ownerID, url.Values{"limit": {"1001"}}, "guilds", id(guildID), "members")
	requireFormError(t, err, "limit", apierror.CodeNumberMax)
}

func TestEmojis_CreateAndDelete(t *testing.T) {
	h := newHarness(t)
	body := map[string]any{"name": "party", "image": "data:image/png;base64,iVBORw0KGgo="}

	_, err := h.call(memberID, handler.MethodPost, body, "guilds", id(guildID), "emojis")
	requireAPIError(t, err, apierror.MissingPermissions)

	out, err := h.call(ownerID, handler.MethodPost, body, "guilds", id(guildID), "emojis")
	require.NoError(t, err)
	emoji := out.(wire.Emoji)
	require.NotNil(t, emoji.ID)

	_, err = h.call(ownerID, handler.MethodDelete, nil, "guilds", id(guildID), "emojis", emoji.ID.String())
	require.NoError(t, err)
	_, err = h.query(ownerID, url.Values{}, "guilds", id(guildID), "emojis", emoji.ID.String())
	requireAPIError(t, err, apierror.UnknownEmoji)
	assert.Len(t, h.events.Named(gateway.EventGuildEmojisUpdate), 2)
}

func TestAuditLog_FiltersAndPermission(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(ownerID, handler.MethodPatch, map[string]any{"name": "One"}, "guilds", id(guildID))
	require.NoError(t, err)
	_, err = h.call(ownerID, handler.MethodPost, map[string]any{"name": "role"}, "guilds", id(guildID), "roles")
	require.NoError(t, err)

	_, err = h.query(memberID, url.Values{}, "guilds", id(guildID), "audit-logs")
	requireAPIError(t, err, apierror.MissingPermissions)

	out, err := h.query(ownerID, url.Values{}, "guilds", id(guildID), "audit-logs")
	require.NoError(t, err)
	all := out.(wire.AuditLog).AuditLogEntries
	require.Len(t, all, 2)
	assert.Equal(t, model.AuditLogRoleCreate, all[0].ActionType)

	out, err = h.query(ownerID, url.Values{"action_type": {"1"}}, "guilds", id(guildID), "audit-logs")
	require.NoError(t, err)
	filtered := out.(wire.AuditLog).AuditLogEntries
	require.Len(t, filtered, 1)
	assert.Equal(t, model.AuditLogGuildUpdate, filtered[0].ActionType)
}

func TestWelcomeScreen_Unknown(t *testing.T) {
	h := newHarness(t)
	_, err := h.query(memberID, url.Values{}, "guilds", id(guildID), "welcome-screen")
	requireAPIError(t, err, apierror.UnknownGuildWelcomeScreen)
}

func TestGuildRegions(t *testing.T) {
	h := newHarness(t)
	out, err := h.query(memberID, url.Values{}, "guilds", id(guildID), "regions")
	require.NoError(t, err)
	assert.NotEmpty(t, out.([]wire.VoiceRegion))
}
