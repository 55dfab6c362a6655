// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/handler"
	"github.com/holomush/simcord/internal/wire"
)

func (h *harness) createTemplate() wire.GuildTemplate {
	h.t.Helper()
	out, err := h.call(ownerID, handler.MethodPost, map[string]any{"name": "starter"}, "guilds", id(guildID), "templates")
	require.NoError(h.t, err)
	return out.(wire.GuildTemplate)
}

func TestCreateTemplate(t *testing.T) {
	h := newHarness(t)

	_, err := h.call(memberID, handler.MethodPost, map[string]any{"name": "starter"}, "guilds", id(guildID), "templates")
	requireAPIError(t, err, apierror.MissingPermissions)

	tmpl := h.createTemplate()
	assert.Equal(t, "starter", tmpl.Name)
	assert.Equal(t, guildID, tmpl.SourceGuildID)
	assert.Equal(t, ownerID, tmpl.CreatorID)
	require.NotNil(t, tmpl.IsDirty)
	assert.False(t, *tmpl.IsDirty)
	assert.Equal(t, "Harness", tmpl.SerializedSourceGuild.Name)

	_, err = h.call(ownerID, handler.MethodPost, map[string]any{"name": "again"}, "guilds", id(guildID), "templates")
	requireAPIError(t, err, apierror.AlreadyHasTemplate)
}

func TestTemplate_DirtyUntilSynced(t *testing.T) {
	h := newHarness(t)
	tmpl := h.createTemplate()

	_, err := h.call(ownerID, handler.MethodPatch, map[string]any{"name": "Changed"}, "guilds", id(guildID))
	require.NoError(t, err)

	out, err := h.query(outsiderID, url.Values{}, "guilds", "templates", tmpl.Code)
	require.NoError(t, err)
	assert.True(t, *out.(wire.GuildTemplate).IsDirty)
	assert.Nil(t, h.guild.Template.IsDirty)

	out, err = h.call(ownerID, handler.MethodPut, nil, "guilds", id(guildID), "templates", tmpl.Code)
	require.NoError(t, err)
	synced := out.(wire.GuildTemplate)
	assert.False(t, *synced.IsDirty)
	assert.Equal(t, "Changed", synced.SerializedSourceGuild.Name)
}

func TestModifyAndDeleteTemplate(t *testing.T) {
	h := newHarness(t)
	tmpl := h.createTemplate()

	_, err := h.call(ownerID, handler.MethodPatch, map[string]any{"name": "x"}, "guilds", id(guildID), "templates", "nope")
	requireAPIError(t, err, apierror.UnknownGuildTemplate)

	out, err := h.call(ownerID, handler.MethodPatch, map[string]any{"description": "for new servers"}, "guilds", id(guildID), "templates", tmpl.Code)
	require.NoError(t, err)
	modified := out.(wire.GuildTemplate)
	assert.Equal(t, "starter", modified.Name)
	require.NotNil(t, modified.Description)
	assert.Equal(t, "for new servers", *modified.Description)

	_, err = h.call(ownerID, handler.MethodDelete, nil, "guilds", id(guildID), "templates", tmpl.Code)
	require.NoError(t, err)
	assert.Nil(t, h.guild.Template)

	out, err = h.query(ownerID, url.Values{}, "guilds", id(guildID), "templates")
	require.NoError(t, err)
	assert.Empty(t, out.([]wire.GuildTemplate))
}

func TestCreateGuildFromTemplate(t *testing.T) {
	h := newHarness(t)
	tmpl := h.createTemplate()

	out, err := h.call(outsiderID, handler.MethodPost, map[string]any{"name": "Copy"}, "guilds", "templates", tmpl.Code)
	require.NoError(t, err)
	created, ok := h.store.Guild(out.(wire.Guild).ID)
	require.True(t, ok)

	assert.Equal(t, "Copy", created.Name)
	assert.Equal(t, outsiderID, created.OwnerID)
	assert.NotEqual(t, guildID, created.ID)
	assert.Equal(t, h.guild.Channels.Len(), created.Channels.Len())
	assert.NotNil(t, channelNamed(created, "general"))
	assert.Equal(t, h.guild.EveryoneRole().Permissions, created.EveryoneRole().Permissions)
	assert.Equal(t, 1, h.guild.Template.UsageCount)

	_, err = h.call(outsiderID, handler.MethodPost, map[string]any{"name": "Copy"}, "guilds", "templates", "missing")
	requireAPIError(t, err, apierror.UnknownGuildTemplate)
}

func TestCreateGuildFromTemplate_GuildLimit(t *testing.T) {
	h := newHarness(t, handler.WithMaxGuilds(1))
	tmpl := h.createTemplate()
	_, err := h.call(memberID, handler.MethodPost, map[string]any{"name": "Copy"}, "guilds", "templates", tmpl.Code)
	requireAPIError(t, err, apierror.MaximumGuildsReached)
	assert.Equal(t, 0, h.guild.Template.UsageCount)
	assert.Equal(t, 1, h.store.Guilds.Len())
}
