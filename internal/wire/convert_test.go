// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package wire_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/store"
	"github.com/holomush/simcord/internal/wire"
)

const (
	ownerID  snowflake.ID = 10
	memberID snowflake.ID = 11
	guildID  snowflake.ID = 100
	textID   snowflake.ID = 200
)

type fixture struct {
	store  *store.Store
	engine *defaults.Engine
	conv   *wire.Converter
	guild  *model.Guild
	text   *model.Channel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.New(store.WithClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }))
	engine := defaults.New(st)
	require.NoError(t, engine.Populate(defaults.StoreSpec{
		Users: []defaults.UserSpec{
			{ID: ptr(ownerID), Username: ptr("owner")},
			{ID: ptr(memberID), Username: ptr("member"), Email: ptr("member@example.test")},
		},
		Guilds: []defaults.GuildSpec{{
			ID:       ptr(guildID),
			Name:     ptr("Converted"),
			OwnerID:  ptr(ownerID),
			Members:  []defaults.MemberSpec{{UserID: ptr(ownerID)}, {UserID: ptr(memberID), Nick: ptr("m")}},
			Channels: []defaults.ChannelSpec{{ID: ptr(textID), Name: ptr("general")}},
		}},
	}))
	g, ok := st.Guild(guildID)
	require.True(t, ok)
	text, ok := g.Channel(textID)
	require.True(t, ok)
	return &fixture{store: st, engine: engine, conv: wire.NewConverter(st), guild: g, text: text}
}

func TestConverter_UserHidesPrivateFields(t *testing.T) {
	f := newFixture(t)
	u, ok := f.store.User(memberID)
	require.True(t, ok)

	assert.Nil(t, f.conv.User(u).Email)
	current := f.conv.CurrentUser(u)
	require.NotNil(t, current.Email)
	assert.Equal(t, "member@example.test", *current.Email)
}

func TestConverter_UserByIDUnknown(t *testing.T) {
	f := newFixture(t)
	u := f.conv.UserByID(999)
	assert.Equal(t, snowflake.ID(999), u.ID)
	assert.Equal(t, "Deleted User", u.Username)
}

func TestConverter_GatewayGuild(t *testing.T) {
	f := newFixture(t)
	out := f.conv.GatewayGuild(f.guild)

	assert.Equal(t, "Converted", out.Name)
	assert.Equal(t, 2, out.MemberCount)
	assert.False(t, out.Large)
	require.Len(t, out.Members, 2)
	require.NotNil(t, out.Members[0].User)
	require.Len(t, out.Channels, 1)
	assert.Empty(t, out.Threads)
	require.Len(t, out.Roles, 1)
	assert.Equal(t, guildID, out.Roles[0].ID)
}

func TestConverter_ChannelEncodesNullables(t *testing.T) {
	f := newFixture(t)
	raw, err := json.Marshal(f.conv.Channel(f.text))
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.JSONEq(t, `null`, string(fields["topic"]))
	assert.JSONEq(t, `null`, string(fields["last_pin_timestamp"]))
	assert.JSONEq(t, `"general"`, string(fields["name"]))
	assert.JSONEq(t, `[]`, string(fields["permission_overwrites"]))
	assert.NotContains(t, fields, "recipients")
}

// encodedFields marshals v and returns its top-level fields.
func encodedFields(t *testing.T, v any) map[string]json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	return fields
}

func TestConverter_EmptyArraysStayPresent(t *testing.T) {
	f := newFixture(t)
	emoji := f.engine.AddEmoji(f.guild, defaults.EmojiSpec{Name: ptr("blob")})

	tests := []struct {
		name  string
		value any
		field string
	}{
		{name: "guild channel overwrites", value: f.conv.Channel(f.text), field: "permission_overwrites"},
		{name: "emoji roles", value: f.conv.Emoji(emoji), field: "roles"},
		{name: "guild stickers", value: f.conv.Guild(f.guild), field: "stickers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := encodedFields(t, tt.value)
			require.Contains(t, fields, tt.field)
			assert.JSONEq(t, `[]`, string(fields[tt.field]))
		})
	}
}

func TestConverter_DMChannelOmitsOverwrites(t *testing.T) {
	f := newFixture(t)
	dm, err := f.engine.AddChannel(nil, defaults.ChannelSpec{
		Type:         ptr(model.ChannelTypeDM),
		RecipientIDs: []snowflake.ID{ownerID, memberID},
	})
	require.NoError(t, err)

	fields := encodedFields(t, f.conv.Channel(dm))
	assert.NotContains(t, fields, "permission_overwrites")
	assert.Contains(t, fields, "recipients")
}

func TestConverter_MessageResolvesReplyOneLevel(t *testing.T) {
	f := newFixture(t)
	first := f.engine.AddMessage(f.text, defaults.MessageSpec{AuthorID: ptr(ownerID), Content: ptr("first")})
	reply := f.engine.AddMessage(f.text, defaults.MessageSpec{
		AuthorID:  ptr(memberID),
		Content:   ptr("second"),
		Type:      ptr(model.MessageTypeReply),
		Reference: &model.MessageReference{MessageID: &first.ID, ChannelID: &f.text.ID},
	})

	out := f.conv.Message(f.text, reply)
	require.NotNil(t, out.Member)
	require.NotNil(t, out.Member.Nick)
	assert.Equal(t, "m", *out.Member.Nick)
	referenced, ok := out.ReferencedMessage.Value()
	require.True(t, ok)
	assert.Equal(t, "first", referenced.Content)
	assert.False(t, referenced.ReferencedMessage.Set)

	f.text.Messages.Delete(first.ID)
	out = f.conv.Message(f.text, reply)
	assert.True(t, out.ReferencedMessage.Set)
	assert.True(t, out.ReferencedMessage.Null)
}

func TestConverter_WebhookAuthor(t *testing.T) {
	f := newFixture(t)
	hook, err := f.engine.AddWebhook(defaults.WebhookSpec{ChannelID: ptr(textID), Name: ptr("ci")})
	require.NoError(t, err)
	msg := f.engine.AddMessage(f.text, defaults.MessageSpec{AuthorID: &hook.ID, WebhookID: &hook.ID, Content: ptr("built")})

	out := f.conv.Message(f.text, msg)
	assert.Equal(t, "ci", out.Author.Username)
	assert.True(t, out.Author.Bot)
	assert.Nil(t, out.Member)

	assert.NotNil(t, f.conv.Webhook(hook, true).Token)
	assert.Nil(t, f.conv.Webhook(hook, false).Token)
}

func TestConverter_AuditLogEntryFollowsShape(t *testing.T) {
	f := newFixture(t)
	target := snowflake.ID(5)
	entry := &model.AuditLogEntry{
		ID:         1,
		ActionType: model.AuditLogMemberKick,
		UserID:     ptr(ownerID),
		TargetID:   &target,
		Changes:    []model.AuditLogChange{{Key: "nick", OldValue: "a"}},
		Options:    &model.AuditLogOptions{Count: ptr("3")},
	}
	out := f.conv.AuditLogEntry(entry)
	require.NotNil(t, out.TargetID)
	assert.Equal(t, "5", *out.TargetID)
	assert.Empty(t, out.Changes)
	assert.Nil(t, out.Options)

	log := f.conv.AuditLog(f.guild, []*model.AuditLogEntry{entry, entry})
	require.Len(t, log.Users, 1)
	assert.Equal(t, ownerID, log.Users[0].ID)
}

func TestPermissionString(t *testing.T) {
	s := wire.PermissionString(model.PermissionAdministrator | model.PermissionKickMembers)
	require.NotNil(t, s)
	assert.Equal(t, "10", *s)
}
