// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler_test

import (
	"net/url"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/handler"
	"github.com/holomush/simcord/internal/ids"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

func (h *harness) post(user snowflake.ID, body map[string]any) wire.Message {
	h.t.Helper()
	out, err := h.call(user, handler.MethodPost, body, "channels", id(textID), "messages")
	require.NoError(h.t, err)
	msg, ok := out.(wire.Message)
	require.True(h.t, ok, "unexpected result %T", out)
	return msg
}

func TestCreateMessage_StoresAndDispatches(t *testing.T) {
	h := newHarness(t)
	msg := h.post(memberID, map[string]any{"content": "hi <@100>"})

	assert.Equal(t, "hi <@100>", msg.Content)
	assert.Equal(t, memberID, msg.Author.ID)
	require.Len(t, msg.Mentions, 1)
	assert.Equal(t, ownerID, msg.Mentions[0].ID)

	_, ok := h.text.Message(msg.ID)
	assert.True(t, ok)
	assert.Len(t, h.events.Named(gateway.EventMessageCreate), 1)
}

func TestCreateMessage_EmptyIsRejected(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(memberID, handler.MethodPost, map[string]any{"content": "   "}, "channels", id(textID), "messages")
	requireAPIError(t, err, apierror.CannotSendEmptyMessage)
	assert.Zero(t, h.events.Len())
}

func TestCreateMessage_OutsiderHasNoAccess(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(outsiderID, handler.MethodPost, map[string]any{"content": "hi"}, "channels", id(textID), "messages")
	requireAPIError(t, err, apierror.MissingAccess)
}

func TestCreateMessage_VoiceChannelHasNoMessages(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(memberID, handler.MethodPost, map[string]any{"content": "hi"}, "channels", id(voiceID), "messages")
	requireAPIError(t, err, apierror.InvalidChannelType)
}

func TestCreateMessage_DeniedSendByOverwrite(t *testing.T) {
	h := newHarness(t)
	if h.text.Overwrites == nil {
		h.text.Overwrites = model.NewMap[*model.Overwrite]()
	}
	h.text.Overwrites.Set(guildID, &model.Overwrite{ID: guildID, Type: model.OverwriteTypeRole, Deny: model.PermissionSendMessages})

	_, err := h.call(memberID, handler.MethodPost, map[string]any{"content": "hi"}, "channels", id(textID), "messages")
	requireAPIError(t, err, apierror.MissingPermissions)

	// The owner is never narrowed by overwrites.
	h.post(ownerID, map[string]any{"content": "still here"})
}

func TestCreateMessage_UnknownReplyTarget(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(memberID, handler.MethodPost, map[string]any{
		"content":           "reply",
		"message_reference": map[string]any{"message_id": "999"},
	}, "channels", id(textID), "messages")
	requireFormError(t, err, "message_reference", apierror.CodeReferenceUnknown)
}

func TestCreateMessage_ReplyWithoutFailDropsReference(t *testing.T) {
	h := newHarness(t)
	msg := h.post(memberID, map[string]any{
		"content":           "reply",
		"message_reference": map[string]any{"message_id": "999", "fail_if_not_exists": false},
	})
	assert.Nil(t, msg.MessageReference)
	assert.Equal(t, model.MessageTypeDefault, msg.Type)
}

func TestCreateMessage_ReplyPingsAuthor(t *testing.T) {
	h := newHarness(t)
	original := h.post(ownerID, map[string]any{"content": "question"})
	reply := h.post(memberID, map[string]any{
		"content":           "answer",
		"message_reference": map[string]any{"message_id": original.ID.String()},
	})

	require.NotNil(t, reply.MessageReference)
	assert.Equal(t, model.MessageTypeReply, reply.Type)
	require.Len(t, reply.Mentions, 1)
	assert.Equal(t, ownerID, reply.Mentions[0].ID)
}

func TestCreateMessage_AllowedMentionsSuppressEveryone(t *testing.T) {
	h := newHarness(t)
	loud := h.post(memberID, map[string]any{"content": "@everyone look"})
	assert.True(t, loud.MentionEveryone)

	quiet := h.post(memberID, map[string]any{
		"content":          "@everyone look",
		"allowed_mentions": map[string]any{"parse": []string{}},
	})
	assert.False(t, quiet.MentionEveryone)
}

func TestCreateMessage_AllowedMentionsExclusive(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(memberID, handler.MethodPost, map[string]any{
		"content":          "hi <@100>",
		"allowed_mentions": map[string]any{"parse": []string{"users"}, "users": []string{"100"}},
	}, "channels", id(textID), "messages")
	requireFormError(t, err, "allowed_mentions", apierror.CodeMentionsParseExclusive)
}

func TestCreateMessage_UploadsReferencedFiles(t *testing.T) {
	h := newHarness(t)
	out, err := h.svc.Handle(t.Context(), &handler.Request{
		Method: handler.MethodPost,
		Path:   []string{"channels", id(textID), "messages"},
		UserID: memberID,
		Body:   []byte(`{"attachments":[{"id":0,"description":"notes"}]}`),
		Files:  []wire.File{{Name: "notes.txt", Data: []byte("hello")}},
	})
	require.NoError(t, err)
	msg := out.(wire.Message)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "notes.txt", msg.Attachments[0].Filename)
	assert.Equal(t, 5, msg.Attachments[0].Size)
}

func TestListMessages_LimitBounds(t *testing.T) {
	h := newHarness(t)
	_, err := h.query(memberID, url.Values{"limit": {"0"}}, "channels", id(textID), "messages")
	requireFormError(t, err, "limit", apierror.CodeNumberMin)
}

func TestListMessages_NewestFirst(t *testing.T) {
	h := newHarness(t)
	first := h.post(memberID, map[string]any{"content": "one"})
	second := h.post(memberID, map[string]any{"content": "two"})

	out, err := h.query(memberID, url.Values{}, "channels", id(textID), "messages")
	require.NoError(t, err)
	msgs := out.([]wire.Message)
	require.Len(t, msgs, 2)
	assert.Equal(t, second.ID, msgs[0].ID)
	assert.Equal(t, first.ID, msgs[1].ID)

	out, err = h.query(memberID, url.Values{"before": {second.ID.String()}}, "channels", id(textID), "messages")
	require.NoError(t, err)
	assert.Len(t, out.([]wire.Message), 1)
}

func TestEditMessage_OnlyAuthorEditsContent(t *testing.T) {
	h := newHarness(t)
	msg := h.post(ownerID, map[string]any{"content": "original"})
	path := []string{"channels", id(textID), "messages", msg.ID.String()}

	_, err := h.call(memberID, handler.MethodPatch, map[string]any{"content": "hijacked"}, path...)
	requireAPIError(t, err, apierror.CannotEditOtherUsersMessage)

	out, err := h.call(ownerID, handler.MethodPatch, map[string]any{"content": "edited"}, path...)
	require.NoError(t, err)
	edited := out.(wire.Message)
	assert.Equal(t, "edited", edited.Content)
	assert.NotNil(t, edited.EditedTimestamp)
	assert.Len(t, h.events.Named(gateway.EventMessageUpdate), 1)
}

func TestDeleteMessage_OtherAuthorNeedsManageMessages(t *testing.T) {
	h := newHarness(t)
	mine := h.post(ownerID, map[string]any{"content": "owner"})
	theirs := h.post(memberID, map[string]any{"content": "member"})

	_, err := h.call(memberID, handler.MethodDelete, nil, "channels", id(textID), "messages", mine.ID.String())
	requireAPIError(t, err, apierror.MissingPermissions)

	before := len(h.guild.AuditLog)
	out, err := h.call(ownerID, handler.MethodDelete, nil, "channels", id(textID), "messages", theirs.ID.String())
	require.NoError(t, err)
	assert.Nil(t, out)
	_, ok := h.text.Message(theirs.ID)
	assert.False(t, ok)
	require.Len(t, h.guild.AuditLog, before+1)
	assert.Equal(t, model.AuditLogMessageDelete, h.guild.AuditLog[before].ActionType)
}

func TestBulkDelete_NeedsTwoMessages(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(ownerID, handler.MethodPost, map[string]any{"messages": []string{"1"}},
		"channels", id(textID), "messages", "bulk-delete")
	requireFormError(t, err, "messages", apierror.CodeMinLength)
}

func TestBulkDelete_RemovesAndDispatchesOnce(t *testing.T) {
	h := newHarness(t)
	a := h.post(memberID, map[string]any{"content": "a"})
	b := h.post(memberID, map[string]any{"content": "b"})

	_, err := h.call(ownerID, handler.MethodPost, map[string]any{"messages": []string{a.ID.String(), b.ID.String()}},
		"channels", id(textID), "messages", "bulk-delete")
	require.NoError(t, err)
	assert.Equal(t, 0, h.text.Messages.Len())
	assert.Len(t, h.events.Named(gateway.EventMessageDeleteBulk), 1)
}

func TestPinMessage_RequiresManageMessages(t *testing.T) {
	h := newHarness(t)
	msg := h.post(memberID, map[string]any{"content": "pin me"})
	path := []string{"channels", id(textID), "pins", msg.ID.String()}

	_, err := h.call(memberID, handler.MethodPut, nil, path...)
	requireAPIError(t, err, apierror.MissingPermissions)

	_, err = h.call(ownerID, handler.MethodPut, nil, path...)
	require.NoError(t, err)
	stored, _ := h.text.Message(msg.ID)
	assert.True(t, stored.Pinned)
	assert.Len(t, h.events.Named(gateway.EventChannelPinsUpdate), 1)

	out, err := h.query(memberID, url.Values{}, "channels", id(textID), "pins")
	require.NoError(t, err)
	assert.Len(t, out.([]wire.Message), 1)
}

func TestPinMessage_LimitReached(t *testing.T) {
	h := newHarness(t)
	for range handler.MaxPins {
		msg := h.post(ownerID, map[string]any{"content": "x"})
		_, err := h.call(ownerID, handler.MethodPut, nil, "channels", id(textID), "pins", msg.ID.String())
		require.NoError(t, err)
	}
	extra := h.post(ownerID, map[string]any{"content": "one too many"})
	_, err := h.call(ownerID, handler.MethodPut, nil, "channels", id(textID), "pins", extra.ID.String())
	requireAPIError(t, err, apierror.MaximumPinsReached)
}

func TestGetMessage_MemberWithoutViewChannel(t *testing.T) {
	h := newHarness(t)
	msg := h.post(ownerID, map[string]any{"content": "secret"})
	if h.text.Overwrites == nil {
		h.text.Overwrites = model.NewMap[*model.Overwrite]()
	}
	h.text.Overwrites.Set(memberID, &model.Overwrite{ID: memberID, Type: model.OverwriteTypeMember, Deny: model.PermissionViewChannel})

	_, err := h.query(memberID, url.Values{}, "channels", id(textID), "messages", msg.ID.String())
	requireAPIError(t, err, apierror.MissingAccess)

	_, err = h.query(ownerID, url.Values{}, "channels", id(textID), "messages", msg.ID.String())
	require.NoError(t, err)
}

func TestEditMessage_ManagerEditsOnlyFlags(t *testing.T) {
	h := newHarness(t)
	mods := h.engine.AddRole(h.guild, defaults.RoleSpec{Permissions: ptr(model.PermissionManageMessages)})
	member, ok := h.guild.Member(memberID)
	require.True(t, ok)
	member.RoleIDs = append(member.RoleIDs, mods.ID)

	msg := h.post(ownerID, map[string]any{"content": "original"})
	path := []string{"channels", id(textID), "messages", msg.ID.String()}

	out, err := h.call(memberID, handler.MethodPatch, map[string]any{"flags": model.MessageFlagSuppressEmbeds}, path...)
	require.NoError(t, err)
	edited := out.(wire.Message)
	assert.Equal(t, model.MessageFlagSuppressEmbeds, edited.Flags)
	assert.Equal(t, "original", edited.Content)

	_, err = h.call(memberID, handler.MethodPatch, map[string]any{"content": "rewritten"}, path...)
	requireAPIError(t, err, apierror.CannotEditOtherUsersMessage)
	stored, ok := h.text.Message(msg.ID)
	require.True(t, ok)
	assert.Equal(t, "original", stored.Content)
}

func TestCreateMessage_MentionsUserAndMentionableRole(t *testing.T) {
	h := newHarness(t)
	role := h.engine.AddRole(h.guild, defaults.RoleSpec{Name: ptr("pingable"), Mentionable: ptr(true)})

	msg := h.post(memberID, map[string]any{"content": "<@" + id(ownerID) + "> hi <@&" + id(role.ID) + ">"})

	require.Len(t, msg.Mentions, 1)
	assert.Equal(t, ownerID, msg.Mentions[0].ID)
	assert.Equal(t, []snowflake.ID{role.ID}, msg.MentionRoles)
}

// stateOf captures what a rejected request must leave untouched.
type stateOf struct {
	ids      ids.State
	guilds   int
	channels int
	roles    int
	messages int
	audit    int
}

func (h *harness) state() stateOf {
	return stateOf{
		ids:      h.store.IDs.State(),
		guilds:   h.store.Guilds.Len(),
		channels: h.guild.Channels.Len(),
		roles:    h.guild.Roles.Len(),
		messages: h.text.Messages.Len(),
		audit:    len(h.guild.AuditLog),
	}
}

func TestRejectedRequestsLeaveStoreUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		user   snowflake.ID
		method handler.Method
		body   any
		path   []string
		def    apierror.Definition
	}{
		{
			name: "guild name too short", user: memberID, method: handler.MethodPost,
			body: map[string]any{"name": "x"}, path: []string{"guilds"},
			def: apierror.InvalidFormBody,
		},
		{
			name: "channel without manage channels", user: memberID, method: handler.MethodPost,
			body: map[string]any{"name": "new"}, path: []string{"guilds", id(guildID), "channels"},
			def: apierror.MissingPermissions,
		},
		{
			name: "message from outsider", user: outsiderID, method: handler.MethodPost,
			body: map[string]any{"content": "hi"}, path: []string{"channels", id(textID), "messages"},
			def: apierror.MissingAccess,
		},
		{
			name: "reply to unknown message", user: memberID, method: handler.MethodPost,
			body: map[string]any{"content": "re", "message_reference": map[string]any{"message_id": "999"}},
			path: []string{"channels", id(textID), "messages"},
			def:  apierror.InvalidFormBody,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.post(ownerID, map[string]any{"content": "seeded"})
			h.events.Reset()
			before := h.state()

			_, err := h.call(tt.user, tt.method, tt.body, tt.path...)
			requireAPIError(t, err, tt.def)

			assert.Equal(t, before, h.state())
			assert.Zero(t, h.events.Len())
		})
	}
}
