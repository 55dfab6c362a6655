// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/handler"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

func (h *harness) createWebhook(name string) wire.Webhook {
	h.t.Helper()
	out, err := h.call(ownerID, handler.MethodPost, map[string]any{"name": name}, "channels", id(textID), "webhooks")
	require.NoError(h.t, err)
	return out.(wire.Webhook)
}

func (h *harness) execute(w wire.Webhook, token string, wait bool, body map[string]any) (any, error) {
	h.t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(h.t, err)
	q := url.Values{}
	if wait {
		q.Set("wait", "true")
	}
	return h.svc.Handle(context.Background(), &handler.Request{
		Method: handler.MethodPost,
		Path:   []string{"webhooks", id(w.ID), token},
		Query:  q,
		Body:   raw,
	})
}

func TestCreateWebhook(t *testing.T) {
	h := newHarness(t)
	w := h.createWebhook("deploys")

	assert.Equal(t, model.WebhookTypeIncoming, w.Type)
	require.NotNil(t, w.Token)
	require.NotNil(t, w.ChannelID)
	assert.Equal(t, textID, *w.ChannelID)
	assert.Len(t, h.events.Named(gateway.EventWebhooksUpdate), 1)

	entry := h.guild.AuditLog[len(h.guild.AuditLog)-1]
	assert.Equal(t, model.AuditLogWebhookCreate, entry.ActionType)
}

func TestCreateWebhook_Rejections(t *testing.T) {
	h := newHarness(t)

	_, err := h.call(ownerID, handler.MethodPost, map[string]any{"name": "Clyde bot"}, "channels", id(textID), "webhooks")
	requireFormError(t, err, "name", apierror.CodeWebhookNameReserved)

	_, err = h.call(memberID, handler.MethodPost, map[string]any{"name": "hook"}, "channels", id(textID), "webhooks")
	requireAPIError(t, err, apierror.MissingPermissions)

	_, err = h.call(ownerID, handler.MethodPost, map[string]any{"name": "hook"}, "channels", id(voiceID), "webhooks")
	requireAPIError(t, err, apierror.InvalidChannelType)
}

func TestGetWebhook(t *testing.T) {
	h := newHarness(t)
	w := h.createWebhook("deploys")

	_, err := h.query(memberID, url.Values{}, "webhooks", id(w.ID))
	requireAPIError(t, err, apierror.MissingPermissions)

	out, err := h.query(0, url.Values{}, "webhooks", id(w.ID), *w.Token)
	require.NoError(t, err)
	assert.Nil(t, out.(wire.Webhook).User)

	_, err = h.query(0, url.Values{}, "webhooks", id(w.ID), "wrong")
	requireAPIError(t, err, apierror.InvalidWebhookToken)

	_, err = h.query(ownerID, url.Values{}, "webhooks", "42")
	requireAPIError(t, err, apierror.UnknownWebhook)
}

func TestExecuteWebhook(t *testing.T) {
	h := newHarness(t)
	w := h.createWebhook("deploys")

	_, err := h.execute(w, "wrong", false, map[string]any{"content": "hi"})
	requireAPIError(t, err, apierror.InvalidWebhookToken)

	_, err = h.execute(w, *w.Token, false, map[string]any{})
	requireAPIError(t, err, apierror.CannotSendEmptyMessage)

	out, err := h.execute(w, *w.Token, false, map[string]any{"content": "no wait"})
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = h.execute(w, *w.Token, true, map[string]any{"content": "@everyone deployed"})
	require.NoError(t, err)
	msg := out.(wire.Message)
	require.NotNil(t, msg.WebhookID)
	assert.Equal(t, w.ID, *msg.WebhookID)
	assert.Equal(t, w.ID, msg.Author.ID)
	assert.True(t, msg.MentionEveryone)

	stored, ok := h.text.Message(msg.ID)
	require.True(t, ok)
	assert.Equal(t, "@everyone deployed", stored.Content)
	assert.Len(t, h.events.Named(gateway.EventMessageCreate), 2)
}

func TestExecuteWebhook_StructuralBeforeToken(t *testing.T) {
	h := newHarness(t)
	w := h.createWebhook("deploys")
	_, err := h.execute(w, "wrong", false, map[string]any{
		"content":          "hi",
		"allowed_mentions": map[string]any{"parse": []string{"users"}, "users": []string{id(memberID)}},
	})
	requireFormError(t, err, "allowed_mentions", apierror.CodeMentionsParseExclusive)
}

func TestDeleteWebhook(t *testing.T) {
	h := newHarness(t)
	w := h.createWebhook("deploys")

	_, err := h.call(ownerID, handler.MethodDelete, nil, "webhooks", id(w.ID))
	require.NoError(t, err)
	_, ok := h.store.Webhook(w.ID)
	assert.False(t, ok)
	assert.Len(t, h.events.Named(gateway.EventWebhooksUpdate), 2)

	out, err := h.query(ownerID, url.Values{}, "channels", id(textID), "webhooks")
	require.NoError(t, err)
	assert.Empty(t, out.([]wire.Webhook))
}
