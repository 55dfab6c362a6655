// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/handler"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/store"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	ownerID    snowflake.ID = 100
	memberID   snowflake.ID = 101
	outsiderID snowflake.ID = 102
	guildID    snowflake.ID = 1000
	textID     snowflake.ID = 2000
	voiceID    snowflake.ID = 2001
)

func ptr[T any](v T) *T { return &v }

// harness is one guild with an owner, a plain member and a text and a voice
// channel, plus a user who belongs nowhere.
type harness struct {
	t      *testing.T
	store  *store.Store
	engine *defaults.Engine
	svc    *handler.Service
	events *gateway.Recorder
	guild  *model.Guild
	text   *model.Channel
}

func newHarness(t *testing.T, opts ...handler.Option) *harness {
	t.Helper()
	st := store.New(store.WithClock(func() time.Time { return epoch }))
	engine := defaults.New(st)
	require.NoError(t, engine.Populate(defaults.StoreSpec{
		Users: []defaults.UserSpec{
			{ID: ptr(ownerID), Username: ptr("owner")},
			{ID: ptr(memberID), Username: ptr("member")},
			{ID: ptr(outsiderID), Username: ptr("outsider")},
		},
		Guilds: []defaults.GuildSpec{{
			ID:      ptr(guildID),
			Name:    ptr("Harness"),
			OwnerID: ptr(ownerID),
			Members: []defaults.MemberSpec{{UserID: ptr(ownerID)}, {UserID: ptr(memberID)}},
			Channels: []defaults.ChannelSpec{
				{ID: ptr(textID), Name: ptr("general"), Type: ptr(model.ChannelTypeText)},
				{ID: ptr(voiceID), Name: ptr("General"), Type: ptr(model.ChannelTypeVoice)},
			},
		}},
	}))

	rec := gateway.NewRecorder()
	opts = append([]handler.Option{handler.WithDispatcher(gateway.NewDispatcher(gateway.WithSink(rec)))}, opts...)
	h := &harness{
		t:      t,
		store:  st,
		engine: engine,
		svc:    handler.New(st, engine, opts...),
		events: rec,
	}
	g, ok := st.Guild(guildID)
	require.True(t, ok)
	h.guild = g
	h.text, _ = g.Channel(textID)
	return h
}

// call runs one request. body is marshaled unless it is already []byte.
func (h *harness) call(user snowflake.ID, method handler.Method, body any, path ...string) (any, error) {
	h.t.Helper()
	req := &handler.Request{Method: method, Path: path, UserID: user, Query: url.Values{}}
	switch b := body.(type) {
	case nil:
	case []byte:
		req.Body = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(h.t, err)
		req.Body = raw
	}
	return h.svc.Handle(context.Background(), req)
}

func (h *harness) query(user snowflake.ID, q url.Values, path ...string) (any, error) {
	h.t.Helper()
	return h.svc.Handle(context.Background(), &handler.Request{Method: handler.MethodGet, Path: path, UserID: user, Query: q})
}

func requireAPIError(t *testing.T, err error, def apierror.Definition) *apierror.Error {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := apierror.As(err)
	require.True(t, ok, "not an API error: %v", err)
	require.Equal(t, def.Name, apiErr.Name, "got %s", apiErr.Error())
	return apiErr
}

func requireFormError(t *testing.T, err error, path, code string) {
	t.Helper()
	apiErr := requireAPIError(t, err, apierror.InvalidFormBody)
	node := apiErr.Form.At(path)
	require.NotNil(t, node, "no error at %q: %s", path, apiErr.Form.String())
	codes := make([]string, 0, len(node.Errors()))
	for _, fe := range node.Errors() {
		codes = append(codes, fe.Code)
	}
	assert.Contains(t, codes, code)
}

func id(v snowflake.ID) string { return v.String() }

func TestHandle_UnknownRoute(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(ownerID, handler.MethodGet, nil, "nowhere", "at", "all")
	requireAPIError(t, err, apierror.UnknownRoute)
}

func TestHandle_MethodNotAllowed(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(ownerID, handler.MethodPut, nil, "channels", id(textID))
	requireAPIError(t, err, apierror.MethodNotAllowed)
}

func TestHandle_ZeroUserIsCurrentUser(t *testing.T) {
	h := newHarness(t)
	out, err := h.call(0, handler.MethodGet, nil, "users", handler.Self)
	require.NoError(t, err)
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"`+h.engine.CurrentUser().String()+`"`)
}

func TestHandle_InvalidJSON(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(memberID, handler.MethodPost, []byte(`{"content":`), "channels", id(textID), "messages")
	requireAPIError(t, err, apierror.InvalidJSON)
}

func TestHandle_WrongJSONTypeIsFormError(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(memberID, handler.MethodPost, []byte(`{"content":5}`), "channels", id(textID), "messages")
	requireFormError(t, err, "content", apierror.CodeBadType)
}

func TestHandle_StructuralErrorsPrecedeAuthorization(t *testing.T) {
	h := newHarness(t)
	long := make([]byte, 2001)
	for i := range long {
		long[i] = 'a'
	}
	_, err := h.call(outsiderID, handler.MethodPost, map[string]any{"content": string(long)}, "channels", id(textID), "messages")
	requireFormError(t, err, "content", apierror.CodeMaxLength)
}

func TestHandle_ResolveFailsBeforeValidation(t *testing.T) {
	h := newHarness(t)
	_, err := h.call(memberID, handler.MethodPost, []byte(`not json`), "channels", "999999", "messages")
	requireAPIError(t, err, apierror.UnknownChannel)
}

func TestRoutes_AreRegistered(t *testing.T) {
	h := newHarness(t)
	names := map[string]bool{}
	for _, r := range h.svc.Routes() {
		names[r.Name] = true
	}
	for _, want := range []string{"messages.create", "guilds.create", "templates.use", "webhooks.execute", "users.me.channels.create"} {
		assert.True(t, names[want], want)
	}
}

func TestSession_ReadyListsGuildsAsUnavailable(t *testing.T) {
	h := newHarness(t)
	sess, err := h.svc.Session(memberID)
	require.NoError(t, err)

	assert.Equal(t, 10, sess.Ready.V)
	assert.Equal(t, memberID, sess.Ready.User.ID)
	require.Len(t, sess.Ready.Guilds, 1)
	assert.True(t, sess.Ready.Guilds[0].Unavailable)
	require.Len(t, sess.Guilds, 1)
	assert.Equal(t, guildID, sess.Guilds[0].ID)
	assert.NotEmpty(t, sess.Ready.SessionID)
}

func TestSession_UnknownUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Session(snowflake.ID(424242))
	assert.Error(t, err)
}
