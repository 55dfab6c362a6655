// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/wire"
)

// ResumeGatewayURL is advertised in READY. Nothing listens on it.
const ResumeGatewayURL = "wss://gateway.simcord.invalid"

// Session is what a gateway connection receives on identify: READY, then
// one GUILD_CREATE per guild the user is in.
type Session struct {
	Ready  wire.Ready
	Guilds []wire.GatewayGuild
}

// Session builds the identify payloads for userID.
func (s *Service) Session(userID snowflake.ID) (*Session, error) {
	if userID == 0 {
		userID = s.engine.CurrentUser()
	}
	u, ok := s.store.User(userID)
	if !ok {
		return nil, oops.Code("SESSION_USER_UNKNOWN").With("user_id", userID).Errorf("cannot identify as an unknown user")
	}

	ready := wire.Ready{
		V:                wire.GatewayVersion,
		User:             s.conv.CurrentUser(u),
		Guilds:           []wire.UnavailableGuild{},
		SessionID:        uuid.NewString(),
		ResumeGatewayURL: ResumeGatewayURL,
		PrivateChannels:  []wire.Channel{},
	}
	if app, ok := s.store.Application(); ok {
		ready.Application = &wire.ReadyApplication{ID: app.ID, Flags: app.Flags}
	}
	for _, ch := range s.privateChannelsOf(userID) {
		ready.PrivateChannels = append(ready.PrivateChannels, s.conv.Channel(ch))
	}

	out := &Session{Ready: ready}
	for _, g := range s.store.GuildsOf(userID) {
		out.Ready.Guilds = append(out.Ready.Guilds, wire.UnavailableGuild{ID: g.ID, Unavailable: true})
		out.Guilds = append(out.Guilds, s.conv.GatewayGuild(g))
	}
	return out, nil
}

// Connect identifies userID and dispatches READY followed by one
// GUILD_CREATE per guild.
func (s *Service) Connect(ctx context.Context, userID snowflake.ID) (*Session, error) {
	sess, err := s.Session(userID)
	if err != nil {
		return nil, err
	}
	s.gateway.Dispatch(ctx, gateway.Event{Name: gateway.EventReady, Payload: sess.Ready})
	for _, g := range sess.Guilds {
		s.gateway.Dispatch(ctx, gateway.Event{Name: gateway.EventGuildCreate, Payload: g})
	}
	return sess, nil
}
