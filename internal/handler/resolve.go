// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"strconv"

	"github.com/disgoorg/snowflake/v2"

	"github.com/holomush/simcord/internal/access"
	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/model"
)

// Self is the path segment that stands for the requester.
const Self = "@me"

func parseID(raw string) (snowflake.ID, bool) {
	id, err := snowflake.Parse(raw)
	return id, err == nil && id != 0
}

func (s *Service) resolveGuild(t *target) error {
	id, ok := parseID(t.req.Param("guild"))
	if !ok {
		return apierror.New(apierror.UnknownGuild)
	}
	g, ok := s.store.Guild(id)
	if !ok {
		return apierror.New(apierror.UnknownGuild)
	}
	t.guild = g
	return nil
}

func (s *Service) resolveChannel(t *target) error {
	id, ok := parseID(t.req.Param("channel"))
	if !ok {
		return apierror.New(apierror.UnknownChannel)
	}
	ch, g, ok := s.store.Channel(id)
	if !ok {
		return apierror.New(apierror.UnknownChannel)
	}
	t.channel, t.guild = ch, g
	return nil
}

func (s *Service) resolveMessage(t *target) error {
	if err := s.resolveChannel(t); err != nil {
		return err
	}
	id, ok := parseID(t.req.Param("message"))
	if !ok {
		return apierror.New(apierror.UnknownMessage)
	}
	msg, ok := t.channel.Message(id)
	if !ok {
		return apierror.New(apierror.UnknownMessage)
	}
	t.message = msg
	return nil
}

// memberOf authorizes the requester as a member of the resolved guild.
func (s *Service) memberOf(t *target) error {
	subject, err := access.ForGuild(t.guild, t.req.UserID, nil)
	if err != nil {
		return err
	}
	t.subject = subject
	return nil
}

// guildPermission authorizes a guild-wide permission.
func (s *Service) guildPermission(t *target, required model.Permissions) error {
	if err := s.memberOf(t); err != nil {
		return err
	}
	return access.Require(t.subject.Perms, required)
}

// viewChannel authorizes VIEW_CHANNEL in the resolved channel.
func (s *Service) viewChannel(t *target) error {
	subject, err := access.ForChannel(t.guild, t.channel, t.req.UserID)
	if err != nil {
		return err
	}
	t.subject = subject
	return access.RequireView(subject.Perms)
}

// channelPermission authorizes VIEW_CHANNEL plus required in the resolved
// channel. Private channels have no manageable permissions.
func (s *Service) channelPermission(t *target, required model.Permissions) error {
	if err := s.viewChannel(t); err != nil {
		return err
	}
	return access.Require(t.subject.Perms, required)
}

// queryInt reads an integer query parameter within [lo, hi].
func queryInt(t *target, form *apierror.FormErrors, name string, lo, hi, def int) int {
	raw := t.req.Query.Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		form.Add(name, apierror.FieldError{Code: apierror.CodeNumberCoerce, Message: "Value \"" + raw + "\" is not int."})
	case n < lo:
		form.Add(name, apierror.NumberMin(lo))
	case n > hi:
		form.Add(name, apierror.NumberMax(hi))
	default:
		return n
	}
	return def
}

// querySnowflake reads an optional Snowflake query parameter.
func querySnowflake(t *target, form *apierror.FormErrors, name string) *snowflake.ID {
	raw := t.req.Query.Get(name)
	if raw == "" {
		return nil
	}
	id, err := snowflake.Parse(raw)
	if err != nil {
		form.Add(name, apierror.NotSnowflake(raw))
		return nil
	}
	return &id
}

// queryBool reads a boolean query parameter.
func queryBool(t *target, name string) bool {
	v, _ := strconv.ParseBool(t.req.Query.Get(name))
	return v
}
