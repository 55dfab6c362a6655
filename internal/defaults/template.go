// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package defaults

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/holomush/simcord/internal/model"
)

// Serialize snapshots the structure of g for a template. @everyone becomes
// role 0; the other roles and then the channels take the following indices.
// Threads and member overwrites are not captured.
func Serialize(g *model.Guild) model.TemplateGuild {
	index := map[snowflake.ID]int{g.ID: 0}
	next := 1

	out := model.TemplateGuild{
		Name:                        g.Name,
		Description:                 g.Description,
		VerificationLevel:           g.Settings.VerificationLevel,
		DefaultMessageNotifications: g.Settings.DefaultMessageNotifications,
		ExplicitContentFilter:       g.Settings.ExplicitContentFilter,
		PreferredLocale:             g.Settings.PreferredLocale,
		AFKTimeout:                  g.Settings.AFKTimeout,
		SystemChannelFlags:          g.Settings.SystemChannelFlags,
		IconHash:                    g.Icon,
		Roles:                       []model.TemplateRole{},
		Channels:                    []model.TemplateChannel{},
	}
	if g.Settings.Region != "" {
		out.Region = model.Ptr(g.Settings.Region)
	}

	if everyone := g.EveryoneRole(); everyone != nil {
		out.Roles = append(out.Roles, templateRole(0, everyone))
	}
	for pair := g.Roles.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == g.ID {
			continue
		}
		index[pair.Key] = next
		out.Roles = append(out.Roles, templateRole(next, pair.Value))
		next++
	}

	var channels []*model.Channel
	for pair := g.Channels.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Type.IsThread() {
			continue
		}
		index[pair.Key] = next
		channels = append(channels, pair.Value)
		next++
	}
	for _, ch := range channels {
		out.Channels = append(out.Channels, templateChannel(index, ch))
	}

	out.AFKChannelID = indexOf(index, g.AFKChannelID)
	out.SystemChannelID = indexOf(index, g.SystemChannelID)
	return out
}

func templateRole(id int, r *model.Role) model.TemplateRole {
	return model.TemplateRole{
		ID:          id,
		Name:        r.Name,
		Permissions: r.Permissions,
		Color:       r.Color,
		Hoist:       r.Hoist,
		Mentionable: r.Mentionable,
	}
}

func templateChannel(index map[snowflake.ID]int, ch *model.Channel) model.TemplateChannel {
	tc := model.TemplateChannel{
		ID:                   index[ch.ID],
		Type:                 ch.Type,
		Name:                 ch.Name,
		Position:             ch.Position,
		NSFW:                 ch.NSFW(),
		ParentID:             indexOf(index, ch.ParentID),
		PermissionOverwrites: []model.TemplateOverwrite{},
	}
	if ch.Text != nil {
		tc.Topic = ch.Text.Topic
		tc.RateLimitPerUser = ch.Text.RateLimitPerUser
	}
	if ch.Voice != nil {
		tc.Bitrate = ch.Voice.Bitrate
		tc.UserLimit = ch.Voice.UserLimit
	}
	for pair := ch.Overwrites.Oldest(); pair != nil; pair = pair.Next() {
		ow := pair.Value
		if ow.Type != model.OverwriteTypeRole {
			continue
		}
		id, ok := index[ow.ID]
		if !ok {
			continue
		}
		tc.PermissionOverwrites = append(tc.PermissionOverwrites, model.TemplateOverwrite{
			ID:    id,
			Type:  ow.Type,
			Allow: ow.Allow,
			Deny:  ow.Deny,
		})
	}
	return tc
}

func indexOf(index map[snowflake.ID]int, id *snowflake.ID) *int {
	if id == nil {
		return nil
	}
	i, ok := index[*id]
	if !ok {
		return nil
	}
	return &i
}
