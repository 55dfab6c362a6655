// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package defaults

import (
	"dario.cat/mergo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/oops"

	"github.com/holomush/simcord/internal/model"
)

func guildSettingsDefaults() model.GuildSettings {
	return model.GuildSettings{
		AFKTimeout:           AFKTimeout,
		PreferredLocale:      Locale,
		Features:             []string{},
		MaxMembers:           MaxMembers,
		MaxVideoChannelUsers: MaxVideoUsers,
	}
}

// NormalizeGuild fills unset settings, injects foreign keys and synthesizes
// a placeholder for every dangling reference. Running it again changes
// nothing.
func (e *Engine) NormalizeGuild(g *model.Guild) error {
	initGuild(g)
	// Merge only fills zero fields and skips empty source slices.
	if err := mergo.Merge(&g.Settings, guildSettingsDefaults()); err != nil {
		return oops.Code("GUILD_SETTINGS_MERGE_FAILED").With("guild", g.ID.String()).Wrap(err)
	}
	if g.Settings.Features == nil {
		g.Settings.Features = []string{}
	}

	if g.OwnerID == 0 {
		g.OwnerID = e.currentUser
	}
	if _, ok := g.Roles.Get(g.ID); !ok {
		id := g.ID
		everyone := e.AddRole(g, RoleSpec{ID: &id})
		// @everyone always sorts first.
		_ = g.Roles.MoveToFront(everyone.ID)
	}
	if g.OwnerID != 0 {
		e.ensureUser(g.OwnerID)
		if !model.Has(g.Members, g.OwnerID) {
			owner := g.OwnerID
			e.AddMember(g, MemberSpec{UserID: &owner, JoinedAt: model.Ptr(g.JoinedAt)})
		}
	}

	for pair := g.Members.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value
		e.ensureUser(m.UserID)
		if m.RoleIDs == nil {
			m.RoleIDs = []snowflake.ID{}
		}
		for _, id := range m.RoleIDs {
			e.ensureRole(g, id)
		}
	}

	for pair := g.Channels.Oldest(); pair != nil; pair = pair.Next() {
		e.NormalizeChannel(g, pair.Value)
	}

	e.ensureChannel(g, g.AFKChannelID, model.ChannelTypeVoice)
	e.ensureChannel(g, g.SystemChannelID, model.ChannelTypeText)
	e.ensureChannel(g, g.RulesChannelID, model.ChannelTypeText)
	e.ensureChannel(g, g.PublicUpdatesChannelID, model.ChannelTypeText)
	e.ensureChannel(g, g.WidgetChannelID, model.ChannelTypeText)

	for pair := g.VoiceStates.Oldest(); pair != nil; pair = pair.Next() {
		vs := pair.Value
		vs.GuildID = model.Ptr(g.ID)
		e.ensureUser(vs.UserID)
		e.ensureChannel(g, vs.ChannelID, model.ChannelTypeVoice)
	}
	for pair := g.Presences.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.GuildID = g.ID
		e.ensureUser(pair.Value.UserID)
	}
	for pair := g.Stickers.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.GuildID = model.Ptr(g.ID)
	}
	for pair := g.ScheduledEvents.Oldest(); pair != nil; pair = pair.Next() {
		ev := pair.Value
		ev.GuildID = g.ID
		switch ev.EntityType {
		case model.ScheduledEventEntityStageInstance:
			e.ensureChannel(g, ev.ChannelID, model.ChannelTypeStageVoice)
		case model.ScheduledEventEntityVoice:
			e.ensureChannel(g, ev.ChannelID, model.ChannelTypeVoice)
		}
		if ev.CreatorID != nil {
			e.ensureUser(*ev.CreatorID)
		}
	}
	for _, entry := range g.AuditLog {
		if entry.UserID != nil {
			e.ensureUser(*entry.UserID)
		}
	}
	if ws := g.WelcomeScreen; ws != nil {
		if ws.Channels == nil {
			ws.Channels = []model.WelcomeChannel{}
		}
		for _, wc := range ws.Channels {
			e.ensureChannel(g, model.Ptr(wc.ChannelID), model.ChannelTypeText)
			if wc.EmojiID != nil && !model.Has(g.Emojis, *wc.EmojiID) {
				id := *wc.EmojiID
				e.AddEmoji(g, EmojiSpec{ID: &id, Name: wc.EmojiName})
			}
		}
	}
	return nil
}

// NormalizeChannel enforces the variant invariant, injects foreign keys and
// backs parents, overwrite roles and message authors with placeholders. g is
// nil for private channels.
func (e *Engine) NormalizeChannel(g *model.Guild, ch *model.Channel) {
	if ch.Overwrites == nil {
		ch.Overwrites = model.NewMap[*model.Overwrite]()
	}
	if ch.Type.IsTextCapable() && ch.Messages == nil {
		ch.Messages = model.NewMap[*model.Message]()
	}

	switch {
	case ch.Type.IsVoice():
		if ch.Voice == nil {
			ch.Voice = &model.VoiceSettings{VideoQualityMode: VideoQualityAuto}
		}
		if ch.Voice.Bitrate == 0 {
			ch.Voice.Bitrate = Bitrate
		}
		ch.Text, ch.Thread, ch.DM = nil, nil, nil
	case ch.Type == model.ChannelTypeCategory:
		ch.Text, ch.Voice, ch.Thread, ch.DM = nil, nil, nil, nil
	case ch.Type.IsDM():
		if ch.DM == nil {
			ch.DM = &model.DMSettings{}
		}
		ch.Text, ch.Voice, ch.Thread = nil, nil, nil
	default:
		if ch.Text == nil {
			ch.Text = &model.TextSettings{DefaultAutoArchiveDuration: AutoArchiveDuration}
		}
		ch.Voice, ch.DM = nil, nil
		if ch.Type.IsThread() {
			if ch.Thread == nil {
				ch.Thread = &model.ThreadSettings{OwnerID: e.currentUser, ArchiveTimestamp: e.store.Now()}
			}
			if ch.Thread.AutoArchiveDuration == 0 {
				ch.Thread.AutoArchiveDuration = AutoArchiveDuration
			}
		} else {
			ch.Thread = nil
		}
	}

	if g != nil {
		ch.GuildID = model.Ptr(g.ID)
		e.normalizeGuildChannel(g, ch)
	} else {
		ch.GuildID = nil
		e.normalizePrivateChannel(ch)
	}

	if ch.Messages == nil {
		return
	}
	for pair := ch.Messages.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value
		m.ChannelID = ch.ID
		if m.WebhookID == nil {
			e.ensureUser(m.AuthorID)
		}
		lastMessage(ch, m.ID)
	}
}

func (e *Engine) normalizeGuildChannel(g *model.Guild, ch *model.Channel) {
	switch {
	case ch.Type.IsThread():
		if ch.ParentID == nil {
			ch.ParentID = model.Ptr(e.firstTextChannel(g, ch.ID))
		}
		parentType := model.ChannelTypeText
		if ch.Type == model.ChannelTypeNewsThread {
			parentType = model.ChannelTypeNews
		}
		e.ensureChannel(g, ch.ParentID, parentType)
		if ch.Overwrites.Len() > 0 {
			ch.Overwrites = model.NewMap[*model.Overwrite]()
		}
		e.ensureUser(ch.Thread.OwnerID)
	case ch.Type == model.ChannelTypeCategory:
		ch.ParentID = nil
	default:
		e.ensureChannel(g, ch.ParentID, model.ChannelTypeCategory)
	}
	for pair := ch.Overwrites.Oldest(); pair != nil; pair = pair.Next() {
		ow := pair.Value
		switch ow.Type {
		case model.OverwriteTypeRole:
			e.ensureRole(g, ow.ID)
		case model.OverwriteTypeMember:
			e.ensureUser(ow.ID)
		}
	}
}

func (e *Engine) normalizePrivateChannel(ch *model.Channel) {
	if ch.DM.RecipientIDs == nil {
		ch.DM.RecipientIDs = []snowflake.ID{}
	}
	full := ch.Type == model.ChannelTypeDM && len(ch.DM.RecipientIDs) >= 2
	if e.currentUser != 0 && !full && !model.ContainsID(ch.DM.RecipientIDs, e.currentUser) {
		ch.DM.RecipientIDs = append([]snowflake.ID{e.currentUser}, ch.DM.RecipientIDs...)
	}
	if ch.Type == model.ChannelTypeDM && len(ch.DM.RecipientIDs) < 2 {
		ch.DM.RecipientIDs = append(ch.DM.RecipientIDs, e.AddUser(UserSpec{}).ID)
	}
	for _, id := range ch.DM.RecipientIDs {
		e.ensureUser(id)
	}
	if ch.Type == model.ChannelTypeGroupDM {
		if ch.DM.OwnerID == nil {
			ch.DM.OwnerID = model.Ptr(ch.DM.RecipientIDs[0])
		}
	} else {
		ch.DM.OwnerID = nil
	}
	ch.Overwrites = model.NewMap[*model.Overwrite]()
}

// firstTextChannel returns the first text channel of g other than skip, or
// a fresh id for normalization to back with a placeholder.
func (e *Engine) firstTextChannel(g *model.Guild, skip snowflake.ID) snowflake.ID {
	for pair := g.Channels.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != skip && pair.Value.Type == model.ChannelTypeText {
			return pair.Key
		}
	}
	return e.ids.Next()
}

// ensureChannel backs a referenced channel id with a placeholder of the
// given type. A nil reference is left alone.
func (e *Engine) ensureChannel(g *model.Guild, id *snowflake.ID, kind model.ChannelType) {
	if id == nil || *id == 0 || model.Has(g.Channels, *id) {
		return
	}
	cid := *id
	// buildChannel only fails for invalid or private types.
	ch, err := e.buildChannel(g, ChannelSpec{ID: &cid, Type: &kind})
	if err != nil {
		return
	}
	g.Channels.Set(ch.ID, ch)
	e.NormalizeChannel(g, ch)
}

// ensureRole backs a referenced role id with a placeholder role.
func (e *Engine) ensureRole(g *model.Guild, id snowflake.ID) {
	if id == 0 || model.Has(g.Roles, id) {
		return
	}
	e.AddRole(g, RoleSpec{ID: &id})
}
