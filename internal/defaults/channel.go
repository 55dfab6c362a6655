// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package defaults

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/oops"

	"github.com/holomush/simcord/internal/markup"
	"github.com/holomush/simcord/internal/model"
)

// ChannelName is the default name for a channel type.
func ChannelName(t model.ChannelType) string {
	switch {
	case t.IsVoice():
		return VoiceChannelName
	case t == model.ChannelTypeCategory:
		return TextCategoryName
	case t.IsThread():
		return ThreadName
	case t.IsDM():
		return ""
	default:
		return TextChannelName
	}
}

// AddChannel builds a channel of the variant selected by spec.Type, which
// defaults to text inside a guild and DM outside. A nil guild adds a private
// channel.
func (e *Engine) AddChannel(g *model.Guild, spec ChannelSpec) (*model.Channel, error) {
	ch, err := e.buildChannel(g, spec)
	if err != nil {
		return nil, err
	}
	if g == nil {
		e.NormalizeChannel(nil, ch)
		e.store.PrivateChannels.Set(ch.ID, ch)
		return ch, nil
	}
	g.Channels.Set(ch.ID, ch)
	e.NormalizeChannel(g, ch)
	return ch, nil
}

func (e *Engine) buildChannel(g *model.Guild, spec ChannelSpec) (*model.Channel, error) {
	kind := model.ChannelTypeDM
	if g != nil {
		kind = model.ChannelTypeText
	}
	kind = val(spec.Type, kind)
	switch {
	case !kind.IsValid():
		return nil, oops.Code("CHANNEL_TYPE_INVALID").With("type", kind).Errorf("unknown channel type %d", kind)
	case g != nil && kind.IsDM():
		return nil, oops.Code("CHANNEL_TYPE_INVALID").With("type", kind).Errorf("private channel type %d inside a guild", kind)
	case g == nil && !kind.IsDM():
		return nil, oops.Code("CHANNEL_TYPE_INVALID").With("type", kind).Errorf("guild channel type %d outside a guild", kind)
	}

	ch := &model.Channel{
		ID:         e.id(spec.ID),
		Type:       kind,
		Name:       val(spec.Name, ChannelName(kind)),
		ParentID:   spec.ParentID,
		Flags:      val(spec.Flags, 0),
		Overwrites: model.NewMap[*model.Overwrite](),
	}
	if g != nil {
		ch.GuildID = model.Ptr(g.ID)
		if !kind.IsThread() {
			ch.Position = val(spec.Position, nextChannelPosition(g, kind))
		}
	}

	switch {
	case kind.IsVoice():
		ch.Voice = &model.VoiceSettings{
			Bitrate:          val(spec.Bitrate, Bitrate),
			UserLimit:        val(spec.UserLimit, 0),
			RTCRegion:        spec.RTCRegion,
			VideoQualityMode: val(spec.VideoQualityMode, VideoQualityAuto),
			NSFW:             val(spec.NSFW, false),
		}
	case kind == model.ChannelTypeCategory:
	case kind.IsDM():
		ch.DM = &model.DMSettings{
			RecipientIDs: cloneIDs(spec.RecipientIDs),
			Icon:         spec.Icon,
		}
		if kind == model.ChannelTypeGroupDM {
			ch.DM.OwnerID = model.Ptr(val(spec.OwnerID, e.currentUser))
		}
	default:
		ch.Text = &model.TextSettings{
			Topic:                      spec.Topic,
			NSFW:                       val(spec.NSFW, false),
			RateLimitPerUser:           val(spec.RateLimitPerUser, 0),
			DefaultAutoArchiveDuration: val(spec.DefaultAutoArchiveDuration, AutoArchiveDuration),
		}
		if kind.IsThread() {
			ch.Text.Topic = nil
			ch.Thread = &model.ThreadSettings{
				OwnerID:             val(spec.OwnerID, e.currentUser),
				Archived:            val(spec.Archived, false),
				AutoArchiveDuration: val(spec.AutoArchiveDuration, AutoArchiveDuration),
				ArchiveTimestamp:    e.store.Now(),
				Locked:              val(spec.Locked, false),
			}
			if kind == model.ChannelTypePrivateThread {
				ch.Thread.Invitable = model.Ptr(val(spec.Invitable, true))
			}
		}
	}

	if kind.IsTextCapable() {
		ch.Messages = model.NewMap[*model.Message]()
	}
	if !kind.IsThread() && !kind.IsDM() {
		for _, o := range spec.Overwrites {
			ow := e.Overwrite(g, o)
			ch.Overwrites.Set(ow.ID, ow)
		}
	}
	for _, m := range spec.Messages {
		e.AddMessage(ch, m)
	}
	return ch, nil
}

// nextChannelPosition places a new channel after its siblings of the same
// sorting class: categories, text-like and voice-like channels each count
// separately.
func nextChannelPosition(g *model.Guild, kind model.ChannelType) int {
	class := func(t model.ChannelType) int {
		switch {
		case t == model.ChannelTypeCategory:
			return 0
		case t.IsVoice():
			return 1
		default:
			return 2
		}
	}
	n := 0
	for pair := g.Channels.Oldest(); pair != nil; pair = pair.Next() {
		if !pair.Value.Type.IsThread() && class(pair.Value.Type) == class(kind) {
			n++
		}
	}
	return n
}

// Overwrite builds a permission overwrite. The target defaults to @everyone;
// the type defaults to role unless the target is a member and not a role.
func (e *Engine) Overwrite(g *model.Guild, spec OverwriteSpec) *model.Overwrite {
	var target snowflake.ID
	if g != nil {
		target = g.ID
	}
	target = val(spec.ID, target)
	kind := model.OverwriteTypeRole
	if spec.Type != nil {
		kind = *spec.Type
	} else if g != nil && target != g.ID && !model.Has(g.Roles, target) && model.Has(g.Members, target) {
		kind = model.OverwriteTypeMember
	}
	return &model.Overwrite{
		ID:    target,
		Type:  kind,
		Allow: val(spec.Allow, model.PermissionsNone),
		Deny:  val(spec.Deny, model.PermissionsNone),
	}
}

// AddMessage builds a message into ch. The timestamp defaults to the one
// encoded in the id and mentions are parsed from the content when none are
// given. A reference makes the message a reply.
func (e *Engine) AddMessage(ch *model.Channel, spec MessageSpec) *model.Message {
	id := e.id(spec.ID)
	kind := model.MessageTypeDefault
	if spec.Reference != nil {
		kind = model.MessageTypeReply
	}
	content := val(spec.Content, "")
	m := &model.Message{
		ID:              id,
		ChannelID:       ch.ID,
		AuthorID:        val(spec.AuthorID, e.currentUser),
		WebhookID:       spec.WebhookID,
		ApplicationID:   spec.ApplicationID,
		Type:            val(spec.Type, kind),
		Content:         content,
		Timestamp:       val(spec.Timestamp, id.Time()).UTC(),
		EditedTimestamp: spec.EditedTimestamp,
		TTS:             val(spec.TTS, false),
		Pinned:          val(spec.Pinned, false),
		Flags:           val(spec.Flags, 0),
		Nonce:           spec.Nonce,
		MentionEveryone: val(spec.MentionEveryone, false),
		MentionUserIDs:  cloneIDs(spec.Mentions),
		MentionRoleIDs:  cloneIDs(spec.MentionRoles),
		Attachments:     append([]*model.Attachment{}, spec.Attachments...),
		Embeds:          append([]*model.Embed{}, spec.Embeds...),
		StickerIDs:      cloneIDs(spec.StickerIDs),
	}
	if spec.Mentions == nil && spec.MentionRoles == nil && spec.MentionEveryone == nil {
		parsed := markup.Parse(content)
		m.MentionUserIDs = cloneIDs(parsed.Users)
		m.MentionRoleIDs = cloneIDs(parsed.Roles)
		m.MentionEveryone = parsed.Everyone || parsed.Here
	}
	if spec.Reference != nil {
		ref := *spec.Reference
		if ref.ChannelID == nil {
			ref.ChannelID = model.Ptr(ch.ID)
		}
		if ref.GuildID == nil && ch.GuildID != nil {
			ref.GuildID = model.Ptr(*ch.GuildID)
		}
		m.Reference = &ref
	}
	if ch.Messages == nil {
		ch.Messages = model.NewMap[*model.Message]()
	}
	ch.Messages.Set(m.ID, m)
	lastMessage(ch, m.ID)
	if ch.Thread != nil {
		ch.Thread.MessageCount = ch.Messages.Len()
	}
	return m
}

func lastMessage(ch *model.Channel, id snowflake.ID) {
	switch {
	case ch.Text != nil:
		if ch.Text.LastMessageID == nil || *ch.Text.LastMessageID < id {
			ch.Text.LastMessageID = model.Ptr(id)
		}
	case ch.DM != nil:
		if ch.DM.LastMessageID == nil || *ch.DM.LastMessageID < id {
			ch.DM.LastMessageID = model.Ptr(id)
		}
	}
}
