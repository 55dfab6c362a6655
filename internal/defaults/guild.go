// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package defaults

import (
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/holomush/simcord/internal/model"
)

// AddGuild builds a guild with all nested collections, normalizes it and
// inserts it into the store. Roles and members are built before channels so
// overwrite targets can be classified.
func (e *Engine) AddGuild(spec GuildSpec) (*model.Guild, error) {
	g := &model.Guild{
		ID:                     e.id(spec.ID),
		Name:                   val(spec.Name, GuildName),
		Icon:                   spec.Icon,
		Splash:                 spec.Splash,
		Banner:                 spec.Banner,
		Description:            spec.Description,
		OwnerID:                val(spec.OwnerID, e.currentUser),
		ApplicationID:          spec.ApplicationID,
		JoinedAt:               val(spec.JoinedAt, e.store.Now()),
		AFKChannelID:           spec.AFKChannelID,
		SystemChannelID:        spec.SystemChannelID,
		RulesChannelID:         spec.RulesChannelID,
		PublicUpdatesChannelID: spec.PublicUpdatesChannelID,
		WidgetChannelID:        spec.WidgetChannelID,
		Settings: model.GuildSettings{
			AFKTimeout:                  val(spec.AFKTimeout, 0),
			VerificationLevel:           val(spec.VerificationLevel, model.VerificationLevelNone),
			DefaultMessageNotifications: val(spec.DefaultMessageNotifications, model.MessageNotificationsAll),
			ExplicitContentFilter:       val(spec.ExplicitContentFilter, model.ExplicitContentFilterDisabled),
			MFALevel:                    val(spec.MFALevel, 0),
			NSFWLevel:                   val(spec.NSFWLevel, 0),
			PremiumTier:                 val(spec.PremiumTier, 0),
			SystemChannelFlags:          val(spec.SystemChannelFlags, 0),
			PreferredLocale:             val(spec.PreferredLocale, ""),
			Region:                      val(spec.Region, ""),
			Features:                    spec.Features,
			WidgetEnabled:               val(spec.WidgetEnabled, false),
			VanityURLCode:               spec.VanityURLCode,
		},
	}
	initGuild(g)

	for _, r := range spec.Roles {
		e.AddRole(g, r)
	}
	for _, m := range spec.Members {
		e.AddMember(g, m)
	}
	for i, c := range spec.Channels {
		if _, err := e.AddChannel(g, c); err != nil {
			return nil, oops.With("channel", i).Wrap(err)
		}
	}
	for _, em := range spec.Emojis {
		e.AddEmoji(g, em)
	}
	for _, st := range spec.Stickers {
		e.AddSticker(g, st)
	}
	for _, vs := range spec.VoiceStates {
		e.AddVoiceState(g, vs)
	}
	for _, p := range spec.Presences {
		e.AddPresence(g, p)
	}
	for i, ev := range spec.ScheduledEvents {
		if _, err := e.AddScheduledEvent(g, ev); err != nil {
			return nil, oops.With("scheduled_event", i).Wrap(err)
		}
	}
	for i, entry := range spec.AuditLog {
		if _, err := e.AddAuditLogEntry(g, entry); err != nil {
			return nil, oops.With("audit_log", i).Wrap(err)
		}
	}
	if spec.WelcomeScreen != nil {
		e.SetWelcomeScreen(g, *spec.WelcomeScreen)
	}

	if err := e.NormalizeGuild(g); err != nil {
		return nil, err
	}
	e.store.Guilds.Set(g.ID, g)

	if spec.Template != nil {
		e.SetTemplate(g, *spec.Template)
	}
	return g, nil
}

func initGuild(g *model.Guild) {
	if g.Roles == nil {
		g.Roles = model.NewMap[*model.Role]()
	}
	if g.Channels == nil {
		g.Channels = model.NewMap[*model.Channel]()
	}
	if g.Members == nil {
		g.Members = model.NewMap[*model.Member]()
	}
	if g.Emojis == nil {
		g.Emojis = model.NewMap[*model.Emoji]()
	}
	if g.Stickers == nil {
		g.Stickers = model.NewMap[*model.Sticker]()
	}
	if g.VoiceStates == nil {
		g.VoiceStates = model.NewMap[*model.VoiceState]()
	}
	if g.Presences == nil {
		g.Presences = model.NewMap[*model.Presence]()
	}
	if g.ScheduledEvents == nil {
		g.ScheduledEvents = model.NewMap[*model.ScheduledEvent]()
	}
	if g.AuditLog == nil {
		g.AuditLog = []*model.AuditLogEntry{}
	}
}

// AddRole builds a role into g. A role whose id equals the guild id is the
// @everyone role.
func (e *Engine) AddRole(g *model.Guild, spec RoleSpec) *model.Role {
	id := e.id(spec.ID)
	everyone := id == g.ID
	r := &model.Role{
		ID:           id,
		Name:         val(spec.Name, lo.Ternary(everyone, EveryoneRoleName, RoleName)),
		Color:        val(spec.Color, 0),
		Hoist:        val(spec.Hoist, false),
		Icon:         spec.Icon,
		UnicodeEmoji: spec.UnicodeEmoji,
		Position:     val(spec.Position, lo.Ternary(everyone, 0, nextRolePosition(g))),
		Permissions:  val(spec.Permissions, model.DefaultPermissions),
		Managed:      val(spec.Managed, spec.BotID != nil),
		Mentionable:  val(spec.Mentionable, false),
	}
	if spec.BotID != nil {
		r.Tags = &model.RoleTags{BotID: spec.BotID}
	}
	g.Roles.Set(r.ID, r)
	return r
}

func nextRolePosition(g *model.Guild) int {
	n := 1
	for pair := g.Roles.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != g.ID {
			n++
		}
	}
	return n
}

// AddMember builds a membership. An inline user is registered; a missing
// user id gets a placeholder user.
func (e *Engine) AddMember(g *model.Guild, spec MemberSpec) *model.Member {
	var userID snowflake.ID
	switch {
	case spec.User != nil:
		userID = e.AddUser(*spec.User).ID
	case spec.UserID != nil && *spec.UserID != 0:
		userID = *spec.UserID
		e.ensureUser(userID)
	default:
		userID = e.AddUser(UserSpec{}).ID
	}
	m := &model.Member{
		UserID:       userID,
		Nick:         spec.Nick,
		Avatar:       spec.Avatar,
		RoleIDs:      cloneIDs(spec.Roles),
		JoinedAt:     val(spec.JoinedAt, e.store.Now()),
		PremiumSince: spec.PremiumSince,
		Deaf:         val(spec.Deaf, false),
		Mute:         val(spec.Mute, false),
		Pending:      val(spec.Pending, false),
	}
	g.Members.Set(m.UserID, m)
	return m
}

// AddEmoji builds a custom emoji.
func (e *Engine) AddEmoji(g *model.Guild, spec EmojiSpec) *model.Emoji {
	em := &model.Emoji{
		ID:            e.id(spec.ID),
		Name:          val(spec.Name, EmojiName),
		RoleIDs:       cloneIDs(spec.Roles),
		CreatorID:     spec.CreatorID,
		RequireColons: true,
		Managed:       val(spec.Managed, false),
		Animated:      val(spec.Animated, false),
		Available:     val(spec.Available, true),
	}
	if em.CreatorID == nil && e.currentUser != 0 {
		em.CreatorID = model.Ptr(e.currentUser)
	}
	g.Emojis.Set(em.ID, em)
	return em
}

// AddSticker builds a guild sticker.
func (e *Engine) AddSticker(g *model.Guild, spec StickerSpec) *model.Sticker {
	name := val(spec.Name, StickerName)
	st := &model.Sticker{
		ID:          e.id(spec.ID),
		Name:        name,
		Description: spec.Description,
		Tags:        val(spec.Tags, name),
		Type:        model.StickerTypeGuild,
		FormatType:  val(spec.FormatType, model.StickerFormatPNG),
		Available:   true,
		GuildID:     model.Ptr(g.ID),
		CreatorID:   spec.CreatorID,
	}
	g.Stickers.Set(st.ID, st)
	return st
}

// AddVoiceState builds a voice state keyed by user. The session id is
// derived from the guild and user so repeated runs agree.
func (e *Engine) AddVoiceState(g *model.Guild, spec VoiceStateSpec) *model.VoiceState {
	userID := val(spec.UserID, e.currentUser)
	vs := &model.VoiceState{
		GuildID:   model.Ptr(g.ID),
		ChannelID: spec.ChannelID,
		UserID:    userID,
		SessionID: val(spec.SessionID, SessionID(g.ID, userID)),
		Deaf:      val(spec.Deaf, false),
		Mute:      val(spec.Mute, false),
		SelfDeaf:  val(spec.SelfDeaf, false),
		SelfMute:  val(spec.SelfMute, false),
		SelfVideo: val(spec.SelfVideo, false),
		Suppress:  val(spec.Suppress, false),
	}
	g.VoiceStates.Set(vs.UserID, vs)
	return vs
}

// SessionID derives a stable 32 character session id from a scope and a
// user.
func SessionID(scope, userID snowflake.ID) string {
	u := uuid.NewSHA1(uuid.NameSpaceOID, []byte(scope.String()+":"+userID.String()))
	return strings.ReplaceAll(u.String(), "-", "")
}

// AddPresence builds a presence keyed by user.
func (e *Engine) AddPresence(g *model.Guild, spec PresenceSpec) *model.Presence {
	status := val(spec.Status, model.StatusOnline)
	p := &model.Presence{
		UserID:       val(spec.UserID, e.currentUser),
		GuildID:      g.ID,
		Status:       status,
		Activities:   []model.Activity{},
		ClientStatus: map[string]string{},
	}
	if status != model.StatusOffline {
		p.ClientStatus["desktop"] = status
	}
	g.Presences.Set(p.UserID, p)
	return p
}

// AddScheduledEvent builds a scheduled event. The entity type defaults to
// external without a channel, otherwise to the kind of the channel.
func (e *Engine) AddScheduledEvent(g *model.Guild, spec ScheduledEventSpec) (*model.ScheduledEvent, error) {
	kind := model.ScheduledEventEntityExternal
	switch {
	case spec.EntityType != nil:
		kind = *spec.EntityType
	case spec.ChannelID != nil:
		kind = model.ScheduledEventEntityVoice
		if ch, ok := g.Channel(*spec.ChannelID); ok && ch.Type == model.ChannelTypeStageVoice {
			kind = model.ScheduledEventEntityStageInstance
		}
	}
	if !kind.IsValid() {
		return nil, oops.Code("SCHEDULED_EVENT_TYPE_INVALID").
			With("entity_type", kind).
			Errorf("unknown scheduled event entity type %d", kind)
	}

	start := val(spec.ScheduledStartTime, e.store.Now().Add(time.Hour))
	ev := &model.ScheduledEvent{
		ID:                 e.id(spec.ID),
		GuildID:            g.ID,
		CreatorID:          spec.CreatorID,
		Name:               val(spec.Name, EventName),
		Description:        spec.Description,
		ScheduledStartTime: start,
		ScheduledEndTime:   spec.ScheduledEndTime,
		PrivacyLevel:       model.ScheduledEventPrivacyGuildOnly,
		Status:             val(spec.Status, model.ScheduledEventStatusScheduled),
		EntityType:         kind,
		UserCount:          val(spec.UserCount, 0),
	}
	if ev.CreatorID == nil && e.currentUser != 0 {
		ev.CreatorID = model.Ptr(e.currentUser)
	}
	if kind == model.ScheduledEventEntityExternal {
		ev.Location = model.Ptr(val(spec.Location, EventLocation))
		if ev.ScheduledEndTime == nil {
			ev.ScheduledEndTime = model.Ptr(start.Add(time.Hour))
		}
	} else {
		// the channel is synthesized during normalization when missing
		ev.ChannelID = spec.ChannelID
		if ev.ChannelID == nil {
			ev.ChannelID = model.Ptr(e.ids.Next())
		}
	}
	g.ScheduledEvents.Set(ev.ID, ev)
	return ev, nil
}

// AddAuditLogEntry appends an entry shaped by its action type: target,
// changes and options are present exactly when the action type carries them.
func (e *Engine) AddAuditLogEntry(g *model.Guild, spec AuditLogEntrySpec) (*model.AuditLogEntry, error) {
	action := val(spec.ActionType, model.AuditLogGuildUpdate)
	if !action.IsValid() {
		return nil, oops.Code("AUDIT_LOG_ACTION_INVALID").
			With("action_type", action).
			Errorf("unknown audit log action type %d", action)
	}
	shape := action.Shape()
	entry := &model.AuditLogEntry{
		ID:         e.id(spec.ID),
		ActionType: action,
		UserID:     model.Ptr(val(spec.UserID, g.OwnerID)),
		Reason:     spec.Reason,
	}
	if shape.Target {
		entry.TargetID = model.Ptr(val(spec.TargetID, g.ID))
	}
	if shape.Changes {
		entry.Changes = append([]model.AuditLogChange{}, spec.Changes...)
	}
	if shape.Options != 0 {
		entry.Options = e.auditOptions(g, entry, shape.Options, spec.Options)
	}
	g.AuditLog = append(g.AuditLog, entry)
	return entry, nil
}

func (e *Engine) auditOptions(g *model.Guild, entry *model.AuditLogEntry, fields model.AuditLogOption, given *model.AuditLogOptions) *model.AuditLogOptions {
	in := model.AuditLogOptions{}
	if given != nil {
		in = *given
	}
	out := &model.AuditLogOptions{}
	if fields&model.OptionChannelID != 0 {
		out.ChannelID = in.ChannelID
		if out.ChannelID == nil {
			out.ChannelID = model.Ptr(g.ID)
			if first := g.Channels.Oldest(); first != nil {
				out.ChannelID = model.Ptr(first.Key)
			}
		}
	}
	if fields&model.OptionCount != 0 {
		out.Count = lo.Ternary(in.Count != nil, in.Count, model.Ptr("1"))
	}
	if fields&model.OptionDeleteMemberDays != 0 {
		out.DeleteMemberDays = lo.Ternary(in.DeleteMemberDays != nil, in.DeleteMemberDays, model.Ptr("1"))
	}
	if fields&model.OptionMembersRemoved != 0 {
		out.MembersRemoved = lo.Ternary(in.MembersRemoved != nil, in.MembersRemoved, model.Ptr("0"))
	}
	if fields&model.OptionMessageID != 0 {
		out.MessageID = in.MessageID
		if out.MessageID == nil {
			out.MessageID = model.Ptr(val(entry.TargetID, g.ID))
		}
	}
	if fields&model.OptionOverwrittenID != 0 {
		out.ID = lo.Ternary(in.ID != nil, in.ID, model.Ptr(g.ID))
	}
	if fields&model.OptionOverwrittenType != 0 {
		out.Type = lo.Ternary(in.Type != nil, in.Type, model.Ptr("0"))
	}
	if fields&model.OptionRoleName != 0 && out.Type != nil && *out.Type == "0" {
		out.RoleName = in.RoleName
		if out.RoleName == nil && out.ID != nil {
			if r, ok := g.Role(*out.ID); ok {
				out.RoleName = model.Ptr(r.Name)
			} else if *out.ID == g.ID {
				out.RoleName = model.Ptr(EveryoneRoleName)
			}
		}
	}
	return out
}

// SetWelcomeScreen replaces the welcome screen. Entries without a channel
// point at a fresh id that normalization backs with a text channel.
func (e *Engine) SetWelcomeScreen(g *model.Guild, spec WelcomeScreenSpec) *model.WelcomeScreen {
	ws := &model.WelcomeScreen{
		Description: spec.Description,
		Channels:    make([]model.WelcomeChannel, 0, len(spec.Channels)),
	}
	for _, c := range spec.Channels {
		var id snowflake.ID
		if c.ChannelID != nil && *c.ChannelID != 0 {
			id = e.id(c.ChannelID)
		} else {
			id = e.ids.Next()
		}
		ws.Channels = append(ws.Channels, model.WelcomeChannel{
			ChannelID:   id,
			Description: val(c.Description, ""),
			EmojiID:     c.EmojiID,
			EmojiName:   c.EmojiName,
		})
	}
	g.WelcomeScreen = ws
	return ws
}

// SetTemplate attaches a template snapshot of g, replacing any existing one.
func (e *Engine) SetTemplate(g *model.Guild, spec TemplateSpec) *model.GuildTemplate {
	code := ""
	if spec.Code != nil {
		code = *spec.Code
		e.ids.ReserveCode(code)
	} else {
		code = e.ids.Code()
	}
	created := val(spec.CreatedAt, e.store.Now())
	t := &model.GuildTemplate{
		Code:          code,
		Name:          val(spec.Name, g.Name),
		Description:   spec.Description,
		UsageCount:    val(spec.UsageCount, 0),
		CreatorID:     val(spec.CreatorID, g.OwnerID),
		CreatedAt:     created,
		UpdatedAt:     created,
		SourceGuildID: g.ID,
		Source:        Serialize(g),
	}
	e.ensureUser(t.CreatorID)
	g.Template = t
	return t
}
