// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package wire

import (
	"strconv"

	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"

	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/store"
)

// LargeThreshold is the member count above which a guild is "large".
const LargeThreshold = 250

// Converter maps store entities to wire shapes. Foreign keys are resolved
// against the store on every call, so output always reflects current state.
type Converter struct {
	store *store.Store
}

// NewConverter creates a converter reading from s.
func NewConverter(s *store.Store) *Converter {
	return &Converter{store: s}
}

// User converts a user to its public form.
func (c *Converter) User(u *model.User) User {
	return User{
		ID:            u.ID,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		GlobalName:    u.GlobalName,
		Avatar:        u.Avatar,
		Bot:           u.Bot,
		System:        u.System,
		Banner:        u.Banner,
		AccentColor:   u.AccentColor,
		PublicFlags:   u.PublicFlags,
	}
}

// CurrentUser converts the authenticated user, including private fields.
func (c *Converter) CurrentUser(u *model.User) User {
	out := c.User(u)
	out.MFAEnabled = lo.ToPtr(u.MFAEnabled)
	out.Verified = lo.ToPtr(u.Verified)
	out.Locale = lo.ToPtr(u.Locale)
	out.Email = u.Email
	out.Flags = lo.ToPtr(u.Flags)
	out.PremiumType = lo.ToPtr(u.PremiumType)
	return out
}

// UserByID resolves and converts a user. Ids the store does not know still
// convert, as a bare user with that id.
func (c *Converter) UserByID(id snowflake.ID) User {
	if u, ok := c.store.User(id); ok {
		return c.User(u)
	}
	return User{ID: id, Username: "Deleted User", Discriminator: "0000"}
}

func (c *Converter) userPtr(id *snowflake.ID) *User {
	if id == nil {
		return nil
	}
	u := c.UserByID(*id)
	return &u
}

// Member converts a guild member. The user is embedded when withUser is set.
func (c *Converter) Member(m *model.Member, withUser bool) Member {
	out := Member{
		Nick:                       m.Nick,
		Avatar:                     m.Avatar,
		Roles:                      append([]snowflake.ID{}, m.RoleIDs...),
		JoinedAt:                   NewTimestamp(m.JoinedAt),
		PremiumSince:               TimestampPtr(m.PremiumSince),
		Deaf:                       m.Deaf,
		Mute:                       m.Mute,
		Pending:                    m.Pending,
		CommunicationDisabledUntil: TimestampPtr(m.CommunicationDisabledUntil),
	}
	if withUser {
		out.User = lo.ToPtr(c.UserByID(m.UserID))
	}
	return out
}

// Role converts a role.
func (c *Converter) Role(r *model.Role) Role {
	out := Role{
		ID:           r.ID,
		Name:         r.Name,
		Color:        r.Color,
		Hoist:        r.Hoist,
		Icon:         r.Icon,
		UnicodeEmoji: r.UnicodeEmoji,
		Position:     r.Position,
		Permissions:  r.Permissions,
		Managed:      r.Managed,
		Mentionable:  r.Mentionable,
	}
	if r.Tags != nil {
		out.Tags = &RoleTags{BotID: r.Tags.BotID, IntegrationID: r.Tags.IntegrationID}
		if r.Tags.PremiumSubscriber {
			out.Tags.PremiumSubscriber = Null[any]()
		}
	}
	return out
}

// Roles converts every role of a guild in store order.
func (c *Converter) Roles(g *model.Guild) []Role {
	return lo.Map(model.Values(g.Roles), func(r *model.Role, _ int) Role {
		return c.Role(r)
	})
}

// Overwrites converts a channel's overwrites.
func (c *Converter) Overwrites(ch *model.Channel) []Overwrite {
	if ch.Overwrites == nil {
		return []Overwrite{}
	}
	return lo.Map(model.Values(ch.Overwrites), func(o *model.Overwrite, _ int) Overwrite {
		return Overwrite{ID: o.ID, Type: o.Type, Allow: o.Allow, Deny: o.Deny}
	})
}

// Channel converts any channel variant.
func (c *Converter) Channel(ch *model.Channel) Channel {
	out := Channel{
		ID:      ch.ID,
		Type:    ch.Type,
		GuildID: ch.GuildID,
	}
	if ch.InGuild() {
		out.Name = lo.ToPtr(ch.Name)
		out.Position = lo.ToPtr(ch.Position)
		out.Flags = lo.ToPtr(ch.Flags)
		if !ch.Type.IsThread() {
			out.PermissionOverwrites = c.Overwrites(ch)
		}
		out.ParentID = FromPtr(ch.ParentID)
	}
	if t := ch.Text; t != nil {
		out.LastMessageID = FromPtr(t.LastMessageID)
		out.RateLimitPerUser = lo.ToPtr(t.RateLimitPerUser)
		if !ch.Type.IsThread() {
			out.Topic = FromPtr(t.Topic)
			out.NSFW = lo.ToPtr(t.NSFW)
			if t.LastPinTimestamp != nil {
				out.LastPinTimestamp = Some(NewTimestamp(*t.LastPinTimestamp))
			} else {
				out.LastPinTimestamp = Null[Timestamp]()
			}
			if t.DefaultAutoArchiveDuration != 0 {
				out.DefaultAutoArchiveDuration = lo.ToPtr(t.DefaultAutoArchiveDuration)
			}
		}
	}
	if v := ch.Voice; v != nil {
		out.Bitrate = lo.ToPtr(v.Bitrate)
		out.UserLimit = lo.ToPtr(v.UserLimit)
		out.RTCRegion = FromPtr(v.RTCRegion)
		out.NSFW = lo.ToPtr(v.NSFW)
		if v.VideoQualityMode != 0 {
			out.VideoQualityMode = lo.ToPtr(v.VideoQualityMode)
		}
	}
	if th := ch.Thread; th != nil {
		out.OwnerID = lo.ToPtr(th.OwnerID)
		out.MessageCount = lo.ToPtr(th.MessageCount)
		out.MemberCount = lo.ToPtr(th.MemberCount)
		out.ThreadMetadata = &ThreadMetadata{
			Archived:            th.Archived,
			AutoArchiveDuration: th.AutoArchiveDuration,
			ArchiveTimestamp:    NewTimestamp(th.ArchiveTimestamp),
			Locked:              th.Locked,
			Invitable:           th.Invitable,
		}
	}
	if dm := ch.DM; dm != nil {
		out.LastMessageID = FromPtr(dm.LastMessageID)
		out.Recipients = lo.Map(dm.RecipientIDs, func(id snowflake.ID, _ int) User {
			return c.UserByID(id)
		})
		if ch.Type == model.ChannelTypeGroupDM {
			out.Name = lo.ToPtr(ch.Name)
			out.Icon = FromPtr(dm.Icon)
			out.OwnerID = dm.OwnerID
		}
	}
	return out
}

// Channels converts a guild's non-thread channels and its threads separately.
func (c *Converter) Channels(g *model.Guild) (channels, threads []Channel) {
	channels = []Channel{}
	threads = []Channel{}
	for _, ch := range model.Values(g.Channels) {
		if ch.Type.IsThread() {
			threads = append(threads, c.Channel(ch))
		} else {
			channels = append(channels, c.Channel(ch))
		}
	}
	return channels, threads
}

// Message converts a message owned by ch. The referenced message is
// resolved one level deep.
func (c *Converter) Message(ch *model.Channel, msg *model.Message) Message {
	return c.message(ch, msg, true)
}

func (c *Converter) message(ch *model.Channel, msg *model.Message, withReference bool) Message {
	var guild *model.Guild
	if ch.GuildID != nil {
		guild, _ = c.store.Guild(*ch.GuildID)
	}

	out := Message{
		ID:              msg.ID,
		ChannelID:       ch.ID,
		GuildID:         ch.GuildID,
		Author:          c.author(msg),
		Content:         msg.Content,
		Timestamp:       NewTimestamp(msg.Timestamp),
		EditedTimestamp: TimestampPtr(msg.EditedTimestamp),
		TTS:             msg.TTS,
		MentionEveryone: msg.MentionEveryone,
		MentionRoles:    append([]snowflake.ID{}, msg.MentionRoleIDs...),
		Attachments:     lo.Map(msg.Attachments, func(a *model.Attachment, _ int) Attachment { return c.Attachment(a) }),
		Embeds:          append([]*model.Embed{}, msg.Embeds...),
		Pinned:          msg.Pinned,
		WebhookID:       msg.WebhookID,
		Type:            msg.Type,
		ApplicationID:   msg.ApplicationID,
		Flags:           msg.Flags,
		Mentions:        []MentionedUser{},
	}
	if msg.Nonce != nil {
		out.Nonce = &IntOrString{String: *msg.Nonce, Quoted: true}
	}
	if guild != nil && msg.WebhookID == nil {
		if m, ok := guild.Member(msg.AuthorID); ok {
			out.Member = lo.ToPtr(c.Member(m, false))
		}
	}
	for _, id := range msg.MentionUserIDs {
		mentioned := MentionedUser{User: c.UserByID(id)}
		if guild != nil {
			if m, ok := guild.Member(id); ok {
				mentioned.Member = lo.ToPtr(c.Member(m, false))
			}
		}
		out.Mentions = append(out.Mentions, mentioned)
	}
	if guild != nil {
		for _, id := range msg.MentionChannelIDs {
			if mc, ok := guild.Channel(id); ok {
				out.MentionChannels = append(out.MentionChannels, ChannelMention{
					ID: mc.ID, GuildID: guild.ID, Type: mc.Type, Name: mc.Name,
				})
			}
		}
	}
	for _, id := range msg.StickerIDs {
		out.StickerItems = append(out.StickerItems, c.stickerItem(guild, id))
	}
	if ref := msg.Reference; ref != nil {
		out.MessageReference = ref
		if withReference && msg.Type == model.MessageTypeReply {
			out.ReferencedMessage = Null[*Message]()
			if ref.MessageID != nil {
				if target, ok := ch.Message(*ref.MessageID); ok {
					converted := c.message(ch, target, false)
					out.ReferencedMessage = Some(&converted)
				}
			}
		}
	}
	return out
}

func (c *Converter) author(msg *model.Message) User {
	if msg.WebhookID != nil {
		if hook, ok := c.store.Webhook(*msg.WebhookID); ok {
			return User{ID: hook.ID, Username: lo.FromPtr(hook.Name), Discriminator: "0000", Avatar: hook.Avatar, Bot: true}
		}
	}
	return c.UserByID(msg.AuthorID)
}

func (c *Converter) stickerItem(guild *model.Guild, id snowflake.ID) StickerItem {
	if guild != nil && guild.Stickers != nil {
		if s, ok := guild.Stickers.Get(id); ok {
			return StickerItem{ID: s.ID, Name: s.Name, FormatType: s.FormatType}
		}
	}
	return StickerItem{ID: id, Name: "", FormatType: model.StickerFormatPNG}
}

// Attachment converts an attachment.
func (c *Converter) Attachment(a *model.Attachment) Attachment {
	out := Attachment{
		ID:          a.ID,
		Filename:    a.Filename,
		Description: a.Description,
		ContentType: a.ContentType,
		Size:        a.Size,
		URL:         a.URL,
		ProxyURL:    a.ProxyURL,
		Ephemeral:   a.Ephemeral,
	}
	if a.Height != nil || a.Width != nil {
		out.Height = FromPtr(a.Height)
		out.Width = FromPtr(a.Width)
	}
	return out
}

// Emoji converts a custom emoji.
func (c *Converter) Emoji(e *model.Emoji) Emoji {
	return Emoji{
		ID:            lo.ToPtr(e.ID),
		Name:          lo.ToPtr(e.Name),
		Roles:         append([]snowflake.ID{}, e.RoleIDs...),
		User:          c.userPtr(e.CreatorID),
		RequireColons: lo.ToPtr(e.RequireColons),
		Managed:       lo.ToPtr(e.Managed),
		Animated:      lo.ToPtr(e.Animated),
		Available:     lo.ToPtr(e.Available),
	}
}

// Emojis converts every custom emoji of a guild.
func (c *Converter) Emojis(g *model.Guild) []Emoji {
	if g.Emojis == nil {
		return []Emoji{}
	}
	return lo.Map(model.Values(g.Emojis), func(e *model.Emoji, _ int) Emoji { return c.Emoji(e) })
}

// Sticker converts a guild sticker.
func (c *Converter) Sticker(s *model.Sticker) Sticker {
	return Sticker{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Tags:        s.Tags,
		Type:        s.Type,
		FormatType:  s.FormatType,
		Available:   lo.ToPtr(s.Available),
		GuildID:     s.GuildID,
		User:        c.userPtr(s.CreatorID),
		SortValue:   s.SortValue,
	}
}

// Guild converts a guild to its REST form.
func (c *Converter) Guild(g *model.Guild) Guild {
	s := g.Settings
	out := Guild{
		ID:                          g.ID,
		Name:                        g.Name,
		Icon:                        g.Icon,
		Splash:                      g.Splash,
		OwnerID:                     g.OwnerID,
		AFKChannelID:                g.AFKChannelID,
		AFKTimeout:                  s.AFKTimeout,
		WidgetEnabled:               lo.ToPtr(s.WidgetEnabled),
		WidgetChannelID:             FromPtr(g.WidgetChannelID),
		VerificationLevel:           s.VerificationLevel,
		DefaultMessageNotifications: s.DefaultMessageNotifications,
		ExplicitContentFilter:       s.ExplicitContentFilter,
		Roles:                       c.Roles(g),
		Emojis:                      c.Emojis(g),
		Features:                    append([]string{}, s.Features...),
		MFALevel:                    s.MFALevel,
		ApplicationID:               g.ApplicationID,
		SystemChannelID:             g.SystemChannelID,
		SystemChannelFlags:          s.SystemChannelFlags,
		RulesChannelID:              g.RulesChannelID,
		MaxMembers:                  lo.ToPtr(s.MaxMembers),
		VanityURLCode:               s.VanityURLCode,
		Description:                 g.Description,
		Banner:                      g.Banner,
		PremiumTier:                 s.PremiumTier,
		PremiumSubscriptionCount:    lo.ToPtr(s.PremiumSubscriptionCount),
		PreferredLocale:             s.PreferredLocale,
		PublicUpdatesChannelID:      g.PublicUpdatesChannelID,
		MaxVideoChannelUsers:        lo.ToPtr(s.MaxVideoChannelUsers),
		NSFWLevel:                   s.NSFWLevel,
		Stickers:                    []Sticker{},
	}
	if s.Region != "" {
		out.Region = lo.ToPtr(s.Region)
	}
	if g.Stickers != nil {
		out.Stickers = lo.Map(model.Values(g.Stickers), func(st *model.Sticker, _ int) Sticker { return c.Sticker(st) })
	}
	if g.WelcomeScreen != nil {
		out.WelcomeScreen = lo.ToPtr(c.WelcomeScreen(g.WelcomeScreen))
	}
	return out
}

// GatewayGuild converts a guild to its GUILD_CREATE form.
func (c *Converter) GatewayGuild(g *model.Guild) GatewayGuild {
	channels, threads := c.Channels(g)
	members := []Member{}
	if g.Members != nil {
		members = lo.Map(model.Values(g.Members), func(m *model.Member, _ int) Member { return c.Member(m, true) })
	}
	out := GatewayGuild{
		Guild:                c.Guild(g),
		JoinedAt:             NewTimestamp(g.JoinedAt),
		Large:                len(members) > LargeThreshold,
		MemberCount:          len(members),
		VoiceStates:          []VoiceState{},
		Members:              members,
		Channels:             channels,
		Threads:              threads,
		Presences:            []Presence{},
		StageInstances:       []any{},
		GuildScheduledEvents: []ScheduledEvent{},
	}
	if g.VoiceStates != nil {
		out.VoiceStates = lo.Map(model.Values(g.VoiceStates), func(v *model.VoiceState, _ int) VoiceState { return c.VoiceState(g, v) })
	}
	if g.Presences != nil {
		out.Presences = lo.Map(model.Values(g.Presences), func(p *model.Presence, _ int) Presence { return c.Presence(p) })
	}
	if g.ScheduledEvents != nil {
		out.GuildScheduledEvents = lo.Map(model.Values(g.ScheduledEvents), func(e *model.ScheduledEvent, _ int) ScheduledEvent {
			return c.ScheduledEvent(e)
		})
	}
	return out
}

// PartialGuild converts a guild to the users/@me/guilds entry for userID.
func (c *Converter) PartialGuild(g *model.Guild, userID snowflake.ID, perms model.Permissions) PartialGuild {
	return PartialGuild{
		ID:          g.ID,
		Name:        g.Name,
		Icon:        g.Icon,
		Owner:       g.OwnerID == userID,
		Permissions: perms,
		Features:    append([]string{}, g.Settings.Features...),
	}
}

// VoiceState converts a voice state.
func (c *Converter) VoiceState(g *model.Guild, v *model.VoiceState) VoiceState {
	out := VoiceState{
		GuildID:                 v.GuildID,
		ChannelID:               v.ChannelID,
		UserID:                  v.UserID,
		SessionID:               v.SessionID,
		Deaf:                    v.Deaf,
		Mute:                    v.Mute,
		SelfDeaf:                v.SelfDeaf,
		SelfMute:                v.SelfMute,
		SelfStream:              v.SelfStream,
		SelfVideo:               v.SelfVideo,
		Suppress:                v.Suppress,
		RequestToSpeakTimestamp: TimestampPtr(v.RequestToSpeakTimestamp),
	}
	if g != nil {
		if m, ok := g.Member(v.UserID); ok {
			out.Member = lo.ToPtr(c.Member(m, true))
		}
	}
	return out
}

// Presence converts a presence.
func (c *Converter) Presence(p *model.Presence) Presence {
	clientStatus := p.ClientStatus
	if clientStatus == nil {
		clientStatus = map[string]string{}
	}
	return Presence{
		User:    PresenceUser{ID: p.UserID},
		GuildID: lo.ToPtr(p.GuildID),
		Status:  p.Status,
		Activities: lo.Map(p.Activities, func(a model.Activity, _ int) Activity {
			return Activity{Name: a.Name, Type: a.Type, URL: a.URL, State: a.State, Details: a.Details, CreatedAt: a.CreatedAt.UnixMilli()}
		}),
		ClientStatus: clientStatus,
	}
}

// ScheduledEvent converts a scheduled event.
func (c *Converter) ScheduledEvent(e *model.ScheduledEvent) ScheduledEvent {
	out := ScheduledEvent{
		ID:                 e.ID,
		GuildID:            e.GuildID,
		ChannelID:          e.ChannelID,
		Name:               e.Name,
		Description:        FromPtr(e.Description),
		ScheduledStartTime: NewTimestamp(e.ScheduledStartTime),
		ScheduledEndTime:   TimestampPtr(e.ScheduledEndTime),
		PrivacyLevel:       e.PrivacyLevel,
		Status:             e.Status,
		EntityType:         e.EntityType,
		EntityID:           e.EntityID,
		UserCount:          lo.ToPtr(e.UserCount),
	}
	if e.CreatorID != nil {
		out.CreatorID = Some(*e.CreatorID)
		out.Creator = c.userPtr(e.CreatorID)
	}
	if e.EntityType == model.ScheduledEventEntityExternal {
		out.EntityMetadata = &EntityMetadata{Location: e.Location}
	}
	return out
}

// WelcomeScreen converts a welcome screen.
func (c *Converter) WelcomeScreen(ws *model.WelcomeScreen) WelcomeScreen {
	return WelcomeScreen{
		Description: ws.Description,
		WelcomeChannels: lo.Map(ws.Channels, func(ch model.WelcomeChannel, _ int) WelcomeChannel {
			return WelcomeChannel{ChannelID: ch.ChannelID, Description: ch.Description, EmojiID: ch.EmojiID, EmojiName: ch.EmojiName}
		}),
	}
}

// Invite converts an invite; metadata fields are included when withMeta.
func (c *Converter) Invite(inv *model.Invite, withMeta bool) Invite {
	out := Invite{
		Code:       inv.Code,
		Inviter:    c.userPtr(inv.InviterID),
		TargetType: inv.TargetType,
		TargetUser: c.userPtr(inv.TargetUserID),
		ExpiresAt:  TimestampPtr(inv.ExpiresAt()),
	}
	if ch, guild, ok := c.store.Channel(inv.ChannelID); ok {
		out.Channel = &InviteChannel{ID: ch.ID, Name: ch.Name, Type: ch.Type}
		if guild != nil {
			out.Guild = &InviteGuild{
				ID:                guild.ID,
				Name:              guild.Name,
				Splash:            guild.Splash,
				Banner:            guild.Banner,
				Description:       guild.Description,
				Icon:              guild.Icon,
				Features:          append([]string{}, guild.Settings.Features...),
				VerificationLevel: guild.Settings.VerificationLevel,
				VanityURLCode:     guild.Settings.VanityURLCode,
				NSFWLevel:         guild.Settings.NSFWLevel,
			}
		}
	}
	if withMeta {
		out.Uses = lo.ToPtr(inv.Uses)
		out.MaxUses = lo.ToPtr(inv.MaxUses)
		out.MaxAge = lo.ToPtr(inv.MaxAge)
		out.Temporary = lo.ToPtr(inv.Temporary)
		out.CreatedAt = lo.ToPtr(NewTimestamp(inv.CreatedAt))
	}
	return out
}

// InviteCreate converts an invite to the INVITE_CREATE payload.
func (c *Converter) InviteCreate(inv *model.Invite) InviteCreate {
	return InviteCreate{
		ChannelID:  inv.ChannelID,
		Code:       inv.Code,
		CreatedAt:  NewTimestamp(inv.CreatedAt),
		GuildID:    inv.GuildID,
		Inviter:    c.userPtr(inv.InviterID),
		MaxAge:     inv.MaxAge,
		MaxUses:    inv.MaxUses,
		TargetType: inv.TargetType,
		TargetUser: c.userPtr(inv.TargetUserID),
		Temporary:  inv.Temporary,
		Uses:       inv.Uses,
	}
}

// Webhook converts a webhook. The token is included only when withToken.
func (c *Converter) Webhook(w *model.Webhook, withToken bool) Webhook {
	out := Webhook{
		ID:            w.ID,
		Type:          w.Type,
		ChannelID:     w.ChannelID,
		User:          c.userPtr(w.CreatorID),
		Name:          w.Name,
		Avatar:        w.Avatar,
		ApplicationID: w.ApplicationID,
	}
	if w.GuildID != nil {
		out.GuildID = Some(*w.GuildID)
	}
	if withToken && w.Type == model.WebhookTypeIncoming {
		out.Token = w.Token
	}
	return out
}

// VoiceRegion converts a voice region.
func (c *Converter) VoiceRegion(r *model.VoiceRegion) VoiceRegion {
	return VoiceRegion{ID: r.ID, Name: r.Name, Optimal: r.Optimal, Deprecated: r.Deprecated, Custom: r.Custom}
}

// Application converts the current application.
func (c *Converter) Application(a *model.Application) Application {
	out := Application{
		ID:                  a.ID,
		Name:                a.Name,
		Icon:                a.Icon,
		Description:         a.Description,
		RPCOrigins:          a.RPCOrigins,
		BotPublic:           a.BotPublic,
		BotRequireCodeGrant: a.BotRequireCodeGrant,
		TermsOfServiceURL:   a.TermsOfServiceURL,
		PrivacyPolicyURL:    a.PrivacyPolicyURL,
		VerifyKey:           a.VerifyKey,
		Flags:               a.Flags,
	}
	if a.Bot != nil {
		out.Bot = lo.ToPtr(c.User(a.Bot))
	}
	if a.OwnerID != 0 {
		out.Owner = c.userPtr(&a.OwnerID)
	}
	return out
}

// AuditLogEntry converts one entry. Only the parts its action type carries
// are emitted.
func (c *Converter) AuditLogEntry(e *model.AuditLogEntry) AuditLogEntry {
	shape := e.ActionType.Shape()
	out := AuditLogEntry{
		ID:         e.ID,
		ActionType: e.ActionType,
		UserID:     e.UserID,
		Reason:     e.Reason,
	}
	if shape.Target && e.TargetID != nil {
		out.TargetID = lo.ToPtr(e.TargetID.String())
	}
	if shape.Changes {
		out.Changes = lo.Map(e.Changes, func(ch model.AuditLogChange, _ int) AuditLogChange {
			return AuditLogChange{Key: ch.Key, OldValue: ch.OldValue, NewValue: ch.NewValue}
		})
	}
	if shape.Options != 0 && e.Options != nil {
		o := e.Options
		out.Options = &AuditLogOptions{
			ChannelID:        o.ChannelID,
			Count:            o.Count,
			DeleteMemberDays: o.DeleteMemberDays,
			ID:               o.ID,
			MembersRemoved:   o.MembersRemoved,
			MessageID:        o.MessageID,
			RoleName:         o.RoleName,
			Type:             o.Type,
		}
	}
	return out
}

// AuditLog converts a list of entries and the users and webhooks they refer to.
func (c *Converter) AuditLog(g *model.Guild, entries []*model.AuditLogEntry) AuditLog {
	out := AuditLog{
		AuditLogEntries:      lo.Map(entries, func(e *model.AuditLogEntry, _ int) AuditLogEntry { return c.AuditLogEntry(e) }),
		GuildScheduledEvents: []ScheduledEvent{},
		Integrations:         []any{},
		Threads:              []Channel{},
		Users:                []User{},
		Webhooks:             []Webhook{},
	}
	seenUsers := map[snowflake.ID]bool{}
	seenHooks := map[snowflake.ID]bool{}
	for _, e := range entries {
		if e.UserID != nil && !seenUsers[*e.UserID] {
			seenUsers[*e.UserID] = true
			out.Users = append(out.Users, c.UserByID(*e.UserID))
		}
		if e.TargetID == nil {
			continue
		}
		switch e.ActionType {
		case model.AuditLogWebhookCreate, model.AuditLogWebhookUpdate:
			if hook, ok := c.store.Webhook(*e.TargetID); ok && !seenHooks[hook.ID] {
				seenHooks[hook.ID] = true
				out.Webhooks = append(out.Webhooks, c.Webhook(hook, false))
			}
		case model.AuditLogThreadCreate, model.AuditLogThreadUpdate:
			if th, ok := g.Channel(*e.TargetID); ok {
				out.Threads = append(out.Threads, c.Channel(th))
			}
		case model.AuditLogGuildScheduledEventCreate, model.AuditLogGuildScheduledEventUpdate:
			if g.ScheduledEvents != nil {
				if ev, ok := g.ScheduledEvents.Get(*e.TargetID); ok {
					out.GuildScheduledEvents = append(out.GuildScheduledEvents, c.ScheduledEvent(ev))
				}
			}
		}
	}
	return out
}

// Template converts a guild template.
func (c *Converter) Template(t *model.GuildTemplate) GuildTemplate {
	return GuildTemplate{
		Code:                  t.Code,
		Name:                  t.Name,
		Description:           t.Description,
		UsageCount:            t.UsageCount,
		CreatorID:             t.CreatorID,
		Creator:               c.UserByID(t.CreatorID),
		CreatedAt:             NewTimestamp(t.CreatedAt),
		UpdatedAt:             NewTimestamp(t.UpdatedAt),
		SourceGuildID:         t.SourceGuildID,
		SerializedSourceGuild: t.Source,
		IsDirty:               t.IsDirty,
	}
}

// PermissionString renders a bitset the way member and guild payloads
// carry it.
func PermissionString(p model.Permissions) *string {
	return lo.ToPtr(strconv.FormatUint(uint64(p), 10))
}
