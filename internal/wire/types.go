// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package wire defines the external JSON shapes and converts store entities
// into them.
//
// Field presence follows the platform contract: a pointer with omitempty is
// absent when unset, a pointer without it is always present and may be null,
// and Optional with omitzero covers fields that can be absent or null.
package wire

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/holomush/simcord/internal/model"
)

// User is the public user object.
type User struct {
	ID            snowflake.ID `json:"id"`
	Username      string       `json:"username"`
	Discriminator string       `json:"discriminator"`
	GlobalName    *string      `json:"global_name"`
	Avatar        *string      `json:"avatar"`
	Bot           bool         `json:"bot,omitempty"`
	System        bool         `json:"system,omitempty"`
	MFAEnabled    *bool        `json:"mfa_enabled,omitempty"`
	Banner        *string      `json:"banner,omitempty"`
	AccentColor   *int         `json:"accent_color,omitempty"`
	Locale        *string      `json:"locale,omitempty"`
	Verified      *bool        `json:"verified,omitempty"`
	Email         *string      `json:"email,omitempty"`
	Flags         *int         `json:"flags,omitempty"`
	PremiumType   *int         `json:"premium_type,omitempty"`
	PublicFlags   int          `json:"public_flags"`
}

// Member is a guild member. User is omitted inside MESSAGE_CREATE payloads.
type Member struct {
	User                       *User          `json:"user,omitempty"`
	GuildID                    *snowflake.ID  `json:"guild_id,omitempty"`
	Nick                       *string        `json:"nick"`
	Avatar                     *string        `json:"avatar"`
	Roles                      []snowflake.ID `json:"roles"`
	JoinedAt                   Timestamp      `json:"joined_at"`
	PremiumSince               *Timestamp     `json:"premium_since"`
	Deaf                       bool           `json:"deaf"`
	Mute                       bool           `json:"mute"`
	Pending                    bool           `json:"pending"`
	Permissions                *string        `json:"permissions,omitempty"`
	CommunicationDisabledUntil *Timestamp     `json:"communication_disabled_until"`
}

// RoleTags marks integration and bot roles.
type RoleTags struct {
	BotID             *snowflake.ID `json:"bot_id,omitempty"`
	IntegrationID     *snowflake.ID `json:"integration_id,omitempty"`
	PremiumSubscriber Optional[any] `json:"premium_subscriber,omitzero"`
}

// Role is a guild role.
type Role struct {
	ID           snowflake.ID      `json:"id"`
	Name         string            `json:"name"`
	Color        int               `json:"color"`
	Hoist        bool              `json:"hoist"`
	Icon         *string           `json:"icon"`
	UnicodeEmoji *string           `json:"unicode_emoji"`
	Position     int               `json:"position"`
	Permissions  model.Permissions `json:"permissions"`
	Managed      bool              `json:"managed"`
	Mentionable  bool              `json:"mentionable"`
	Tags         *RoleTags         `json:"tags,omitempty"`
}

// Overwrite is a channel permission overwrite.
type Overwrite struct {
	ID    snowflake.ID        `json:"id"`
	Type  model.OverwriteType `json:"type"`
	Allow model.Permissions   `json:"allow"`
	Deny  model.Permissions   `json:"deny"`
}

// ThreadMetadata belongs to thread channels.
type ThreadMetadata struct {
	Archived            bool      `json:"archived"`
	AutoArchiveDuration int       `json:"auto_archive_duration"`
	ArchiveTimestamp    Timestamp `json:"archive_timestamp"`
	Locked              bool      `json:"locked"`
	Invitable           *bool     `json:"invitable,omitempty"`
}

// Channel is any channel variant. Which fields are present depends on Type.
type Channel struct {
	ID                         snowflake.ID           `json:"id"`
	Type                       model.ChannelType      `json:"type"`
	GuildID                    *snowflake.ID          `json:"guild_id,omitempty"`
	Position                   *int                   `json:"position,omitempty"`
	PermissionOverwrites       []Overwrite            `json:"permission_overwrites,omitzero"`
	Name                       *string                `json:"name,omitempty"`
	Topic                      Optional[string]       `json:"topic,omitzero"`
	NSFW                       *bool                  `json:"nsfw,omitempty"`
	LastMessageID              Optional[snowflake.ID] `json:"last_message_id,omitzero"`
	Bitrate                    *int                   `json:"bitrate,omitempty"`
	UserLimit                  *int                   `json:"user_limit,omitempty"`
	RateLimitPerUser           *int                   `json:"rate_limit_per_user,omitempty"`
	Recipients                 []User                 `json:"recipients,omitempty"`
	Icon                       Optional[string]       `json:"icon,omitzero"`
	OwnerID                    *snowflake.ID          `json:"owner_id,omitempty"`
	ParentID                   Optional[snowflake.ID] `json:"parent_id,omitzero"`
	LastPinTimestamp           Optional[Timestamp]    `json:"last_pin_timestamp,omitzero"`
	RTCRegion                  Optional[string]       `json:"rtc_region,omitzero"`
	VideoQualityMode           *int                   `json:"video_quality_mode,omitempty"`
	MessageCount               *int                   `json:"message_count,omitempty"`
	MemberCount                *int                   `json:"member_count,omitempty"`
	ThreadMetadata             *ThreadMetadata        `json:"thread_metadata,omitempty"`
	DefaultAutoArchiveDuration *int                   `json:"default_auto_archive_duration,omitempty"`
	Permissions                *model.Permissions     `json:"permissions,omitempty"`
	Flags                      *int                   `json:"flags,omitempty"`
}

// Attachment is a message attachment.
type Attachment struct {
	ID          snowflake.ID  `json:"id"`
	Filename    string        `json:"filename"`
	Description *string       `json:"description,omitempty"`
	ContentType *string       `json:"content_type,omitempty"`
	Size        int           `json:"size"`
	URL         string        `json:"url"`
	ProxyURL    string        `json:"proxy_url"`
	Height      Optional[int] `json:"height,omitzero"`
	Width       Optional[int] `json:"width,omitzero"`
	Ephemeral   bool          `json:"ephemeral,omitempty"`
}

// ChannelMention is an entry of mention_channels.
type ChannelMention struct {
	ID      snowflake.ID      `json:"id"`
	GuildID snowflake.ID      `json:"guild_id"`
	Type    model.ChannelType `json:"type"`
	Name    string            `json:"name"`
}

// StickerItem is the compact sticker form carried by messages.
type StickerItem struct {
	ID         snowflake.ID `json:"id"`
	Name       string       `json:"name"`
	FormatType int          `json:"format_type"`
}

// MentionedUser is a user in a message's mentions list, with the guild
// member attached when known.
type MentionedUser struct {
	User
	Member *Member `json:"member,omitempty"`
}

// Message is a channel message.
type Message struct {
	ID                snowflake.ID            `json:"id"`
	ChannelID         snowflake.ID            `json:"channel_id"`
	GuildID           *snowflake.ID           `json:"guild_id,omitempty"`
	Author            User                    `json:"author"`
	Member            *Member                 `json:"member,omitempty"`
	Content           string                  `json:"content"`
	Timestamp         Timestamp               `json:"timestamp"`
	EditedTimestamp   *Timestamp              `json:"edited_timestamp"`
	TTS               bool                    `json:"tts"`
	MentionEveryone   bool                    `json:"mention_everyone"`
	Mentions          []MentionedUser         `json:"mentions"`
	MentionRoles      []snowflake.ID          `json:"mention_roles"`
	MentionChannels   []ChannelMention        `json:"mention_channels,omitempty"`
	Attachments       []Attachment            `json:"attachments"`
	Embeds            []*model.Embed          `json:"embeds"`
	Pinned            bool                    `json:"pinned"`
	WebhookID         *snowflake.ID           `json:"webhook_id,omitempty"`
	Type              model.MessageType       `json:"type"`
	ApplicationID     *snowflake.ID           `json:"application_id,omitempty"`
	Flags             int                     `json:"flags"`
	Nonce             *IntOrString            `json:"nonce,omitempty"`
	MessageReference  *model.MessageReference `json:"message_reference,omitempty"`
	ReferencedMessage Optional[*Message]      `json:"referenced_message,omitzero"`
	StickerItems      []StickerItem           `json:"sticker_items,omitempty"`
}

// Emoji is a custom guild emoji.
type Emoji struct {
	ID            *snowflake.ID  `json:"id"`
	Name          *string        `json:"name"`
	Roles         []snowflake.ID `json:"roles,omitzero"`
	User          *User          `json:"user,omitempty"`
	RequireColons *bool          `json:"require_colons,omitempty"`
	Managed       *bool          `json:"managed,omitempty"`
	Animated      *bool          `json:"animated,omitempty"`
	Available     *bool          `json:"available,omitempty"`
}

// Sticker is a guild sticker.
type Sticker struct {
	ID          snowflake.ID  `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Tags        string        `json:"tags"`
	Type        int           `json:"type"`
	FormatType  int           `json:"format_type"`
	Available   *bool         `json:"available,omitempty"`
	GuildID     *snowflake.ID `json:"guild_id,omitempty"`
	User        *User         `json:"user,omitempty"`
	SortValue   *int          `json:"sort_value,omitempty"`
}

// WelcomeChannel is one entry of a welcome screen.
type WelcomeChannel struct {
	ChannelID   snowflake.ID  `json:"channel_id"`
	Description string        `json:"description"`
	EmojiID     *snowflake.ID `json:"emoji_id"`
	EmojiName   *string       `json:"emoji_name"`
}

// WelcomeScreen is a guild's welcome screen.
type WelcomeScreen struct {
	Description     *string          `json:"description"`
	WelcomeChannels []WelcomeChannel `json:"welcome_channels"`
}

// Guild is the REST guild object.
type Guild struct {
	ID                          snowflake.ID           `json:"id"`
	Name                        string                 `json:"name"`
	Icon                        *string                `json:"icon"`
	Splash                      *string                `json:"splash"`
	DiscoverySplash             *string                `json:"discovery_splash"`
	OwnerID                     snowflake.ID           `json:"owner_id"`
	Permissions                 *string                `json:"permissions,omitempty"`
	Region                      *string                `json:"region,omitempty"`
	AFKChannelID                *snowflake.ID          `json:"afk_channel_id"`
	AFKTimeout                  int                    `json:"afk_timeout"`
	WidgetEnabled               *bool                  `json:"widget_enabled,omitempty"`
	WidgetChannelID             Optional[snowflake.ID] `json:"widget_channel_id,omitzero"`
	VerificationLevel           int                    `json:"verification_level"`
	DefaultMessageNotifications int                    `json:"default_message_notifications"`
	ExplicitContentFilter       int                    `json:"explicit_content_filter"`
	Roles                       []Role                 `json:"roles"`
	Emojis                      []Emoji                `json:"emojis"`
	Features                    []string               `json:"features"`
	MFALevel                    int                    `json:"mfa_level"`
	ApplicationID               *snowflake.ID          `json:"application_id"`
	SystemChannelID             *snowflake.ID          `json:"system_channel_id"`
	SystemChannelFlags          int                    `json:"system_channel_flags"`
	RulesChannelID              *snowflake.ID          `json:"rules_channel_id"`
	MaxMembers                  *int                   `json:"max_members,omitempty"`
	VanityURLCode               *string                `json:"vanity_url_code"`
	Description                 *string                `json:"description"`
	Banner                      *string                `json:"banner"`
	PremiumTier                 int                    `json:"premium_tier"`
	PremiumSubscriptionCount    *int                   `json:"premium_subscription_count,omitempty"`
	PreferredLocale             string                 `json:"preferred_locale"`
	PublicUpdatesChannelID      *snowflake.ID          `json:"public_updates_channel_id"`
	MaxVideoChannelUsers        *int                   `json:"max_video_channel_users,omitempty"`
	NSFWLevel                   int                    `json:"nsfw_level"`
	Stickers                    []Sticker              `json:"stickers,omitzero"`
	WelcomeScreen               *WelcomeScreen         `json:"welcome_screen,omitempty"`
	ApproximateMemberCount      *int                   `json:"approximate_member_count,omitempty"`
	ApproximatePresenceCount    *int                   `json:"approximate_presence_count,omitempty"`
}

// VoiceState is a user's voice connection state.
type VoiceState struct {
	GuildID                 *snowflake.ID `json:"guild_id,omitempty"`
	ChannelID               *snowflake.ID `json:"channel_id"`
	UserID                  snowflake.ID  `json:"user_id"`
	Member                  *Member       `json:"member,omitempty"`
	SessionID               string        `json:"session_id"`
	Deaf                    bool          `json:"deaf"`
	Mute                    bool          `json:"mute"`
	SelfDeaf                bool          `json:"self_deaf"`
	SelfMute                bool          `json:"self_mute"`
	SelfStream              bool          `json:"self_stream,omitempty"`
	SelfVideo               bool          `json:"self_video"`
	Suppress                bool          `json:"suppress"`
	RequestToSpeakTimestamp *Timestamp    `json:"request_to_speak_timestamp"`
}

// Activity is a presence activity.
type Activity struct {
	Name      string  `json:"name"`
	Type      int     `json:"type"`
	URL       *string `json:"url,omitempty"`
	CreatedAt int64   `json:"created_at"`
	State     *string `json:"state,omitempty"`
	Details   *string `json:"details,omitempty"`
}

// PresenceUser is the partial user carried by presence updates.
type PresenceUser struct {
	ID snowflake.ID `json:"id"`
}

// Presence is a user's presence in a guild.
type Presence struct {
	User         PresenceUser      `json:"user"`
	GuildID      *snowflake.ID     `json:"guild_id,omitempty"`
	Status       string            `json:"status"`
	Activities   []Activity        `json:"activities"`
	ClientStatus map[string]string `json:"client_status"`
}

// ScheduledEvent is a guild scheduled event.
type ScheduledEvent struct {
	ID                 snowflake.ID                   `json:"id"`
	GuildID            snowflake.ID                   `json:"guild_id"`
	ChannelID          *snowflake.ID                  `json:"channel_id"`
	CreatorID          Optional[snowflake.ID]         `json:"creator_id,omitzero"`
	Name               string                         `json:"name"`
	Description        Optional[string]               `json:"description,omitzero"`
	ScheduledStartTime Timestamp                      `json:"scheduled_start_time"`
	ScheduledEndTime   *Timestamp                     `json:"scheduled_end_time"`
	PrivacyLevel       int                            `json:"privacy_level"`
	Status             int                            `json:"status"`
	EntityType         model.ScheduledEventEntityType `json:"entity_type"`
	EntityID           *snowflake.ID                  `json:"entity_id"`
	EntityMetadata     *EntityMetadata                `json:"entity_metadata"`
	Creator            *User                          `json:"creator,omitempty"`
	UserCount          *int                           `json:"user_count,omitempty"`
}

// EntityMetadata is set only for external scheduled events.
type EntityMetadata struct {
	Location *string `json:"location,omitempty"`
}

// GatewayGuild is the GUILD_CREATE payload: the REST guild plus the
// gateway-only collections.
type GatewayGuild struct {
	Guild
	JoinedAt             Timestamp        `json:"joined_at"`
	Large                bool             `json:"large"`
	Unavailable          bool             `json:"unavailable"`
	MemberCount          int              `json:"member_count"`
	VoiceStates          []VoiceState     `json:"voice_states"`
	Members              []Member         `json:"members"`
	Channels             []Channel        `json:"channels"`
	Threads              []Channel        `json:"threads"`
	Presences            []Presence       `json:"presences"`
	StageInstances       []any            `json:"stage_instances"`
	GuildScheduledEvents []ScheduledEvent `json:"guild_scheduled_events"`
}

// UnavailableGuild is the stub sent in READY and GUILD_DELETE.
type UnavailableGuild struct {
	ID          snowflake.ID `json:"id"`
	Unavailable bool         `json:"unavailable"`
}

// PartialGuild is the users/@me/guilds entry.
type PartialGuild struct {
	ID          snowflake.ID      `json:"id"`
	Name        string            `json:"name"`
	Icon        *string           `json:"icon"`
	Owner       bool              `json:"owner"`
	Permissions model.Permissions `json:"permissions"`
	Features    []string          `json:"features"`
}

// InviteGuild is the partial guild embedded in an invite.
type InviteGuild struct {
	ID                snowflake.ID `json:"id"`
	Name              string       `json:"name"`
	Splash            *string      `json:"splash"`
	Banner            *string      `json:"banner"`
	Description       *string      `json:"description"`
	Icon              *string      `json:"icon"`
	Features          []string     `json:"features"`
	VerificationLevel int          `json:"verification_level"`
	VanityURLCode     *string      `json:"vanity_url_code"`
	NSFWLevel         int          `json:"nsfw_level"`
}

// InviteChannel is the partial channel embedded in an invite.
type InviteChannel struct {
	ID   snowflake.ID      `json:"id"`
	Name string            `json:"name"`
	Type model.ChannelType `json:"type"`
}

// Invite is an invite with its metadata.
type Invite struct {
	Code       string         `json:"code"`
	Guild      *InviteGuild   `json:"guild,omitempty"`
	Channel    *InviteChannel `json:"channel"`
	Inviter    *User          `json:"inviter,omitempty"`
	TargetType *int           `json:"target_type,omitempty"`
	TargetUser *User          `json:"target_user,omitempty"`
	ExpiresAt  *Timestamp     `json:"expires_at"`
	Uses       *int           `json:"uses,omitempty"`
	MaxUses    *int           `json:"max_uses,omitempty"`
	MaxAge     *int           `json:"max_age,omitempty"`
	Temporary  *bool          `json:"temporary,omitempty"`
	CreatedAt  *Timestamp     `json:"created_at,omitempty"`

	ApproximateMemberCount   *int `json:"approximate_member_count,omitempty"`
	ApproximatePresenceCount *int `json:"approximate_presence_count,omitempty"`
}

// InviteCreate is the INVITE_CREATE payload.
type InviteCreate struct {
	ChannelID  snowflake.ID  `json:"channel_id"`
	Code       string        `json:"code"`
	CreatedAt  Timestamp     `json:"created_at"`
	GuildID    *snowflake.ID `json:"guild_id,omitempty"`
	Inviter    *User         `json:"inviter,omitempty"`
	MaxAge     int           `json:"max_age"`
	MaxUses    int           `json:"max_uses"`
	TargetType *int          `json:"target_type,omitempty"`
	TargetUser *User         `json:"target_user,omitempty"`
	Temporary  bool          `json:"temporary"`
	Uses       int           `json:"uses"`
}

// InviteDelete is the INVITE_DELETE payload.
type InviteDelete struct {
	ChannelID snowflake.ID  `json:"channel_id"`
	GuildID   *snowflake.ID `json:"guild_id,omitempty"`
	Code      string        `json:"code"`
}

// Webhook is a webhook. Token is present only for incoming webhooks the
// requester may see.
type Webhook struct {
	ID            snowflake.ID           `json:"id"`
	Type          model.WebhookType      `json:"type"`
	GuildID       Optional[snowflake.ID] `json:"guild_id,omitzero"`
	ChannelID     *snowflake.ID          `json:"channel_id"`
	User          *User                  `json:"user,omitempty"`
	Name          *string                `json:"name"`
	Avatar        *string                `json:"avatar"`
	Token         *string                `json:"token,omitempty"`
	ApplicationID *snowflake.ID          `json:"application_id"`
}

// VoiceRegion is a voice server region.
type VoiceRegion struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Optimal    bool   `json:"optimal"`
	Deprecated bool   `json:"deprecated"`
	Custom     bool   `json:"custom"`
}

// Application is the current application object.
type Application struct {
	ID                  snowflake.ID `json:"id"`
	Name                string       `json:"name"`
	Icon                *string      `json:"icon"`
	Description         string       `json:"description"`
	RPCOrigins          []string     `json:"rpc_origins,omitempty"`
	BotPublic           bool         `json:"bot_public"`
	BotRequireCodeGrant bool         `json:"bot_require_code_grant"`
	Bot                 *User        `json:"bot,omitempty"`
	TermsOfServiceURL   *string      `json:"terms_of_service_url,omitempty"`
	PrivacyPolicyURL    *string      `json:"privacy_policy_url,omitempty"`
	Owner               *User        `json:"owner,omitempty"`
	VerifyKey           string       `json:"verify_key"`
	Flags               int          `json:"flags"`
}

// AuditLogChange is one changed key of an audit log entry.
type AuditLogChange struct {
	Key      string `json:"key"`
	NewValue any    `json:"new_value,omitempty"`
	OldValue any    `json:"old_value,omitempty"`
}

// AuditLogOptions is the optional entry info.
type AuditLogOptions struct {
	ChannelID        *snowflake.ID `json:"channel_id,omitempty"`
	Count            *string       `json:"count,omitempty"`
	DeleteMemberDays *string       `json:"delete_member_days,omitempty"`
	ID               *snowflake.ID `json:"id,omitempty"`
	MembersRemoved   *string       `json:"members_removed,omitempty"`
	MessageID        *snowflake.ID `json:"message_id,omitempty"`
	RoleName         *string       `json:"role_name,omitempty"`
	Type             *string       `json:"type,omitempty"`
}

// AuditLogEntry is one audit log entry. TargetID is always present and may
// be null; Changes and Options appear only for action types that carry them.
type AuditLogEntry struct {
	ID         snowflake.ID        `json:"id"`
	ActionType model.AuditLogEvent `json:"action_type"`
	UserID     *snowflake.ID       `json:"user_id"`
	TargetID   *string             `json:"target_id"`
	Changes    []AuditLogChange    `json:"changes,omitempty"`
	Options    *AuditLogOptions    `json:"options,omitempty"`
	Reason     *string             `json:"reason,omitempty"`
}

// AuditLog is the audit log response.
type AuditLog struct {
	AuditLogEntries      []AuditLogEntry  `json:"audit_log_entries"`
	GuildScheduledEvents []ScheduledEvent `json:"guild_scheduled_events"`
	Integrations         []any            `json:"integrations"`
	Threads              []Channel        `json:"threads"`
	Users                []User           `json:"users"`
	Webhooks             []Webhook        `json:"webhooks"`
}

// GuildTemplate is a guild template with its serialized source guild.
type GuildTemplate struct {
	Code                  string              `json:"code"`
	Name                  string              `json:"name"`
	Description           *string             `json:"description"`
	UsageCount            int                 `json:"usage_count"`
	CreatorID             snowflake.ID        `json:"creator_id"`
	Creator               User                `json:"creator"`
	CreatedAt             Timestamp           `json:"created_at"`
	UpdatedAt             Timestamp           `json:"updated_at"`
	SourceGuildID         snowflake.ID        `json:"source_guild_id"`
	SerializedSourceGuild model.TemplateGuild `json:"serialized_source_guild"`
	IsDirty               *bool               `json:"is_dirty"`
}
