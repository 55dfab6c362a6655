// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package defaults

import (
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/holomush/simcord/internal/model"
)

// StoreSpec is a partial description of a whole backend.
type StoreSpec struct {
	Users           []UserSpec        `json:"users,omitempty"`
	Applications    []ApplicationSpec `json:"applications,omitempty"`
	Guilds          []GuildSpec       `json:"guilds,omitempty"`
	PrivateChannels []ChannelSpec     `json:"private_channels,omitempty"`
	Invites         []InviteSpec      `json:"invites,omitempty"`
	Webhooks        []WebhookSpec     `json:"webhooks,omitempty"`
	VoiceRegions    []VoiceRegionSpec `json:"voice_regions,omitempty"`
}

// UserSpec is a partial user.
type UserSpec struct {
	ID            *snowflake.ID `json:"id,omitempty"`
	Username      *string       `json:"username,omitempty"`
	Discriminator *string       `json:"discriminator,omitempty"`
	GlobalName    *string       `json:"global_name,omitempty"`
	Avatar        *string       `json:"avatar,omitempty"`
	Banner        *string       `json:"banner,omitempty"`
	Bot           *bool         `json:"bot,omitempty"`
	System        *bool         `json:"system,omitempty"`
	Verified      *bool         `json:"verified,omitempty"`
	Email         *string       `json:"email,omitempty"`
	Locale        *string       `json:"locale,omitempty"`
	Flags         *int          `json:"flags,omitempty"`
	PublicFlags   *int          `json:"public_flags,omitempty"`
	PremiumType   *int          `json:"premium_type,omitempty"`
}

// ApplicationSpec is a partial application. A bot user is synthesized when
// Bot is nil.
type ApplicationSpec struct {
	ID          *snowflake.ID `json:"id,omitempty"`
	Name        *string       `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	Icon        *string       `json:"icon,omitempty"`
	OwnerID     *snowflake.ID `json:"owner_id,omitempty"`
	BotPublic   *bool         `json:"bot_public,omitempty"`
	Flags       *int          `json:"flags,omitempty"`
	Bot         *UserSpec     `json:"bot,omitempty"`
}

// GuildSpec is a partial guild with its nested collections.
type GuildSpec struct {
	ID                          *snowflake.ID `json:"id,omitempty"`
	Name                        *string       `json:"name,omitempty"`
	Icon                        *string       `json:"icon,omitempty"`
	Splash                      *string       `json:"splash,omitempty"`
	Banner                      *string       `json:"banner,omitempty"`
	Description                 *string       `json:"description,omitempty"`
	OwnerID                     *snowflake.ID `json:"owner_id,omitempty"`
	ApplicationID               *snowflake.ID `json:"application_id,omitempty"`
	JoinedAt                    *time.Time    `json:"joined_at,omitempty"`
	AFKChannelID                *snowflake.ID `json:"afk_channel_id,omitempty"`
	SystemChannelID             *snowflake.ID `json:"system_channel_id,omitempty"`
	RulesChannelID              *snowflake.ID `json:"rules_channel_id,omitempty"`
	PublicUpdatesChannelID      *snowflake.ID `json:"public_updates_channel_id,omitempty"`
	WidgetChannelID             *snowflake.ID `json:"widget_channel_id,omitempty"`
	AFKTimeout                  *int          `json:"afk_timeout,omitempty"`
	VerificationLevel           *int          `json:"verification_level,omitempty"`
	DefaultMessageNotifications *int          `json:"default_message_notifications,omitempty"`
	ExplicitContentFilter       *int          `json:"explicit_content_filter,omitempty"`
	MFALevel                    *int          `json:"mfa_level,omitempty"`
	NSFWLevel                   *int          `json:"nsfw_level,omitempty"`
	PremiumTier                 *int          `json:"premium_tier,omitempty"`
	SystemChannelFlags          *int          `json:"system_channel_flags,omitempty"`
	PreferredLocale             *string       `json:"preferred_locale,omitempty"`
	Region                      *string       `json:"region,omitempty"`
	Features                    []string      `json:"features,omitempty"`
	VanityURLCode               *string       `json:"vanity_url_code,omitempty"`
	WidgetEnabled               *bool         `json:"widget_enabled,omitempty"`

	Roles           []RoleSpec           `json:"roles,omitempty"`
	Channels        []ChannelSpec        `json:"channels,omitempty"`
	Members         []MemberSpec         `json:"members,omitempty"`
	Emojis          []EmojiSpec          `json:"emojis,omitempty"`
	Stickers        []StickerSpec        `json:"stickers,omitempty"`
	VoiceStates     []VoiceStateSpec     `json:"voice_states,omitempty"`
	Presences       []PresenceSpec       `json:"presences,omitempty"`
	ScheduledEvents []ScheduledEventSpec `json:"scheduled_events,omitempty"`
	AuditLog        []AuditLogEntrySpec  `json:"audit_log,omitempty"`
	WelcomeScreen   *WelcomeScreenSpec   `json:"welcome_screen,omitempty"`
	Template        *TemplateSpec        `json:"template,omitempty"`
}

// RoleSpec is a partial role.
type RoleSpec struct {
	ID           *snowflake.ID      `json:"id,omitempty"`
	Name         *string            `json:"name,omitempty"`
	Color        *int               `json:"color,omitempty"`
	Hoist        *bool              `json:"hoist,omitempty"`
	Icon         *string            `json:"icon,omitempty"`
	UnicodeEmoji *string            `json:"unicode_emoji,omitempty"`
	Position     *int               `json:"position,omitempty"`
	Permissions  *model.Permissions `json:"permissions,omitempty"`
	Managed      *bool              `json:"managed,omitempty"`
	Mentionable  *bool              `json:"mentionable,omitempty"`
	BotID        *snowflake.ID      `json:"bot_id,omitempty"`
}

// ChannelSpec is a partial channel of any variant. Fields that do not
// belong to the resolved type are ignored.
type ChannelSpec struct {
	ID       *snowflake.ID      `json:"id,omitempty"`
	Type     *model.ChannelType `json:"type,omitempty"`
	Name     *string            `json:"name,omitempty"`
	Position *int               `json:"position,omitempty"`
	ParentID *snowflake.ID      `json:"parent_id,omitempty"`
	Flags    *int               `json:"flags,omitempty"`

	Topic                      *string `json:"topic,omitempty"`
	NSFW                       *bool   `json:"nsfw,omitempty"`
	RateLimitPerUser           *int    `json:"rate_limit_per_user,omitempty"`
	DefaultAutoArchiveDuration *int    `json:"default_auto_archive_duration,omitempty"`

	Bitrate          *int    `json:"bitrate,omitempty"`
	UserLimit        *int    `json:"user_limit,omitempty"`
	RTCRegion        *string `json:"rtc_region,omitempty"`
	VideoQualityMode *int    `json:"video_quality_mode,omitempty"`

	OwnerID             *snowflake.ID `json:"owner_id,omitempty"`
	Archived            *bool         `json:"archived,omitempty"`
	AutoArchiveDuration *int          `json:"auto_archive_duration,omitempty"`
	Locked              *bool         `json:"locked,omitempty"`
	Invitable           *bool         `json:"invitable,omitempty"`

	RecipientIDs []snowflake.ID `json:"recipient_ids,omitempty"`
	Icon         *string        `json:"icon,omitempty"`

	Overwrites []OverwriteSpec `json:"permission_overwrites,omitempty"`
	Messages   []MessageSpec   `json:"messages,omitempty"`
}

// OverwriteSpec is a partial permission overwrite.
type OverwriteSpec struct {
	ID    *snowflake.ID        `json:"id,omitempty"`
	Type  *model.OverwriteType `json:"type,omitempty"`
	Allow *model.Permissions   `json:"allow,omitempty"`
	Deny  *model.Permissions   `json:"deny,omitempty"`
}

// MemberSpec is a partial member. User, when given, is registered in the
// store; otherwise UserID must name a known user or a placeholder is made.
type MemberSpec struct {
	UserID       *snowflake.ID  `json:"user_id,omitempty"`
	User         *UserSpec      `json:"user,omitempty"`
	Nick         *string        `json:"nick,omitempty"`
	Avatar       *string        `json:"avatar,omitempty"`
	Roles        []snowflake.ID `json:"roles,omitempty"`
	JoinedAt     *time.Time     `json:"joined_at,omitempty"`
	PremiumSince *time.Time     `json:"premium_since,omitempty"`
	Deaf         *bool          `json:"deaf,omitempty"`
	Mute         *bool          `json:"mute,omitempty"`
	Pending      *bool          `json:"pending,omitempty"`
}

// MessageSpec is a partial message. Mentions are parsed from Content when
// none are given.
type MessageSpec struct {
	ID              *snowflake.ID           `json:"id,omitempty"`
	AuthorID        *snowflake.ID           `json:"author_id,omitempty"`
	WebhookID       *snowflake.ID           `json:"webhook_id,omitempty"`
	Type            *model.MessageType      `json:"type,omitempty"`
	Content         *string                 `json:"content,omitempty"`
	Timestamp       *time.Time              `json:"timestamp,omitempty"`
	EditedTimestamp *time.Time              `json:"edited_timestamp,omitempty"`
	TTS             *bool                   `json:"tts,omitempty"`
	Pinned          *bool                   `json:"pinned,omitempty"`
	Flags           *int                    `json:"flags,omitempty"`
	Embeds          []*model.Embed          `json:"embeds,omitempty"`
	MentionEveryone *bool                   `json:"mention_everyone,omitempty"`
	Mentions        []snowflake.ID          `json:"mentions,omitempty"`
	MentionRoles    []snowflake.ID          `json:"mention_roles,omitempty"`
	Reference       *model.MessageReference `json:"message_reference,omitempty"`
	StickerIDs      []snowflake.ID          `json:"sticker_ids,omitempty"`
	Nonce           *string                 `json:"nonce,omitempty"`
	ApplicationID   *snowflake.ID           `json:"application_id,omitempty"`

	// Attachments are only set by upload handlers.
	Attachments []*model.Attachment `json:"-"`
}

// EmojiSpec is a partial custom emoji.
type EmojiSpec struct {
	ID        *snowflake.ID  `json:"id,omitempty"`
	Name      *string        `json:"name,omitempty"`
	Roles     []snowflake.ID `json:"roles,omitempty"`
	CreatorID *snowflake.ID  `json:"creator_id,omitempty"`
	Animated  *bool          `json:"animated,omitempty"`
	Managed   *bool          `json:"managed,omitempty"`
	Available *bool          `json:"available,omitempty"`
}

// StickerSpec is a partial guild sticker.
type StickerSpec struct {
	ID          *snowflake.ID `json:"id,omitempty"`
	Name        *string       `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	Tags        *string       `json:"tags,omitempty"`
	FormatType  *int          `json:"format_type,omitempty"`
	CreatorID   *snowflake.ID `json:"creator_id,omitempty"`
}

// VoiceStateSpec is a partial voice state.
type VoiceStateSpec struct {
	UserID    *snowflake.ID `json:"user_id,omitempty"`
	ChannelID *snowflake.ID `json:"channel_id,omitempty"`
	SessionID *string       `json:"session_id,omitempty"`
	Deaf      *bool         `json:"deaf,omitempty"`
	Mute      *bool         `json:"mute,omitempty"`
	SelfDeaf  *bool         `json:"self_deaf,omitempty"`
	SelfMute  *bool         `json:"self_mute,omitempty"`
	SelfVideo *bool         `json:"self_video,omitempty"`
	Suppress  *bool         `json:"suppress,omitempty"`
}

// PresenceSpec is a partial presence.
type PresenceSpec struct {
	UserID *snowflake.ID `json:"user_id,omitempty"`
	Status *string       `json:"status,omitempty" jsonschema:"enum=online,enum=idle,enum=dnd,enum=offline"`
}

// ScheduledEventSpec is a partial scheduled event. EntityType selects the
// required fields: a channel for stage and voice events, a location and end
// time for external ones.
type ScheduledEventSpec struct {
	ID                 *snowflake.ID                   `json:"id,omitempty"`
	Name               *string                         `json:"name,omitempty"`
	Description        *string                         `json:"description,omitempty"`
	EntityType         *model.ScheduledEventEntityType `json:"entity_type,omitempty"`
	ChannelID          *snowflake.ID                   `json:"channel_id,omitempty"`
	CreatorID          *snowflake.ID                   `json:"creator_id,omitempty"`
	Location           *string                         `json:"location,omitempty"`
	ScheduledStartTime *time.Time                      `json:"scheduled_start_time,omitempty"`
	ScheduledEndTime   *time.Time                      `json:"scheduled_end_time,omitempty"`
	Status             *int                            `json:"status,omitempty"`
	UserCount          *int                            `json:"user_count,omitempty"`
}

// AuditLogEntrySpec is a partial audit log entry. ActionType selects which of
// target, changes and options are filled in.
type AuditLogEntrySpec struct {
	ID         *snowflake.ID          `json:"id,omitempty"`
	ActionType *model.AuditLogEvent   `json:"action_type,omitempty"`
	UserID     *snowflake.ID          `json:"user_id,omitempty"`
	TargetID   *snowflake.ID          `json:"target_id,omitempty"`
	Reason     *string                `json:"reason,omitempty"`
	Changes    []model.AuditLogChange `json:"changes,omitempty"`
	Options    *model.AuditLogOptions `json:"options,omitempty"`
}

// WelcomeScreenSpec is a partial welcome screen.
type WelcomeScreenSpec struct {
	Description *string              `json:"description,omitempty"`
	Channels    []WelcomeChannelSpec `json:"welcome_channels,omitempty"`
}

// WelcomeChannelSpec is a partial welcome screen entry.
type WelcomeChannelSpec struct {
	ChannelID   *snowflake.ID `json:"channel_id,omitempty"`
	Description *string       `json:"description,omitempty"`
	EmojiID     *snowflake.ID `json:"emoji_id,omitempty"`
	EmojiName   *string       `json:"emoji_name,omitempty"`
}

// TemplateSpec is a partial guild template. The snapshot is always taken
// from the guild it belongs to.
type TemplateSpec struct {
	Code        *string       `json:"code,omitempty"`
	Name        *string       `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	UsageCount  *int          `json:"usage_count,omitempty"`
	CreatorID   *snowflake.ID `json:"creator_id,omitempty"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
}

// InviteSpec is a partial invite.
type InviteSpec struct {
	Code      *string       `json:"code,omitempty"`
	ChannelID *snowflake.ID `json:"channel_id,omitempty"`
	InviterID *snowflake.ID `json:"inviter_id,omitempty"`
	MaxAge    *int          `json:"max_age,omitempty"`
	MaxUses   *int          `json:"max_uses,omitempty"`
	Uses      *int          `json:"uses,omitempty"`
	Temporary *bool         `json:"temporary,omitempty"`
	CreatedAt *time.Time    `json:"created_at,omitempty"`

	TargetType   *int          `json:"target_type,omitempty"`
	TargetUserID *snowflake.ID `json:"target_user_id,omitempty"`
}

// WebhookSpec is a partial webhook.
type WebhookSpec struct {
	ID            *snowflake.ID      `json:"id,omitempty"`
	Type          *model.WebhookType `json:"type,omitempty"`
	ChannelID     *snowflake.ID      `json:"channel_id,omitempty"`
	CreatorID     *snowflake.ID      `json:"creator_id,omitempty"`
	Name          *string            `json:"name,omitempty"`
	Avatar        *string            `json:"avatar,omitempty"`
	Token         *string            `json:"token,omitempty"`
	ApplicationID *snowflake.ID      `json:"application_id,omitempty"`
}

// VoiceRegionSpec is a partial voice region.
type VoiceRegionSpec struct {
	ID         *string `json:"id,omitempty"`
	Name       *string `json:"name,omitempty"`
	Optimal    *bool   `json:"optimal,omitempty"`
	Deprecated *bool   `json:"deprecated,omitempty"`
	Custom     *bool   `json:"custom,omitempty"`
}
