// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package wire

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/holomush/simcord/internal/model"
)

// Allowed mention parse types.
const (
	MentionParseRoles    = "roles"
	MentionParseUsers    = "users"
	MentionParseEveryone = "everyone"
)

// AllowedMentions restricts which mentions in content are resolved.
type AllowedMentions struct {
	Parse       []string       `json:"parse,omitempty" validate:"omitempty,dive,oneof=roles users everyone"`
	Roles       []snowflake.ID `json:"roles,omitempty" validate:"omitempty,max=100"`
	Users       []snowflake.ID `json:"users,omitempty" validate:"omitempty,max=100"`
	RepliedUser *bool          `json:"replied_user,omitempty"`
}

// AttachmentRequest references an uploaded file by index, or an existing
// attachment by id when editing.
type AttachmentRequest struct {
	ID          IntOrString `json:"id"`
	Filename    *string     `json:"filename,omitempty" validate:"omitempty,max=1024"`
	Description *string     `json:"description,omitempty" validate:"omitempty,max=1024"`
}

// File is an uploaded file accompanying a request.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// MessageCreate is the body of POST channels/{channel}/messages.
type MessageCreate struct {
	Content          *string                 `json:"content,omitempty" validate:"omitempty,max=2000"`
	Nonce            *IntOrString            `json:"nonce,omitempty"`
	TTS              *bool                   `json:"tts,omitempty"`
	Embeds           []*model.Embed          `json:"embeds,omitempty" validate:"omitempty,max=10,dive"`
	Embed            *model.Embed            `json:"embed,omitempty"`
	AllowedMentions  *AllowedMentions        `json:"allowed_mentions,omitempty"`
	MessageReference *model.MessageReference `json:"message_reference,omitempty"`
	StickerIDs       []snowflake.ID          `json:"sticker_ids,omitempty" validate:"omitempty,max=3"`
	Attachments      []AttachmentRequest     `json:"attachments,omitempty" validate:"omitempty,max=10,dive"`
	Flags            *int                    `json:"flags,omitempty"`
}

// MessageEdit is the body of PATCH channels/{channel}/messages/{message}.
// A null content or embeds clears the field.
type MessageEdit struct {
	Content         Optional[string]              `json:"content,omitzero"`
	Embeds          Optional[[]*model.Embed]      `json:"embeds,omitzero"`
	Flags           Optional[int]                 `json:"flags,omitzero"`
	AllowedMentions *AllowedMentions              `json:"allowed_mentions,omitempty"`
	Attachments     Optional[[]AttachmentRequest] `json:"attachments,omitzero"`
}

// OverwriteRequest is an overwrite in a channel create or modify body.
type OverwriteRequest struct {
	ID    snowflake.ID        `json:"id" validate:"required"`
	Type  model.OverwriteType `json:"type" validate:"oneof=0 1"`
	Allow *model.Permissions  `json:"allow,omitempty"`
	Deny  *model.Permissions  `json:"deny,omitempty"`
}

// ChannelCreate is the body of POST guilds/{guild}/channels.
type ChannelCreate struct {
	Name                       string             `json:"name" validate:"length=1-100"`
	Type                       *model.ChannelType `json:"type,omitempty" validate:"omitempty,oneof=0 2 4 5 6 13"`
	Topic                      *string            `json:"topic,omitempty" validate:"omitempty,max=1024"`
	Bitrate                    *int               `json:"bitrate,omitempty" validate:"omitempty,min=8000"`
	UserLimit                  *int               `json:"user_limit,omitempty" validate:"omitempty,min=0,max=99"`
	RateLimitPerUser           *int               `json:"rate_limit_per_user,omitempty" validate:"omitempty,min=0,max=21600"`
	Position                   *int               `json:"position,omitempty"`
	PermissionOverwrites       []OverwriteRequest `json:"permission_overwrites,omitempty" validate:"omitempty,dive"`
	ParentID                   *snowflake.ID      `json:"parent_id,omitempty"`
	NSFW                       *bool              `json:"nsfw,omitempty"`
	RTCRegion                  *string            `json:"rtc_region,omitempty"`
	VideoQualityMode           *int               `json:"video_quality_mode,omitempty" validate:"omitempty,oneof=1 2"`
	DefaultAutoArchiveDuration *int               `json:"default_auto_archive_duration,omitempty" validate:"omitempty,oneof=60 1440 4320 10080"`
}

// ChannelModify is the body of PATCH channels/{channel}.
type ChannelModify struct {
	Name                 Optional[string]             `json:"name,omitzero" validate:"omitempty,length=1-100"`
	Type                 Optional[model.ChannelType]  `json:"type,omitzero" validate:"omitempty,oneof=0 5"`
	Position             Optional[int]                `json:"position,omitzero"`
	Topic                Optional[string]             `json:"topic,omitzero" validate:"omitempty,max=1024"`
	NSFW                 Optional[bool]               `json:"nsfw,omitzero"`
	RateLimitPerUser     Optional[int]                `json:"rate_limit_per_user,omitzero" validate:"omitempty,min=0,max=21600"`
	Bitrate              Optional[int]                `json:"bitrate,omitzero" validate:"omitempty,min=8000"`
	UserLimit            Optional[int]                `json:"user_limit,omitzero" validate:"omitempty,min=0,max=99"`
	PermissionOverwrites Optional[[]OverwriteRequest] `json:"permission_overwrites,omitzero"`
	ParentID             Optional[snowflake.ID]       `json:"parent_id,omitzero"`
	RTCRegion            Optional[string]             `json:"rtc_region,omitzero"`
}

// RoleRequest is a role in a guild create body. Its id is a placeholder
// integer that channel overwrites may refer to.
type RoleRequest struct {
	ID          *IntOrString       `json:"id,omitempty"`
	Name        *string            `json:"name,omitempty" validate:"omitempty,max=100"`
	Color       *int               `json:"color,omitempty" validate:"omitempty,min=0,max=16777215"`
	Hoist       *bool              `json:"hoist,omitempty"`
	Permissions *model.Permissions `json:"permissions,omitempty"`
	Mentionable *bool              `json:"mentionable,omitempty"`
}

// RoleCreate is the body of POST guilds/{guild}/roles.
type RoleCreate struct {
	Name         *string            `json:"name,omitempty" validate:"omitempty,max=100"`
	Permissions  *model.Permissions `json:"permissions,omitempty"`
	Color        *int               `json:"color,omitempty" validate:"omitempty,min=0,max=16777215"`
	Hoist        *bool              `json:"hoist,omitempty"`
	UnicodeEmoji *string            `json:"unicode_emoji,omitempty"`
	Mentionable  *bool              `json:"mentionable,omitempty"`
}

// GuildChannelRequest is a channel in a guild create body. Ids are
// placeholders, and parent_id refers to another placeholder.
type GuildChannelRequest struct {
	ID                   *IntOrString            `json:"id,omitempty"`
	Name                 string                  `json:"name" validate:"length=1-100"`
	Type                 *model.ChannelType      `json:"type,omitempty" validate:"omitempty,oneof=0 2 4"`
	ParentID             *IntOrString            `json:"parent_id,omitempty"`
	Topic                *string                 `json:"topic,omitempty" validate:"omitempty,max=1024"`
	Bitrate              *int                    `json:"bitrate,omitempty" validate:"omitempty,min=8000"`
	UserLimit            *int                    `json:"user_limit,omitempty" validate:"omitempty,min=0,max=99"`
	RateLimitPerUser     *int                    `json:"rate_limit_per_user,omitempty" validate:"omitempty,min=0,max=21600"`
	NSFW                 *bool                   `json:"nsfw,omitempty"`
	PermissionOverwrites []GuildOverwriteRequest `json:"permission_overwrites,omitempty" validate:"omitempty,dive"`
}

// GuildOverwriteRequest is an overwrite whose id is a role placeholder.
type GuildOverwriteRequest struct {
	ID    IntOrString         `json:"id"`
	Type  model.OverwriteType `json:"type" validate:"oneof=0 1"`
	Allow *model.Permissions  `json:"allow,omitempty"`
	Deny  *model.Permissions  `json:"deny,omitempty"`
}

// GuildCreate is the body of POST guilds.
type GuildCreate struct {
	Name                        string                `json:"name" validate:"length=2-100"`
	Region                      *string               `json:"region,omitempty"`
	Icon                        *string               `json:"icon,omitempty" validate:"omitempty,datauri"`
	VerificationLevel           *int                  `json:"verification_level,omitempty" validate:"omitempty,oneof=0 1 2 3 4"`
	DefaultMessageNotifications *int                  `json:"default_message_notifications,omitempty" validate:"omitempty,oneof=0 1"`
	ExplicitContentFilter       *int                  `json:"explicit_content_filter,omitempty" validate:"omitempty,oneof=0 1 2"`
	Roles                       []RoleRequest         `json:"roles,omitempty" validate:"omitempty,max=250,dive"`
	Channels                    []GuildChannelRequest `json:"channels,omitempty" validate:"omitempty,max=500,dive"`
	AFKChannelID                *IntOrString          `json:"afk_channel_id,omitempty"`
	AFKTimeout                  *int                  `json:"afk_timeout,omitempty" validate:"omitempty,oneof=60 300 900 1800 3600"`
	SystemChannelID             *IntOrString          `json:"system_channel_id,omitempty"`
	SystemChannelFlags          *int                  `json:"system_channel_flags,omitempty"`
}

// GuildModify is the body of PATCH guilds/{guild}.
type GuildModify struct {
	Name                        Optional[string]       `json:"name,omitzero" validate:"omitempty,length=2-100"`
	Region                      Optional[string]       `json:"region,omitzero"`
	VerificationLevel           Optional[int]          `json:"verification_level,omitzero" validate:"omitempty,oneof=0 1 2 3 4"`
	DefaultMessageNotifications Optional[int]          `json:"default_message_notifications,omitzero" validate:"omitempty,oneof=0 1"`
	ExplicitContentFilter       Optional[int]          `json:"explicit_content_filter,omitzero" validate:"omitempty,oneof=0 1 2"`
	AFKChannelID                Optional[snowflake.ID] `json:"afk_channel_id,omitzero"`
	AFKTimeout                  Optional[int]          `json:"afk_timeout,omitzero" validate:"omitempty,oneof=60 300 900 1800 3600"`
	OwnerID                     Optional[snowflake.ID] `json:"owner_id,omitzero"`
	SystemChannelID             Optional[snowflake.ID] `json:"system_channel_id,omitzero"`
	SystemChannelFlags          Optional[int]          `json:"system_channel_flags,omitzero"`
	RulesChannelID              Optional[snowflake.ID] `json:"rules_channel_id,omitzero"`
	PreferredLocale             Optional[string]       `json:"preferred_locale,omitzero"`
	Description                 Optional[string]       `json:"description,omitzero" validate:"omitempty,max=120"`
}

// EmojiCreate is the body of POST guilds/{guild}/emojis.
type EmojiCreate struct {
	Name  string         `json:"name" validate:"length=2-32,emojiname"`
	Image string         `json:"image" validate:"required,datauri"`
	Roles []snowflake.ID `json:"roles,omitempty"`
}

// InviteCreateRequest is the body of POST channels/{channel}/invites.
type InviteCreateRequest struct {
	MaxAge       *int          `json:"max_age,omitempty" validate:"omitempty,min=0,max=604800"`
	MaxUses      *int          `json:"max_uses,omitempty" validate:"omitempty,min=0,max=100"`
	Temporary    *bool         `json:"temporary,omitempty"`
	Unique       *bool         `json:"unique,omitempty"`
	TargetType   *int          `json:"target_type,omitempty" validate:"omitempty,oneof=1 2"`
	TargetUserID *snowflake.ID `json:"target_user_id,omitempty"`
}

// WebhookCreate is the body of POST channels/{channel}/webhooks.
type WebhookCreate struct {
	Name   string  `json:"name" validate:"length=1-80"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,datauri"`
}

// WebhookExecute is the body of POST webhooks/{webhook}/{token}.
type WebhookExecute struct {
	Content         *string          `json:"content,omitempty" validate:"omitempty,max=2000"`
	Username        *string          `json:"username,omitempty" validate:"omitempty,length=1-80"`
	AvatarURL       *string          `json:"avatar_url,omitempty" validate:"omitempty,url"`
	TTS             *bool            `json:"tts,omitempty"`
	Embeds          []*model.Embed   `json:"embeds,omitempty" validate:"omitempty,max=10,dive"`
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
	Flags           *int             `json:"flags,omitempty"`
}

// TemplateCreate is the body of POST guilds/{guild}/templates.
type TemplateCreate struct {
	Name        string  `json:"name" validate:"length=1-100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=120"`
}

// TemplateModify is the body of PATCH guilds/{guild}/templates/{code}.
type TemplateModify struct {
	Name        Optional[string] `json:"name,omitzero" validate:"omitempty,length=1-100"`
	Description Optional[string] `json:"description,omitzero" validate:"omitempty,max=120"`
}

// GuildFromTemplate is the body of POST guilds/templates/{code}.
type GuildFromTemplate struct {
	Name string  `json:"name" validate:"length=2-100"`
	Icon *string `json:"icon,omitempty" validate:"omitempty,datauri"`
}

// DMCreate is the body of POST users/@me/channels.
type DMCreate struct {
	RecipientID snowflake.ID `json:"recipient_id" validate:"required"`
}
