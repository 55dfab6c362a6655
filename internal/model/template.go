// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package model

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// GuildTemplate is a frozen snapshot of a guild's structure. A guild holds at
// most one.
type GuildTemplate struct {
	Code          string
	Name          string
	Description   *string
	UsageCount    int
	CreatorID     snowflake.ID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SourceGuildID snowflake.ID
	Source        TemplateGuild
	IsDirty       *bool
}

// TemplateGuild is the serialized source guild. Role and channel ids are
// sequential indices, never Snowflakes.
type TemplateGuild struct {
	Name                        string            `json:"name"`
	Description                 *string           `json:"description"`
	Region                      *string           `json:"region"`
	VerificationLevel           int               `json:"verification_level"`
	DefaultMessageNotifications int               `json:"default_message_notifications"`
	ExplicitContentFilter       int               `json:"explicit_content_filter"`
	PreferredLocale             string            `json:"preferred_locale"`
	AFKTimeout                  int               `json:"afk_timeout"`
	Roles                       []TemplateRole    `json:"roles"`
	Channels                    []TemplateChannel `json:"channels"`
	AFKChannelID                *int              `json:"afk_channel_id"`
	SystemChannelID             *int              `json:"system_channel_id"`
	SystemChannelFlags          int               `json:"system_channel_flags"`
	IconHash                    *string           `json:"icon_hash"`
}

// TemplateRole is a role inside a template.
type TemplateRole struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Permissions Permissions `json:"permissions"`
	Color       int         `json:"color"`
	Hoist       bool        `json:"hoist"`
	Mentionable bool        `json:"mentionable"`
}

// TemplateChannel is a channel inside a template.
type TemplateChannel struct {
	ID                   int                 `json:"id"`
	Type                 ChannelType         `json:"type"`
	Name                 string              `json:"name"`
	Position             int                 `json:"position"`
	Topic                *string             `json:"topic"`
	Bitrate              int                 `json:"bitrate"`
	UserLimit            int                 `json:"user_limit"`
	NSFW                 bool                `json:"nsfw"`
	RateLimitPerUser     int                 `json:"rate_limit_per_user"`
	ParentID             *int                `json:"parent_id"`
	PermissionOverwrites []TemplateOverwrite `json:"permission_overwrites"`
}

// TemplateOverwrite is a role overwrite inside a template. Member overwrites
// are not captured.
type TemplateOverwrite struct {
	ID    int           `json:"id"`
	Type  OverwriteType `json:"type"`
	Allow Permissions   `json:"allow"`
	Deny  Permissions   `json:"deny"`
}
