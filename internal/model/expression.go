// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package model

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Emoji is a guild custom emoji.
type Emoji struct {
	ID            snowflake.ID
	Name          string
	RoleIDs       []snowflake.ID
	CreatorID     *snowflake.ID
	RequireColons bool
	Managed       bool
	Animated      bool
	Available     bool
}

// Sticker is a guild sticker.
type Sticker struct {
	ID          snowflake.ID
	Name        string
	Description *string
	Tags        string
	Type        int
	FormatType  int
	Available   bool
	GuildID     *snowflake.ID
	CreatorID   *snowflake.ID
	SortValue   *int
}

// Sticker kinds and formats.
const (
	StickerTypeStandard = 1
	StickerTypeGuild    = 2

	StickerFormatPNG    = 1
	StickerFormatAPNG   = 2
	StickerFormatLottie = 3
)

// VoiceState is a user's voice connection in a guild. Keyed by user id.
type VoiceState struct {
	GuildID                 *snowflake.ID
	ChannelID               *snowflake.ID
	UserID                  snowflake.ID
	SessionID               string
	Deaf                    bool
	Mute                    bool
	SelfDeaf                bool
	SelfMute                bool
	SelfStream              bool
	SelfVideo               bool
	Suppress                bool
	RequestToSpeakTimestamp *time.Time
}

// Presence is a user's status in a guild. Keyed by user id.
type Presence struct {
	UserID       snowflake.ID
	GuildID      snowflake.ID
	Status       string
	Activities   []Activity
	ClientStatus map[string]string
}

// Presence statuses.
const (
	StatusOnline  = "online"
	StatusIdle    = "idle"
	StatusDND     = "dnd"
	StatusOffline = "offline"
)

// Activity is one entry of a presence.
type Activity struct {
	Name      string
	Type      int
	URL       *string
	State     *string
	Details   *string
	CreatedAt time.Time
}

// Invite is a channel invite, keyed by code.
type Invite struct {
	Code         string
	GuildID      *snowflake.ID
	ChannelID    snowflake.ID
	InviterID    *snowflake.ID
	TargetType   *int
	TargetUserID *snowflake.ID
	MaxAge       int
	MaxUses      int
	Uses         int
	Temporary    bool
	CreatedAt    time.Time
}

// ExpiresAt returns the expiry time, or nil for invites that never expire.
func (i *Invite) ExpiresAt() *time.Time {
	if i.MaxAge == 0 {
		return nil
	}
	t := i.CreatedAt.Add(time.Duration(i.MaxAge) * time.Second)
	return &t
}

// WebhookType discriminates webhooks.
type WebhookType int

// Webhook kinds.
const (
	WebhookTypeIncoming        WebhookType = 1
	WebhookTypeChannelFollower WebhookType = 2
	WebhookTypeApplication     WebhookType = 3
)

// Webhook posts messages into a channel.
type Webhook struct {
	ID            snowflake.ID
	Type          WebhookType
	GuildID       *snowflake.ID
	ChannelID     *snowflake.ID
	CreatorID     *snowflake.ID
	Name          *string
	Avatar        *string
	Token         *string
	ApplicationID *snowflake.ID
}

// VoiceRegion is a selectable voice server region.
type VoiceRegion struct {
	ID         string
	Name       string
	Optimal    bool
	Deprecated bool
	Custom     bool
}

// ScheduledEventEntityType discriminates scheduled events.
type ScheduledEventEntityType int

// Scheduled event variants.
const (
	ScheduledEventEntityStageInstance ScheduledEventEntityType = 1
	ScheduledEventEntityVoice         ScheduledEventEntityType = 2
	ScheduledEventEntityExternal      ScheduledEventEntityType = 3
)

// IsValid returns true for the known entity types.
func (t ScheduledEventEntityType) IsValid() bool {
	return t >= ScheduledEventEntityStageInstance && t <= ScheduledEventEntityExternal
}

// Scheduled event status and privacy values.
const (
	ScheduledEventStatusScheduled = 1
	ScheduledEventStatusActive    = 2
	ScheduledEventStatusCompleted = 3
	ScheduledEventStatusCanceled  = 4

	ScheduledEventPrivacyGuildOnly = 2
)

// ScheduledEvent is a tagged variant: stage and voice events require a
// channel, external events require a location and an end time.
type ScheduledEvent struct {
	ID                 snowflake.ID
	GuildID            snowflake.ID
	ChannelID          *snowflake.ID
	CreatorID          *snowflake.ID
	Name               string
	Description        *string
	ScheduledStartTime time.Time
	ScheduledEndTime   *time.Time
	PrivacyLevel       int
	Status             int
	EntityType         ScheduledEventEntityType
	EntityID           *snowflake.ID
	Location           *string
	UserCount          int
}

// WelcomeScreen is the guild's onboarding card.
type WelcomeScreen struct {
	Description *string
	Channels    []WelcomeChannel
}

// WelcomeChannel is one promoted channel on the welcome screen.
type WelcomeChannel struct {
	ChannelID   snowflake.ID
	Description string
	EmojiID     *snowflake.ID
	EmojiName   *string
}
