// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package wire

import "github.com/disgoorg/snowflake/v2"

// GatewayVersion is the protocol version reported in READY.
const GatewayVersion = 10

// ReadyApplication is the partial application in READY.
type ReadyApplication struct {
	ID    snowflake.ID `json:"id"`
	Flags int          `json:"flags"`
}

// Ready is the READY payload. Guilds are announced as unavailable and
// followed by one GUILD_CREATE each.
type Ready struct {
	V                int                `json:"v"`
	User             User               `json:"user"`
	Guilds           []UnavailableGuild `json:"guilds"`
	SessionID        string             `json:"session_id"`
	ResumeGatewayURL string             `json:"resume_gateway_url"`
	Application      *ReadyApplication  `json:"application,omitempty"`
	PrivateChannels  []Channel          `json:"private_channels"`
}

// MessageDelete is the MESSAGE_DELETE payload.
type MessageDelete struct {
	ID        snowflake.ID  `json:"id"`
	ChannelID snowflake.ID  `json:"channel_id"`
	GuildID   *snowflake.ID `json:"guild_id,omitempty"`
}

// GuildRoleEvent is the GUILD_ROLE_CREATE and GUILD_ROLE_UPDATE payload.
type GuildRoleEvent struct {
	GuildID snowflake.ID `json:"guild_id"`
	Role    Role         `json:"role"`
}

// GuildEmojisUpdate is the GUILD_EMOJIS_UPDATE payload.
type GuildEmojisUpdate struct {
	GuildID snowflake.ID `json:"guild_id"`
	Emojis  []Emoji      `json:"emojis"`
}

// WebhooksUpdate is the WEBHOOKS_UPDATE payload.
type WebhooksUpdate struct {
	GuildID   snowflake.ID `json:"guild_id"`
	ChannelID snowflake.ID `json:"channel_id"`
}

// MessageDeleteBulk is the MESSAGE_DELETE_BULK payload.
type MessageDeleteBulk struct {
	IDs       []snowflake.ID `json:"ids"`
	ChannelID snowflake.ID   `json:"channel_id"`
	GuildID   *snowflake.ID  `json:"guild_id,omitempty"`
}

// ChannelPinsUpdate is the CHANNEL_PINS_UPDATE payload.
type ChannelPinsUpdate struct {
	GuildID          *snowflake.ID       `json:"guild_id,omitempty"`
	ChannelID        snowflake.ID        `json:"channel_id"`
	LastPinTimestamp Optional[Timestamp] `json:"last_pin_timestamp,omitzero"`
}

// GuildRoleDelete is the GUILD_ROLE_DELETE payload.
type GuildRoleDelete struct {
	GuildID snowflake.ID `json:"guild_id"`
	RoleID  snowflake.ID `json:"role_id"`
}

// GuildMemberRemove is the GUILD_MEMBER_REMOVE payload.
type GuildMemberRemove struct {
	GuildID snowflake.ID `json:"guild_id"`
	User    User         `json:"user"`
}
