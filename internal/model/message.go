// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package model

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// MessageType identifies how a message was produced.
type MessageType int

// Message types the simulator produces.
const (
	MessageTypeDefault              MessageType = 0
	MessageTypeRecipientAdd         MessageType = 1
	MessageTypeChannelPinnedMessage MessageType = 6
	MessageTypeGuildMemberJoin      MessageType = 7
	MessageTypeReply                MessageType = 19
)

// Message flags.
const (
	MessageFlagCrossposted          = 1 << 0
	MessageFlagIsCrosspost          = 1 << 1
	MessageFlagSuppressEmbeds       = 1 << 2
	MessageFlagSourceMessageDeleted = 1 << 3
	MessageFlagUrgent               = 1 << 4
	MessageFlagEphemeral            = 1 << 6
)

// EditableMessageFlags are the flags a client may toggle on an existing message.
const EditableMessageFlags = MessageFlagSuppressEmbeds

// Message is owned by its channel's message map.
type Message struct {
	ID              snowflake.ID
	ChannelID       snowflake.ID
	AuthorID        snowflake.ID
	WebhookID       *snowflake.ID
	ApplicationID   *snowflake.ID
	Type            MessageType
	Content         string
	Timestamp       time.Time
	EditedTimestamp *time.Time
	TTS             bool
	Pinned          bool
	Flags           int
	Nonce           *string

	MentionEveryone   bool
	MentionUserIDs    []snowflake.ID
	MentionRoleIDs    []snowflake.ID
	MentionChannelIDs []snowflake.ID

	Attachments []*Attachment
	Embeds      []*Embed
	StickerIDs  []snowflake.ID
	Reference   *MessageReference
}

// MessageReference points at another message, for replies and crossposts.
type MessageReference struct {
	MessageID       *snowflake.ID `json:"message_id,omitempty"`
	ChannelID       *snowflake.ID `json:"channel_id,omitempty"`
	GuildID         *snowflake.ID `json:"guild_id,omitempty"`
	FailIfNotExists *bool         `json:"fail_if_not_exists,omitempty"`
}

// Attachment is an uploaded file attached to a message.
type Attachment struct {
	ID          snowflake.ID
	Filename    string
	Description *string
	ContentType *string
	Size        int
	URL         string
	ProxyURL    string
	Height      *int
	Width       *int
	Ephemeral   bool
}

// Embed is rich content. Embeds travel between request, model and wire without
// transformation, so the struct carries both encodings and structural limits.
type Embed struct {
	Title       *string        `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title" validate:"omitempty,max=256"`
	Type        *string        `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
	Description *string        `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description" validate:"omitempty,max=4096"`
	URL         *string        `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
	Timestamp   *string        `json:"timestamp,omitempty" yaml:"timestamp,omitempty" mapstructure:"timestamp"`
	Color       *int           `json:"color,omitempty" yaml:"color,omitempty" mapstructure:"color" validate:"omitempty,min=0,max=16777215"`
	Footer      *EmbedFooter   `json:"footer,omitempty" yaml:"footer,omitempty" mapstructure:"footer"`
	Image       *EmbedMedia    `json:"image,omitempty" yaml:"image,omitempty" mapstructure:"image"`
	Thumbnail   *EmbedMedia    `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty" mapstructure:"thumbnail"`
	Video       *EmbedMedia    `json:"video,omitempty" yaml:"video,omitempty" mapstructure:"video"`
	Provider    *EmbedProvider `json:"provider,omitempty" yaml:"provider,omitempty" mapstructure:"provider"`
	Author      *EmbedAuthor   `json:"author,omitempty" yaml:"author,omitempty" mapstructure:"author"`
	Fields      []*EmbedField  `json:"fields,omitempty" yaml:"fields,omitempty" mapstructure:"fields" validate:"omitempty,max=25,dive"`
}

// EmbedFooter is the footer block of an embed.
type EmbedFooter struct {
	Text         string  `json:"text" yaml:"text" mapstructure:"text" validate:"required,max=2048"`
	IconURL      *string `json:"icon_url,omitempty" yaml:"icon_url,omitempty" mapstructure:"icon_url"`
	ProxyIconURL *string `json:"proxy_icon_url,omitempty" yaml:"proxy_icon_url,omitempty" mapstructure:"proxy_icon_url"`
}

// EmbedMedia is an image, thumbnail or video block.
type EmbedMedia struct {
	URL      string  `json:"url" yaml:"url" mapstructure:"url" validate:"required"`
	ProxyURL *string `json:"proxy_url,omitempty" yaml:"proxy_url,omitempty" mapstructure:"proxy_url"`
	Height   *int    `json:"height,omitempty" yaml:"height,omitempty" mapstructure:"height"`
	Width    *int    `json:"width,omitempty" yaml:"width,omitempty" mapstructure:"width"`
}

// EmbedProvider names the embed source.
type EmbedProvider struct {
	Name *string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	URL  *string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
}

// EmbedAuthor is the author block of an embed.
type EmbedAuthor struct {
	Name         string  `json:"name" yaml:"name" mapstructure:"name" validate:"required,max=256"`
	URL          *string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
	IconURL      *string `json:"icon_url,omitempty" yaml:"icon_url,omitempty" mapstructure:"icon_url"`
	ProxyIconURL *string `json:"proxy_icon_url,omitempty" yaml:"proxy_icon_url,omitempty" mapstructure:"proxy_icon_url"`
}

// EmbedField is one name/value row.
type EmbedField struct {
	Name   string `json:"name" yaml:"name" mapstructure:"name" validate:"required,max=256"`
	Value  string `json:"value" yaml:"value" mapstructure:"value" validate:"required,max=1024"`
	Inline *bool  `json:"inline,omitempty" yaml:"inline,omitempty" mapstructure:"inline"`
}

// MaxEmbedCharacters caps the combined text of all embeds on one message.
const MaxEmbedCharacters = 6000

// TextLength counts the characters that contribute to the embed size limit.
func (e *Embed) TextLength() int {
	n := 0
	count := func(s *string) {
		if s != nil {
			n += len([]rune(*s))
		}
	}
	count(e.Title)
	count(e.Description)
	if e.Footer != nil {
		n += len([]rune(e.Footer.Text))
	}
	if e.Author != nil {
		n += len([]rune(e.Author.Name))
	}
	for _, f := range e.Fields {
		if f != nil {
			n += len([]rune(f.Name)) + len([]rune(f.Value))
		}
	}
	return n
}
