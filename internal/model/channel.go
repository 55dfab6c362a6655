// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package model

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// ChannelType discriminates the channel variants.
type ChannelType int

// Channel variants.
const (
	ChannelTypeText          ChannelType = 0
	ChannelTypeDM            ChannelType = 1
	ChannelTypeVoice         ChannelType = 2
	ChannelTypeGroupDM       ChannelType = 3
	ChannelTypeCategory      ChannelType = 4
	ChannelTypeNews          ChannelType = 5
	ChannelTypeStore         ChannelType = 6
	ChannelTypeNewsThread    ChannelType = 10
	ChannelTypePublicThread  ChannelType = 11
	ChannelTypePrivateThread ChannelType = 12
	ChannelTypeStageVoice    ChannelType = 13
)

// IsValid returns true for every known channel type.
func (t ChannelType) IsValid() bool {
	switch t {
	case ChannelTypeText, ChannelTypeDM, ChannelTypeVoice, ChannelTypeGroupDM,
		ChannelTypeCategory, ChannelTypeNews, ChannelTypeStore,
		ChannelTypeNewsThread, ChannelTypePublicThread, ChannelTypePrivateThread,
		ChannelTypeStageVoice:
		return true
	default:
		return false
	}
}

// IsThread returns true for the three thread variants.
func (t ChannelType) IsThread() bool {
	return t == ChannelTypeNewsThread || t == ChannelTypePublicThread || t == ChannelTypePrivateThread
}

// IsDM returns true for private channels.
func (t ChannelType) IsDM() bool {
	return t == ChannelTypeDM || t == ChannelTypeGroupDM
}

// IsVoice returns true for channels that carry voice settings.
func (t ChannelType) IsVoice() bool {
	return t == ChannelTypeVoice || t == ChannelTypeStageVoice
}

// IsTextCapable returns true for channels that own messages.
func (t ChannelType) IsTextCapable() bool {
	return t == ChannelTypeText || t == ChannelTypeNews || t.IsDM() || t.IsThread()
}

// CreatableInGuild lists the types a guild channel create request may use.
func (t ChannelType) CreatableInGuild() bool {
	switch t {
	case ChannelTypeText, ChannelTypeVoice, ChannelTypeCategory, ChannelTypeNews,
		ChannelTypeStore, ChannelTypeStageVoice:
		return true
	default:
		return false
	}
}

// Channel is a tagged variant. Common fields live on the struct; exactly the
// settings blocks that belong to Type are non-nil after defaulting:
//   - text, news, store: Text
//   - voice, stage: Voice
//   - threads: Text and Thread
//   - DM, group DM: DM
//   - category: none
type Channel struct {
	ID       snowflake.ID
	Type     ChannelType
	GuildID  *snowflake.ID
	Name     string
	Position int
	ParentID *snowflake.ID
	Flags    int

	Overwrites *Map[*Overwrite]
	Messages   *Map[*Message]

	Text   *TextSettings
	Voice  *VoiceSettings
	Thread *ThreadSettings
	DM     *DMSettings
}

// TextSettings belongs to text-like channels.
type TextSettings struct {
	Topic                      *string
	NSFW                       bool
	RateLimitPerUser           int
	LastMessageID              *snowflake.ID
	LastPinTimestamp           *time.Time
	DefaultAutoArchiveDuration int
}

// VoiceSettings belongs to voice and stage channels.
type VoiceSettings struct {
	Bitrate          int
	UserLimit        int
	RTCRegion        *string
	VideoQualityMode int
	NSFW             bool
}

// ThreadSettings belongs to threads.
type ThreadSettings struct {
	OwnerID             snowflake.ID
	Archived            bool
	AutoArchiveDuration int
	ArchiveTimestamp    time.Time
	Locked              bool
	Invitable           *bool
	MessageCount        int
	MemberCount         int
}

// DMSettings belongs to private channels.
type DMSettings struct {
	RecipientIDs  []snowflake.ID
	LastMessageID *snowflake.ID
	OwnerID       *snowflake.ID
	Icon          *string
}

// Message returns a message owned by the channel.
func (c *Channel) Message(id snowflake.ID) (*Message, bool) {
	if c.Messages == nil {
		return nil, false
	}
	return c.Messages.Get(id)
}

// Overwrite returns the overwrite targeting id.
func (c *Channel) Overwrite(id snowflake.ID) (*Overwrite, bool) {
	if c.Overwrites == nil {
		return nil, false
	}
	return c.Overwrites.Get(id)
}

// InGuild reports whether the channel belongs to a guild.
func (c *Channel) InGuild() bool {
	return c.GuildID != nil
}

// NSFW reports the nsfw flag of whichever settings block carries it.
func (c *Channel) NSFW() bool {
	switch {
	case c.Text != nil:
		return c.Text.NSFW
	case c.Voice != nil:
		return c.Voice.NSFW
	default:
		return false
	}
}

// OverwriteType discriminates overwrite targets.
type OverwriteType int

// Overwrite target kinds.
const (
	OverwriteTypeRole   OverwriteType = 0
	OverwriteTypeMember OverwriteType = 1
)

// IsValid returns true for role and member overwrites.
func (t OverwriteType) IsValid() bool {
	return t == OverwriteTypeRole || t == OverwriteTypeMember
}

// Overwrite is a per-channel permission delta for one role or member.
type Overwrite struct {
	ID    snowflake.ID
	Type  OverwriteType
	Allow Permissions
	Deny  Permissions
}
