// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package model

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Guild verification and notification levels used by defaults and validation.
const (
	VerificationLevelNone    = 0
	VerificationLevelHighest = 4

	MessageNotificationsAll      = 0
	MessageNotificationsMentions = 1

	ExplicitContentFilterDisabled = 0
	ExplicitContentFilterAll      = 2
)

// ValidAFKTimeouts lists the accepted afk_timeout values in seconds.
var ValidAFKTimeouts = []int{60, 300, 900, 1800, 3600}

// GuildSettings holds the scalar configuration of a guild.
type GuildSettings struct {
	AFKTimeout                  int
	VerificationLevel           int
	DefaultMessageNotifications int
	ExplicitContentFilter       int
	MFALevel                    int
	NSFWLevel                   int
	PremiumTier                 int
	PremiumSubscriptionCount    int
	SystemChannelFlags          int
	PreferredLocale             string
	Region                      string
	Features                    []string
	WidgetEnabled               bool
	VanityURLCode               *string
	MaxMembers                  int
	MaxVideoChannelUsers        int
}

// Guild is a server. It owns its roles, channels, members and the rest of its
// collections.
type Guild struct {
	ID          snowflake.ID
	Name        string
	Icon        *string
	Splash      *string
	Banner      *string
	Description *string
	OwnerID     snowflake.ID
	Settings    GuildSettings

	AFKChannelID           *snowflake.ID
	SystemChannelID        *snowflake.ID
	RulesChannelID         *snowflake.ID
	PublicUpdatesChannelID *snowflake.ID
	WidgetChannelID        *snowflake.ID
	ApplicationID          *snowflake.ID

	JoinedAt time.Time

	Roles           *Map[*Role]
	Channels        *Map[*Channel]
	Members         *Map[*Member]
	Emojis          *Map[*Emoji]
	Stickers        *Map[*Sticker]
	VoiceStates     *Map[*VoiceState]
	Presences       *Map[*Presence]
	ScheduledEvents *Map[*ScheduledEvent]
	AuditLog        []*AuditLogEntry
	WelcomeScreen   *WelcomeScreen
	Template        *GuildTemplate
}

// EveryoneRole returns the implicit base role whose id equals the guild id.
func (g *Guild) EveryoneRole() *Role {
	if g.Roles == nil {
		return nil
	}
	r, _ := g.Roles.Get(g.ID)
	return r
}

// Role returns a role by id.
func (g *Guild) Role(id snowflake.ID) (*Role, bool) {
	if g.Roles == nil {
		return nil, false
	}
	return g.Roles.Get(id)
}

// Channel returns a guild channel by id.
func (g *Guild) Channel(id snowflake.ID) (*Channel, bool) {
	if g.Channels == nil {
		return nil, false
	}
	return g.Channels.Get(id)
}

// Member returns a member by user id.
func (g *Guild) Member(userID snowflake.ID) (*Member, bool) {
	if g.Members == nil {
		return nil, false
	}
	return g.Members.Get(userID)
}

// Emoji returns a custom emoji by id.
func (g *Guild) Emoji(id snowflake.ID) (*Emoji, bool) {
	if g.Emojis == nil {
		return nil, false
	}
	return g.Emojis.Get(id)
}

// Role is a named permission set within a guild.
type Role struct {
	ID           snowflake.ID
	Name         string
	Color        int
	Hoist        bool
	Icon         *string
	UnicodeEmoji *string
	Position     int
	Permissions  Permissions
	Managed      bool
	Mentionable  bool
	Tags         *RoleTags
}

// RoleTags marks roles owned by integrations or bots.
type RoleTags struct {
	BotID             *snowflake.ID
	IntegrationID     *snowflake.ID
	PremiumSubscriber bool
}

// Member is a user's membership in a guild. Its id is the user id.
type Member struct {
	UserID                     snowflake.ID
	Nick                       *string
	Avatar                     *string
	RoleIDs                    []snowflake.ID
	JoinedAt                   time.Time
	PremiumSince               *time.Time
	Deaf                       bool
	Mute                       bool
	Pending                    bool
	CommunicationDisabledUntil *time.Time
}

// HasRole reports whether the member holds the role.
func (m *Member) HasRole(id snowflake.ID) bool {
	return ContainsID(m.RoleIDs, id)
}
