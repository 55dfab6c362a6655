// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package gateway

import "strings"

// Intents is the capability bitset a session subscribes with.
type Intents uint64

// Gateway intents.
const (
	IntentGuilds Intents = 1 << iota
	IntentGuildMembers
	IntentGuildModeration
	IntentGuildEmojisAndStickers
	IntentGuildIntegrations
	IntentGuildWebhooks
	IntentGuildInvites
	IntentGuildVoiceStates
	IntentGuildPresences
	IntentGuildMessages
	IntentGuildMessageReactions
	IntentGuildMessageTyping
	IntentDirectMessages
	IntentDirectMessageReactions
	IntentDirectMessageTyping
	IntentMessageContent
	IntentGuildScheduledEvents
)

// IntentsNone requires nothing; events with no required intents are always
// delivered.
const IntentsNone Intents = 0

// IntentsPrivileged must be enabled explicitly for an application.
const IntentsPrivileged = IntentGuildMembers | IntentGuildPresences | IntentMessageContent

// IntentsAll is every intent.
const IntentsAll = IntentGuildScheduledEvents<<1 - 1

// IntentsNonPrivileged is every intent that needs no approval.
const IntentsNonPrivileged = IntentsAll &^ IntentsPrivileged

var intentNames = []string{
	"GUILDS", "GUILD_MEMBERS", "GUILD_MODERATION", "GUILD_EMOJIS_AND_STICKERS",
	"GUILD_INTEGRATIONS", "GUILD_WEBHOOKS", "GUILD_INVITES", "GUILD_VOICE_STATES",
	"GUILD_PRESENCES", "GUILD_MESSAGES", "GUILD_MESSAGE_REACTIONS", "GUILD_MESSAGE_TYPING",
	"DIRECT_MESSAGES", "DIRECT_MESSAGE_REACTIONS", "DIRECT_MESSAGE_TYPING", "MESSAGE_CONTENT",
	"GUILD_SCHEDULED_EVENTS",
}

// Has reports whether every intent in required is set.
func (i Intents) Has(required Intents) bool {
	return i&required == required
}

func (i Intents) String() string {
	if i == 0 {
		return "NONE"
	}
	var parts []string
	for bit, name := range intentNames {
		if i&(1<<bit) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseIntents parses a list of intent names. Unknown names are returned
// separately so callers can report them.
func ParseIntents(names []string) (Intents, []string) {
	var out Intents
	var unknown []string
	for _, raw := range names {
		name := strings.ToUpper(strings.TrimSpace(raw))
		switch name {
		case "":
			continue
		case "ALL":
			out |= IntentsAll
			continue
		case "NON_PRIVILEGED", "DEFAULT":
			out |= IntentsNonPrivileged
			continue
		}
		found := false
		for bit, known := range intentNames {
			if known == name {
				out |= 1 << bit
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, raw)
		}
	}
	return out, unknown
}
