// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package gateway

import "strings"

// EventName is a dispatch event name.
type EventName string

// Dispatch events emitted by the backend.
const (
	EventReady                     EventName = "READY"
	EventGuildCreate               EventName = "GUILD_CREATE"
	EventGuildUpdate               EventName = "GUILD_UPDATE"
	EventGuildDelete               EventName = "GUILD_DELETE"
	EventGuildRoleCreate           EventName = "GUILD_ROLE_CREATE"
	EventGuildRoleUpdate           EventName = "GUILD_ROLE_UPDATE"
	EventGuildRoleDelete           EventName = "GUILD_ROLE_DELETE"
	EventChannelCreate             EventName = "CHANNEL_CREATE"
	EventChannelUpdate             EventName = "CHANNEL_UPDATE"
	EventChannelDelete             EventName = "CHANNEL_DELETE"
	EventChannelPinsUpdate         EventName = "CHANNEL_PINS_UPDATE"
	EventThreadCreate              EventName = "THREAD_CREATE"
	EventThreadUpdate              EventName = "THREAD_UPDATE"
	EventThreadDelete              EventName = "THREAD_DELETE"
	EventGuildEmojisUpdate         EventName = "GUILD_EMOJIS_UPDATE"
	EventGuildStickersUpdate       EventName = "GUILD_STICKERS_UPDATE"
	EventGuildMemberAdd            EventName = "GUILD_MEMBER_ADD"
	EventGuildMemberUpdate         EventName = "GUILD_MEMBER_UPDATE"
	EventGuildMemberRemove         EventName = "GUILD_MEMBER_REMOVE"
	EventInviteCreate              EventName = "INVITE_CREATE"
	EventInviteDelete              EventName = "INVITE_DELETE"
	EventWebhooksUpdate            EventName = "WEBHOOKS_UPDATE"
	EventMessageCreate             EventName = "MESSAGE_CREATE"
	EventMessageUpdate             EventName = "MESSAGE_UPDATE"
	EventMessageDelete             EventName = "MESSAGE_DELETE"
	EventMessageDeleteBulk         EventName = "MESSAGE_DELETE_BULK"
	EventGuildScheduledEventCreate EventName = "GUILD_SCHEDULED_EVENT_CREATE"
	EventGuildScheduledEventUpdate EventName = "GUILD_SCHEDULED_EVENT_UPDATE"
	EventGuildScheduledEventDelete EventName = "GUILD_SCHEDULED_EVENT_DELETE"
)

// RequiredIntents returns the intents a session needs to receive the event.
// Message events depend on whether they happen in a guild or a DM.
func RequiredIntents(name EventName, private bool) Intents {
	n := string(name)
	switch {
	case name == EventReady:
		return IntentsNone
	case name == EventGuildEmojisUpdate, name == EventGuildStickersUpdate:
		return IntentGuildEmojisAndStickers
	case strings.HasPrefix(n, "GUILD_MEMBER_"):
		return IntentGuildMembers
	case strings.HasPrefix(n, "GUILD_SCHEDULED_EVENT_"):
		return IntentGuildScheduledEvents
	case strings.HasPrefix(n, "INVITE_"):
		return IntentGuildInvites
	case name == EventWebhooksUpdate:
		return IntentGuildWebhooks
	case strings.HasPrefix(n, "MESSAGE_"):
		if private {
			return IntentDirectMessages
		}
		return IntentGuildMessages
	case name == EventChannelPinsUpdate && private:
		return IntentDirectMessages
	case strings.HasPrefix(n, "GUILD_"), strings.HasPrefix(n, "CHANNEL_"), strings.HasPrefix(n, "THREAD_"):
		return IntentGuilds
	default:
		return IntentsNone
	}
}
