// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package model

import "github.com/disgoorg/snowflake/v2"

// AuditLogEvent is the action type of an audit log entry.
type AuditLogEvent int

// Audit log action types.
const (
	AuditLogGuildUpdate               AuditLogEvent = 1
	AuditLogChannelCreate             AuditLogEvent = 10
	AuditLogChannelUpdate             AuditLogEvent = 11
	AuditLogChannelDelete             AuditLogEvent = 12
	AuditLogChannelOverwriteCreate    AuditLogEvent = 13
	AuditLogChannelOverwriteUpdate    AuditLogEvent = 14
	AuditLogChannelOverwriteDelete    AuditLogEvent = 15
	AuditLogMemberKick                AuditLogEvent = 20
	AuditLogMemberPrune               AuditLogEvent = 21
	AuditLogMemberBanAdd              AuditLogEvent = 22
	AuditLogMemberBanRemove           AuditLogEvent = 23
	AuditLogMemberUpdate              AuditLogEvent = 24
	AuditLogMemberRoleUpdate          AuditLogEvent = 25
	AuditLogMemberMove                AuditLogEvent = 26
	AuditLogMemberDisconnect          AuditLogEvent = 27
	AuditLogBotAdd                    AuditLogEvent = 28
	AuditLogRoleCreate                AuditLogEvent = 30
	AuditLogRoleUpdate                AuditLogEvent = 31
	AuditLogRoleDelete                AuditLogEvent = 32
	AuditLogInviteCreate              AuditLogEvent = 40
	AuditLogInviteUpdate              AuditLogEvent = 41
	AuditLogInviteDelete              AuditLogEvent = 42
	AuditLogWebhookCreate             AuditLogEvent = 50
	AuditLogWebhookUpdate             AuditLogEvent = 51
	AuditLogWebhookDelete             AuditLogEvent = 52
	AuditLogEmojiCreate               AuditLogEvent = 60
	AuditLogEmojiUpdate               AuditLogEvent = 61
	AuditLogEmojiDelete               AuditLogEvent = 62
	AuditLogMessageDelete             AuditLogEvent = 72
	AuditLogMessageBulkDelete         AuditLogEvent = 73
	AuditLogMessagePin                AuditLogEvent = 74
	AuditLogMessageUnpin              AuditLogEvent = 75
	AuditLogStickerCreate             AuditLogEvent = 90
	AuditLogStickerUpdate             AuditLogEvent = 91
	AuditLogStickerDelete             AuditLogEvent = 92
	AuditLogGuildScheduledEventCreate AuditLogEvent = 100
	AuditLogGuildScheduledEventUpdate AuditLogEvent = 101
	AuditLogGuildScheduledEventDelete AuditLogEvent = 102
	AuditLogThreadCreate              AuditLogEvent = 110
	AuditLogThreadUpdate              AuditLogEvent = 111
	AuditLogThreadDelete              AuditLogEvent = 112
)

// AuditLogOption names one field of the options block.
type AuditLogOption int

// Option fields an action type may require.
const (
	OptionChannelID AuditLogOption = 1 << iota
	OptionCount
	OptionDeleteMemberDays
	OptionMembersRemoved
	OptionMessageID
	OptionOverwrittenID
	OptionOverwrittenType
	OptionRoleName
)

// AuditShape is the variant description of an action type: which of
// target_id, changes and options an entry of that type carries.
type AuditShape struct {
	Target  bool
	Changes bool
	Options AuditLogOption
}

var auditShapes = map[AuditLogEvent]AuditShape{
	AuditLogGuildUpdate:               {Target: true, Changes: true},
	AuditLogChannelCreate:             {Target: true, Changes: true},
	AuditLogChannelUpdate:             {Target: true, Changes: true},
	AuditLogChannelDelete:             {Target: true, Changes: true},
	AuditLogChannelOverwriteCreate:    {Target: true, Changes: true, Options: OptionOverwrittenID | OptionOverwrittenType | OptionRoleName},
	AuditLogChannelOverwriteUpdate:    {Target: true, Changes: true, Options: OptionOverwrittenID | OptionOverwrittenType | OptionRoleName},
	AuditLogChannelOverwriteDelete:    {Target: true, Changes: true, Options: OptionOverwrittenID | OptionOverwrittenType | OptionRoleName},
	AuditLogMemberKick:                {Target: true},
	AuditLogMemberPrune:               {Options: OptionDeleteMemberDays | OptionMembersRemoved},
	AuditLogMemberBanAdd:              {Target: true},
	AuditLogMemberBanRemove:           {Target: true},
	AuditLogMemberUpdate:              {Target: true, Changes: true},
	AuditLogMemberRoleUpdate:          {Target: true, Changes: true},
	AuditLogMemberMove:                {Options: OptionChannelID | OptionCount},
	AuditLogMemberDisconnect:          {Options: OptionCount},
	AuditLogBotAdd:                    {Target: true},
	AuditLogRoleCreate:                {Target: true, Changes: true},
	AuditLogRoleUpdate:                {Target: true, Changes: true},
	AuditLogRoleDelete:                {Target: true, Changes: true},
	AuditLogInviteCreate:              {Changes: true},
	AuditLogInviteUpdate:              {Changes: true},
	AuditLogInviteDelete:              {Changes: true},
	AuditLogWebhookCreate:             {Target: true, Changes: true},
	AuditLogWebhookUpdate:             {Target: true, Changes: true},
	AuditLogWebhookDelete:             {Target: true, Changes: true},
	AuditLogEmojiCreate:               {Target: true, Changes: true},
	AuditLogEmojiUpdate:               {Target: true, Changes: true},
	AuditLogEmojiDelete:               {Target: true, Changes: true},
	AuditLogMessageDelete:             {Target: true, Options: OptionChannelID | OptionCount},
	AuditLogMessageBulkDelete:         {Target: true, Options: OptionCount},
	AuditLogMessagePin:                {Target: true, Options: OptionChannelID | OptionMessageID},
	AuditLogMessageUnpin:              {Target: true, Options: OptionChannelID | OptionMessageID},
	AuditLogStickerCreate:             {Target: true, Changes: true},
	AuditLogStickerUpdate:             {Target: true, Changes: true},
	AuditLogStickerDelete:             {Target: true, Changes: true},
	AuditLogGuildScheduledEventCreate: {Target: true, Changes: true},
	AuditLogGuildScheduledEventUpdate: {Target: true, Changes: true},
	AuditLogGuildScheduledEventDelete: {Target: true, Changes: true},
	AuditLogThreadCreate:              {Target: true, Changes: true},
	AuditLogThreadUpdate:              {Target: true, Changes: true},
	AuditLogThreadDelete:              {Target: true, Changes: true},
}

// IsValid returns true for known action types.
func (e AuditLogEvent) IsValid() bool {
	_, ok := auditShapes[e]
	return ok
}

// Shape returns the variant description for the action type.
func (e AuditLogEvent) Shape() AuditShape {
	return auditShapes[e]
}

// AuditLogEntry is a tagged union: ActionType decides which of TargetID,
// Changes and Options are meaningful.
type AuditLogEntry struct {
	ID         snowflake.ID
	ActionType AuditLogEvent
	UserID     *snowflake.ID
	Reason     *string
	TargetID   *snowflake.ID
	Changes    []AuditLogChange
	Options    *AuditLogOptions
}

// AuditLogChange records one changed key. A nil value means the side is absent.
type AuditLogChange struct {
	Key      string `json:"key"`
	OldValue any    `json:"old_value,omitempty"`
	NewValue any    `json:"new_value,omitempty"`
}

// AuditLogOptions carries the optional entry info block.
type AuditLogOptions struct {
	ChannelID        *snowflake.ID `json:"channel_id,omitempty"`
	Count            *string       `json:"count,omitempty"`
	DeleteMemberDays *string       `json:"delete_member_days,omitempty"`
	MembersRemoved   *string       `json:"members_removed,omitempty"`
	MessageID        *snowflake.ID `json:"message_id,omitempty"`
	ID               *snowflake.ID `json:"id,omitempty"`
	Type             *string       `json:"type,omitempty"`
	RoleName         *string       `json:"role_name,omitempty"`
}
