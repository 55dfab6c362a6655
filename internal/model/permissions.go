// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package model

import (
	"encoding/json"
	"strconv"

	"github.com/samber/oops"
)

// Permissions is a capability bitset. It is encoded as a decimal string on the wire.
type Permissions uint64

// Permission bits.
const (
	PermissionCreateInstantInvite Permissions = 1 << iota
	PermissionKickMembers
	PermissionBanMembers
	PermissionAdministrator
	PermissionManageChannels
	PermissionManageGuild
	PermissionAddReactions
	PermissionViewAuditLog
	PermissionPrioritySpeaker
	PermissionStream
	PermissionViewChannel
	PermissionSendMessages
	PermissionSendTTSMessages
	PermissionManageMessages
	PermissionEmbedLinks
	PermissionAttachFiles
	PermissionReadMessageHistory
	PermissionMentionEveryone
	PermissionUseExternalEmojis
	PermissionViewGuildInsights
	PermissionConnect
	PermissionSpeak
	PermissionMuteMembers
	PermissionDeafenMembers
	PermissionMoveMembers
	PermissionUseVAD
	PermissionChangeNickname
	PermissionManageNicknames
	PermissionManageRoles
	PermissionManageWebhooks
	PermissionManageEmojisAndStickers
	PermissionUseApplicationCommands
	PermissionRequestToSpeak
	PermissionManageEvents
	PermissionManageThreads
	PermissionCreatePublicThreads
	PermissionCreatePrivateThreads
	PermissionUseExternalStickers
	PermissionSendMessagesInThreads
	PermissionUseEmbeddedActivities
	PermissionModerateMembers
)

// PermissionsAll has every known permission bit set.
const PermissionsAll = PermissionModerateMembers<<1 - 1

// PermissionsNone is the empty bitset.
const PermissionsNone Permissions = 0

// DefaultPermissions is the bitset granted to a freshly created @everyone role
// and to roles created without explicit permissions.
const DefaultPermissions = PermissionCreateInstantInvite |
	PermissionAddReactions |
	PermissionStream |
	PermissionViewChannel |
	PermissionSendMessages |
	PermissionEmbedLinks |
	PermissionAttachFiles |
	PermissionReadMessageHistory |
	PermissionMentionEveryone |
	PermissionUseExternalEmojis |
	PermissionConnect |
	PermissionSpeak |
	PermissionUseVAD |
	PermissionChangeNickname |
	PermissionUseApplicationCommands |
	PermissionRequestToSpeak |
	PermissionCreatePublicThreads |
	PermissionCreatePrivateThreads |
	PermissionUseExternalStickers |
	PermissionSendMessagesInThreads |
	PermissionUseEmbeddedActivities

// DMPermissions is what a recipient implicitly holds in a DM channel.
const DMPermissions = PermissionViewChannel |
	PermissionSendMessages |
	PermissionSendTTSMessages |
	PermissionEmbedLinks |
	PermissionAttachFiles |
	PermissionReadMessageHistory |
	PermissionAddReactions |
	PermissionUseExternalEmojis

// Has reports whether every bit of required is set in p.
func (p Permissions) Has(required Permissions) bool {
	return p&required == required
}

// Add returns p with the given bits set.
func (p Permissions) Add(bits Permissions) Permissions {
	return p | bits
}

// Remove returns p with the given bits cleared.
func (p Permissions) Remove(bits Permissions) Permissions {
	return p &^ bits
}

// Apply applies an overwrite pair: deny first, then allow.
func (p Permissions) Apply(allow, deny Permissions) Permissions {
	return (p &^ deny) | allow
}

// Missing returns the bits of required that are not set in p.
func (p Permissions) Missing(required Permissions) Permissions {
	return required &^ p
}

func (p Permissions) String() string {
	return strconv.FormatUint(uint64(p), 10)
}

// MarshalJSON encodes the bitset as a decimal string.
func (p Permissions) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// UnmarshalJSON accepts either a decimal string or a bare number.
func (p *Permissions) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n uint64
		if numErr := json.Unmarshal(data, &n); numErr != nil {
			return oops.Code("INVALID_PERMISSIONS").With("value", string(data)).Wrap(numErr)
		}
		*p = Permissions(n)
		return nil
	}
	return p.UnmarshalText([]byte(s))
}

// UnmarshalText parses a decimal bitset.
func (p *Permissions) UnmarshalText(text []byte) error {
	n, err := strconv.ParseUint(string(text), 10, 64)
	if err != nil {
		return oops.Code("INVALID_PERMISSIONS").With("value", string(text)).Wrap(err)
	}
	*p = Permissions(n)
	return nil
}
