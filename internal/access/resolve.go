// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package access

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/model"
)

// Resolve computes the effective permissions of member in guild, narrowed to
// channel when one is given. The guild owner and administrators hold every
// permission and are never narrowed by overwrites.
//
// Threads inherit the overwrites of their parent channel.
func Resolve(guild *model.Guild, member *model.Member, channel *model.Channel) model.Permissions {
	if guild == nil || member == nil {
		return model.PermissionsNone
	}
	if member.UserID == guild.OwnerID {
		return model.PermissionsAll
	}

	base := model.PermissionsNone
	if everyone := guild.EveryoneRole(); everyone != nil {
		base = everyone.Permissions
	}
	for _, id := range member.RoleIDs {
		if role, ok := guild.Role(id); ok {
			base |= role.Permissions
		}
	}
	if base.Has(model.PermissionAdministrator) {
		return model.PermissionsAll
	}
	if channel == nil {
		return base
	}
	if channel.Type.IsThread() && channel.ParentID != nil {
		if parent, ok := guild.Channel(*channel.ParentID); ok {
			channel = parent
		}
	}
	if channel.Overwrites == nil {
		return base
	}

	perms := base
	if ow, ok := channel.Overwrite(guild.ID); ok {
		perms = perms.Apply(ow.Allow, ow.Deny)
	}

	var allow, deny model.Permissions
	for pair := channel.Overwrites.Oldest(); pair != nil; pair = pair.Next() {
		ow := pair.Value
		if ow.Type != model.OverwriteTypeRole || ow.ID == guild.ID {
			continue
		}
		if member.HasRole(ow.ID) {
			allow |= ow.Allow
			deny |= ow.Deny
		}
	}
	perms = perms.Apply(allow, deny)

	if ow, ok := channel.Overwrite(member.UserID); ok && ow.Type == model.OverwriteTypeMember {
		perms = perms.Apply(ow.Allow, ow.Deny)
	}
	return perms
}

// ResolveDM returns the permissions a user holds in a private channel:
// recipients hold the DM set, everyone else nothing.
func ResolveDM(channel *model.Channel, userID snowflake.ID) model.Permissions {
	if channel == nil || channel.DM == nil {
		return model.PermissionsNone
	}
	if model.ContainsID(channel.DM.RecipientIDs, userID) {
		return model.DMPermissions
	}
	return model.PermissionsNone
}

// Has reports whether perms satisfy required. Administrator satisfies
// everything.
func Has(perms, required model.Permissions) bool {
	if perms.Has(model.PermissionAdministrator) {
		return true
	}
	return perms.Has(required)
}

// Require returns MissingPermissions unless perms satisfy required.
func Require(perms, required model.Permissions) error {
	if Has(perms, required) {
		return nil
	}
	return apierror.New(apierror.MissingPermissions)
}

// RequireView returns MissingAccess unless perms include VIEW_CHANNEL.
func RequireView(perms model.Permissions) error {
	if Has(perms, model.PermissionViewChannel) {
		return nil
	}
	return apierror.New(apierror.MissingAccess)
}

// Subject is a resolved requester in one channel or guild context.
type Subject struct {
	UserID snowflake.ID
	Guild  *model.Guild
	Member *model.Member
	Perms  model.Permissions
}

// ForGuild resolves userID's permissions in guild, optionally in channel. A
// user who is not a member gets MissingAccess.
func ForGuild(guild *model.Guild, userID snowflake.ID, channel *model.Channel) (Subject, error) {
	member, ok := guild.Member(userID)
	if !ok {
		if userID == guild.OwnerID {
			return Subject{UserID: userID, Guild: guild, Perms: model.PermissionsAll}, nil
		}
		return Subject{}, apierror.New(apierror.MissingAccess)
	}
	return Subject{
		UserID: userID,
		Guild:  guild,
		Member: member,
		Perms:  Resolve(guild, member, channel),
	}, nil
}

// ForChannel resolves userID's permissions in a channel that may be a DM.
func ForChannel(guild *model.Guild, channel *model.Channel, userID snowflake.ID) (Subject, error) {
	if guild == nil {
		perms := ResolveDM(channel, userID)
		if perms == model.PermissionsNone {
			return Subject{}, apierror.New(apierror.MissingAccess)
		}
		return Subject{UserID: userID, Perms: perms}, nil
	}
	return ForGuild(guild, userID, channel)
}
