// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"

	"github.com/holomush/simcord/internal/access"
	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/markup"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

// resolvedMentions are the mentions a message actually carries.
type resolvedMentions struct {
	users    []snowflake.ID
	roles    []snowflake.ID
	everyone bool
}

// checkAllowedMentions reports parse entries that conflict with explicit
// id lists.
func checkAllowedMentions(form *apierror.FormErrors, am *wire.AllowedMentions) {
	if am == nil {
		return
	}
	if lo.Contains(am.Parse, wire.MentionParseUsers) && len(am.Users) > 0 {
		form.Add("allowed_mentions", apierror.Semantic(apierror.CodeMentionsParseExclusive,
			`parse:["users"] and users: [ids...] are mutually exclusive.`))
	}
	if lo.Contains(am.Parse, wire.MentionParseRoles) && len(am.Roles) > 0 {
		form.Add("allowed_mentions", apierror.Semantic(apierror.CodeMentionsParseExclusive,
			`parse:["roles"] and roles: [ids...] are mutually exclusive.`))
	}
}

// mentions filters what content mentions by allowed_mentions and by what the
// author may ping. Without allowed_mentions everything parses and a reply
// pings its target. Roles must be mentionable unless the author holds
// MENTION_EVERYONE, which @everyone and @here also need.
func (s *Service) mentions(g *model.Guild, perms model.Permissions, content string, am *wire.AllowedMentions, repliedUser *snowflake.ID) resolvedMentions {
	parsed := markup.Parse(content)
	canPingAll := access.Has(perms, model.PermissionMentionEveryone)

	parseUsers, parseRoles, parseEveryone, pingReply := true, true, true, true
	var allowUsers, allowRoles []snowflake.ID
	if am != nil {
		parseUsers = lo.Contains(am.Parse, wire.MentionParseUsers)
		parseRoles = lo.Contains(am.Parse, wire.MentionParseRoles)
		parseEveryone = lo.Contains(am.Parse, wire.MentionParseEveryone)
		pingReply = lo.FromPtr(am.RepliedUser)
		allowUsers, allowRoles = am.Users, am.Roles
	}

	out := resolvedMentions{users: []snowflake.ID{}, roles: []snowflake.ID{}}
	if pingReply && repliedUser != nil {
		out.users = append(out.users, *repliedUser)
	}
	for _, id := range parsed.Users {
		if !parseUsers && !lo.Contains(allowUsers, id) {
			continue
		}
		if _, ok := s.store.User(id); ok && !lo.Contains(out.users, id) {
			out.users = append(out.users, id)
		}
	}
	if g == nil {
		return out
	}
	for _, id := range parsed.Roles {
		if !parseRoles && !lo.Contains(allowRoles, id) {
			continue
		}
		role, ok := g.Role(id)
		if ok && role.ID != g.ID && (role.Mentionable || canPingAll) {
			out.roles = append(out.roles, id)
		}
	}
	out.everyone = parseEveryone && canPingAll && (parsed.Everyone || parsed.Here)
	return out
}
