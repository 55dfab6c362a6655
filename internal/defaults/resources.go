// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package defaults

import (
	"github.com/samber/oops"

	"github.com/holomush/simcord/internal/model"
)

// AddInvite builds an invite for an existing channel. The code is generated
// unless given; a given code is reserved so it is never generated later.
func (e *Engine) AddInvite(spec InviteSpec) (*model.Invite, error) {
	if spec.ChannelID == nil {
		return nil, oops.Code("INVITE_CHANNEL_REQUIRED").Errorf("invite needs a channel")
	}
	ch, _, ok := e.store.Channel(*spec.ChannelID)
	if !ok {
		return nil, oops.Code("INVITE_CHANNEL_UNKNOWN").
			With("channel_id", *spec.ChannelID).
			Errorf("invite references unknown channel %s", *spec.ChannelID)
	}
	var code string
	if spec.Code != nil {
		code = *spec.Code
		e.ids.ReserveCode(code)
	} else {
		code = e.ids.Code()
	}
	inv := &model.Invite{
		Code:      code,
		GuildID:   ch.GuildID,
		ChannelID: ch.ID,
		InviterID: spec.InviterID,
		MaxAge:    val(spec.MaxAge, InviteMaxAge),
		MaxUses:   val(spec.MaxUses, 0),
		Uses:      val(spec.Uses, 0),
		Temporary: val(spec.Temporary, false),
		CreatedAt: val(spec.CreatedAt, e.store.Now()),

		TargetType:   spec.TargetType,
		TargetUserID: spec.TargetUserID,
	}
	if inv.TargetUserID != nil {
		e.ensureUser(*inv.TargetUserID)
	}
	if inv.InviterID == nil && e.currentUser != 0 {
		inv.InviterID = model.Ptr(e.currentUser)
	}
	if inv.InviterID != nil {
		e.ensureUser(*inv.InviterID)
	}
	e.store.Invites.Set(inv.Code, inv)
	return inv, nil
}

// AddWebhook builds a webhook for an existing guild channel. Incoming
// webhooks get a generated token.
func (e *Engine) AddWebhook(spec WebhookSpec) (*model.Webhook, error) {
	if spec.ChannelID == nil {
		return nil, oops.Code("WEBHOOK_CHANNEL_REQUIRED").Errorf("webhook needs a channel")
	}
	ch, g, ok := e.store.Channel(*spec.ChannelID)
	if !ok || g == nil {
		return nil, oops.Code("WEBHOOK_CHANNEL_UNKNOWN").
			With("channel_id", *spec.ChannelID).
			Errorf("webhook references unknown guild channel %s", *spec.ChannelID)
	}
	kind := val(spec.Type, model.WebhookTypeIncoming)
	w := &model.Webhook{
		ID:            e.id(spec.ID),
		Type:          kind,
		GuildID:       model.Ptr(g.ID),
		ChannelID:     model.Ptr(ch.ID),
		CreatorID:     spec.CreatorID,
		Name:          model.Ptr(val(spec.Name, WebhookName)),
		Avatar:        spec.Avatar,
		Token:         spec.Token,
		ApplicationID: spec.ApplicationID,
	}
	if w.CreatorID == nil && e.currentUser != 0 {
		w.CreatorID = model.Ptr(e.currentUser)
	}
	if w.CreatorID != nil {
		e.ensureUser(*w.CreatorID)
	}
	if w.Token == nil && kind == model.WebhookTypeIncoming {
		w.Token = model.Ptr(e.ids.Token())
	}
	e.store.Webhooks.Set(w.ID, w)
	return w, nil
}

// AddVoiceRegion registers a voice region keyed by id.
func (e *Engine) AddVoiceRegion(spec VoiceRegionSpec) *model.VoiceRegion {
	id := val(spec.ID, "us-west")
	r := &model.VoiceRegion{
		ID:         id,
		Name:       val(spec.Name, id),
		Optimal:    val(spec.Optimal, false),
		Deprecated: val(spec.Deprecated, false),
		Custom:     val(spec.Custom, false),
	}
	e.store.VoiceRegions.Set(r.ID, r)
	return r
}

// VoiceRegions is the region list used when a seed names none.
func VoiceRegions() []VoiceRegionSpec {
	region := func(id, name string, optimal bool) VoiceRegionSpec {
		return VoiceRegionSpec{ID: &id, Name: &name, Optimal: &optimal}
	}
	return []VoiceRegionSpec{
		region("us-west", "US West", true),
		region("us-east", "US East", false),
		region("us-central", "US Central", false),
		region("us-south", "US South", false),
		region("rotterdam", "Rotterdam", false),
		region("singapore", "Singapore", false),
		region("japan", "Japan", false),
		region("brazil", "Brazil", false),
		region("sydney", "Sydney", false),
	}
}
