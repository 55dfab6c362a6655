// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

func (s *Service) webhookRoutes() []Route {
	return []Route{
		{Method: MethodGet, Pattern: "webhooks/{webhook}", Name: "webhooks.get", Handle: s.getWebhook()},
		{Method: MethodDelete, Pattern: "webhooks/{webhook}", Name: "webhooks.delete", Handle: s.deleteWebhook()},
		{Method: MethodGet, Pattern: "webhooks/{webhook}/{token}", Name: "webhooks.get_with_token", Handle: s.getWebhookWithToken()},
		{Method: MethodPost, Pattern: "webhooks/{webhook}/{token}", Name: "webhooks.execute", Handle: s.executeWebhook()},
	}
}

func (s *Service) resolveWebhook(t *target) error {
	id, ok := parseID(t.req.Param("webhook"))
	if !ok {
		return apierror.New(apierror.UnknownWebhook)
	}
	w, ok := s.store.Webhook(id)
	if !ok {
		return apierror.New(apierror.UnknownWebhook)
	}
	t.webhook = w
	if w.ChannelID != nil {
		if ch, g, ok := s.store.Channel(*w.ChannelID); ok {
			t.channel, t.guild = ch, g
		}
	}
	return nil
}

// requireToken checks the token path segment against the webhook's token.
func requireToken(t *target) error {
	given := t.req.Param("token")
	w := t.webhook
	if w.Token == nil || subtle.ConstantTimeCompare([]byte(*w.Token), []byte(given)) != 1 {
		return apierror.New(apierror.InvalidWebhookToken)
	}
	return nil
}

// manageWebhook authorizes MANAGE_WEBHOOKS in the webhook's guild.
func (s *Service) manageWebhook(t *target) error {
	if t.guild == nil {
		return apierror.New(apierror.MissingAccess)
	}
	return s.guildPermission(t, model.PermissionManageWebhooks)
}

func (s *Service) getWebhook() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveWebhook,
		authorize: func(t *target, _ *noBody) error {
			return s.manageWebhook(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			return s.conv.Webhook(t.webhook, true), nil
		},
	})
}

func (s *Service) getWebhookWithToken() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveWebhook,
		authorize: func(t *target, _ *noBody) error {
			return requireToken(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := s.conv.Webhook(t.webhook, true)
			out.User = nil
			return out, nil
		},
	})
}

func (s *Service) deleteWebhook() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveWebhook,
		authorize: func(t *target, _ *noBody) error {
			return s.manageWebhook(t)
		},
		apply: func(ctx context.Context, t *target, _ *noBody) (any, error) {
			w := t.webhook
			s.store.Webhooks.Delete(w.ID)
			s.audit(t.guild, t.req, model.AuditLogWebhookDelete, w.ID, webhookChanges(w, true), nil)
			s.emitWebhooksUpdate(ctx, t)
			return nil, nil
		},
	})
}

func webhookChanges(w *model.Webhook, deleted bool) changeSet {
	var c changeSet
	record := lo.Ternary(deleted, c.removed, c.created)
	record("name", w.Name)
	record("type", w.Type)
	record("channel_id", w.ChannelID)
	record("avatar_hash", w.Avatar)
	return c
}

func (s *Service) emitWebhooksUpdate(ctx context.Context, t *target) {
	s.emit(ctx, t.channel, gateway.EventWebhooksUpdate, wire.WebhooksUpdate{
		GuildID:   t.guild.ID,
		ChannelID: t.channel.ID,
	})
}

func (s *Service) listChannelWebhooks() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveChannel,
		authorize: func(t *target, _ *noBody) error {
			if !t.channel.InGuild() {
				return apierror.New(apierror.InvalidChannelType)
			}
			return s.channelPermission(t, model.PermissionManageWebhooks)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := []wire.Webhook{}
			for _, w := range model.Values(s.store.Webhooks) {
				if w.ChannelID != nil && *w.ChannelID == t.channel.ID {
					out = append(out, s.conv.Webhook(w, true))
				}
			}
			return out, nil
		},
	})
}

func (s *Service) createWebhook() HandlerFunc {
	return run(s, op[wire.WebhookCreate]{
		resolve: s.resolveChannel,
		structural: func(_ *target, b *wire.WebhookCreate, form *apierror.FormErrors) {
			if strings.Contains(strings.ToLower(b.Name), "clyde") {
				form.Add("name", apierror.Semantic(apierror.CodeWebhookNameReserved, `Username cannot contain "clyde"`))
			}
		},
		authorize: func(t *target, _ *wire.WebhookCreate) error {
			if !t.channel.InGuild() {
				return apierror.New(apierror.InvalidChannelType)
			}
			return s.channelPermission(t, model.PermissionManageWebhooks)
		},
		check: func(t *target, _ *wire.WebhookCreate, _ *apierror.FormErrors) error {
			if t.channel.Type != model.ChannelTypeText && t.channel.Type != model.ChannelTypeNews {
				return apierror.New(apierror.InvalidChannelType)
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, b *wire.WebhookCreate) (any, error) {
			w, err := s.engine.AddWebhook(defaults.WebhookSpec{
				Type:      model.Ptr(model.WebhookTypeIncoming),
				ChannelID: &t.channel.ID,
				CreatorID: &t.req.UserID,
				Name:      &b.Name,
				Avatar:    imageHash(b.Avatar),
			})
			if err != nil {
				return nil, err
			}
			s.audit(t.guild, t.req, model.AuditLogWebhookCreate, w.ID, webhookChanges(w, false), nil)
			s.emitWebhooksUpdate(ctx, t)
			return s.conv.Webhook(w, true), nil
		},
	})
}

// executeWebhook posts a message as the webhook. Webhooks are not members,
// so their mentions are limited by allowed_mentions only. With wait=true the
// created message is returned.
func (s *Service) executeWebhook() HandlerFunc {
	return run(s, op[wire.WebhookExecute]{
		resolve: func(t *target) error {
			if err := s.resolveWebhook(t); err != nil {
				return err
			}
			if t.channel == nil {
				return apierror.New(apierror.UnknownChannel)
			}
			return nil
		},
		structural: func(_ *target, b *wire.WebhookExecute, form *apierror.FormErrors) {
			if embedLength(b.Embeds) > model.MaxEmbedCharacters {
				form.Add("embeds", apierror.Semantic(apierror.CodeEmbedTooLong,
					fmt.Sprintf("Embed size exceeds maximum size of %d", model.MaxEmbedCharacters)))
			}
			checkAllowedMentions(form, b.AllowedMentions)
		},
		authorize: func(t *target, _ *wire.WebhookExecute) error {
			return requireToken(t)
		},
		check: func(t *target, b *wire.WebhookExecute, _ *apierror.FormErrors) error {
			if err := requireTextChannel(t.channel); err != nil {
				return err
			}
			if strings.TrimSpace(lo.FromPtr(b.Content)) == "" && len(b.Embeds) == 0 && len(t.req.Files) == 0 {
				return apierror.New(apierror.CannotSendEmptyMessage)
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, b *wire.WebhookExecute) (any, error) {
			w := t.webhook
			content := lo.FromPtr(b.Content)
			mentions := s.mentions(t.guild, model.PermissionsAll, content, b.AllowedMentions, nil)
			attachments := uploadAttachments(s.store.IDs, t.channel.ID, nil, t.req.Files)
			msg := s.engine.AddMessage(t.channel, defaults.MessageSpec{
				AuthorID:        &w.ID,
				WebhookID:       &w.ID,
				ApplicationID:   w.ApplicationID,
				Content:         &content,
				TTS:             b.TTS,
				Flags:           model.Ptr(lo.FromPtr(b.Flags) & model.MessageFlagSuppressEmbeds),
				Embeds:          resolveEmbeds(b.Embeds, attachments),
				MentionEveryone: &mentions.everyone,
				Mentions:        mentions.users,
				MentionRoles:    mentions.roles,
				Attachments:     attachments,
			})
			out := s.conv.Message(t.channel, msg)
			s.emit(ctx, t.channel, gateway.EventMessageCreate, out)
			if !queryBool(t, "wait") {
				return nil, nil
			}
			return out, nil
		},
	})
}
