// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"

	"github.com/holomush/simcord/internal/access"
	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

// Message limits.
const (
	MaxContentLength = 2000
	MaxEmbeds        = 10
	MaxBulkDelete    = 100
	MinBulkDelete    = 2
	MaxPins          = 50
)

type messageQuery struct {
	Limit  int           `json:"-"`
	Before *snowflake.ID `json:"-"`
	After  *snowflake.ID `json:"-"`
	Around *snowflake.ID `json:"-"`
}

func (s *Service) messageRoutes() []Route {
	return []Route{
		{Method: MethodGet, Pattern: "channels/{channel}/messages", Name: "messages.list", Handle: s.listMessages()},
		{Method: MethodPost, Pattern: "channels/{channel}/messages", Name: "messages.create", Handle: s.createMessage()},
		{Method: MethodPost, Pattern: "channels/{channel}/messages/bulk-delete", Name: "messages.bulk_delete", Handle: s.bulkDeleteMessages()},
		{Method: MethodGet, Pattern: "channels/{channel}/messages/{message}", Name: "messages.get", Handle: s.getMessage()},
		{Method: MethodPatch, Pattern: "channels/{channel}/messages/{message}", Name: "messages.edit", Handle: s.editMessage()},
		{Method: MethodDelete, Pattern: "channels/{channel}/messages/{message}", Name: "messages.delete", Handle: s.deleteMessage()},
		{Method: MethodGet, Pattern: "channels/{channel}/pins", Name: "pins.list", Handle: s.listPins()},
		{Method: MethodPut, Pattern: "channels/{channel}/pins/{message}", Name: "pins.add", Handle: s.pinMessage(true)},
		{Method: MethodDelete, Pattern: "channels/{channel}/pins/{message}", Name: "pins.remove", Handle: s.pinMessage(false)},
	}
}

func requireTextChannel(ch *model.Channel) error {
	if !ch.Type.IsTextCapable() {
		return apierror.New(apierror.InvalidChannelType)
	}
	return nil
}

func (s *Service) listMessages() HandlerFunc {
	return run(s, op[messageQuery]{
		resolve: s.resolveChannel,
		structural: func(t *target, q *messageQuery, form *apierror.FormErrors) {
			q.Limit = queryInt(t, form, "limit", 1, 100, 50)
			q.Before = querySnowflake(t, form, "before")
			q.After = querySnowflake(t, form, "after")
			q.Around = querySnowflake(t, form, "around")
		},
		authorize: func(t *target, _ *messageQuery) error {
			return s.viewChannel(t)
		},
		check: func(t *target, _ *messageQuery, _ *apierror.FormErrors) error {
			return requireTextChannel(t.channel)
		},
		apply: func(_ context.Context, t *target, q *messageQuery) (any, error) {
			out := []wire.Message{}
			if !access.Has(t.subject.Perms, model.PermissionReadMessageHistory) {
				return out, nil
			}
			for _, msg := range window(model.Values(t.channel.Messages), q) {
				out = append(out, s.conv.Message(t.channel, msg))
			}
			return out, nil
		},
	})
}

// window selects up to q.Limit messages, newest first. around centres the
// window on an id, before and after take the messages closest to theirs.
func window(msgs []*model.Message, q *messageQuery) []*model.Message {
	slices.SortFunc(msgs, func(a, b *model.Message) int { return cmp.Compare(b.ID, a.ID) })
	switch {
	case q.Around != nil:
		pivot, _ := slices.BinarySearchFunc(msgs, *q.Around, func(m *model.Message, id snowflake.ID) int {
			return cmp.Compare(id, m.ID)
		})
		start := max(0, pivot-q.Limit/2)
		return msgs[start:min(len(msgs), start+q.Limit)]
	case q.Before != nil:
		older := lo.Filter(msgs, func(m *model.Message, _ int) bool { return m.ID < *q.Before })
		return older[:min(len(older), q.Limit)]
	case q.After != nil:
		newer := lo.Filter(msgs, func(m *model.Message, _ int) bool { return m.ID > *q.After })
		return newer[max(0, len(newer)-q.Limit):]
	default:
		return msgs[:min(len(msgs), q.Limit)]
	}
}

func (s *Service) getMessage() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveMessage,
		authorize: func(t *target, _ *noBody) error {
			return s.channelPermission(t, model.PermissionReadMessageHistory)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			return s.conv.Message(t.channel, t.message), nil
		},
	})
}

// createEmbeds folds the legacy single embed into the list.
func createEmbeds(b *wire.MessageCreate) []*model.Embed {
	if len(b.Embeds) == 0 && b.Embed != nil {
		return []*model.Embed{b.Embed}
	}
	return b.Embeds
}

func (s *Service) createMessage() HandlerFunc {
	return run(s, op[wire.MessageCreate]{
		resolve: s.resolveChannel,
		structural: func(t *target, b *wire.MessageCreate, form *apierror.FormErrors) {
			if len(b.Embeds) == 0 && b.Embed != nil {
				s.validator.StructInto(form, "embed", b.Embed)
			}
			if embedLength(createEmbeds(b)) > model.MaxEmbedCharacters {
				form.Add("embeds", apierror.Semantic(apierror.CodeEmbedTooLong,
					fmt.Sprintf("Embed size exceeds maximum size of %d", model.MaxEmbedCharacters)))
			}
			checkAllowedMentions(form, b.AllowedMentions)
		},
		authorize: func(t *target, b *wire.MessageCreate) error {
			if err := s.viewChannel(t); err != nil {
				return err
			}
			required := model.PermissionSendMessages
			if t.channel.Type.IsThread() {
				required = model.PermissionSendMessagesInThreads
				if t.channel.Thread != nil && t.channel.Thread.Locked {
					required |= model.PermissionManageThreads
				}
			}
			if len(createEmbeds(b)) > 0 {
				required |= model.PermissionEmbedLinks
			}
			if len(t.req.Files) > 0 {
				required |= model.PermissionAttachFiles
			}
			if b.MessageReference != nil {
				required |= model.PermissionReadMessageHistory
			}
			return access.Require(t.subject.Perms, required)
		},
		check: func(t *target, b *wire.MessageCreate, form *apierror.FormErrors) error {
			if err := requireTextChannel(t.channel); err != nil {
				return err
			}
			if strings.TrimSpace(lo.FromPtr(b.Content)) == "" && len(createEmbeds(b)) == 0 &&
				len(b.StickerIDs) == 0 && len(t.req.Files) == 0 {
				return apierror.New(apierror.CannotSendEmptyMessage)
			}
			checkAttachmentRefs(form, b.Attachments, t.req.Files, nil)
			s.checkReference(t, b.MessageReference, form)
			return nil
		},
		apply: func(ctx context.Context, t *target, b *wire.MessageCreate) (any, error) {
			ref, replied := s.replyTarget(t, b.MessageReference)
			content := lo.FromPtr(b.Content)
			mentions := s.mentions(t.guild, t.subject.Perms, content, b.AllowedMentions, replied)
			attachments := uploadAttachments(s.store.IDs, t.channel.ID, b.Attachments, t.req.Files)

			spec := defaults.MessageSpec{
				AuthorID:        &t.req.UserID,
				Content:         &content,
				TTS:             model.Ptr(lo.FromPtr(b.TTS) && access.Has(t.subject.Perms, model.PermissionSendTTSMessages)),
				Flags:           model.Ptr(lo.FromPtr(b.Flags) & model.MessageFlagSuppressEmbeds),
				Embeds:          resolveEmbeds(createEmbeds(b), attachments),
				MentionEveryone: &mentions.everyone,
				Mentions:        mentions.users,
				MentionRoles:    mentions.roles,
				Reference:       ref,
				StickerIDs:      b.StickerIDs,
				Attachments:     attachments,
			}
			if b.Nonce != nil {
				spec.Nonce = &b.Nonce.String
			}
			if app, ok := s.store.Application(); ok && app.Bot != nil && app.Bot.ID == t.req.UserID {
				spec.ApplicationID = &app.ID
			}
			if th := t.channel.Thread; th != nil && th.Archived {
				th.Archived = false
				th.ArchiveTimestamp = s.store.Now()
			}
			msg := s.engine.AddMessage(t.channel, spec)

			out := s.conv.Message(t.channel, msg)
			s.emit(ctx, t.channel, gateway.EventMessageCreate, out)
			return out, nil
		},
	})
}

// checkReference validates a reply target. A reference that cannot be
// honoured fails unless fail_if_not_exists is false, in which case the
// message is sent without it.
func (s *Service) checkReference(t *target, ref *model.MessageReference, form *apierror.FormErrors) {
	if ref == nil || !lo.FromPtrOr(ref.FailIfNotExists, true) {
		return
	}
	if ref.MessageID == nil {
		form.Add("message_reference", apierror.Required())
		return
	}
	if ref.ChannelID != nil && *ref.ChannelID != t.channel.ID {
		form.Add("message_reference", apierror.Semantic(apierror.CodeReferenceChannel,
			"Cannot reply to a message in a different channel"))
		return
	}
	if _, ok := t.channel.Message(*ref.MessageID); !ok {
		form.Add("message_reference", apierror.Semantic(apierror.CodeReferenceUnknown, "Unknown message"))
	}
}

// replyTarget returns the reference to store and the author a reply pings.
func (s *Service) replyTarget(t *target, ref *model.MessageReference) (*model.MessageReference, *snowflake.ID) {
	if ref == nil || ref.MessageID == nil {
		return nil, nil
	}
	if ref.ChannelID != nil && *ref.ChannelID != t.channel.ID {
		return nil, nil
	}
	replied, ok := t.channel.Message(*ref.MessageID)
	if !ok {
		return nil, nil
	}
	out := &model.MessageReference{
		MessageID: model.Ptr(replied.ID),
		ChannelID: model.Ptr(t.channel.ID),
		GuildID:   t.channel.GuildID,
	}
	if replied.WebhookID != nil {
		return out, nil
	}
	return out, model.Ptr(replied.AuthorID)
}

func (s *Service) editMessage() HandlerFunc {
	return run(s, op[wire.MessageEdit]{
		resolve: s.resolveMessage,
		structural: func(t *target, b *wire.MessageEdit, form *apierror.FormErrors) {
			if v, ok := b.Content.Value(); ok {
				s.validator.Var(form, "content", v, fmt.Sprintf("max=%d", MaxContentLength))
			}
			if v, ok := b.Embeds.Value(); ok {
				s.validator.Var(form, "embeds", v, fmt.Sprintf("max=%d", MaxEmbeds))
				for i, e := range v {
					if e != nil {
						s.validator.StructInto(form, fmt.Sprintf("embeds.%d", i), e)
					}
				}
				if embedLength(v) > model.MaxEmbedCharacters {
					form.Add("embeds", apierror.Semantic(apierror.CodeEmbedTooLong,
						fmt.Sprintf("Embed size exceeds maximum size of %d", model.MaxEmbedCharacters)))
				}
			}
			if v, ok := b.Attachments.Value(); ok {
				for i, a := range v {
					s.validator.StructInto(form, fmt.Sprintf("attachments.%d", i), a)
				}
			}
			checkAllowedMentions(form, b.AllowedMentions)
		},
		authorize: func(t *target, b *wire.MessageEdit) error {
			if err := s.viewChannel(t); err != nil {
				return err
			}
			if t.message.AuthorID == t.req.UserID && t.message.WebhookID == nil {
				return nil
			}
			onlyFlags := !b.Content.Set && !b.Embeds.Set && !b.Attachments.Set
			if onlyFlags && access.Has(t.subject.Perms, model.PermissionManageMessages) {
				return nil
			}
			return apierror.New(apierror.CannotEditOtherUsersMessage)
		},
		check: func(t *target, b *wire.MessageEdit, form *apierror.FormErrors) error {
			content := t.message.Content
			if b.Content.Set {
				content, _ = b.Content.Value()
			}
			embeds := len(t.message.Embeds)
			if b.Embeds.Set {
				v, _ := b.Embeds.Value()
				embeds = len(v)
			}
			attachments := len(t.message.Attachments)
			if b.Attachments.Set {
				v, _ := b.Attachments.Value()
				attachments = len(v)
				checkAttachmentRefs(form, v, t.req.Files, t.message.Attachments)
			}
			if strings.TrimSpace(content) == "" && embeds == 0 && attachments == 0 && len(t.message.StickerIDs) == 0 {
				return apierror.New(apierror.CannotSendEmptyMessage)
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, b *wire.MessageEdit) (any, error) {
			msg := t.message
			edited := false
			if b.Attachments.Set {
				refs, _ := b.Attachments.Value()
				msg.Attachments = s.keepAttachments(msg, refs, t.req.Files)
				edited = true
			}
			if b.Embeds.Set {
				v, _ := b.Embeds.Value()
				msg.Embeds = resolveEmbeds(v, msg.Attachments)
				edited = true
			}
			if b.Content.Set {
				msg.Content, _ = b.Content.Value()
				var replied *snowflake.ID
				if msg.Type == model.MessageTypeReply {
					_, replied = s.replyTarget(t, msg.Reference)
				}
				am := b.AllowedMentions
				if am == nil {
					am = &wire.AllowedMentions{
						Parse:       []string{wire.MentionParseUsers, wire.MentionParseRoles, wire.MentionParseEveryone},
						RepliedUser: model.Ptr(replied != nil && model.ContainsID(msg.MentionUserIDs, *replied)),
					}
				}
				m := s.mentions(t.guild, t.subject.Perms, msg.Content, am, replied)
				msg.MentionUserIDs, msg.MentionRoleIDs, msg.MentionEveryone = m.users, m.roles, m.everyone
				edited = true
			}
			if v, ok := b.Flags.Value(); ok {
				msg.Flags = msg.Flags&^model.EditableMessageFlags | v&model.EditableMessageFlags
			}
			if edited {
				msg.EditedTimestamp = model.Ptr(s.store.Now())
			}

			out := s.conv.Message(t.channel, msg)
			s.emit(ctx, t.channel, gateway.EventMessageUpdate, out)
			return out, nil
		},
	})
}

// keepAttachments keeps the existing attachments refs name by id and adds
// newly uploaded files.
func (s *Service) keepAttachments(msg *model.Message, refs []wire.AttachmentRequest, files []wire.File) []*model.Attachment {
	kept := lo.Filter(msg.Attachments, func(a *model.Attachment, _ int) bool {
		return lo.ContainsBy(refs, func(r wire.AttachmentRequest) bool { return r.ID.Int == int64(a.ID) })
	})
	uploads := lo.Filter(refs, func(r wire.AttachmentRequest, _ int) bool {
		return r.ID.Int >= 0 && r.ID.Int < int64(len(files))
	})
	return append(kept, uploadAttachments(s.store.IDs, msg.ChannelID, uploads, files)...)
}

func (s *Service) deleteMessage() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveMessage,
		authorize: func(t *target, _ *noBody) error {
			if err := s.viewChannel(t); err != nil {
				return err
			}
			if t.message.AuthorID == t.req.UserID {
				return nil
			}
			if !t.channel.InGuild() {
				return apierror.New(apierror.CannotExecuteOnDM)
			}
			return access.Require(t.subject.Perms, model.PermissionManageMessages)
		},
		apply: func(ctx context.Context, t *target, _ *noBody) (any, error) {
			removeMessages(t.channel, t.message.ID)
			if t.message.AuthorID != t.req.UserID {
				s.audit(t.guild, t.req, model.AuditLogMessageDelete, t.message.AuthorID, nil, &model.AuditLogOptions{
					ChannelID: model.Ptr(t.channel.ID),
					Count:     model.Ptr("1"),
				})
			}
			s.emit(ctx, t.channel, gateway.EventMessageDelete, wire.MessageDelete{
				ID:        t.message.ID,
				ChannelID: t.channel.ID,
				GuildID:   t.channel.GuildID,
			})
			return nil, nil
		},
	})
}

func removeMessages(ch *model.Channel, ids ...snowflake.ID) {
	for _, id := range ids {
		ch.Messages.Delete(id)
	}
	if ch.Thread != nil {
		ch.Thread.MessageCount = ch.Messages.Len()
	}
}

type bulkDelete struct {
	Messages []snowflake.ID `json:"messages" validate:"required,min=2,max=100"`
}

func (s *Service) bulkDeleteMessages() HandlerFunc {
	return run(s, op[bulkDelete]{
		resolve: s.resolveChannel,
		authorize: func(t *target, _ *bulkDelete) error {
			if !t.channel.InGuild() {
				return apierror.New(apierror.CannotExecuteOnDM)
			}
			return s.channelPermission(t, model.PermissionManageMessages)
		},
		check: func(t *target, b *bulkDelete, form *apierror.FormErrors) error {
			for i, id := range b.Messages {
				if _, ok := t.channel.Message(id); !ok {
					form.Add(fmt.Sprintf("messages.%d", i), apierror.Semantic(apierror.CodeReferenceUnknown, "Unknown message"))
				}
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, b *bulkDelete) (any, error) {
			ids := lo.Uniq(b.Messages)
			removeMessages(t.channel, ids...)
			s.audit(t.guild, t.req, model.AuditLogMessageBulkDelete, t.channel.ID, nil, &model.AuditLogOptions{
				Count: model.Ptr(fmt.Sprint(len(ids))),
			})
			s.emit(ctx, t.channel, gateway.EventMessageDeleteBulk, wire.MessageDeleteBulk{
				IDs:       ids,
				ChannelID: t.channel.ID,
				GuildID:   t.channel.GuildID,
			})
			return nil, nil
		},
	})
}

func (s *Service) listPins() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveChannel,
		authorize: func(t *target, _ *noBody) error {
			return s.channelPermission(t, model.PermissionReadMessageHistory)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := []wire.Message{}
			msgs := model.Values(t.channel.Messages)
			slices.SortFunc(msgs, func(a, b *model.Message) int { return cmp.Compare(b.ID, a.ID) })
			for _, msg := range msgs {
				if msg.Pinned {
					out = append(out, s.conv.Message(t.channel, msg))
				}
			}
			return out, nil
		},
	})
}

// pinMessage pins or unpins. Pinning in a DM needs no permission; in a
// guild it needs MANAGE_MESSAGES and is audited.
func (s *Service) pinMessage(pin bool) HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveMessage,
		authorize: func(t *target, _ *noBody) error {
			if !t.channel.InGuild() {
				return s.viewChannel(t)
			}
			return s.channelPermission(t, model.PermissionManageMessages)
		},
		check: func(t *target, _ *noBody, _ *apierror.FormErrors) error {
			if !pin || t.message.Pinned {
				return nil
			}
			pinned := lo.CountBy(model.Values(t.channel.Messages), func(m *model.Message) bool { return m.Pinned })
			if pinned >= MaxPins {
				return apierror.New(apierror.MaximumPinsReached)
			}
			return nil
		},
		apply: func(ctx context.Context, t *target, _ *noBody) (any, error) {
			if t.message.Pinned == pin {
				return nil, nil
			}
			t.message.Pinned = pin
			now := s.store.Now()
			if t.channel.Text != nil && pin {
				t.channel.Text.LastPinTimestamp = &now
			}
			if t.guild != nil {
				action := lo.Ternary(pin, model.AuditLogMessagePin, model.AuditLogMessageUnpin)
				s.audit(t.guild, t.req, action, t.message.AuthorID, nil, &model.AuditLogOptions{
					ChannelID: model.Ptr(t.channel.ID),
					MessageID: model.Ptr(t.message.ID),
				})
			}
			ev := wire.ChannelPinsUpdate{GuildID: t.channel.GuildID, ChannelID: t.channel.ID}
			if t.channel.Text != nil {
				if ts := wire.TimestampPtr(t.channel.Text.LastPinTimestamp); ts != nil {
					ev.LastPinTimestamp = wire.Some(*ts)
				}
			}
			s.emit(ctx, t.channel, gateway.EventChannelPinsUpdate, ev)
			return nil, nil
		},
	})
}
