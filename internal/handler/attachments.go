// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder for attachment dimensions
	_ "image/jpeg" // register decoder for attachment dimensions
	_ "image/png"  // register decoder for attachment dimensions
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/ids"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

// Attachment hosts.
const (
	CDNHost   = "https://cdn.discordapp.com"
	MediaHost = "https://media.discordapp.net"

	attachmentScheme = "attachment://"
)

// checkAttachmentRefs records references to files that were not uploaded.
// When existing is non-nil, ids of the message's current attachments are
// accepted too.
func checkAttachmentRefs(form *apierror.FormErrors, refs []wire.AttachmentRequest, files []wire.File, existing []*model.Attachment) {
	for i, ref := range refs {
		if ref.ID.Int >= 0 && ref.ID.Int < int64(len(files)) {
			continue
		}
		if lo.ContainsBy(existing, func(a *model.Attachment) bool { return int64(a.ID) == ref.ID.Int }) {
			continue
		}
		form.Add(fmt.Sprintf("attachments.%d.id", i),
			apierror.Semantic(apierror.CodeAttachmentUnknown, "Unknown attachment "+ref.ID.String))
	}
}

// uploadAttachments turns uploaded files into attachments. Referenced files
// come first in reference order and take the referenced filename and
// description; unreferenced files follow in upload order.
func uploadAttachments(gen *ids.Generator, channelID snowflake.ID, refs []wire.AttachmentRequest, files []wire.File) []*model.Attachment {
	used := make([]bool, len(files))
	out := []*model.Attachment{}
	for _, ref := range refs {
		i := ref.ID.Int
		if i < 0 || i >= int64(len(files)) || used[i] {
			continue
		}
		used[i] = true
		out = append(out, newAttachment(gen.Next(), channelID, files[i], ref.Filename, ref.Description))
	}
	for i, f := range files {
		if !used[i] {
			out = append(out, newAttachment(gen.Next(), channelID, f, nil, nil))
		}
	}
	return out
}

func newAttachment(id, channelID snowflake.ID, f wire.File, filename, description *string) *model.Attachment {
	name := lo.FromPtrOr(filename, f.Name)
	if name == "" {
		name = "unknown"
	}
	a := &model.Attachment{
		ID:          id,
		Filename:    name,
		Description: description,
		Size:        len(f.Data),
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(name))
	}
	if contentType != "" {
		a.ContentType = &contentType
	}
	rel := fmt.Sprintf("/attachments/%s/%s/%s", channelID, id, url.PathEscape(name))
	a.URL = CDNHost + rel
	a.ProxyURL = MediaHost + rel
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(f.Data)); err == nil {
		a.Width, a.Height = model.Ptr(cfg.Width), model.Ptr(cfg.Height)
	}
	return a
}

// resolveEmbeds copies embeds, defaulting their type to rich and pointing
// attachment:// media at the matching attachment. Media naming a file that
// was not attached is dropped.
func resolveEmbeds(embeds []*model.Embed, attachments []*model.Attachment) []*model.Embed {
	out := make([]*model.Embed, 0, len(embeds))
	for _, e := range embeds {
		if e == nil {
			continue
		}
		c := *e
		if c.Type == nil {
			c.Type = model.Ptr("rich")
		}
		c.Image = resolveMedia(c.Image, attachments)
		c.Thumbnail = resolveMedia(c.Thumbnail, attachments)
		c.Video = resolveMedia(c.Video, attachments)
		out = append(out, &c)
	}
	return out
}

func resolveMedia(m *model.EmbedMedia, attachments []*model.Attachment) *model.EmbedMedia {
	if m == nil || !strings.HasPrefix(m.URL, attachmentScheme) {
		return m
	}
	name := strings.TrimPrefix(m.URL, attachmentScheme)
	a, ok := lo.Find(attachments, func(a *model.Attachment) bool { return a.Filename == name })
	if !ok {
		return nil
	}
	return &model.EmbedMedia{
		URL:      a.URL,
		ProxyURL: model.Ptr(a.ProxyURL),
		Height:   a.Height,
		Width:    a.Width,
	}
}

func embedLength(embeds []*model.Embed) int {
	return lo.SumBy(embeds, func(e *model.Embed) int {
		if e == nil {
			return 0
		}
		return e.TextLength()
	})
}
