// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"context"
	"reflect"

	"github.com/samber/lo"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

func (s *Service) templateRoutes() []Route {
	return []Route{
		{Method: MethodGet, Pattern: "guilds/templates/{code}", Name: "templates.get", Handle: s.getTemplate()},
		{Method: MethodPost, Pattern: "guilds/templates/{code}", Name: "templates.use", Handle: s.createGuildFromTemplate()},
		{Method: MethodGet, Pattern: "guilds/{guild}/templates", Name: "guilds.templates.list", Handle: s.listGuildTemplates()},
		{Method: MethodPost, Pattern: "guilds/{guild}/templates", Name: "guilds.templates.create", Handle: s.createTemplate()},
		{Method: MethodPut, Pattern: "guilds/{guild}/templates/{code}", Name: "guilds.templates.sync", Handle: s.syncTemplate()},
		{Method: MethodPatch, Pattern: "guilds/{guild}/templates/{code}", Name: "guilds.templates.modify", Handle: s.modifyTemplate()},
		{Method: MethodDelete, Pattern: "guilds/{guild}/templates/{code}", Name: "guilds.templates.delete", Handle: s.deleteTemplate()},
	}
}

// templateView converts tmpl, reporting whether g has drifted from the
// snapshot.
func (s *Service) templateView(g *model.Guild, tmpl *model.GuildTemplate) wire.GuildTemplate {
	out := s.conv.Template(tmpl)
	out.IsDirty = model.Ptr(!reflect.DeepEqual(defaults.Serialize(g), tmpl.Source))
	return out
}

// resolveTemplate finds a template by code alone.
func (s *Service) resolveTemplate(t *target) error {
	tmpl, g, ok := s.store.Template(t.req.Param("code"))
	if !ok {
		return apierror.New(apierror.UnknownGuildTemplate)
	}
	t.tmpl, t.guild = tmpl, g
	return nil
}

// resolveGuildTemplate finds the guild's template and checks the code
// matches it.
func (s *Service) resolveGuildTemplate(t *target) error {
	if err := s.resolveGuild(t); err != nil {
		return err
	}
	if t.guild.Template == nil || t.guild.Template.Code != t.req.Param("code") {
		return apierror.New(apierror.UnknownGuildTemplate)
	}
	t.tmpl = t.guild.Template
	return nil
}

func (s *Service) manageGuild(t *target) error {
	return s.guildPermission(t, model.PermissionManageGuild)
}

func (s *Service) getTemplate() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveTemplate,
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			return s.templateView(t.guild, t.tmpl), nil
		},
	})
}

func (s *Service) listGuildTemplates() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *noBody) error {
			return s.manageGuild(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := []wire.GuildTemplate{}
			if t.guild.Template != nil {
				out = append(out, s.templateView(t.guild, t.guild.Template))
			}
			return out, nil
		},
	})
}

func (s *Service) createTemplate() HandlerFunc {
	return run(s, op[wire.TemplateCreate]{
		resolve: s.resolveGuild,
		authorize: func(t *target, _ *wire.TemplateCreate) error {
			return s.manageGuild(t)
		},
		check: func(t *target, _ *wire.TemplateCreate, _ *apierror.FormErrors) error {
			if t.guild.Template != nil {
				return apierror.New(apierror.AlreadyHasTemplate)
			}
			return nil
		},
		apply: func(_ context.Context, t *target, b *wire.TemplateCreate) (any, error) {
			tmpl := s.engine.SetTemplate(t.guild, defaults.TemplateSpec{
				Name:        &b.Name,
				Description: b.Description,
				CreatorID:   &t.req.UserID,
			})
			return s.templateView(t.guild, tmpl), nil
		},
	})
}

// syncTemplate re-snapshots the guild into its template.
func (s *Service) syncTemplate() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuildTemplate,
		authorize: func(t *target, _ *noBody) error {
			return s.manageGuild(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			t.tmpl.Source = defaults.Serialize(t.guild)
			t.tmpl.UpdatedAt = s.store.Now()
			return s.templateView(t.guild, t.tmpl), nil
		},
	})
}

func (s *Service) modifyTemplate() HandlerFunc {
	return run(s, op[wire.TemplateModify]{
		resolve: s.resolveGuildTemplate,
		authorize: func(t *target, _ *wire.TemplateModify) error {
			return s.manageGuild(t)
		},
		apply: func(_ context.Context, t *target, b *wire.TemplateModify) (any, error) {
			if v, ok := b.Name.Value(); ok {
				t.tmpl.Name = v
			}
			if b.Description.Set {
				t.tmpl.Description = b.Description.Ptr()
			}
			t.tmpl.UpdatedAt = s.store.Now()
			return s.templateView(t.guild, t.tmpl), nil
		},
	})
}

func (s *Service) deleteTemplate() HandlerFunc {
	return run(s, op[noBody]{
		resolve: s.resolveGuildTemplate,
		authorize: func(t *target, _ *noBody) error {
			return s.manageGuild(t)
		},
		apply: func(_ context.Context, t *target, _ *noBody) (any, error) {
			out := s.templateView(t.guild, t.tmpl)
			t.guild.Template = nil
			return out, nil
		},
	})
}

// templateBody turns a template snapshot into the guild create body it
// stands for.
func templateBody(src model.TemplateGuild, b *wire.GuildFromTemplate) *wire.GuildCreate {
	body := &wire.GuildCreate{
		Name:                        b.Name,
		Icon:                        b.Icon,
		Region:                      src.Region,
		VerificationLevel:           model.Ptr(src.VerificationLevel),
		DefaultMessageNotifications: model.Ptr(src.DefaultMessageNotifications),
		ExplicitContentFilter:       model.Ptr(src.ExplicitContentFilter),
		AFKTimeout:                  lo.EmptyableToPtr(src.AFKTimeout),
		SystemChannelFlags:          model.Ptr(src.SystemChannelFlags),
	}
	if src.AFKChannelID != nil {
		body.AFKChannelID = intOrString(*src.AFKChannelID)
	}
	if src.SystemChannelID != nil {
		body.SystemChannelID = intOrString(*src.SystemChannelID)
	}
	for _, r := range src.Roles {
		body.Roles = append(body.Roles, wire.RoleRequest{
			ID:          intOrString(r.ID),
			Name:        model.Ptr(r.Name),
			Color:       model.Ptr(r.Color),
			Hoist:       model.Ptr(r.Hoist),
			Permissions: model.Ptr(r.Permissions),
			Mentionable: model.Ptr(r.Mentionable),
		})
	}
	for _, c := range src.Channels {
		req := wire.GuildChannelRequest{
			ID:               intOrString(c.ID),
			Name:             c.Name,
			Type:             model.Ptr(c.Type),
			Topic:            c.Topic,
			Bitrate:          lo.EmptyableToPtr(c.Bitrate),
			UserLimit:        lo.EmptyableToPtr(c.UserLimit),
			RateLimitPerUser: lo.EmptyableToPtr(c.RateLimitPerUser),
			NSFW:             model.Ptr(c.NSFW),
		}
		if c.ParentID != nil {
			req.ParentID = intOrString(*c.ParentID)
		}
		for _, ow := range c.PermissionOverwrites {
			req.PermissionOverwrites = append(req.PermissionOverwrites, wire.GuildOverwriteRequest{
				ID:    *intOrString(ow.ID),
				Type:  ow.Type,
				Allow: model.Ptr(ow.Allow),
				Deny:  model.Ptr(ow.Deny),
			})
		}
		body.Channels = append(body.Channels, req)
	}
	return body
}

func (s *Service) createGuildFromTemplate() HandlerFunc {
	return run(s, op[wire.GuildFromTemplate]{
		resolve: s.resolveTemplate,
		check: func(t *target, _ *wire.GuildFromTemplate, _ *apierror.FormErrors) error {
			return s.checkGuildLimit(t.req.UserID)
		},
		apply: func(ctx context.Context, t *target, b *wire.GuildFromTemplate) (any, error) {
			g, err := s.buildGuild(ctx, t.req.UserID, templateBody(t.tmpl.Source, b))
			if err != nil {
				return nil, err
			}
			t.tmpl.UsageCount++
			return s.conv.Guild(g), nil
		},
	})
}
