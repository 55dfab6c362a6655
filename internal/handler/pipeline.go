// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/holomush/simcord/internal/access"
	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/model"
)

// target holds what a request's path resolved to, and the requester's
// permissions once authorized.
type target struct {
	req     *Request
	guild   *model.Guild
	channel *model.Channel
	message *model.Message
	member  *model.Member
	user    *model.User
	emoji   *model.Emoji
	invite  *model.Invite
	webhook *model.Webhook
	tmpl    *model.GuildTemplate
	subject access.Subject
}

// noBody is the body type of operations that ignore the request body.
type noBody struct{}

// op is one operation split into pipeline stages. Any stage may be nil
// except apply.
type op[B any] struct {
	resolve    func(t *target) error
	structural func(t *target, body *B, form *apierror.FormErrors)
	authorize  func(t *target, body *B) error
	check      func(t *target, body *B, form *apierror.FormErrors) error
	apply      func(ctx context.Context, t *target, body *B) (any, error)
}

// run binds the stages into a HandlerFunc that executes them in order and
// stops at the first failure.
func run[B any](s *Service, o op[B]) HandlerFunc {
	return func(ctx context.Context, req *Request) (any, error) {
		t := &target{req: req}
		if o.resolve != nil {
			if err := o.resolve(t); err != nil {
				return nil, err
			}
		}

		body := new(B)
		if _, ignored := any(body).(*noBody); !ignored {
			if err := decode(req.Body, body); err != nil {
				return nil, err
			}
		}
		form := s.validator.Struct(body)
		if o.structural != nil {
			o.structural(t, body, form)
		}
		if err := form.Err(); err != nil {
			return nil, err
		}

		if o.authorize != nil {
			if err := o.authorize(t, body); err != nil {
				return nil, err
			}
		}

		if o.check != nil {
			semantic := apierror.NewFormErrors()
			if err := o.check(t, body, semantic); err != nil {
				return nil, err
			}
			if err := semantic.Err(); err != nil {
				return nil, err
			}
		}

		return o.apply(ctx, t, body)
	}
}

// decode reads a JSON body. An empty body decodes to the zero value so that
// structural validation reports the missing fields.
func decode(data []byte, body any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	err := json.Unmarshal(data, body)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		form := apierror.NewFormErrors()
		form.Add(typeErr.Field, apierror.BadType())
		return form.Err()
	}
	return apierror.New(apierror.InvalidJSON)
}
