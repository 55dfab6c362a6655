// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package handler implements the simulated REST operations. Every operation
// runs the same sequence: resolve the path entities, validate the body
// structurally, authorize the requester, run semantic checks, mutate through
// the defaulting engine, convert the result and dispatch gateway events.
// Nothing is written and no id is allocated before every check has passed.
package handler

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/store"
	"github.com/holomush/simcord/internal/validation"
	"github.com/holomush/simcord/internal/wire"
	"github.com/holomush/simcord/pkg/errutil"
)

var tracer = otel.Tracer("simcord/handler")

// DefaultMaxGuilds is the number of guilds a user may own or join before
// guild creation fails.
const DefaultMaxGuilds = 10

// Request is one simulated REST call.
type Request struct {
	Method Method
	Path   []string
	// UserID is the requester. Zero means the backend's current user.
	UserID snowflake.ID
	Body   []byte
	Files  []wire.File
	Query  url.Values
	// Reason is recorded on audit log entries the request produces.
	Reason *string

	params map[string]string
}

// Param returns a path parameter bound by the matched route.
func (r *Request) Param(name string) string {
	return r.params[name]
}

// Service routes requests to operations over one store.
type Service struct {
	store     *store.Store
	engine    *defaults.Engine
	conv      *wire.Converter
	validator *validation.Validator
	gateway   *gateway.Dispatcher
	routes    *Registry
	logger    *slog.Logger
	maxGuilds int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for per-request debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithMaxGuilds overrides DefaultMaxGuilds.
func WithMaxGuilds(n int) Option {
	return func(s *Service) {
		s.maxGuilds = n
	}
}

// WithDispatcher sets the gateway dispatcher events are sent through.
func WithDispatcher(d *gateway.Dispatcher) Option {
	return func(s *Service) {
		s.gateway = d
	}
}

// New creates a service over st, mutating through engine.
func New(st *store.Store, engine *defaults.Engine, opts ...Option) *Service {
	s := &Service{
		store:     st,
		engine:    engine,
		conv:      wire.NewConverter(st),
		validator: validation.New(),
		routes:    NewRegistry(),
		logger:    slog.Default(),
		maxGuilds: DefaultMaxGuilds,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gateway == nil {
		s.gateway = gateway.NewDispatcher(gateway.WithLogger(s.logger))
	}
	s.routes.MustRegister(s.routeTable()...)
	return s
}

// Routes returns the registered operations.
func (s *Service) Routes() []Route {
	return s.routes.Routes()
}

// Converter returns the wire converter bound to the service's store.
func (s *Service) Converter() *wire.Converter {
	return s.conv
}

// Handle routes and runs req. It returns the converted entity, or an error
// that apierror.As resolves to a catalog entry.
func (s *Service) Handle(ctx context.Context, req *Request) (out any, err error) {
	start := time.Now()
	route, params, err := s.routes.Match(req.Method, req.Path)
	name := "unmatched"
	if route != nil {
		name = route.Name
	}

	ctx, span := tracer.Start(ctx, "api.request",
		trace.WithAttributes(
			attribute.String("api.route", name),
			attribute.String("api.method", string(req.Method)),
		),
	)
	defer func() {
		status := StatusSuccess
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			status = statusOf(err)
		}
		span.End()
		RecordRequest(name, string(req.Method), status)
		RecordRequestDuration(name, time.Since(start))
	}()

	if err != nil {
		return nil, err
	}
	if req.UserID == 0 {
		req.UserID = s.engine.CurrentUser()
	}
	span.SetAttributes(attribute.String("api.user_id", req.UserID.String()))
	req.params = params

	out, err = route.Handle(ctx, req)
	if err != nil {
		errutil.LogError(ctx, s.logger, "request failed", err, "route", name)
		return nil, err
	}
	s.logger.DebugContext(ctx, "request handled", "route", name)
	return out, nil
}

func statusOf(err error) string {
	if apiErr, ok := apierror.As(err); ok {
		return string(apiErr.Kind)
	}
	return "error"
}

// emit dispatches an event that happened in ch, or in a guild when ch is nil.
func (s *Service) emit(ctx context.Context, ch *model.Channel, name gateway.EventName, payload any) {
	s.gateway.Dispatch(ctx, gateway.Event{
		Name:    name,
		Payload: payload,
		Private: ch != nil && !ch.InGuild(),
	})
}

// audit appends an entry authored by the requester. Callers pass declared
// AuditLog* constants, which AddAuditLogEntry always accepts, so the error
// branch only logs.
func (s *Service) audit(g *model.Guild, req *Request, action model.AuditLogEvent, targetID snowflake.ID, changes []model.AuditLogChange, opts *model.AuditLogOptions) {
	_, err := s.engine.AddAuditLogEntry(g, defaults.AuditLogEntrySpec{
		ActionType: &action,
		UserID:     &req.UserID,
		TargetID:   &targetID,
		Reason:     req.Reason,
		Changes:    changes,
		Options:    opts,
	})
	if err != nil {
		errutil.LogError(context.Background(), s.logger, "audit log entry rejected", err)
	}
}
