// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package backend is the public entry point of the simulator. A Backend
// owns one store seeded at construction, serves REST-shaped operations
// through Resource endpoints and pushes gateway events to a single sink.
//
// Mutating operations run under a write lock; reads share a read lock.
// Nothing runs in the background.
package backend

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/holomush/simcord/internal/defaults"
	"github.com/holomush/simcord/internal/gateway"
	"github.com/holomush/simcord/internal/handler"
	"github.com/holomush/simcord/internal/seed"
	"github.com/holomush/simcord/internal/store"
)

// Seed types accepted by New.
type (
	StoreSpec       = defaults.StoreSpec
	UserSpec        = defaults.UserSpec
	ApplicationSpec = defaults.ApplicationSpec
	GuildSpec       = defaults.GuildSpec
	RoleSpec        = defaults.RoleSpec
	ChannelSpec     = defaults.ChannelSpec
	OverwriteSpec   = defaults.OverwriteSpec
	MemberSpec      = defaults.MemberSpec
	MessageSpec     = defaults.MessageSpec
	InviteSpec      = defaults.InviteSpec
	WebhookSpec     = defaults.WebhookSpec
	Document        = seed.Document
)

// Gateway types an adapter implements or configures.
type (
	Sink           = gateway.Sink
	SinkFunc       = gateway.SinkFunc
	CapabilityFunc = gateway.CapabilityFunc
	Intents        = gateway.Intents
	Session        = handler.Session
)

// Intent sets.
const (
	IntentsAll           = gateway.IntentsAll
	IntentsNonPrivileged = gateway.IntentsNonPrivileged
)

type config struct {
	sink       gateway.Sink
	capability gateway.CapabilityFunc
	logger     *slog.Logger
	clock      func() time.Time
	user       snowflake.ID
	maxGuilds  int
}

// Option configures a Backend.
type Option func(*config)

// WithSink sets the gateway event sink. Events are delivered while the
// backend lock is held, so a sink must not call back into the Backend.
func WithSink(s Sink) Option {
	return func(c *config) {
		c.sink = s
	}
}

// WithCapability sets the predicate consulted before each dispatch.
func WithCapability(f CapabilityFunc) Option {
	return func(c *config) {
		c.capability = f
	}
}

// WithIntents delivers only the events the given intents cover.
func WithIntents(intents Intents) Option {
	return WithCapability(gateway.StaticCapability(intents))
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithClock replaces the wall clock used for timestamps, ids and expiry.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.clock = now
	}
}

// WithUser makes id the session user. Requests that name no user run as it.
func WithUser(id snowflake.ID) Option {
	return func(c *config) {
		c.user = id
	}
}

// WithMaxGuilds caps how many guilds a user may be in before guild creation
// fails.
func WithMaxGuilds(n int) Option {
	return func(c *config) {
		c.maxGuilds = n
	}
}

// Backend is a seeded, in-process simulated backend.
type Backend struct {
	mu         sync.RWMutex
	store      *store.Store
	engine     *defaults.Engine
	svc        *handler.Service
	dispatcher *gateway.Dispatcher
}

// New builds a backend from spec.
func New(spec StoreSpec, opts ...Option) (*Backend, error) {
	return build(func(e *defaults.Engine) error { return e.Populate(spec) }, opts)
}

// FromDocument builds a backend from a parsed seed document. A current user
// named by the document is overridden by WithUser.
func FromDocument(doc *Document, opts ...Option) (*Backend, error) {
	return build(doc.Apply, opts)
}

// Load parses the seed file at path and builds a backend from it.
func Load(path string, opts ...Option) (*Backend, error) {
	doc, err := seed.Load(path)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, opts...)
}

func build(populate func(*defaults.Engine) error, opts []Option) (*Backend, error) {
	cfg := config{
		logger:    slog.Default(),
		clock:     time.Now,
		maxGuilds: handler.DefaultMaxGuilds,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := store.New(store.WithClock(cfg.clock))
	engine := defaults.New(st)
	if cfg.user != 0 {
		engine.SetCurrentUser(cfg.user)
	}
	if err := populate(engine); err != nil {
		return nil, err
	}
	if cfg.user != 0 {
		engine.SetCurrentUser(cfg.user)
	}

	dispatcherOpts := []gateway.Option{gateway.WithLogger(cfg.logger)}
	if cfg.sink != nil {
		dispatcherOpts = append(dispatcherOpts, gateway.WithSink(cfg.sink))
	}
	if cfg.capability != nil {
		dispatcherOpts = append(dispatcherOpts, gateway.WithCapability(cfg.capability))
	}
	dispatcher := gateway.NewDispatcher(dispatcherOpts...)

	b := &Backend{
		store:      st,
		engine:     engine,
		dispatcher: dispatcher,
		svc: handler.New(st, engine,
			handler.WithLogger(cfg.logger),
			handler.WithDispatcher(dispatcher),
			handler.WithMaxGuilds(cfg.maxGuilds),
		),
	}
	cfg.logger.Debug("backend ready",
		"guilds", st.Guilds.Len(),
		"users", st.Users.Len(),
		"current_user", engine.CurrentUser().String(),
	)
	return b, nil
}

// CurrentUser returns the session user.
func (b *Backend) CurrentUser() snowflake.ID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.engine.CurrentUser()
}

// SetSink replaces the gateway sink, for adapters that attach after the
// backend is built.
func (b *Backend) SetSink(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dispatcher.SetSink(s)
}

// Connect identifies as userID, or the session user when zero, and
// dispatches READY followed by one GUILD_CREATE per guild. It holds the
// write lock so the sequence is never interleaved with other dispatches.
func (b *Backend) Connect(ctx context.Context, userID snowflake.ID) (*Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.svc.Connect(ctx, userID)
}

// Routes lists the operations the backend serves as "METHOD pattern".
func (b *Backend) Routes() []string {
	routes := b.svc.Routes()
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, string(r.Method)+" "+r.Pattern)
	}
	return out
}

// RegisterMetrics registers the request and dispatch collectors.
func RegisterMetrics(reg prometheus.Registerer) {
	handler.RegisterMetrics(reg)
	gateway.RegisterMetrics(reg)
}

func (b *Backend) handle(ctx context.Context, req *handler.Request) (any, error) {
	if req.Method.Mutates() {
		b.mu.Lock()
		defer b.mu.Unlock()
	} else {
		b.mu.RLock()
		defer b.mu.RUnlock()
	}
	return b.svc.Handle(ctx, req)
}
