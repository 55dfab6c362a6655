// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package gateway delivers converted entities to a session's event sink,
// gated by the intents the session subscribed with.
package gateway

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Sink receives dispatched events. It is the only coupling between the
// backend and whatever client adapter consumes the events.
type Sink interface {
	Dispatch(event string, payload any)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(event string, payload any)

// Dispatch calls f.
func (f SinkFunc) Dispatch(event string, payload any) {
	f(event, payload)
}

// CapabilityFunc reports whether the session holds the required intents.
type CapabilityFunc func(required Intents) bool

// StaticCapability returns a CapabilityFunc for a fixed intent set.
func StaticCapability(intents Intents) CapabilityFunc {
	return func(required Intents) bool {
		return intents.Has(required)
	}
}

// Event is one dispatch. Private marks events that happen in a DM channel.
type Event struct {
	Name    EventName
	Payload any
	Private bool
}

// Dispatcher pushes events to a single sink, in call order, synchronously.
type Dispatcher struct {
	sink    Sink
	capable CapabilityFunc
	logger  *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSink sets the event sink. Without one, events are counted and dropped.
func WithSink(s Sink) Option {
	return func(d *Dispatcher) {
		d.sink = s
	}
}

// WithCapability sets the intent predicate. The default accepts everything.
func WithCapability(f CapabilityFunc) Option {
	return func(d *Dispatcher) {
		d.capable = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		capable: func(Intents) bool { return true },
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetSink replaces the sink, for adapters that attach after construction.
func (d *Dispatcher) SetSink(s Sink) {
	d.sink = s
}

// Dispatch delivers ev if the session holds the required intents. It
// returns whether the sink was called.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) bool {
	required := RequiredIntents(ev.Name, ev.Private)
	name := string(ev.Name)

	if d.sink == nil {
		RecordDispatch(name, OutcomeNoSink)
		return false
	}
	if required != IntentsNone && !d.capable(required) {
		RecordDispatch(name, OutcomeDropped)
		d.logger.DebugContext(ctx, "event dropped by intents",
			"event", name,
			"required", required.String(),
		)
		return false
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent("gateway.dispatch", trace.WithAttributes(eventAttr(name)))
	}
	d.sink.Dispatch(name, ev.Payload)
	RecordDispatch(name, OutcomeDelivered)
	d.logger.DebugContext(ctx, "event dispatched", "event", name)
	return true
}
