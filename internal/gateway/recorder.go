// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package gateway

import (
	"sync"

	"github.com/holomush/simcord/internal/wire"
)

// Recorded is one event captured by a Recorder.
type Recorded struct {
	Name    string
	Payload any
}

// JSON returns the payload as encoded on the wire.
func (r Recorded) JSON() ([]byte, error) {
	return wire.Marshal(r.Payload)
}

// Recorder is an in-memory Sink that keeps every event in order.
type Recorder struct {
	mu     sync.RWMutex
	events []Recorded
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Dispatch appends the event.
func (r *Recorder) Dispatch(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Name: event, Payload: payload})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Recorded {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

// Named returns the recorded events with the given name.
func (r *Recorder) Named(name EventName) []Recorded {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Recorded
	for _, e := range r.events {
		if e.Name == string(name) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// Reset discards everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
