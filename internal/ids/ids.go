// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package ids generates Snowflakes, discriminators and short codes for a
// single entity store. Nothing here is package-level state: two generators
// never influence each other.
package ids

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/oklog/ulid/v2"
)

// codeLength is the length of generated invite and template codes.
const codeLength = 10

// Generator hands out strictly increasing Snowflakes and unique codes.
type Generator struct {
	mu            sync.Mutex
	now           func() time.Time
	last          snowflake.ID
	discriminator int
	entropy       io.Reader
	codes         map[string]struct{}
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source used to derive Snowflake timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithEntropySeed makes generated codes reproducible.
func WithEntropySeed(seed int64) Option {
	return func(g *Generator) {
		g.entropy = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0) //nolint:gosec // codes are not secrets
	}
}

// NewGenerator creates a generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		now:   time.Now,
		codes: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.entropy == nil {
		g.entropy = ulid.Monotonic(rand.New(rand.NewSource(g.now().UnixNano())), 0) //nolint:gosec // codes are not secrets
	}
	return g
}

// Next returns a Snowflake greater than every id generated or observed so far.
func (g *Generator) Next() snowflake.ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := snowflake.New(g.now())
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe records an externally supplied id so it is never generated again.
func (g *Generator) Observe(id snowflake.ID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}

// Last returns the highest id generated or observed.
func (g *Generator) Last() snowflake.ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// Discriminator returns the next four-digit user discriminator.
func (g *Generator) Discriminator() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.discriminator = g.discriminator%9999 + 1
	return fmt.Sprintf("%04d", g.discriminator)
}

// Code returns a short unique code for invites and templates.
func (g *Generator) Code() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		id := ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
		s := id.String()
		code := s[len(s)-codeLength:]
		if _, taken := g.codes[code]; taken {
			continue
		}
		g.codes[code] = struct{}{}
		return code
	}
}

// ReserveCode marks an externally supplied code as used.
func (g *Generator) ReserveCode(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.codes[code] = struct{}{}
}

// Token returns an opaque secret-looking token, as used by webhooks.
func (g *Generator) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	b := ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	return strings.ToLower(a.String() + b.String())
}

// State is a comparable snapshot of the counters, used to assert that a
// failed operation allocated nothing.
type State struct {
	Last          snowflake.ID
	Discriminator int
	Codes         int
}

// State returns the current counters.
func (g *Generator) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return State{Last: g.last, Discriminator: g.discriminator, Codes: len(g.codes)}
}
