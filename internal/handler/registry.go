// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"context"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/holomush/simcord/internal/apierror"
)

// Method is a request verb.
type Method string

// Supported verbs.
const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPatch  Method = "PATCH"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Mutates reports whether requests with this verb may change state.
func (m Method) Mutates() bool {
	return m != MethodGet
}

// HandlerFunc serves one routed request.
type HandlerFunc func(ctx context.Context, req *Request) (any, error)

// Route binds a verb and a path template such as
// "channels/{channel}/messages/{message}" to a handler. Name labels metrics
// and spans.
type Route struct {
	Method  Method
	Pattern string
	Name    string
	Handle  HandlerFunc

	matcher  glob.Glob
	segments int
	literals int
	params   map[int]string
}

// Registry resolves request paths to routes.
type Registry struct {
	routes []*Route
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register compiles the route's template and adds it.
func (r *Registry) Register(route Route) error {
	parts := strings.Split(route.Pattern, "/")
	globParts := make([]string, len(parts))
	route.params = make(map[int]string)
	for i, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			route.params[i] = strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}")
			globParts[i] = "*"
			continue
		}
		globParts[i] = glob.QuoteMeta(part)
		route.literals++
	}
	matcher, err := glob.Compile(strings.Join(globParts, "/"), '/')
	if err != nil {
		return oops.Code("ROUTE_PATTERN_INVALID").With("pattern", route.Pattern).Wrap(err)
	}
	route.matcher = matcher
	route.segments = len(parts)
	r.routes = append(r.routes, &route)
	return nil
}

// MustRegister registers every route and panics on an invalid template.
func (r *Registry) MustRegister(routes ...Route) {
	for _, route := range routes {
		if err := r.Register(route); err != nil {
			panic(err)
		}
	}
}

// Match finds the route for a verb and path. When several templates match,
// the one with the most literal segments wins, so "users/@me" beats
// "users/{user}". A path that matches only under other verbs yields
// MethodNotAllowed.
func (r *Registry) Match(method Method, path []string) (*Route, map[string]string, error) {
	joined := strings.Join(path, "/")
	var best *Route
	pathMatched := false
	for _, route := range r.routes {
		if route.segments != len(path) || !route.matcher.Match(joined) || hasEmpty(path) {
			continue
		}
		pathMatched = true
		if route.Method != method {
			continue
		}
		if best == nil || route.literals > best.literals {
			best = route
		}
	}
	switch {
	case best != nil:
		params := make(map[string]string, len(best.params))
		for i, name := range best.params {
			params[name] = path[i]
		}
		return best, params, nil
	case pathMatched:
		return nil, nil, apierror.New(apierror.MethodNotAllowed)
	default:
		return nil, nil, apierror.New(apierror.UnknownRoute)
	}
}

// Routes returns the registered routes in registration order.
func (r *Registry) Routes() []Route {
	out := make([]Route, 0, len(r.routes))
	for _, route := range r.routes {
		out = append(out, *route)
	}
	return out
}

func hasEmpty(path []string) bool {
	for _, p := range path {
		if p == "" {
			return true
		}
	}
	return false
}
