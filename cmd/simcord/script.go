// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/observability"
	"github.com/holomush/simcord/pkg/backend"
)

// expectOK is the default expectation of a step.
const expectOK = "OK"

// script is a list of requests replayed in order.
type script struct {
	Steps []step `yaml:"steps"`
}

// step is one request, or a gateway connect when Connect is set.
type step struct {
	Name    string            `yaml:"name"`
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	User    snowflake.ID      `yaml:"user"`
	Query   map[string]string `yaml:"query"`
	Body    any               `yaml:"body"`
	Reason  string            `yaml:"reason"`
	Connect bool              `yaml:"connect"`
	// Expect is OK or the name of the catalog error the step must fail with.
	Expect string `yaml:"expect"`
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, oops.Code("SCRIPT_READ_FAILED").With("path", path).Wrap(err)
	}
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, oops.Code("SCRIPT_INVALID").With("path", path).Wrap(err)
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		st.Method = strings.ToUpper(st.Method)
		if st.Expect == "" {
			st.Expect = expectOK
		}
		if st.Name == "" {
			st.Name = strings.TrimSpace(st.Method + " " + st.Path)
		}
		if !st.Connect && (st.Method == "" || st.Path == "") {
			return nil, oops.Code("SCRIPT_STEP_INVALID").
				With("path", path).
				With("step", i).
				Errorf("step %d needs a method and a path", i)
		}
	}
	return &s, nil
}

// line is one JSON output record.
type line struct {
	Type    string `json:"type"`
	Step    string `json:"step,omitempty"`
	Name    string `json:"name,omitempty"`
	Payload any    `json:"payload,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// output writes JSON lines. Events arrive from inside the backend while a
// step runs, so writes are serialized.
type output struct {
	mu  sync.Mutex
	enc *json.Encoder
	err error
}

func newOutput(w io.Writer) *output {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &output{enc: enc}
}

func (o *output) write(l line) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return
	}
	if err := o.enc.Encode(l); err != nil {
		o.err = oops.Code("OUTPUT_WRITE_FAILED").Wrap(err)
	}
}

// Dispatch implements backend.Sink.
func (o *output) Dispatch(event string, payload any) {
	o.write(line{Type: "event", Name: event, Payload: payload})
}

// replay runs every step and returns how many did not meet their
// expectation.
func replay(ctx context.Context, b *backend.Backend, s *script, out *output, metrics *observability.Metrics) int {
	mismatched := 0
	for _, st := range s.Steps {
		value, err := runStep(ctx, b, st)
		got := expectOK
		if err != nil {
			got = "ERROR"
			if apiErr, ok := apierror.As(err); ok {
				got = apiErr.Name
			}
			out.write(line{Type: "error", Step: st.Name, Error: errorBody(err)})
		} else {
			out.write(line{Type: "response", Step: st.Name, Payload: value})
		}

		outcome := observability.StepOK
		switch {
		case got != st.Expect:
			outcome = observability.StepUnexpected
			mismatched++
			out.write(line{Type: "mismatch", Step: st.Name, Error: map[string]string{"expected": st.Expect, "got": got}})
		case err != nil:
			outcome = observability.StepRejected
		}
		if metrics != nil {
			metrics.RecordStep(outcome)
		}
	}
	return mismatched
}

func runStep(ctx context.Context, b *backend.Backend, st step) (any, error) {
	if st.Connect {
		sess, err := b.Connect(ctx, st.User)
		if err != nil {
			return nil, err
		}
		return sess.Ready, nil
	}

	segments := strings.Split(strings.Trim(st.Path, "/"), "/")
	ep := b.Resource(lo.ToAnySlice(segments)...).As(st.User)
	if len(st.Query) > 0 {
		q := url.Values{}
		for k, v := range st.Query {
			q.Set(k, v)
		}
		ep = ep.WithQuery(q)
	}
	if st.Reason != "" {
		ep = ep.WithReason(st.Reason)
	}

	var (
		res *backend.Response
		err error
	)
	switch st.Method {
	case "GET":
		res, err = ep.Get(ctx)
	case "POST":
		res, err = ep.Post(ctx, st.Body)
	case "PATCH":
		res, err = ep.Patch(ctx, st.Body)
	case "PUT":
		res, err = ep.Put(ctx, st.Body)
	case "DELETE":
		res, err = ep.Delete(ctx)
	default:
		return nil, oops.Code("SCRIPT_METHOD_INVALID").With("method", st.Method).Errorf("unsupported method %q", st.Method)
	}
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// errorBody renders catalog errors as their REST body and anything else as
// a message.
func errorBody(err error) any {
	if apiErr, ok := apierror.As(err); ok {
		return apiErr
	}
	return map[string]string{"message": err.Error()}
}
