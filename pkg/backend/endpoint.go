// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/oops"

	"github.com/holomush/simcord/internal/handler"
	"github.com/holomush/simcord/internal/wire"
)

// File is an uploaded attachment.
type File = wire.File

// Endpoint is a resource path bound to a backend. Endpoints are values:
// each With method returns a modified copy.
type Endpoint struct {
	b      *Backend
	path   []string
	user   snowflake.ID
	query  url.Values
	files  []File
	reason *string
	err    error
}

// Resource addresses the resource at the given path segments, such as
// Resource("channels", channelID, "messages"). Segments may be strings,
// snowflake ids or integers.
func (b *Backend) Resource(segments ...any) Endpoint {
	e := Endpoint{b: b, path: make([]string, 0, len(segments))}
	for i, seg := range segments {
		s, err := segment(seg)
		if err != nil {
			e.err = oops.Code("RESOURCE_SEGMENT_INVALID").With("index", i).Wrap(err)
			return e
		}
		e.path = append(e.path, s)
	}
	return e
}

func segment(v any) (string, error) {
	switch seg := v.(type) {
	case string:
		return seg, nil
	case snowflake.ID:
		return seg.String(), nil
	case int:
		return strconv.Itoa(seg), nil
	case int64:
		return strconv.FormatInt(seg, 10), nil
	case uint64:
		return strconv.FormatUint(seg, 10), nil
	case fmt.Stringer:
		return seg.String(), nil
	default:
		return "", oops.With("type", fmt.Sprintf("%T", v)).Errorf("unsupported path segment type %T", v)
	}
}

// As runs requests as user instead of the session user.
func (e Endpoint) As(user snowflake.ID) Endpoint {
	e.user = user
	return e
}

// WithQuery sets the query string.
func (e Endpoint) WithQuery(q url.Values) Endpoint {
	e.query = q
	return e
}

// WithFiles attaches uploads. Only message creation and webhook execution
// read them.
func (e Endpoint) WithFiles(files ...File) Endpoint {
	e.files = append([]File(nil), files...)
	return e
}

// WithReason records reason on audit log entries the request produces.
func (e Endpoint) WithReason(reason string) Endpoint {
	e.reason = &reason
	return e
}

// Get reads the resource.
func (e Endpoint) Get(ctx context.Context) (*Response, error) {
	return e.do(ctx, handler.MethodGet, nil)
}

// Post creates under the resource. body is marshaled to JSON unless it is
// already a []byte or json.RawMessage.
func (e Endpoint) Post(ctx context.Context, body any) (*Response, error) {
	return e.do(ctx, handler.MethodPost, body)
}

// Patch modifies the resource.
func (e Endpoint) Patch(ctx context.Context, body any) (*Response, error) {
	return e.do(ctx, handler.MethodPatch, body)
}

// Put replaces the resource.
func (e Endpoint) Put(ctx context.Context, body any) (*Response, error) {
	return e.do(ctx, handler.MethodPut, body)
}

// Delete removes the resource.
func (e Endpoint) Delete(ctx context.Context) (*Response, error) {
	return e.do(ctx, handler.MethodDelete, nil)
}

func (e Endpoint) do(ctx context.Context, method handler.Method, body any) (*Response, error) {
	if e.err != nil {
		return nil, e.err
	}
	raw, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	out, err := e.b.handle(ctx, &handler.Request{
		Method: method,
		Path:   e.path,
		UserID: e.user,
		Body:   raw,
		Files:  e.files,
		Query:  e.query,
		Reason: e.reason,
	})
	if err != nil {
		return nil, err
	}
	return &Response{Value: out}, nil
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, oops.Code("REQUEST_BODY_INVALID").Wrap(err)
		}
		return raw, nil
	}
}

// Response is the result of an operation. Value is nil for operations that
// answer with no content.
type Response struct {
	Value any
}

// NoContent reports whether the operation answered with an empty body.
func (r *Response) NoContent() bool {
	return r.Value == nil
}

// JSON encodes the response body.
func (r *Response) JSON() ([]byte, error) {
	if r.Value == nil {
		return nil, nil
	}
	data, err := wire.Marshal(r.Value)
	if err != nil {
		return nil, oops.Code("RESPONSE_ENCODE_FAILED").Wrap(err)
	}
	return data, nil
}

// Decode unmarshals the response body into v, which may be any type that
// accepts the JSON shape, including a client library's own structs.
func (r *Response) Decode(v any) error {
	data, err := r.JSON()
	if err != nil {
		return err
	}
	if data == nil {
		return oops.Code("RESPONSE_EMPTY").Errorf("operation returned no content")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return oops.Code("RESPONSE_DECODE_FAILED").Wrap(err)
	}
	return nil
}
