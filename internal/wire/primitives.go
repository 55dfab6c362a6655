// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package wire

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/samber/oops"
)

// TimestampLayout is the ISO-8601 form the platform emits.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// Timestamp is a time encoded with TimestampLayout in UTC.
type Timestamp time.Time

// NewTimestamp converts t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// TimestampPtr converts an optional time.
func TimestampPtr(t *time.Time) *Timestamp {
	if t == nil {
		return nil
	}
	ts := Timestamp(*t)
	return &ts
}

// Time returns the underlying time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(TimestampLayout)
}

// MarshalJSON writes the quoted timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON accepts any RFC 3339 timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return oops.Code("INVALID_TIMESTAMP").Wrap(err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return oops.Code("INVALID_TIMESTAMP").With("value", s).Wrap(err)
	}
	*t = Timestamp(parsed)
	return nil
}

// IntOrString decodes an integer sent either as a JSON number or a numeric
// string, as attachment ids and nonces are.
type IntOrString struct {
	Int    int64
	String string
	Quoted bool
}

// MarshalJSON writes the value the way it was received.
func (v IntOrString) MarshalJSON() ([]byte, error) {
	if v.Quoted {
		return json.Marshal(v.String)
	}
	return []byte(strconv.FormatInt(v.Int, 10)), nil
}

// UnmarshalJSON accepts a number or a string.
func (v *IntOrString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &v.String); err != nil {
			return err
		}
		v.Quoted = true
		if n, err := strconv.ParseInt(strings.TrimSpace(v.String), 10, 64); err == nil {
			v.Int = n
		}
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return oops.Code("INVALID_INTEGER").With("value", string(data)).Wrap(err)
	}
	v.Int = n
	v.String = string(data)
	return nil
}

// Marshal encodes v the way the platform does: markup such as <@id> is not
// HTML-escaped.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, oops.Code("WIRE_ENCODE_FAILED").Wrap(err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
