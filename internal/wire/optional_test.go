// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package wire_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/simcord/internal/wire"
)

type patch struct {
	Topic wire.Optional[string] `json:"topic,omitzero"`
}

func TestOptional_DistinguishesAbsentNullAndSet(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		set     bool
		null    bool
		wantPtr *string
	}{
		{name: "absent", input: `{}`},
		{name: "null", input: `{"topic":null}`, set: true, null: true},
		{name: "value", input: `{"topic":"hi"}`, set: true, wantPtr: ptr("hi")},
		{name: "empty string is a value", input: `{"topic":""}`, set: true, wantPtr: ptr("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			assert.Equal(t, tt.set, p.Topic.Set)
			assert.Equal(t, tt.null, p.Topic.Null)
			assert.Equal(t, tt.wantPtr, p.Topic.Ptr())
		})
	}
}

func TestOptional_Encoding(t *testing.T) {
	raw, err := json.Marshal(patch{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	raw, err = json.Marshal(patch{Topic: wire.Null[string]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":null}`, string(raw))

	raw, err = json.Marshal(patch{Topic: wire.FromPtr(ptr("x"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"x"}`, string(raw))
}

func TestOptional_Value(t *testing.T) {
	v, ok := wire.Some(3).Value()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = wire.Null[int]().Value()
	assert.False(t, ok)
	assert.Nil(t, wire.Null[int]().Interface())
	assert.Equal(t, 3, wire.Some(3).Interface())
}

func TestIntOrString(t *testing.T) {
	var n wire.IntOrString
	require.NoError(t, json.Unmarshal([]byte(`42`), &n))
	assert.Equal(t, int64(42), n.Int)
	assert.Equal(t, "42", n.String)
	assert.False(t, n.Quoted)

	var s wire.IntOrString
	require.NoError(t, json.Unmarshal([]byte(`"7"`), &s))
	assert.Equal(t, int64(7), s.Int)
	assert.True(t, s.Quoted)
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `"7"`, string(raw))

	var word wire.IntOrString
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &word))
	assert.Equal(t, "abc", word.String)

	var bad wire.IntOrString
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &bad))
}

func TestTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 500, time.FixedZone("X", 3600))
	raw, err := json.Marshal(wire.NewTimestamp(at))
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01T11:00:00.000000+00:00"`, string(raw))

	var back wire.Timestamp
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Time().Equal(at.Truncate(time.Microsecond)))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &back))
}

func ptr[T any](v T) *T { return &v }

func TestMarshal_KeepsMarkupUnescaped(t *testing.T) {
	data, err := wire.Marshal(map[string]string{"content": "<@1> & <#2>"})
	require.NoError(t, err)
	assert.Equal(t, `{"content":"<@1> & <#2>"}`, string(data))
}
