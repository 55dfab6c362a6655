// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package wire

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// Optional is a field that may be absent, explicitly null, or set. Use it
// with the omitzero option so that an absent field is left out of the
// encoded object while a null one is written.
type Optional[T any] struct {
	Set  bool
	Null bool
	V    T
}

// Some returns a set Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, V: v}
}

// Null returns an explicitly null Optional.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// FromPtr returns null for nil and the pointee otherwise.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Null[T]()
	}
	return Some(*p)
}

// IsZero reports absence; encoding/json consults it for omitzero.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// Value returns the value when set and not null.
func (o Optional[T]) Value() (T, bool) {
	return o.V, o.Set && !o.Null
}

// Ptr returns nil for null and a pointer to the value otherwise. Callers
// check Set first.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.V
	return &v
}

// Interface exposes the value to reflection-based validators: nil when
// absent or null.
func (o Optional[T]) Interface() any {
	if !o.Set || o.Null {
		return nil
	}
	return o.V
}

// MarshalJSON writes null or the value. Absence is handled by omitzero.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Null {
		return jsonNull, nil
	}
	return json.Marshal(o.V)
}

// UnmarshalJSON marks the field as present, and null when the literal is null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Null = true
		var zero T
		o.V = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.V)
}
