// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package model contains the canonical in-memory entities of the simulated platform.
package model

import (
	"github.com/disgoorg/snowflake/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an insertion-ordered collection keyed by Snowflake.
type Map[V any] = orderedmap.OrderedMap[snowflake.ID, V]

// NewMap creates an empty ordered collection.
func NewMap[V any]() *Map[V] {
	return orderedmap.New[snowflake.ID, V]()
}

// Values returns the values of m in insertion order. A nil map yields nil.
func Values[V any](m *Map[V]) []V {
	if m == nil {
		return nil
	}
	out := make([]V, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Keys returns the keys of m in insertion order.
func Keys[V any](m *Map[V]) []snowflake.ID {
	if m == nil {
		return nil
	}
	out := make([]snowflake.ID, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Has reports whether id is present in m.
func Has[V any](m *Map[V], id snowflake.ID) bool {
	if m == nil {
		return false
	}
	_, ok := m.Get(id)
	return ok
}

// ContainsID reports whether ids contains id.
func ContainsID(ids []snowflake.ID, id snowflake.ID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
