// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"crypto/md5"
	"encoding/hex"
	"reflect"

	"github.com/holomush/simcord/internal/model"
)

// changeSet collects audit log changes, skipping keys whose value did not
// change.
type changeSet []model.AuditLogChange

func (c *changeSet) add(key string, old, updated any) {
	old, updated = deref(old), deref(updated)
	if reflect.DeepEqual(old, updated) {
		return
	}
	*c = append(*c, model.AuditLogChange{Key: key, OldValue: old, NewValue: updated})
}

// created records a key that only has a new value.
func (c *changeSet) created(key string, v any) {
	c.add(key, nil, v)
}

// removed records a key that only has an old value.
func (c *changeSet) removed(key string, v any) {
	c.add(key, v, nil)
}

// deref turns nil pointers into nil and other pointers into their values.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return rv.Elem().Interface()
	}
	return v
}

// imageHash derives the asset hash stored for an uploaded data URI image.
func imageHash(dataURI *string) *string {
	if dataURI == nil {
		return nil
	}
	sum := md5.Sum([]byte(*dataURI))
	return model.Ptr(hex.EncodeToString(sum[:]))
}
