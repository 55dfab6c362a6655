// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package apierror

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FieldError is one leaf entry of the form-error tree.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FormErrors mirrors the request body: each node keys children by field name
// or array index and lists its own errors under "_errors".
// The zero value is not usable; use NewFormErrors.
type FormErrors struct {
	errs     []FieldError
	children *orderedmap.OrderedMap[string, *FormErrors]
}

// NewFormErrors creates an empty tree.
func NewFormErrors() *FormErrors {
	return &FormErrors{children: orderedmap.New[string, *FormErrors]()}
}

// Add records an error at a dotted path such as "embeds.0.title". An empty
// path records the error on the node itself.
func (f *FormErrors) Add(path string, e FieldError) {
	node := f
	for _, key := range splitPath(path) {
		child, ok := node.children.Get(key)
		if !ok {
			child = NewFormErrors()
			node.children.Set(key, child)
		}
		node = child
	}
	node.errs = append(node.errs, e)
}

// At returns the subtree at path, or nil when nothing was recorded there.
func (f *FormErrors) At(path string) *FormErrors {
	node := f
	for _, key := range splitPath(path) {
		if node == nil {
			return nil
		}
		child, ok := node.children.Get(key)
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// Errors returns the errors recorded directly on this node.
func (f *FormErrors) Errors() []FieldError {
	if f == nil {
		return nil
	}
	return f.errs
}

// Empty reports whether no error was recorded anywhere in the tree.
func (f *FormErrors) Empty() bool {
	if f == nil {
		return true
	}
	if len(f.errs) > 0 {
		return false
	}
	for pair := f.children.Oldest(); pair != nil; pair = pair.Next() {
		if !pair.Value.Empty() {
			return false
		}
	}
	return true
}

// Merge grafts other under prefix.
func (f *FormErrors) Merge(prefix string, other *FormErrors) {
	if other.Empty() {
		return
	}
	for _, e := range other.errs {
		f.Add(prefix, e)
	}
	for pair := other.children.Oldest(); pair != nil; pair = pair.Next() {
		f.Merge(joinPath(prefix, pair.Key), pair.Value)
	}
}

// Paths lists every path that carries at least one error, depth first.
func (f *FormErrors) Paths() []string {
	var out []string
	f.walk("", func(path string, _ []FieldError) {
		out = append(out, path)
	})
	return out
}

func (f *FormErrors) walk(prefix string, fn func(string, []FieldError)) {
	if f == nil {
		return
	}
	if len(f.errs) > 0 {
		fn(prefix, f.errs)
	}
	for pair := f.children.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.walk(joinPath(prefix, pair.Key), fn)
	}
}

// Err returns an InvalidFormBody error, or nil when the tree is empty.
func (f *FormErrors) Err() error {
	if f.Empty() {
		return nil
	}
	return WithForm(f)
}

// MarshalJSON renders {"field": {"_errors": [...]}} with children in
// insertion order.
func (f *FormErrors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	if len(f.errs) > 0 {
		b, err := json.Marshal(f.errs)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"_errors":`)
		buf.Write(b)
		first = false
	}
	for pair := f.children.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Empty() {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		child, err := pair.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(child)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a tree produced by MarshalJSON.
func (f *FormErrors) UnmarshalJSON(data []byte) error {
	var raw orderedmap.OrderedMap[string, json.RawMessage]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.children = orderedmap.New[string, *FormErrors]()
	f.errs = nil
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == "_errors" {
			if err := json.Unmarshal(pair.Value, &f.errs); err != nil {
				return err
			}
			continue
		}
		child := NewFormErrors()
		if err := child.UnmarshalJSON(pair.Value); err != nil {
			return err
		}
		f.children.Set(pair.Key, child)
	}
	return nil
}

func (f *FormErrors) String() string {
	var parts []string
	f.walk("", func(path string, errs []FieldError) {
		for _, e := range errs {
			parts = append(parts, fmt.Sprintf("%s: %s", path, e.Code))
		}
	})
	return strings.Join(parts, "; ")
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
