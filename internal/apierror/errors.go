// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package apierror is the fixed catalog of errors a simulated operation can
// fail with, and the recursive form-error tree carried by validation errors.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Error is a catalog error as the caller observes it.
type Error struct {
	Definition
	Form *FormErrors
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s (%d)", e.Status, e.Message, e.Code)
}

// MarshalJSON renders the REST error body.
func (e *Error) MarshalJSON() ([]byte, error) {
	body := struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Errors  *FormErrors `json:"errors,omitempty"`
	}{Code: e.Code, Message: e.Message}
	if !e.Form.Empty() {
		body.Errors = e.Form
	}
	return json.Marshal(body)
}

// New creates an error from a catalog entry.
func New(def Definition) error {
	return wrap(&Error{Definition: def})
}

// WithForm creates an InvalidFormBody error carrying the tree.
func WithForm(form *FormErrors) error {
	return wrap(&Error{Definition: InvalidFormBody, Form: form})
}

func wrap(e *Error) error {
	builder := oops.In("api").
		Code(e.Name).
		With("status", e.Status).
		With("code", e.Code)
	if !e.Form.Empty() {
		builder = builder.With("fields", e.Form.Paths())
	}
	return builder.Wrap(e)
}

// As extracts the catalog error from err.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Is reports whether err is the given catalog entry.
func Is(err error, def Definition) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Name == def.Name
}
