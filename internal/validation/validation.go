// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package validation runs structural checks on request bodies and reports
// failures as a form-error tree.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
	"github.com/go-playground/validator/v10"

	"github.com/holomush/simcord/internal/apierror"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/wire"
)

var emojiNamePattern = regexp.MustCompile(`^\w+$`)

// Validator checks tagged structs and single values.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the custom tags used by request bodies:
//
//	length=a-b  rune count between a and b (BASE_TYPE_BAD_LENGTH)
//	emojiname   word characters only
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(optionalValue,
		wire.Optional[string]{},
		wire.Optional[int]{},
		wire.Optional[bool]{},
		wire.Optional[snowflake.ID]{},
		wire.Optional[model.ChannelType]{},
	)
	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("length", validateLength)
	_ = v.RegisterValidation("emojiname", func(fl validator.FieldLevel) bool {
		return emojiNamePattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct validates s and returns the resulting tree, which may be empty.
func (v *Validator) Struct(s any) *apierror.FormErrors {
	form := apierror.NewFormErrors()
	v.StructInto(form, "", s)
	return form
}

// StructInto validates s and records failures under prefix.
func (v *Validator) StructInto(form *apierror.FormErrors, prefix string, s any) {
	err := v.validate.Struct(s)
	v.collect(form, prefix, err)
}

// Var validates a single value against tag and records failures at path.
func (v *Validator) Var(form *apierror.FormErrors, path string, value any, tag string) {
	err := v.validate.Var(value, tag)
	v.collect(form, path, err)
}

func (v *Validator) collect(form *apierror.FormErrors, prefix string, err error) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		form.Add(prefix, apierror.BadType())
		return
	}
	for _, fe := range verrs {
		form.Add(joinPath(prefix, fieldPath(fe.Namespace())), translate(fe))
	}
}

// translate maps a failed tag to a form error code.
func translate(fe validator.FieldError) apierror.FieldError {
	param := fe.Param()
	n, _ := strconv.Atoi(param)
	sized := isSized(fe.Kind())
	switch fe.Tag() {
	case "required", "required_without", "required_with":
		return apierror.Required()
	case "max", "lte":
		if sized {
			return apierror.MaxLength(n)
		}
		return apierror.NumberMax(n)
	case "min", "gte":
		if sized {
			return apierror.MinLength(n)
		}
		return apierror.NumberMin(n)
	case "length":
		lo, hi := parseRange(param)
		return apierror.BadLength(lo, hi)
	case "oneof":
		choices := strings.Fields(param)
		values := make([]any, len(choices))
		for i, c := range choices {
			values[i] = c
		}
		return apierror.Choices(values...)
	case "url", "http_url":
		return apierror.InvalidURL()
	case "datauri":
		return apierror.InvalidImage()
	case "emojiname":
		return apierror.InvalidFormat(emojiNamePattern.String())
	case "excluded_with", "excluded_with_all":
		return apierror.Semantic(apierror.CodeMentionsParseExclusive, "Mutually exclusive with "+param)
	default:
		return apierror.BadType()
	}
}

func validateLength(fl validator.FieldLevel) bool {
	lo, hi := parseRange(fl.Param())
	field := fl.Field()
	var n int
	switch field.Kind() {
	case reflect.String:
		n = utf8.RuneCountInString(field.String())
	case reflect.Slice, reflect.Array, reflect.Map:
		n = field.Len()
	default:
		return false
	}
	return n >= lo && n <= hi
}

func parseRange(param string) (int, int) {
	a, b, ok := strings.Cut(param, "-")
	lo, _ := strconv.Atoi(a)
	if !ok {
		return lo, lo
	}
	hi, _ := strconv.Atoi(b)
	return lo, hi
}

func isSized(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

type interfacer interface {
	Interface() any
}

func optionalValue(field reflect.Value) any {
	if o, ok := field.Interface().(interfacer); ok {
		return o.Interface()
	}
	return nil
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// fieldPath turns a validator namespace such as "MessageCreate.embeds[0].title"
// into the dotted form-error path "embeds.0.title".
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return ""
	}
	rest = strings.NewReplacer("[", ".", "]", "").Replace(rest)
	return rest
}

func joinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	default:
		return prefix + "." + path
	}
}
