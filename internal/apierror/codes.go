// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package apierror

import (
	"fmt"
	"strings"
)

// Form error codes.
const (
	CodeRequired      = "BASE_TYPE_REQUIRED"
	CodeMaxLength     = "BASE_TYPE_MAX_LENGTH"
	CodeMinLength     = "BASE_TYPE_MIN_LENGTH"
	CodeBadLength     = "BASE_TYPE_BAD_LENGTH"
	CodeChoices       = "BASE_TYPE_CHOICES"
	CodeBadType       = "BASE_TYPE_BAD_TYPE"
	CodeNumberMax     = "NUMBER_TYPE_MAX"
	CodeNumberMin     = "NUMBER_TYPE_MIN"
	CodeNumberCoerce  = "NUMBER_TYPE_COERCE"
	CodeInvalidURL    = "URL_TYPE_INVALID_URL"
	CodeInvalidImage  = "IMAGE_INVALID"
	CodeInvalidFormat = "STRING_TYPE_REGEX"

	CodeMentionsParseExclusive = "MESSAGE_ALLOWED_MENTIONS_PARSE_EXCLUSIVE"
	CodeMentionsTooMany        = "MESSAGE_ALLOWED_MENTIONS_TOO_MANY_ITEMS"
	CodeReferenceUnknown       = "MESSAGE_REFERENCE_UNKNOWN_MESSAGE"
	CodeReferenceChannel       = "MESSAGE_REFERENCE_INVALID_CHANNEL"
	CodeAttachmentUnknown      = "ATTACHMENT_NOT_FOUND"
	CodeEmbedTooLong           = "MESSAGE_EMBEDS_TOO_LONG"
	CodeAFKChannelNotVoice     = "GUILD_AFK_CHANNEL_NOT_VOICE"
	CodeSystemChannelNotText   = "GUILD_SYSTEM_CHANNEL_NOT_TEXT"
	CodeParentNotCategory      = "CHANNEL_PARENT_INVALID_TYPE"
	CodeParentOrder            = "CHANNEL_PARENT_NOT_DEFINED_BEFORE"
	CodeUnknownChannelRef      = "CHANNEL_REFERENCE_UNKNOWN"
	CodeUnknownRoleRef         = "ROLE_REFERENCE_UNKNOWN"
	CodeUnknownUserRef         = "USER_REFERENCE_UNKNOWN"
	CodeWebhookNameReserved    = "USERNAME_INVALID_CONTAINS"
	CodeChannelTypeInvalid     = "CHANNEL_TYPE_INVALID"
)

// Required is BASE_TYPE_REQUIRED.
func Required() FieldError {
	return FieldError{Code: CodeRequired, Message: "This field is required"}
}

// MaxLength is BASE_TYPE_MAX_LENGTH.
func MaxLength(n int) FieldError {
	return FieldError{Code: CodeMaxLength, Message: fmt.Sprintf("Must be %d or fewer in length.", n)}
}

// MinLength is BASE_TYPE_MIN_LENGTH.
func MinLength(n int) FieldError {
	return FieldError{Code: CodeMinLength, Message: fmt.Sprintf("Must be %d or more in length.", n)}
}

// BadLength is BASE_TYPE_BAD_LENGTH.
func BadLength(lo, hi int) FieldError {
	return FieldError{Code: CodeBadLength, Message: fmt.Sprintf("Must be between %d and %d in length.", lo, hi)}
}

// Choices is BASE_TYPE_CHOICES.
func Choices(values ...any) FieldError {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return FieldError{Code: CodeChoices, Message: fmt.Sprintf("Value must be one of {%s}.", strings.Join(parts, ", "))}
}

// BadType is BASE_TYPE_BAD_TYPE.
func BadType() FieldError {
	return FieldError{Code: CodeBadType, Message: "Must be of the correct type."}
}

// NumberMax is NUMBER_TYPE_MAX.
func NumberMax(n int) FieldError {
	return FieldError{Code: CodeNumberMax, Message: fmt.Sprintf("int value should be less than or equal to %d.", n)}
}

// NumberMin is NUMBER_TYPE_MIN.
func NumberMin(n int) FieldError {
	return FieldError{Code: CodeNumberMin, Message: fmt.Sprintf("int value should be greater than or equal to %d.", n)}
}

// NotSnowflake is NUMBER_TYPE_COERCE for id fields.
func NotSnowflake(v string) FieldError {
	return FieldError{Code: CodeNumberCoerce, Message: fmt.Sprintf("Value %q is not snowflake.", v)}
}

// InvalidURL is URL_TYPE_INVALID_URL.
func InvalidURL() FieldError {
	return FieldError{Code: CodeInvalidURL, Message: "Not a well formed URL."}
}

// InvalidImage is IMAGE_INVALID.
func InvalidImage() FieldError {
	return FieldError{Code: CodeInvalidImage, Message: "Invalid image data"}
}

// InvalidFormat is STRING_TYPE_REGEX.
func InvalidFormat(pattern string) FieldError {
	return FieldError{Code: CodeInvalidFormat, Message: fmt.Sprintf("String value did not match validation regex %s.", pattern)}
}

// Semantic is a form error produced by a cross-entity rule.
func Semantic(code, message string) FieldError {
	return FieldError{Code: code, Message: message}
}
