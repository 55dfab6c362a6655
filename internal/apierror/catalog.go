// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package apierror

// Kind groups catalog entries by how a client should react to them.
type Kind string

// Error kinds.
const (
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
	KindToken         Kind = "token"
	KindValidation    Kind = "validation"
	KindUnauthorized  Kind = "unauthorized"
)

// Definition is one catalog entry.
type Definition struct {
	Name    string
	Kind    Kind
	Status  int
	Code    int
	Message string
}

// Not found.
var (
	UnknownApplication         = Definition{"UNKNOWN_APPLICATION", KindNotFound, 404, 10002, "Unknown Application"}
	UnknownChannel             = Definition{"UNKNOWN_CHANNEL", KindNotFound, 404, 10003, "Unknown Channel"}
	UnknownGuild               = Definition{"UNKNOWN_GUILD", KindNotFound, 404, 10004, "Unknown Guild"}
	UnknownInvite              = Definition{"UNKNOWN_INVITE", KindNotFound, 404, 10006, "Unknown Invite"}
	UnknownMember              = Definition{"UNKNOWN_MEMBER", KindNotFound, 404, 10007, "Unknown Member"}
	UnknownMessage             = Definition{"UNKNOWN_MESSAGE", KindNotFound, 404, 10008, "Unknown Message"}
	UnknownRole                = Definition{"UNKNOWN_ROLE", KindNotFound, 404, 10011, "Unknown Role"}
	UnknownUser                = Definition{"UNKNOWN_USER", KindNotFound, 404, 10013, "Unknown User"}
	UnknownEmoji               = Definition{"UNKNOWN_EMOJI", KindNotFound, 404, 10014, "Unknown Emoji"}
	UnknownWebhook             = Definition{"UNKNOWN_WEBHOOK", KindNotFound, 404, 10015, "Unknown Webhook"}
	UnknownGuildTemplate       = Definition{"UNKNOWN_GUILD_TEMPLATE", KindNotFound, 404, 10057, "Unknown Guild Template"}
	UnknownGuildWelcomeScreen  = Definition{"UNKNOWN_GUILD_WELCOME_SCREEN", KindNotFound, 404, 10069, "Unknown Guild Welcome Screen"}
	UnknownGuildScheduledEvent = Definition{"UNKNOWN_GUILD_SCHEDULED_EVENT", KindNotFound, 404, 10070, "Unknown Guild Scheduled Event"}
	UnknownRoute               = Definition{"UNKNOWN_ROUTE", KindNotFound, 404, 0, "404: Not Found"}
	MethodNotAllowed           = Definition{"METHOD_NOT_ALLOWED", KindNotFound, 405, 0, "405: Method Not Allowed"}
)

// Authorization.
var (
	MissingAccess               = Definition{"MISSING_ACCESS", KindAuthorization, 403, 50001, "Missing Access"}
	CannotExecuteOnDM           = Definition{"CANNOT_EXECUTE_ON_DM", KindAuthorization, 403, 50003, "Cannot execute action on a DM channel"}
	CannotEditOtherUsersMessage = Definition{"CANNOT_EDIT_OTHER_USERS_MESSAGE", KindAuthorization, 403, 50005, "Cannot edit a message authored by another user"}
	MissingPermissions          = Definition{"MISSING_PERMISSIONS", KindAuthorization, 403, 50013, "Missing Permissions"}
)

// Conflict.
var (
	MaximumGuildsReached = Definition{"MAXIMUM_GUILDS_REACHED", KindConflict, 400, 30001, "Maximum number of guilds reached (100)"}
	MaximumPinsReached   = Definition{"MAXIMUM_PINS_REACHED", KindConflict, 400, 30003, "Maximum number of pins reached (50)"}
	AlreadyHasTemplate   = Definition{"ALREADY_HAS_TEMPLATE", KindConflict, 400, 30031, "Guild already has a template"}
)

// Tokens and credentials.
var (
	Unauthorized        = Definition{"UNAUTHORIZED", KindUnauthorized, 401, 0, "401: Unauthorized"}
	InvalidWebhookToken = Definition{"INVALID_WEBHOOK_TOKEN", KindToken, 401, 50027, "Invalid Webhook Token"}
)

// Validation.
var (
	CannotSendEmptyMessage = Definition{"CANNOT_SEND_EMPTY_MESSAGE", KindValidation, 400, 50006, "Cannot send an empty message"}
	InvalidChannelType     = Definition{"INVALID_CHANNEL_TYPE", KindValidation, 400, 50024, "Cannot execute action on this channel type"}
	InvalidFormBody        = Definition{"INVALID_FORM_BODY", KindValidation, 400, 50035, "Invalid Form Body"}
	InvalidGuild           = Definition{"INVALID_GUILD", KindValidation, 400, 50055, "Invalid Guild"}
	InvalidJSON            = Definition{"INVALID_JSON", KindValidation, 400, 50109, "The request body contains invalid JSON."}
)

// Catalog lists every definition, for lookups by numeric code.
var Catalog = []Definition{
	UnknownApplication, UnknownChannel, UnknownGuild, UnknownInvite, UnknownMember,
	UnknownMessage, UnknownRole, UnknownUser, UnknownEmoji, UnknownWebhook,
	UnknownGuildTemplate, UnknownGuildWelcomeScreen, UnknownGuildScheduledEvent,
	UnknownRoute, MethodNotAllowed,
	MissingAccess, CannotExecuteOnDM, CannotEditOtherUsersMessage, MissingPermissions,
	MaximumGuildsReached, MaximumPinsReached, AlreadyHasTemplate,
	Unauthorized, InvalidWebhookToken,
	CannotSendEmptyMessage, InvalidChannelType, InvalidFormBody, InvalidGuild, InvalidJSON,
}

// Lookup returns the definition registered under a numeric code.
func Lookup(code int) (Definition, bool) {
	for _, def := range Catalog {
		if def.Code == code && code != 0 {
			return def, true
		}
	}
	return Definition{}, false
}
