// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package model

import "github.com/disgoorg/snowflake/v2"

// User is a global identity record.
type User struct {
	ID            snowflake.ID
	Username      string
	Discriminator string
	GlobalName    *string
	Avatar        *string
	Banner        *string
	AccentColor   *int
	Bot           bool
	System        bool
	MFAEnabled    bool
	Verified      bool
	Email         *string
	Locale        string
	Flags         int
	PublicFlags   int
	PremiumType   int
}

// Tag renders the legacy username#discriminator form.
func (u *User) Tag() string {
	return u.Username + "#" + u.Discriminator
}

// Application is an OAuth2 application, optionally with a bot user.
type Application struct {
	ID                  snowflake.ID
	Name                string
	Icon                *string
	Description         string
	RPCOrigins          []string
	BotPublic           bool
	BotRequireCodeGrant bool
	TermsOfServiceURL   *string
	PrivacyPolicyURL    *string
	OwnerID             snowflake.ID
	VerifyKey           string
	Flags               int
	Bot                 *User
}
