// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package markup extracts mentions from message content.
//
// Mentions inside inline code or code blocks, and escaped mentions, are not
// mentions.
package markup

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/disgoorg/snowflake/v2"
)

var contentLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "CodeBlock", Pattern: "```(?s:.*?)```"},
	{Name: "InlineCode", Pattern: "`[^`]+`"},
	{Name: "Escaped", Pattern: `\\.`},
	{Name: "RoleMention", Pattern: `<@&\d+>`},
	{Name: "UserMention", Pattern: `<@!?\d+>`},
	{Name: "ChannelMention", Pattern: `<#\d+>`},
	{Name: "CustomEmoji", Pattern: `<a?:\w+:\d+>`},
	{Name: "Everyone", Pattern: `@everyone`},
	{Name: "Here", Pattern: `@here`},
	{Name: "Text", Pattern: "[^<@`\\\\]+"},
	{Name: "Char", Pattern: `(?s:.)`},
})

var symbols = contentLexer.Symbols()

// Mentions are the references found in a piece of content, deduplicated and
// in order of first appearance.
type Mentions struct {
	Users    []snowflake.ID
	Roles    []snowflake.ID
	Channels []snowflake.ID
	Emojis   []snowflake.ID
	Everyone bool
	Here     bool
}

// Parse scans content for mentions.
func Parse(content string) Mentions {
	var m Mentions
	lex, err := contentLexer.LexString("", content)
	if err != nil {
		return m
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return m
	}
	for _, tok := range tokens {
		switch tok.Type {
		case symbols["UserMention"]:
			m.Users = appendUnique(m.Users, tok.Value)
		case symbols["RoleMention"]:
			m.Roles = appendUnique(m.Roles, tok.Value)
		case symbols["ChannelMention"]:
			m.Channels = appendUnique(m.Channels, tok.Value)
		case symbols["CustomEmoji"]:
			m.Emojis = appendUnique(m.Emojis, tok.Value)
		case symbols["Everyone"]:
			m.Everyone = true
		case symbols["Here"]:
			m.Here = true
		}
	}
	return m
}

// appendUnique extracts the trailing id of a mention token.
func appendUnique(ids []snowflake.ID, token string) []snowflake.ID {
	raw := strings.TrimSuffix(token, ">")
	if i := strings.LastIndexAny(raw, "@!&#:"); i >= 0 {
		raw = raw[i+1:]
	}
	id, err := snowflake.Parse(raw)
	if err != nil {
		return ids
	}
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// UserMention renders a user mention.
func UserMention(id snowflake.ID) string {
	return "<@" + id.String() + ">"
}

// RoleMention renders a role mention.
func RoleMention(id snowflake.ID) string {
	return "<@&" + id.String() + ">"
}

// ChannelMention renders a channel mention.
func ChannelMention(id snowflake.ID) string {
	return "<#" + id.String() + ">"
}
