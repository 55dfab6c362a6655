// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package markup_test

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"

	"github.com/holomush/simcord/internal/markup"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    markup.Mentions
	}{
		{
			name:    "user and role",
			content: "<@123> hi <@&456>",
			want:    markup.Mentions{Users: []snowflake.ID{123}, Roles: []snowflake.ID{456}},
		},
		{
			name:    "nickname form and duplicates",
			content: "<@!123> <@123> <@124>",
			want:    markup.Mentions{Users: []snowflake.ID{123, 124}},
		},
		{
			name:    "channels and emojis",
			content: "see <#77> <:blob:88> <a:dance:89>",
			want:    markup.Mentions{Channels: []snowflake.ID{77}, Emojis: []snowflake.ID{88, 89}},
		},
		{
			name:    "everyone and here",
			content: "hey @everyone and @here",
			want:    markup.Mentions{Everyone: true, Here: true},
		},
		{
			name:    "code suppresses mentions",
			content: "`<@1>` ```\n@everyone <@&2>\n``` \\<@3> <@4>",
			want:    markup.Mentions{Users: []snowflake.ID{4}},
		},
		{
			name:    "stray punctuation",
			content: "a < b @ c <@notanid> `unterminated",
			want:    markup.Mentions{},
		},
		{
			name:    "empty",
			content: "",
			want:    markup.Mentions{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, markup.Parse(tt.content))
		})
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t, "<@1>", markup.UserMention(1))
	assert.Equal(t, "<@&2>", markup.RoleMention(2))
	assert.Equal(t, "<#3>", markup.ChannelMention(3))
	assert.Equal(t, markup.Mentions{Users: []snowflake.ID{1}}, markup.Parse(markup.UserMention(1)))
}
