// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seed

import (
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// collectionKeys names the collections that may be written as a map keyed
// by id, or as a list of [id, entry] pairs, instead of a plain list. The
// value is the field the key is copied into.
var collectionKeys = map[string]string{
	"users":                 "id",
	"applications":          "id",
	"guilds":                "id",
	"private_channels":      "id",
	"webhooks":              "id",
	"voice_regions":         "id",
	"invites":               "code",
	"roles":                 "id",
	"channels":              "id",
	"emojis":                "id",
	"stickers":              "id",
	"scheduled_events":      "id",
	"audit_log":             "id",
	"messages":              "id",
	"permission_overwrites": "id",
	"members":               "user_id",
	"voice_states":          "user_id",
	"presences":             "user_id",
	"welcome_channels":      "channel_id",
}

// normalize rewrites keyed collections under n into plain lists, keeping
// document order.
func normalize(n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range n.Content {
			if err := normalize(child); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if field, ok := collectionKeys[key.Value]; ok {
				list, err := toList(key.Value, field, value)
				if err != nil {
					return err
				}
				n.Content[i+1] = list
				value = list
			}
			if err := normalize(value); err != nil {
				return err
			}
		}
	case yaml.AliasNode:
		if n.Alias != nil {
			return normalize(n.Alias)
		}
	}
	return nil
}

// toList converts a keyed form of a collection into a sequence of entries.
// Plain lists pass through.
func toList(name, field string, n *yaml.Node) (*yaml.Node, error) {
	switch {
	case n.Kind == yaml.MappingNode:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: n.Line, Column: n.Column}
		for i := 0; i+1 < len(n.Content); i += 2 {
			entry, err := withKey(name, field, n.Content[i], n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, entry)
		}
		return out, nil
	case n.Kind == yaml.SequenceNode && isPairList(n):
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: n.Line, Column: n.Column}
		for _, pair := range n.Content {
			entry, err := withKey(name, field, pair.Content[0], pair.Content[1])
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, entry)
		}
		return out, nil
	default:
		return n, nil
	}
}

// isPairList reports whether every item is a two-element [key, mapping]
// sequence.
func isPairList(n *yaml.Node) bool {
	if len(n.Content) == 0 {
		return false
	}
	for _, item := range n.Content {
		if item.Kind != yaml.SequenceNode || len(item.Content) != 2 ||
			item.Content[0].Kind != yaml.ScalarNode || item.Content[1].Kind != yaml.MappingNode {
			return false
		}
	}
	return true
}

// withKey copies key into the entry's field. An entry that already names a
// different value is rejected.
func withKey(name, field string, key, entry *yaml.Node) (*yaml.Node, error) {
	if entry.Kind != yaml.MappingNode {
		return nil, oops.Code("SEED_COLLECTION_INVALID").
			With("collection", name).
			With("key", key.Value).
			With("line", entry.Line).
			Errorf("entry %q of %s must be a mapping", key.Value, name)
	}
	for i := 0; i+1 < len(entry.Content); i += 2 {
		if entry.Content[i].Value != field {
			continue
		}
		if existing := entry.Content[i+1].Value; existing != key.Value {
			return nil, oops.Code("SEED_KEY_MISMATCH").
				With("collection", name).
				With("key", key.Value).
				With(field, existing).
				With("line", entry.Line).
				Errorf("entry keyed %q of %s has %s %q", key.Value, name, field, existing)
		}
		return entry, nil
	}
	out := *entry
	out.Content = append([]*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: field},
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: key.Value},
	}, entry.Content...)
	return &out, nil
}
