// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package seed loads YAML seed documents that describe the initial state of
// a simulated backend.
package seed

import (
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/disgoorg/snowflake/v2"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/simcord/internal/defaults"
)

// SupportedVersions is the range of seed format versions this build reads.
const SupportedVersions = "^1"

// Document is a parsed seed file.
//
// Every keyed collection (users, guilds, channels, roles, members and the
// rest) may be written as a list, as a map keyed by id, or as a list of
// [id, entry] pairs.
type Document struct {
	defaults.StoreSpec `mapstructure:",squash"`

	// Version is the seed format version, a semver string.
	Version string `json:"version" jsonschema:"example=1.0.0"`
	// CurrentUser selects the session user. The first application's bot
	// is used when omitted.
	CurrentUser *snowflake.ID `json:"current_user,omitempty"`
}

// Load reads and parses a seed file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, oops.Code("SEED_READ_FAILED").With("path", path).Wrap(err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return doc, nil
}

// Parse decodes a seed document, validating it against the seed schema.
func Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, oops.Code("SEED_EMPTY").Errorf("seed document is empty")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, oops.Code("SEED_YAML_INVALID").Wrap(err)
	}
	if len(root.Content) == 0 {
		return nil, oops.Code("SEED_EMPTY").Errorf("seed document is empty")
	}
	if err := normalize(&root); err != nil {
		return nil, err
	}

	var tree any
	if err := root.Decode(&tree); err != nil {
		return nil, oops.Code("SEED_YAML_INVALID").Wrap(err)
	}
	if err := validateSchema(tree); err != nil {
		return nil, err
	}

	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Result: &doc,
	})
	if err != nil {
		return nil, oops.Code("SEED_DECODE_FAILED").Wrap(err)
	}
	if err := dec.Decode(tree); err != nil {
		return nil, oops.Code("SEED_DECODE_FAILED").Wrap(err)
	}

	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	return &doc, nil
}

func checkVersion(v string) error {
	version, err := semver.NewVersion(v)
	if err != nil {
		return oops.Code("SEED_VERSION_INVALID").With("version", v).Wrap(err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return oops.Code("SEED_VERSION_INVALID").With("constraint", SupportedVersions).Wrap(err)
	}
	if !constraint.Check(version) {
		return oops.Code("SEED_VERSION_UNSUPPORTED").
			With("version", v).
			With("supported", SupportedVersions).
			Errorf("seed version %s is not supported", v)
	}
	return nil
}

// Apply builds the document's state into e.
func (d *Document) Apply(e *defaults.Engine) error {
	if d.CurrentUser != nil {
		e.SetCurrentUser(*d.CurrentUser)
	}
	return e.Populate(d.StoreSpec)
}
