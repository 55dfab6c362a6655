// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seed

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"

	"github.com/holomush/simcord/internal/model"
)

// SchemaID is the $id of the seed document schema.
const SchemaID = "https://simcord.dev/schemas/seed.schema.json"

var (
	snowflakeType   = reflect.TypeFor[snowflake.ID]()
	permissionsType = reflect.TypeFor[model.Permissions]()
)

// numericString accepts a 64-bit value written as a number or as a decimal
// string, the way ids and permission bitsets appear on the wire.
func numericString(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Description: description,
		OneOf: []*jsonschema.Schema{
			{Type: "integer", Minimum: json.Number("0")},
			{Type: "string", Pattern: `^[0-9]+$`},
		},
	}
}

func mapType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case snowflakeType:
		return numericString("Snowflake id")
	case permissionsType:
		return numericString("Permission bitset")
	}
	return nil
}

// GenerateSchema generates the JSON Schema of a seed document.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		Mapper:         mapType,
	}
	schema := r.Reflect(&Document{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "simcord seed"
	schema.Description = "Initial state of a simulated backend"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("SCHEMA_MARSHAL_FAILED").Wrap(err)
	}
	return data, nil
}

var compiledSchema = sync.OnceValues(func() (*jschema.Schema, error) {
	raw, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, oops.Code("SCHEMA_PARSE_FAILED").Wrap(err)
	}
	c := jschema.NewCompiler()
	if err := c.AddResource("seed.schema.json", doc); err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
	}
	sch, err := c.Compile("seed.schema.json")
	if err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
	}
	return sch, nil
})

// validateSchema checks a decoded document tree against the seed schema.
func validateSchema(tree any) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(toJSONTypes(tree)); err != nil {
		return oops.Code("SEED_SCHEMA_INVALID").Wrap(err)
	}
	return nil
}

// toJSONTypes converts a YAML-decoded tree into the value shapes a JSON
// decoder would have produced.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toJSONTypes(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toJSONTypes(item)
		}
		return out
	case string, bool, nil, float64:
		return val
	case int:
		return json.Number(strconv.Itoa(val))
	case int64:
		return json.Number(strconv.FormatInt(val, 10))
	case uint64:
		return json.Number(strconv.FormatUint(val, 10))
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return val
		}
		var out any
		if err := json.Unmarshal(raw, &out); err != nil {
			return val
		}
		return out
	}
}
