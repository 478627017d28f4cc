package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"sort"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// AttrSpec declares one attribute of a node or mark type.
type AttrSpec struct {
	Default  any
	Required bool
}

type attrRules struct {
	specs  map[string]AttrSpec
	schema *jsonschema.Schema
}

func compileAttrRules(owner string, specs map[string]AttrSpec, schema map[string]any) (attrRules, error) {
	rules := attrRules{specs: maps.Clone(specs)}
	if len(schema) == 0 {
		return rules, nil
	}
	encoded, err := json.Marshal(schema)
	if err != nil {
		return rules, fmt.Errorf("%w: %s attrs schema: %v", ErrSchemaInvalid, owner, err)
	}
	resource := owner + ".attrs.json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resource, bytes.NewReader(encoded)); err != nil {
		return rules, fmt.Errorf("%w: %s attrs schema: %v", ErrSchemaInvalid, owner, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return rules, fmt.Errorf("%w: %s attrs schema: %v", ErrSchemaInvalid, owner, err)
	}
	rules.schema = compiled
	return rules, nil
}

// compute fills defaults, rejects missing required attributes, drops
// undeclared ones, and validates the result against the attrs schema.
func (r attrRules) compute(owner string, given map[string]any) (map[string]any, error) {
	if len(r.specs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(r.specs))
	for _, name := range sortedKeys(r.specs) {
		spec := r.specs[name]
		if value, ok := given[name]; ok {
			out[name] = value
			continue
		}
		if spec.Required {
			return nil, fmt.Errorf("%w: %s requires attribute %q", ErrAttrsInvalid, owner, name)
		}
		out[name] = spec.Default
	}
	if r.schema != nil {
		if err := r.validate(out); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrAttrsInvalid, owner, err)
		}
	}
	return out, nil
}

func (r attrRules) validate(attrs map[string]any) error {
	// Round-trip through JSON so Go numeric types reach the validator as
	// JSON numbers.
	encoded, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(encoded, &instance); err != nil {
		return err
	}
	return r.schema.Validate(instance)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
