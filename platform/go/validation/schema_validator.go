// Package validation checks content payloads against per-kind JSON Schemas.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a named JSON Schema document.
type Schema struct {
	Name       string
	Definition string
}

// Violations maps payload fields to messages. The empty key is reported as "payload".
type Violations map[string][]string

// SchemaValidator validates payloads against JSON Schemas compiled via santhosh-tekuri/jsonschema.
type SchemaValidator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewSchemaValidator returns a validator with an empty schema cache.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// Validate returns the schema violations of payload, or nil when it conforms. The error is reserved
// for schemas that fail to compile and payloads that cannot be encoded.
func (v *SchemaValidator) Validate(schema Schema, payload map[string]any) (Violations, error) {
	compiled, err := v.getOrCompile(schema)
	if err != nil {
		return nil, err
	}

	document, err := normalize(payload)
	if err != nil {
		return nil, err
	}

	err = compiled.Validate(document)
	if err == nil {
		return nil, nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	violations := Violations{}
	collectLeaves(verr, violations)
	return violations, nil
}

// Fields returns the violated field names in lexical order.
func (v Violations) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (v *SchemaValidator) getOrCompile(schema Schema) (*jsonschema.Schema, error) {
	key := cacheKey(schema)

	v.mu.RLock()
	compiled, ok := v.cache[key]
	v.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// another goroutine may have populated the cache while we were waiting
	if compiled, ok = v.cache[key]; ok {
		return compiled, nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(key, strings.NewReader(schema.Definition)); err != nil {
		return nil, fmt.Errorf("register schema %s: %w", schema.Name, err)
	}

	newCompiled, err := compiler.Compile(key)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schema.Name, err)
	}

	v.cache[key] = newCompiled
	return newCompiled, nil
}

func cacheKey(schema Schema) string {
	return "memory://schemas/" + schema.Name + ".json"
}

// normalize converts Go values (ints, time.Time, typed slices) into the JSON data model.
func normalize(payload map[string]any) (any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return document, nil
}

func collectLeaves(verr *jsonschema.ValidationError, out Violations) {
	if len(verr.Causes) == 0 {
		field := strings.TrimPrefix(verr.InstanceLocation, "/")
		if i := strings.Index(field, "/"); i >= 0 {
			field = field[:i]
		}
		if field == "" {
			field = "payload"
		}
		out[field] = append(out[field], verr.Message)
		return
	}
	for _, cause := range verr.Causes {
		collectLeaves(cause, out)
	}
}
