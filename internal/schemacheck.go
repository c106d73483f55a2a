package internal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/canonhq/canonizer"
)

// SchemaChecker validates schema files for well-formedness. When built with
// a meta-validator it additionally asserts that each document is a
// structurally valid JSON Schema.
type SchemaChecker struct {
	meta canonizer.SchemaMetaValidator // nil disables meta-validation
}

// NewSchemaChecker creates a checker. Pass a nil meta-validator to restrict
// checking to JSON well-formedness.
func NewSchemaChecker(meta canonizer.SchemaMetaValidator) *SchemaChecker {
	return &SchemaChecker{meta: meta}
}

// Check parses one schema file. The returned warnings are soft findings; a
// non-nil error is a hard failure for that file.
func (c *SchemaChecker) Check(path string) (warnings []string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema must be a JSON object")
	}

	if _, ok := obj["$schema"]; !ok {
		warnings = append(warnings, "missing $schema field (recommended)")
	}

	if c.meta != nil {
		if err := c.meta.CheckSchema(obj); err != nil {
			return warnings, fmt.Errorf("invalid JSON Schema: %w", err)
		}
	}
	return warnings, nil
}

// jsonschemaMetaValidator checks schema documents by resolving them with the
// jsonschema-go implementation.
type jsonschemaMetaValidator struct{}

// NewSchemaMetaValidator returns the jsonschema-go backed meta-validator.
func NewSchemaMetaValidator() canonizer.SchemaMetaValidator {
	return jsonschemaMetaValidator{}
}

func (jsonschemaMetaValidator) CheckSchema(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal schema for validation: %w", err)
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return fmt.Errorf("unmarshal into jsonschema.Schema: %w", err)
	}
	if _, err := schema.Resolve(&jsonschema.ResolveOptions{}); err != nil {
		return fmt.Errorf("resolve JSON schema: %w", err)
	}
	return nil
}
