package api

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Payload schemas for the list endpoints. A reply failing these is rejected
// as a whole so the progression rules never see a half-formed registry.
var payloadSchemas = map[string]string{
	"modules": `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "name"],
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"name": {"type": "string", "minLength": 1},
				"description": {"type": "string"},
				"subject": {"type": "string"},
				"difficulty": {"type": "integer"},
				"locked": {"type": "boolean"},
				"requirements": {"type": "array", "items": {"type": "string"}}
			}
		}
	}`,
	"progress": `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["module_name", "completed"],
			"properties": {
				"student_id": {"type": "string"},
				"module_id": {"type": "string"},
				"module_name": {"type": "string"},
				"completed": {"type": "boolean"},
				"score": {"type": ["number", "null"]}
			}
		}
	}`,
}

var compiledSchemas sync.Map // map[string]*jsonschema.Schema

// validatePayload checks raw against the named payload schema.
func validatePayload(name string, raw []byte) error {
	compiled, err := compiledSchema(name)
	if err != nil {
		return err
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := compiledSchemas.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := payloadSchemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown payload schema %q", name)
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	compiledSchemas.Store(name, compiled)
	return compiled, nil
}
