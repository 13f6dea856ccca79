package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/gerenciadoc/gerenciadoc/constants"
	"github.com/gerenciadoc/gerenciadoc/internal/common"
)

// buildOverrideSchema returns the JSON-Schema (draft 2020-12 subset) for the
// optional "data" part of an upload request, as a generic map.
func buildOverrideSchema() map[string]any {
	types := make([]string, 0, len(constants.ClassificationOrder)+1)
	for _, t := range constants.ClassificationOrder {
		types = append(types, string(t))
	}
	types = append(types, string(constants.TypeOutro))

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":           map[string]any{"type": "string", "minLength": 1, "maxLength": 255},
			"description":    map[string]any{"type": "string", "maxLength": 2000},
			"type":           map[string]any{"type": "string", "enum": types},
			"categoryId":     map[string]any{"type": "string", "minLength": 1},
			"issueDate":      datePattern(),
			"expirationDate": datePattern(),
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			},
		},
	}
}

func datePattern() map[string]any {
	return map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}
}

// validateOverrides checks the raw "data" part against the override schema.
func validateOverrides(data []byte) error {
	b, err := json.Marshal(buildOverrideSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("overrides.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("overrides.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return common.NewAppError("BAD_JSON", "invalid metadata overrides", common.ErrInvalidInput)
	}
	if err := schema.Validate(v); err != nil {
		return common.NewAppError("BAD_OVERRIDES", err.Error(), common.ErrInvalidInput)
	}
	return nil
}
