package vision

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docsorter/docsorter/constants"
)

// BuildDocumentJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass it to the model as a structured-output constraint
// and also use it locally to validate the reply. Nothing is required: a
// model that omits a field gets the same fallback as a failed heuristic.
func BuildDocumentJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"vendor": map[string]any{"type": "string"},
			"doc_type": map[string]any{
				"type": "string",
				"enum": constants.DocTypesAsStringSlice(),
			},
			"date":        map[string]any{"type": "string", "pattern": `^\d{4}[.\-/]\d{2}[.\-/]\d{2}$`},
			"po_number":   map[string]any{"type": "string", "pattern": `^(PO)?\d{3,10}$`},
			"part_number": map[string]any{"type": "string", "minLength": 3, "maxLength": 12},
			"description": map[string]any{"type": "string", "maxLength": 200},
		},
		"required": []string{},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
