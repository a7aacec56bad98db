package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SelectionSchema defines the JSON schema for filter selections posted to
// the metrics API.
var SelectionSchema = `{
	"type": "object",
	"properties": {
		"genders": {
			"type": "array",
			"items": {"type": "string", "minLength": 1},
			"uniqueItems": true
		},
		"age_min": {"type": "integer", "minimum": 0},
		"age_max": {"type": "integer", "minimum": 0},
		"depression": {"type": "string", "enum": ["all", "with", "without"]},
		"city": {"type": "string", "minLength": 1}
	},
	"additionalProperties": false
}`

var selectionSchemaLoader = gojsonschema.NewStringLoader(SelectionSchema)

// ValidateSelectionRequest validates a JSON request body against the
// selection schema.
func ValidateSelectionRequest(jsonData []byte) error {
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(selectionSchemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate JSON schema: %w", err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return fmt.Errorf("JSON validation failed: %s", strings.Join(errorMessages, "; "))
	}

	return nil
}

// DecodeSelectionRequest validates jsonData against the selection schema and
// decodes it into T.
func DecodeSelectionRequest[T any](jsonData []byte) (T, error) {
	var v T
	if err := ValidateSelectionRequest(jsonData); err != nil {
		return v, err
	}
	if err := json.Unmarshal(jsonData, &v); err != nil {
		return v, fmt.Errorf("failed to decode selection: %w", err)
	}
	return v, nil
}
