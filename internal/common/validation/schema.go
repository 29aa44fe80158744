// Package validation checks worker input variables against JSON Schemas
// before they are parsed into typed inputs.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// matchRequestSchema bounds the variables accepted by the ranking workers.
// Coordinates are range-checked here so non-finite or out-of-range values
// never reach the distance formula.
const matchRequestSchema = `{
	"type": "object",
	"properties": {
		"userId": {"type": "integer", "minimum": 1},
		"userProfile": {
			"type": "object",
			"properties": {
				"skills": {"type": "array", "items": {"type": "string"}},
				"bio": {"type": "string"},
				"latitude": {"type": "number", "minimum": -90, "maximum": 90},
				"longitude": {"type": "number", "minimum": -180, "maximum": 180}
			}
		},
		"jobs": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"jobId": {"type": "integer"},
					"title": {"type": "string"},
					"description": {"type": "string"},
					"requiredSkills": {"type": "string"},
					"latitude": {"type": "number", "minimum": -90, "maximum": 90},
					"longitude": {"type": "number", "minimum": -180, "maximum": 180}
				},
				"required": ["jobId"]
			}
		},
		"minSimilarity": {"type": "number", "minimum": 0, "maximum": 1},
		"limit": {"type": "integer", "minimum": 1},
		"maxDistance": {"type": "number", "minimum": 0}
	}
}`

var matchRequestLoader = gojsonschema.NewStringLoader(matchRequestSchema)

// ValidateMatchRequest validates raw job variables for the ranking workers.
// Unknown fields pass through; only typed constraint violations fail.
func ValidateMatchRequest(raw []byte) error {
	return validate(matchRequestLoader, raw)
}

func validate(schema gojsonschema.JSONLoader, raw []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate input: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}
