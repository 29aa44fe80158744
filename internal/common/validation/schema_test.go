// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMatchRequest_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"user id only", `{"userId": 42}`},
		{"inline profile", `{
			"userProfile": {"skills": ["figma", "ui design"], "bio": "Design student",
				"latitude": 52.52, "longitude": 13.405}
		}`},
		{"inline jobs with options", `{
			"userId": 7,
			"jobs": [{"jobId": 1, "title": "Logo design", "requiredSkills": "figma/branding",
				"latitude": 48.13, "longitude": 11.57}],
			"minSimilarity": 0.5, "limit": 5, "maxDistance": 30
		}`},
		{"unknown fields pass through", `{"userId": 1, "processInstanceKey": 12345}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateMatchRequest([]byte(tt.raw)))
		})
	}
}

func TestValidateMatchRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"latitude above range", `{"userProfile": {"latitude": 91, "longitude": 0}}`},
		{"latitude below range", `{"userProfile": {"latitude": -90.5, "longitude": 0}}`},
		{"longitude above range", `{"userProfile": {"latitude": 0, "longitude": 180.1}}`},
		{"job longitude out of range", `{"jobs": [{"jobId": 1, "longitude": -200}]}`},
		{"job missing id", `{"jobs": [{"title": "Logo design"}]}`},
		{"negative user id", `{"userId": 0}`},
		{"threshold above one", `{"minSimilarity": 1.5}`},
		{"negative threshold", `{"minSimilarity": -0.1}`},
		{"zero limit", `{"limit": 0}`},
		{"negative max distance", `{"maxDistance": -5}`},
		{"wrong skills type", `{"userProfile": {"skills": "figma"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMatchRequest([]byte(tt.raw))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid input")
		})
	}
}

func TestValidateMatchRequest_MalformedJSON(t *testing.T) {
	err := ValidateMatchRequest([]byte(`{"userId": `))
	assert.Error(t, err)
}
