// internal/matching/keywords_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSkillTags(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "slash delimited",
			raw:      "UI/UX Design/Figma/Prototyping",
			expected: []string{"UI", "UX Design", "Figma", "Prototyping"},
		},
		{
			name:     "comma delimited",
			raw:      "React, Node.js, SQL",
			expected: []string{"React", "Node.js", "SQL"},
		},
		{
			name:     "mixed delimiters with stray whitespace",
			raw:      " React / Vue ,, Angular / ",
			expected: []string{"React", "Vue", "Angular"},
		},
		{
			name:     "empty string",
			raw:      "",
			expected: nil,
		},
		{
			name:     "delimiters only",
			raw:      ",//,",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSkillTags(tt.raw))
		})
	}
}

func TestKeywordSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		userTags []string
		jobTags  []string
		expected float64
	}{
		{
			name:     "exact match ignores case",
			userTags: []string{"Figma"},
			jobTags:  []string{"figma"},
			expected: 1.0,
		},
		{
			name:     "substring match earns half credit",
			userTags: []string{"JavaScript"},
			jobTags:  []string{"Java"},
			expected: 0.5,
		},
		{
			name:     "same category earns partial credit",
			userTags: []string{"Photoshop"},
			jobTags:  []string{"Sketch"},
			expected: 0.3,
		},
		{
			name:     "unrelated tags score zero",
			userTags: []string{"Welding"},
			jobTags:  []string{"Cooking"},
			expected: 0,
		},
		{
			name:     "empty user list",
			userTags: nil,
			jobTags:  []string{"Figma"},
			expected: 0,
		},
		{
			name:     "empty job list",
			userTags: []string{"Figma"},
			jobTags:  nil,
			expected: 0,
		},
		{
			name:     "normalized by longer list",
			userTags: []string{"Figma"},
			jobTags:  []string{"Figma", "Welding"},
			expected: 0.5,
		},
		{
			name:     "clamped at one",
			userTags: []string{"Figma", "Figma"},
			jobTags:  []string{"Figma", "Figma"},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, KeywordSimilarity(tt.userTags, tt.jobTags), 1e-9)
		})
	}

	t.Run("design profile against design posting", func(t *testing.T) {
		userTags := []string{"Figma", "UI/UX Design"}
		jobTags := ParseSkillTags("UI/UX Design/Figma/Prototyping")

		// One exact match, two substring matches, five category
		// matches over four job tags.
		sim := KeywordSimilarity(userTags, jobTags)
		assert.InDelta(t, 0.875, sim, 1e-9)
	})
}

func TestRelatedSkills(t *testing.T) {
	tests := []struct {
		a, b    string
		related bool
	}{
		{"figma", "adobe xd", true},
		{"react native", "python", true},
		{"postgres", "data analytics", true},
		{"figma", "postgres", false},
		{"react", "photoshop", false},
		{"welding", "figma", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.related, relatedSkills(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}
