// internal/matching/keywords.go
package matching

import "strings"

// skillCategories groups tool keywords so that, say, "Figma" and "Adobe XD"
// earn partial credit without sharing a substring. Membership is by
// substring, so "prototyp" covers both "prototype" and "prototyping".
var skillCategories = [][]string{
	{"adobe", "figma", "xd", "sketch", "photoshop", "illustrator", "design", "ui", "ux", "prototyp"},
	{"react", "vue", "angular", "javascript", "typescript", "python", "java", "nodejs", "node", "dev", "program"},
	{"sql", "database", "mongodb", "postgres", "mysql", "data", "analytics"},
}

// ParseSkillTags splits a raw skill string on commas and slashes, trims
// whitespace and drops empty entries. Job postings store required skills as
// a single delimited string such as "UI/UX Design/Figma/Prototyping".
func ParseSkillTags(raw string) []string {
	var tags []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '/'
	}) {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// KeywordSimilarity scores the overlap between two skill tag lists.
// Every pair contributes: 1.0 for a case-insensitive exact match, 0.5 when
// one tag contains the other, 0.3 when both fall into the same tool
// category. The sum is normalized by the longer list's length and clamped
// to 1. Returns 0 when either list is empty.
func KeywordSimilarity(userTags, jobTags []string) float64 {
	if len(userTags) == 0 || len(jobTags) == 0 {
		return 0
	}

	var score float64
	for _, ut := range userTags {
		u := strings.ToLower(strings.TrimSpace(ut))
		for _, jt := range jobTags {
			j := strings.ToLower(strings.TrimSpace(jt))
			switch {
			case u == j:
				score += 1.0
			case strings.Contains(u, j) || strings.Contains(j, u):
				score += 0.5
			case relatedSkills(u, j):
				score += 0.3
			}
		}
	}

	norm := float64(len(userTags))
	if len(jobTags) > len(userTags) {
		norm = float64(len(jobTags))
	}
	sim := score / norm
	if sim > 1 {
		sim = 1
	}
	return sim
}

// relatedSkills reports whether both lowercase tags belong to the same
// tool category.
func relatedSkills(a, b string) bool {
	for _, category := range skillCategories {
		if containsAny(a, category) && containsAny(b, category) {
			return true
		}
	}
	return false
}

func containsAny(tag string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(tag, kw) {
			return true
		}
	}
	return false
}
