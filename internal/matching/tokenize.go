// internal/matching/tokenize.go
package matching

import (
	"regexp"
	"strings"
)

// nonWord strips punctuation so "Node.js," and "node js" tokenize the same.
// Underscores and digits count as word characters.
var nonWord = regexp.MustCompile(`[^\w\s]`)

// Tokenize lowercases text, removes non-word characters and splits on
// whitespace. Returns an empty slice for blank or punctuation-only input.
func Tokenize(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), "")
	return strings.Fields(cleaned)
}
