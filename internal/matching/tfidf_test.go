// internal/matching/tfidf_test.go
package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermFrequency(t *testing.T) {
	t.Run("counts normalized by token total", func(t *testing.T) {
		tf := TermFrequency([]string{"go", "go", "sql", "go"})

		assert.InDelta(t, 0.75, tf["go"], 1e-9)
		assert.InDelta(t, 0.25, tf["sql"], 1e-9)
		assert.Len(t, tf, 2)
	})

	t.Run("empty tokens give empty vector", func(t *testing.T) {
		assert.Empty(t, TermFrequency(nil))
	})
}

func TestInverseDocumentFrequency(t *testing.T) {
	docA := []string{"react", "node"}
	docB := []string{"react", "sql"}

	idf := InverseDocumentFrequency(docA, docB)

	// Terms in every document weigh zero, terms in one of two weigh ln 2.
	assert.InDelta(t, 0, idf["react"], 1e-9)
	assert.InDelta(t, math.Log(2), idf["node"], 1e-9)
	assert.InDelta(t, math.Log(2), idf["sql"], 1e-9)

	t.Run("duplicate tokens count once per document", func(t *testing.T) {
		idf := InverseDocumentFrequency([]string{"go", "go"}, []string{"sql"})
		assert.InDelta(t, math.Log(2), idf["go"], 1e-9)
	})

	t.Run("no documents", func(t *testing.T) {
		assert.Empty(t, InverseDocumentFrequency())
	})
}

func TestTFIDF(t *testing.T) {
	idf := InverseDocumentFrequency([]string{"react", "node"}, []string{"react", "sql"})
	vec := TFIDF([]string{"react", "node"}, idf)

	assert.InDelta(t, 0, vec["react"], 1e-9)
	assert.InDelta(t, 0.5*math.Log(2), vec["node"], 1e-9)

	t.Run("terms missing from idf weigh zero", func(t *testing.T) {
		vec := TFIDF([]string{"rust"}, idf)
		assert.InDelta(t, 0, vec["rust"], 1e-9)
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score one", func(t *testing.T) {
		v := TermVector{"a": 1, "b": 2}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	})

	t.Run("disjoint vectors score zero", func(t *testing.T) {
		a := TermVector{"a": 1}
		b := TermVector{"b": 1}
		assert.InDelta(t, 0, CosineSimilarity(a, b), 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := TermVector{"a": 0.3, "b": 0.7}
		b := TermVector{"b": 0.2, "c": 0.5}
		assert.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-12)
	})

	t.Run("zero magnitude guard", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity(TermVector{}, TermVector{"a": 1}))
		assert.Equal(t, 0.0, CosineSimilarity(TermVector{"a": 1}, TermVector{}))
		assert.Equal(t, 0.0, CosineSimilarity(TermVector{"a": 0}, TermVector{"a": 1}))
	})
}

func TestTextSimilarity(t *testing.T) {
	t.Run("bounded", func(t *testing.T) {
		sim := TextSimilarity("react node developer", "python data analyst")
		assert.GreaterOrEqual(t, sim, 0.0)
		assert.LessOrEqual(t, sim, 1.0)
	})

	t.Run("identical texts collapse to zero", func(t *testing.T) {
		// With a two-document corpus every shared term gets idf 0,
		// so fully overlapping texts produce zero vectors.
		assert.Equal(t, 0.0, TextSimilarity("react developer", "react developer"))
	})

	t.Run("empty side scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, TextSimilarity("", "react developer"))
		assert.Equal(t, 0.0, TextSimilarity("react developer", ""))
		assert.Equal(t, 0.0, TextSimilarity("", ""))
	})
}
