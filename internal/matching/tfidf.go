// internal/matching/tfidf.go
package matching

import "math"

// TermVector maps a term to its weight in a document.
type TermVector map[string]float64

// TermFrequency returns each term's count divided by the total token count.
func TermFrequency(tokens []string) TermVector {
	tf := make(TermVector)
	if len(tokens) == 0 {
		return tf
	}
	for _, tok := range tokens {
		tf[tok]++
	}
	total := float64(len(tokens))
	for term := range tf {
		tf[term] /= total
	}
	return tf
}

// InverseDocumentFrequency computes idf over the given corpus using the
// natural logarithm. A term present in every document gets idf 0, which is
// what makes shared vocabulary drop out of the similarity.
func InverseDocumentFrequency(docs ...[]string) TermVector {
	idf := make(TermVector)
	if len(docs) == 0 {
		return idf
	}
	docCount := make(map[string]float64)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, tok := range doc {
			if !seen[tok] {
				seen[tok] = true
				docCount[tok]++
			}
		}
	}
	total := float64(len(docs))
	for term, count := range docCount {
		idf[term] = math.Log(total / count)
	}
	return idf
}

// TFIDF weighs a document's term frequencies by the corpus idf. Terms absent
// from the idf table get weight 0.
func TFIDF(tokens []string, idf TermVector) TermVector {
	vec := make(TermVector)
	for term, tf := range TermFrequency(tokens) {
		vec[term] = tf * idf[term]
	}
	return vec
}

// CosineSimilarity returns the cosine of the angle between two term vectors.
// Returns 0 when either vector has zero magnitude.
func CosineSimilarity(a, b TermVector) float64 {
	var dot, magA, magB float64
	for term, wa := range a {
		dot += wa * b[term]
		magA += wa * wa
	}
	for _, wb := range b {
		magB += wb * wb
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// TextSimilarity tokenizes both texts and compares their tf-idf vectors,
// with the idf corpus being just these two documents. Identical texts score
// 0 rather than 1: every term appears in both documents, so all idf weights
// vanish. Callers wanting exact-overlap credit pair this with
// KeywordSimilarity.
func TextSimilarity(a, b string) float64 {
	tokensA := Tokenize(a)
	tokensB := Tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	idf := InverseDocumentFrequency(tokensA, tokensB)
	return CosineSimilarity(TFIDF(tokensA, idf), TFIDF(tokensB, idf))
}
