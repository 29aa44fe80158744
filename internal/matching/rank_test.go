// internal/matching/rank_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(lat, lon float64) *Coordinate {
	return &Coordinate{Latitude: lat, Longitude: lon}
}

func TestRankEmptyJobList(t *testing.T) {
	result := Rank(UserProfile{Skills: []string{"figma"}}, nil, BaseWeights, Options{})

	assert.Empty(t, result.Matches)
	assert.Equal(t, 0, result.TotalMatches)
	assert.Equal(t, BaseWeights, result.Weights)
}

func TestRankOrderingAndLimit(t *testing.T) {
	// Skill-only weights make the final similarity equal the keyword
	// score, which these candidates pin to 1.0, 0, 1.0, 0.5 and 1/3.
	user := UserProfile{Skills: []string{"figma"}}
	jobs := []JobCandidate{
		{ID: 1, Title: "Logo design", RequiredSkills: "figma"},
		{ID: 2, Title: "Plumbing", RequiredSkills: ""},
		{ID: 3, Title: "App mockups", RequiredSkills: "figma"},
		{ID: 4, Title: "Brand kit", RequiredSkills: "figma,welding"},
		{ID: 5, Title: "Landing page", RequiredSkills: "figma,welding,cooking"},
	}

	result := Rank(user, jobs, Weights{Skill: 1}, Options{MinSimilarity: 0.2, Limit: 3})

	require.Len(t, result.Matches, 3)
	assert.Equal(t, 4, result.TotalMatches)

	// Tied top scores keep input order; ranks are positional.
	assert.Equal(t, int64(1), result.Matches[0].JobID)
	assert.Equal(t, int64(3), result.Matches[1].JobID)
	assert.Equal(t, int64(4), result.Matches[2].JobID)
	for i, m := range result.Matches {
		assert.Equal(t, i+1, m.Rank)
		assert.GreaterOrEqual(t, m.Similarity, 0.2)
	}

	t.Run("descending similarity", func(t *testing.T) {
		for i := 1; i < len(result.Matches); i++ {
			assert.GreaterOrEqual(t, result.Matches[i-1].Similarity, result.Matches[i].Similarity)
		}
	})
}

func TestRankThresholdBoundaryInclusive(t *testing.T) {
	// No locations on either side, so the distance sub-score is 1.0 and
	// the similarity is exactly the distance weight.
	user := UserProfile{}
	jobs := []JobCandidate{{ID: 7, Title: "Anything"}}

	result := Rank(user, jobs, Weights{Distance: 0.35}, Options{})

	require.Len(t, result.Matches, 1)
	assert.Equal(t, 0.35, result.Matches[0].Similarity)
	assert.Equal(t, 1, result.TotalMatches)
}

func TestRankSimilarityBounds(t *testing.T) {
	user := UserProfile{
		Skills:   []string{"Figma", "UI/UX Design", "Prototyping"},
		Bio:      "Product designer focused on mobile interfaces",
		Location: coord(14.6, 121.0),
	}
	jobs := []JobCandidate{
		{ID: 1, Title: "UI Designer", Description: "Design mobile interfaces", RequiredSkills: "Figma/UI/UX Design", Location: coord(14.6, 121.0)},
		{ID: 2, Title: "Welder", Description: "Structural welding", RequiredSkills: "Welding", Location: coord(15.9, 120.2)},
		{ID: 3, Title: "Data Analyst", Description: "SQL reporting", RequiredSkills: "SQL,Analytics"},
	}

	result := Rank(user, jobs, BaseWeights, Options{MinSimilarity: 0.01})

	for _, m := range result.Matches {
		assert.GreaterOrEqual(t, m.Similarity, 0.0)
		assert.LessOrEqual(t, m.Similarity, 1.0)
	}
}

func TestRankDistanceDefaults(t *testing.T) {
	t.Run("identical coordinates score full distance", func(t *testing.T) {
		loc := coord(14.5995, 120.9842)
		user := UserProfile{Location: loc}
		jobs := []JobCandidate{{ID: 1, Location: coord(14.5995, 120.9842)}}

		result := Rank(user, jobs, Weights{Distance: 1}, Options{})

		require.Len(t, result.Matches, 1)
		require.NotNil(t, result.Matches[0].DistanceKm)
		assert.Equal(t, 0.0, *result.Matches[0].DistanceKm)
		assert.Equal(t, 1.0, result.Matches[0].Similarity)
		assert.Equal(t, "Very Close", result.Matches[0].DistanceCategory)
	})

	t.Run("missing location never penalizes", func(t *testing.T) {
		user := UserProfile{}
		jobs := []JobCandidate{{ID: 1, Location: coord(14.5995, 120.9842)}}

		result := Rank(user, jobs, Weights{Distance: 1}, Options{})

		require.Len(t, result.Matches, 1)
		assert.Nil(t, result.Matches[0].DistanceKm)
		assert.Equal(t, 1.0, result.Matches[0].Similarity)
	})

	t.Run("invalid coordinate treated as missing", func(t *testing.T) {
		user := UserProfile{Location: coord(95, 0)}
		jobs := []JobCandidate{{ID: 1, Location: coord(14.5995, 120.9842)}}

		result := Rank(user, jobs, Weights{Distance: 1}, Options{})

		require.Len(t, result.Matches, 1)
		assert.Nil(t, result.Matches[0].DistanceKm)
		assert.Equal(t, 1.0, result.Matches[0].Similarity)
	})
}

func TestRankMaxDistanceFilter(t *testing.T) {
	maxDist := 30.0
	user := UserProfile{
		Skills:   []string{"figma"},
		Location: coord(0, 0),
	}
	jobs := []JobCandidate{
		{ID: 1, RequiredSkills: "figma", Location: coord(0.1, 0)},  // ~11 km
		{ID: 2, RequiredSkills: "figma", Location: coord(0.9, 0)},  // ~100 km
		{ID: 3, RequiredSkills: "figma"},                           // no location
	}

	result := Rank(user, jobs, Weights{Skill: 1}, Options{MaxDistanceKm: &maxDist})

	require.Len(t, result.Matches, 2)
	ids := []int64{result.Matches[0].JobID, result.Matches[1].JobID}
	assert.Contains(t, ids, int64(1))
	assert.Contains(t, ids, int64(3))
}

func TestRankIdempotent(t *testing.T) {
	user := UserProfile{
		Skills:   []string{"React", "Node.js"},
		Bio:      "Full stack developer",
		Location: coord(14.6, 121.0),
	}
	jobs := []JobCandidate{
		{ID: 1, Title: "Frontend dev", Description: "React SPA work", RequiredSkills: "React/TypeScript", Location: coord(14.7, 121.1)},
		{ID: 2, Title: "Backend dev", Description: "Node API work", RequiredSkills: "Node.js,SQL"},
	}
	opts := Options{MinSimilarity: 0.05}

	first := Rank(user, jobs, BaseWeights, opts)
	second := Rank(user, jobs, BaseWeights, opts)

	assert.Equal(t, first, second)
}

func TestRankHistoryWeights(t *testing.T) {
	user := UserProfile{
		Skills:          []string{"figma"},
		AppliedJobsText: "logo design brand identity posters",
	}
	jobs := []JobCandidate{{ID: 1, Title: "Brand designer", Description: "logo work", RequiredSkills: "figma"}}

	result := Rank(user, jobs, HistoryWeights, Options{MinSimilarity: 0.01})

	require.Len(t, result.Matches, 1)
	// skill 0.35*1.0 + distance 0.30*1.0; history and bio text scores
	// collapse to zero under the two-document corpus.
	assert.InDelta(t, 0.65, result.Matches[0].Similarity, 1e-9)
	assert.Equal(t, HistoryWeights, result.Weights)
}

func TestMatchReasons(t *testing.T) {
	t.Run("excellent match with skill count", func(t *testing.T) {
		user := UserProfile{Skills: []string{"figma"}}
		jobs := []JobCandidate{{ID: 1, RequiredSkills: "figma"}}

		result := Rank(user, jobs, Weights{Skill: 1}, Options{})

		require.Len(t, result.Matches, 1)
		reasons := result.Matches[0].MatchReasons
		assert.Contains(t, reasons, "Excellent match")
		assert.Contains(t, reasons, "Matches your 1 skill")
	})

	t.Run("plural skill count", func(t *testing.T) {
		user := UserProfile{Skills: []string{"figma", "sketch"}}
		jobs := []JobCandidate{{ID: 1, RequiredSkills: "figma,sketch"}}

		result := Rank(user, jobs, Weights{Skill: 1}, Options{})

		require.Len(t, result.Matches, 1)
		assert.Contains(t, result.Matches[0].MatchReasons, "Matches your 2 skills")
	})

	t.Run("nearby job mentions distance band", func(t *testing.T) {
		user := UserProfile{Skills: []string{"figma"}, Location: coord(0, 0)}
		jobs := []JobCandidate{{ID: 1, RequiredSkills: "figma", Location: coord(0.08, 0)}}

		result := Rank(user, jobs, Weights{Skill: 0.8, Distance: 0.2}, Options{})

		require.Len(t, result.Matches, 1)
		assert.Contains(t, result.Matches[0].MatchReasons, "Close to you (8.9 km)")
	})

	t.Run("low score gets encouragement note", func(t *testing.T) {
		user := UserProfile{Skills: []string{"figma"}}
		jobs := []JobCandidate{{ID: 1, RequiredSkills: "figma"}}

		result := Rank(user, jobs, Weights{Skill: 0.2}, Options{MinSimilarity: 0.1})

		require.Len(t, result.Matches, 1)
		reasons := result.Matches[0].MatchReasons
		assert.NotContains(t, reasons, "Excellent match")
		assert.Contains(t, reasons, "Consider applying to gain experience")
	})
}

func TestSortByDistance(t *testing.T) {
	km := func(v float64) *float64 { return &v }
	matches := []JobMatch{
		{JobID: 1, DistanceKm: km(30)},
		{JobID: 2, DistanceKm: nil},
		{JobID: 3, DistanceKm: km(5)},
		{JobID: 4, DistanceKm: nil},
		{JobID: 5, DistanceKm: km(12)},
	}

	SortByDistance(matches)

	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.JobID)
	}
	// Nearest first; matches without a distance sort last in input order.
	assert.Equal(t, []int64{3, 5, 1, 2, 4}, ids)
}
