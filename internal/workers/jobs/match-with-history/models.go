// internal/workers/jobs/match-with-history/models.go
package matchwithhistory

import (
	"marketplace-workers/internal/matching"
	"marketplace-workers/internal/models"
)

type Input struct {
	UserID        int64        `json:"userId"`
	Jobs          []models.Job `json:"jobs,omitempty"`
	MinSimilarity float64      `json:"minSimilarity,omitempty"`
	Limit         int          `json:"limit,omitempty"`
	MaxDistance   *float64     `json:"maxDistance,omitempty"`
}

type Recommendation struct {
	JobID            int64    `json:"jobId"`
	Similarity       float64  `json:"similarity"`
	Rank             int      `json:"rank"`
	Distance         *float64 `json:"distance,omitempty"`
	DistanceCategory string   `json:"distanceCategory,omitempty"`
	MatchReasons     []string `json:"matchReasons"`
}

// ProfileSummary echoes what the ranking saw so callers can display the
// basis of the recommendations.
type ProfileSummary struct {
	Skills           []string `json:"skills"`
	Bio              string   `json:"bio"`
	AppliedJobsCount int      `json:"appliedJobsCount"`
}

type Algorithm struct {
	Name             string           `json:"name"`
	ConsidersHistory bool             `json:"considersHistory"`
	Weights          matching.Weights `json:"weights"`
}

type Output struct {
	Recommendations []Recommendation `json:"recommendations"`
	TotalMatches    int              `json:"totalMatches"`
	UserProfile     ProfileSummary   `json:"userProfile"`
	Algorithm       Algorithm        `json:"algorithm"`
}
