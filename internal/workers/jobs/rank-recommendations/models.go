// internal/workers/jobs/rank-recommendations/models.go
package rankrecommendations

import (
	"marketplace-workers/internal/matching"
	"marketplace-workers/internal/models"
)

type Input struct {
	UserID        int64        `json:"userId,omitempty"`
	UserProfile   *UserProfile `json:"userProfile,omitempty"`
	Jobs          []models.Job `json:"jobs,omitempty"`
	MinSimilarity float64      `json:"minSimilarity,omitempty"`
	Limit         int          `json:"limit,omitempty"`
	MaxDistance   *float64     `json:"maxDistance,omitempty"`
}

// UserProfile is the inline-profile variant of the input. When absent the
// profile is assembled from storage using UserID.
type UserProfile struct {
	Skills    []string `json:"skills"`
	Bio       string   `json:"bio"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type Recommendation struct {
	JobID            int64    `json:"jobId"`
	Similarity       float64  `json:"similarity"`
	Rank             int      `json:"rank"`
	Distance         *float64 `json:"distance,omitempty"`
	DistanceCategory string   `json:"distanceCategory,omitempty"`
	MatchReasons     []string `json:"matchReasons"`
}

type Algorithm struct {
	Name             string           `json:"name"`
	ConsidersHistory bool             `json:"considersHistory,omitempty"`
	Weights          matching.Weights `json:"weights"`
}

type Output struct {
	Recommendations []Recommendation `json:"recommendations"`
	TotalMatches    int              `json:"totalMatches"`
	Algorithm       Algorithm        `json:"algorithm"`
}
