// internal/matching/rank.go
package matching

import (
	"fmt"
	"sort"
	"strings"
)

// Default thresholds applied when Options leaves them unset.
const (
	DefaultMinSimilarity        = 0.35
	DefaultLimit                = 20
	DefaultPreferredDistanceKm  = 25.0
	DefaultAcceptableDistanceKm = 50.0
)

// Weights controls how the component scores combine into the final
// similarity. The fields are expected to sum to 1; they are applied as-is
// even when a component's input is empty.
type Weights struct {
	Skill    float64 `json:"skillMatch"`
	Bio      float64 `json:"bioMatch"`
	Title    float64 `json:"titleMatch,omitempty"`
	History  float64 `json:"pastJobsMatch,omitempty"`
	Distance float64 `json:"distanceMatch"`
}

// BaseWeights scores a profile against a job using skills, bio, job title
// and distance.
var BaseWeights = Weights{Skill: 0.40, Bio: 0.25, Title: 0.15, Distance: 0.20}

// HistoryWeights swaps the title component for similarity against the
// user's past applications and leans harder on distance.
var HistoryWeights = Weights{Skill: 0.35, Bio: 0.20, History: 0.15, Distance: 0.30}

// UserProfile is the ranking view of a user: their skill tags, bio text,
// optional location and, for history-aware ranking, the concatenated text
// of jobs they previously applied to.
type UserProfile struct {
	Skills          []string
	Bio             string
	Location        *Coordinate
	AppliedJobsText string
}

// JobCandidate is a posting under consideration. RequiredSkills is the raw
// delimited string as stored on the posting.
type JobCandidate struct {
	ID             int64
	Title          string
	Description    string
	RequiredSkills string
	Location       *Coordinate
}

// Options tunes the ranking pipeline. Zero values fall back to the package
// defaults; MaxDistanceKm nil means no distance cutoff.
type Options struct {
	MinSimilarity        float64
	Limit                int
	MaxDistanceKm        *float64
	PreferredDistanceKm  float64
	AcceptableDistanceKm float64
}

func (o Options) withDefaults() Options {
	if o.MinSimilarity == 0 {
		o.MinSimilarity = DefaultMinSimilarity
	}
	if o.Limit == 0 {
		o.Limit = DefaultLimit
	}
	if o.PreferredDistanceKm == 0 {
		o.PreferredDistanceKm = DefaultPreferredDistanceKm
	}
	if o.AcceptableDistanceKm == 0 {
		o.AcceptableDistanceKm = DefaultAcceptableDistanceKm
	}
	return o
}

// JobMatch is one ranked posting. DistanceKm is nil when either side has no
// usable location; such matches always pass distance filters.
type JobMatch struct {
	JobID            int64    `json:"jobId"`
	Similarity       float64  `json:"similarity"`
	Rank             int      `json:"rank"`
	DistanceKm       *float64 `json:"distanceKm,omitempty"`
	DistanceCategory string   `json:"distanceCategory,omitempty"`
	MatchReasons     []string `json:"matchReasons"`
}

// Result is the full ranking outcome. TotalMatches counts every candidate
// meeting the similarity threshold, before the limit truncates Matches.
type Result struct {
	Matches      []JobMatch `json:"matches"`
	TotalMatches int        `json:"totalMatches"`
	Weights      Weights    `json:"weights"`
}

// Rank scores every candidate against the profile, sorts descending and
// returns the filtered, limited, ranked result.
//
// Per candidate the component scores are:
//   - skill: max of KeywordSimilarity over parsed tags and TextSimilarity
//     over the joined skill texts, so exact tag overlap is never undersold
//     by the tf-idf shared-vocabulary effect
//   - bio: TextSimilarity(bio, title + description)
//   - title: TextSimilarity(joined skills, title)
//   - history: TextSimilarity(applied jobs text, title + description)
//   - distance: DistanceScore of the Haversine distance, 1.0 when either
//     location is missing or invalid
//
// The weighted sum is clamped to [0, 1]. Equal similarities keep their
// input order; ranks are positional starting at 1.
func Rank(user UserProfile, jobs []JobCandidate, weights Weights, opts Options) Result {
	opts = opts.withDefaults()

	userTags := user.Skills
	skillsText := strings.Join(user.Skills, " ")

	matches := make([]JobMatch, 0, len(jobs))
	for _, job := range jobs {
		jobTags := ParseSkillTags(job.RequiredSkills)
		jobSkillsText := strings.Join(jobTags, " ")

		skillScore := KeywordSimilarity(userTags, jobTags)
		if ts := TextSimilarity(skillsText, jobSkillsText); ts > skillScore {
			skillScore = ts
		}
		bioScore := TextSimilarity(user.Bio, job.Title+" "+job.Description)
		titleScore := TextSimilarity(skillsText, job.Title)
		historyScore := TextSimilarity(user.AppliedJobsText, job.Title+" "+job.Description)

		var distanceKm *float64
		distScore := 1.0
		if user.Location != nil && job.Location != nil &&
			user.Location.Valid() && job.Location.Valid() {
			d := Distance(*user.Location, *job.Location)
			distanceKm = &d
			distScore = DistanceScore(d, opts.PreferredDistanceKm, opts.AcceptableDistanceKm)
		}

		similarity := weights.Skill*skillScore +
			weights.Bio*bioScore +
			weights.Title*titleScore +
			weights.History*historyScore +
			weights.Distance*distScore
		similarity = clamp01(similarity)

		match := JobMatch{
			JobID:      job.ID,
			Similarity: similarity,
			DistanceKm: distanceKm,
		}
		if distanceKm != nil {
			match.DistanceCategory = DistanceCategory(*distanceKm)
		}
		match.MatchReasons = matchReasons(similarity, userTags, jobTags, distanceKm)
		matches = append(matches, match)
	}

	if opts.MaxDistanceKm != nil {
		matches = FilterByDistance(matches, *opts.MaxDistanceKm)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	// 1-based positional ranks with no gaps; ties keep input order.
	for i := range matches {
		matches[i].Rank = i + 1
	}

	total := 0
	for _, m := range matches {
		if m.Similarity >= opts.MinSimilarity {
			total++
		}
	}

	// The sort put everything below the threshold at the tail.
	kept := matches[:total]
	if len(kept) > opts.Limit {
		kept = kept[:opts.Limit]
	}

	return Result{
		Matches:      kept,
		TotalMatches: total,
		Weights:      weights,
	}
}

// FilterByDistance drops matches farther than maxKm. Matches without a
// computed distance are kept.
func FilterByDistance(matches []JobMatch, maxKm float64) []JobMatch {
	kept := matches[:0]
	for _, m := range matches {
		if m.DistanceKm == nil || *m.DistanceKm <= maxKm {
			kept = append(kept, m)
		}
	}
	return kept
}

// SortByDistance orders matches nearest first. Matches without a distance
// sort last, keeping their relative order.
func SortByDistance(matches []JobMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceKm == nil {
			return false
		}
		if matches[j].DistanceKm == nil {
			return true
		}
		return *matches[i].DistanceKm < *matches[j].DistanceKm
	})
}

// matchReasons builds the human-readable explanation shown next to a match.
func matchReasons(score float64, userTags, jobTags []string, distanceKm *float64) []string {
	var reasons []string

	switch {
	case score >= 0.8:
		reasons = append(reasons, "Excellent match")
	case score >= 0.6:
		reasons = append(reasons, "Good match")
	case score >= 0.4:
		reasons = append(reasons, "Moderate match")
	}

	matched := 0
	for _, ut := range userTags {
		u := strings.ToLower(ut)
		for _, jt := range jobTags {
			j := strings.ToLower(jt)
			if strings.Contains(u, j) || strings.Contains(j, u) {
				matched++
				break
			}
		}
	}
	if matched == 1 {
		reasons = append(reasons, "Matches your 1 skill")
	} else if matched > 1 {
		reasons = append(reasons, fmt.Sprintf("Matches your %d skills", matched))
	}

	if distanceKm != nil {
		d := *distanceKm
		switch {
		case d <= 5:
			reasons = append(reasons, "Very close to you")
		case d <= 15:
			reasons = append(reasons, fmt.Sprintf("Close to you (%.1f km)", d))
		case d <= 30:
			reasons = append(reasons, fmt.Sprintf("Moderate distance (%.1f km)", d))
		case d <= 50:
			reasons = append(reasons, fmt.Sprintf("%.1f km away", d))
		}
	}

	if score < 0.4 {
		reasons = append(reasons, "Consider applying to gain experience")
	}

	return reasons
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
