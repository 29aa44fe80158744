// internal/workers/jobs/match-with-history/config.go
package matchwithhistory

import "time"

type Config struct {
	CacheTTL             time.Duration
	Timeout              time.Duration
	MinSimilarity        float64
	Limit                int
	PreferredDistanceKm  float64
	AcceptableDistanceKm float64
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:             10 * time.Minute,
		Timeout:              30 * time.Second,
		MinSimilarity:        0.35,
		Limit:                20,
		PreferredDistanceKm:  25,
		AcceptableDistanceKm: 50,
	}
}
