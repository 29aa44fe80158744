// internal/models/job.go
package models

// Job statuses a posting moves through. Completed and Closed postings are
// excluded from recommendation candidates.
const (
	JobStatusOpen       = "open"
	JobStatusInProgress = "In Progress"
	JobStatusCompleted  = "Completed"
	JobStatusClosed     = "Closed"
)

type Job struct {
	JobID          int64    `json:"jobId"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category,omitempty"`
	Location       string   `json:"location,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Budget         float64  `json:"budget,omitempty"`
	Deadline       string   `json:"deadline,omitempty"`
	Status         string   `json:"status"`
	UserID         int64    `json:"userId"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	RequiredSkills string   `json:"requiredSkills,omitempty"`
}
