// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "marketplace-workers/internal/models"

type Input struct {
	QueryType string                 `json:"queryType"`
	UserID    int64                  `json:"userId,omitempty"`
	JobID     int64                  `json:"jobId,omitempty"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeUserProfile     = models.QueryTypeUserProfile
	QueryTypeCandidateJobs   = models.QueryTypeCandidateJobs
	QueryTypeAppliedJobTexts = models.QueryTypeAppliedJobTexts
	QueryTypeJobByID         = models.QueryTypeJobByID
)
