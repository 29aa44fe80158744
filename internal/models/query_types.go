// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeUserProfile     QueryType = "user_profile"
	QueryTypeCandidateJobs   QueryType = "candidate_jobs"
	QueryTypeAppliedJobTexts QueryType = "applied_job_texts"
	QueryTypeJobByID         QueryType = "job_by_id"
)
