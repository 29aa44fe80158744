// internal/workers/data-access/query-postgresql/queries/jobs.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

// CandidateJobs returns postings eligible for recommendation to a user:
// not their own, and neither Completed nor Closed.
func CandidateJobs(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := userIDParam(params, "userId")
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT job_id, title, COALESCE(description, ''), COALESCE(category, ''),
		       COALESCE(required_skills, ''), latitude, longitude, budget, status
		FROM jobs
		WHERE user_id <> $1 AND status NOT IN ('Completed', 'Closed')`, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id int64
		var title, description, category, requiredSkills, status string
		var lat, lon sql.NullFloat64
		var budget sql.NullFloat64
		err := rows.Scan(&id, &title, &description, &category, &requiredSkills, &lat, &lon, &budget, &status)
		if err != nil {
			return nil, 0, 0, err
		}
		job := map[string]interface{}{
			"jobId":          id,
			"title":          title,
			"description":    description,
			"category":       category,
			"requiredSkills": requiredSkills,
			"status":         status,
		}
		if lat.Valid {
			job["latitude"] = lat.Float64
		}
		if lon.Valid {
			job["longitude"] = lon.Float64
		}
		if budget.Valid {
			job["budget"] = budget.Float64
		}
		results = append(results, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

// AppliedJobTexts returns the title and description of every job the user
// has applied to, for the history-aware ranking variant.
func AppliedJobTexts(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := userIDParam(params, "userId")
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT j.job_id, j.title, COALESCE(j.description, '')
		FROM applications a
		JOIN jobs j ON j.job_id = a.job_id
		WHERE a.user_id = $1`, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id int64
		var title, description string
		if err := rows.Scan(&id, &title, &description); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"jobId":       id,
			"title":       title,
			"description": description,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func JobByID(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	jobID, ok := userIDParam(params, "jobId")
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, userID int64
	var title, description, category, location, requiredSkills, status string
	var lat, lon, budget sql.NullFloat64

	err := db.QueryRowContext(ctx, `
		SELECT job_id, title, COALESCE(description, ''), COALESCE(category, ''),
		       COALESCE(location, ''), COALESCE(required_skills, ''),
		       latitude, longitude, budget, status, user_id
		FROM jobs
		WHERE job_id = $1`, jobID).Scan(
		&id, &title, &description, &category, &location, &requiredSkills,
		&lat, &lon, &budget, &status, &userID,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"jobId":          id,
		"title":          title,
		"description":    description,
		"category":       category,
		"location":       location,
		"requiredSkills": requiredSkills,
		"status":         status,
		"userId":         userID,
	}
	if lat.Valid {
		result["latitude"] = lat.Float64
	}
	if lon.Valid {
		result["longitude"] = lon.Float64
	}
	if budget.Valid {
		result["budget"] = budget.Float64
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
