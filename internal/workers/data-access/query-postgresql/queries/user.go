// internal/workers/data-access/query-postgresql/queries/user.go
package queries

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// UserProfile assembles the ranking view of a user: bio, coordinates and
// the skill tag names joined from the skills tables.
func UserProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := userIDParam(params, "userId")
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id int64
	var name, email, bio, skills string
	var lat, lon sql.NullFloat64

	err := db.QueryRowContext(ctx, `
		SELECT u.user_id, u.name, u.email, COALESCE(u.bio, ''),
		       u.latitude, u.longitude,
		       COALESCE(string_agg(s.name, ','), '')
		FROM users u
		LEFT JOIN user_skills us ON us.user_id = u.user_id
		LEFT JOIN skills s ON s.skill_id = us.skill_id
		WHERE u.user_id = $1
		GROUP BY u.user_id, u.name, u.email, u.bio, u.latitude, u.longitude`, userID).Scan(
		&id, &name, &email, &bio, &lat, &lon, &skills,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"userId": id,
		"name":   name,
		"email":  email,
		"bio":    bio,
		"skills": splitSkills(skills),
	}
	if lat.Valid {
		result["latitude"] = lat.Float64
	}
	if lon.Valid {
		result["longitude"] = lon.Float64
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func splitSkills(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}
