// internal/workers/jobs/rank-recommendations/handler_test.go
package rankrecommendations

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	cerrors "marketplace-workers/internal/common/errors"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/matching"
	"marketplace-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		CacheTTL:             10 * time.Minute,
		Timeout:              5 * time.Second,
		MinSimilarity:        0.35,
		Limit:                20,
		PreferredDistanceKm:  25,
		AcceptableDistanceKm: 50,
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func designerProfile() *UserProfile {
	return &UserProfile{
		Skills: []string{"Figma", "UI/UX Design"},
		Bio:    "Product designer who lives in prototypes",
	}
}

func testJobs() []models.Job {
	return []models.Job{
		{JobID: 1, Title: "App mockups", Description: "Design mobile screens", RequiredSkills: "UI/UX Design/Figma/Prototyping"},
		{JobID: 2, Title: "Pipe welding", Description: "Structural work", RequiredSkills: "Welding"},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_WithInlineProfile(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	_, rdb := setupTestRedis(t)

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserProfile: designerProfile(),
		Jobs:        testJobs(),
	})

	require.NoError(t, err)
	require.NotNil(t, output)

	// Only the design job clears the default threshold: its keyword
	// score of 0.875 plus the full distance default yields 0.55, while
	// the welding job bottoms out at the bare distance weight.
	require.Len(t, output.Recommendations, 1)
	rec := output.Recommendations[0]
	assert.Equal(t, int64(1), rec.JobID)
	assert.Equal(t, 1, rec.Rank)
	assert.InDelta(t, 0.55, rec.Similarity, 1e-9)
	assert.Equal(t, 1, output.TotalMatches)
	assert.Equal(t, AlgorithmName, output.Algorithm.Name)
	assert.Equal(t, matching.BaseWeights, output.Algorithm.Weights)
	assert.False(t, output.Algorithm.ConsidersHistory)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNilInput)
	assert.Nil(t, output)
}

func TestHandler_Execute_MissingUser(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Jobs: testJobs()})

	assert.ErrorIs(t, err, ErrMissingUser)
	assert.Nil(t, output)
}

func TestHandler_Execute_EmptyJobList(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserProfile: designerProfile(),
	})

	require.NoError(t, err)
	assert.Empty(t, output.Recommendations)
	assert.Equal(t, 0, output.TotalMatches)
}

func TestHandler_Execute_FetchesProfileFromDB(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	mr, rdb := setupTestRedis(t)

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	mock.ExpectQuery("SELECT u.user_id").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "bio", "latitude", "longitude", "skills"}).
			AddRow(42, "Product designer", nil, nil, "Figma,UI/UX Design"))

	output, err := handler.Execute(context.Background(), &Input{
		UserID: 42,
		Jobs:   testJobs(),
	})

	require.NoError(t, err)
	require.Len(t, output.Recommendations, 1)
	assert.Equal(t, int64(1), output.Recommendations[0].JobID)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Profile lands in the cache for the next call.
	assert.True(t, mr.Exists("user:profile:42"))
}

func TestHandler_Execute_ProfileCacheHit(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	mr, rdb := setupTestRedis(t)

	cached, _ := json.Marshal(models.User{
		UserID: 42,
		Bio:    "Product designer",
		Skills: []string{"Figma", "UI/UX Design"},
	})
	require.NoError(t, mr.Set("user:profile:42", string(cached)))

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID: 42,
		Jobs:   testJobs(),
	})

	require.NoError(t, err)
	require.Len(t, output.Recommendations, 1)
	// No database expectations were set, so any query would have failed.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_FetchesCandidateJobs(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	mr, rdb := setupTestRedis(t)

	cached, _ := json.Marshal(models.User{
		UserID: 42,
		Skills: []string{"Figma"},
	})
	require.NoError(t, mr.Set("user:profile:42", string(cached)))

	mock.ExpectQuery("SELECT job_id, title").
		WithArgs(int64(42), models.JobStatusCompleted, models.JobStatusClosed).
		WillReturnRows(sqlmock.NewRows([]string{"job_id", "title", "description", "required_skills", "latitude", "longitude"}).
			AddRow(7, "Logo design", "Brand refresh", "Figma", nil, nil).
			AddRow(8, "Plumbing", "Fix pipes", "", nil, nil))

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{UserID: 42})

	require.NoError(t, err)
	require.Len(t, output.Recommendations, 1)
	assert.Equal(t, int64(7), output.Recommendations[0].JobID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ProfileFetchError(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	_, rdb := setupTestRedis(t)

	mock.ExpectQuery("SELECT u.user_id").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrConnDone)

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{UserID: 99, Jobs: testJobs()})

	assert.ErrorIs(t, err, ErrProfileFetch)
	assert.Nil(t, output)
}

func TestHandler_Execute_CallerOverrides(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserProfile:   designerProfile(),
		Jobs:          testJobs(),
		MinSimilarity: 0.1,
		Limit:         1,
	})

	require.NoError(t, err)
	// The lowered threshold admits both jobs but the limit keeps one.
	assert.Len(t, output.Recommendations, 1)
	assert.Equal(t, 2, output.TotalMatches)
}

// ==========================
// Error Conversion
// ==========================

func TestConvertToStandardError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    cerrors.ErrorCode
		retries int
	}{
		{"profile fetch", fmt.Errorf("%w: boom", ErrProfileFetch), cerrors.ErrCodeProfileFetchFailed, 3},
		{"candidate query", fmt.Errorf("%w: boom", ErrCandidateQuery), cerrors.ErrCodeJobQueryFailed, 3},
		{"nil input", ErrNilInput, cerrors.ErrCodeValidationFailed, 0},
		{"missing user", ErrMissingUser, cerrors.ErrCodeValidationFailed, 0},
		{"unclassified", fmt.Errorf("boom"), cerrors.ErrCodeRankingFailed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdErr := convertToStandardError(tt.err, 42)
			require.NotNil(t, stdErr)
			assert.Equal(t, tt.code, stdErr.Code)

			bpmnErr := cerrors.ConvertToBPMNError(stdErr)
			assert.Equal(t, string(tt.code), bpmnErr.Code)
			assert.Equal(t, tt.retries, bpmnErr.Retries)
		})
	}
}

func TestConvertToStandardError_PassesThroughStandardError(t *testing.T) {
	stdErr := cerrors.NewRankingFailedError(fmt.Errorf("boom"))
	assert.Same(t, stdErr, convertToStandardError(stdErr, 42))
}
