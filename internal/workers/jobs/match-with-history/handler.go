// internal/workers/jobs/match-with-history/handler.go
package matchwithhistory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	cerrors "marketplace-workers/internal/common/errors"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"
	"marketplace-workers/internal/common/validation"
	"marketplace-workers/internal/matching"
	"marketplace-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "match-jobs-with-history"

	AlgorithmName = "Advanced TF-IDF with Cosine Similarity + Geolocation"
)

var (
	ErrNilInput       = errors.New("input cannot be nil")
	ErrMissingUser    = errors.New("userId is required")
	ErrProfileFetch   = errors.New("profile fetch failed")
	ErrHistoryQuery   = errors.New("application history query failed")
	ErrCandidateQuery = errors.New("candidate job query failed")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	rankingID := uuid.New().String()
	log := h.logger.WithFields(map[string]interface{}{"rankingId": rankingID})
	log.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	if err := validation.ValidateMatchRequest([]byte(job.Variables)); err != nil {
		stdErr := cerrors.NewValidationFailedError(err.Error())
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.failJob(client, job, stdErr)
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := cerrors.NewParseFailedError(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.failJob(client, job, stdErr)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		stdErr := convertToStandardError(err, input.UserID)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.failJob(client, job, stdErr)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	log.Info("ranking completed", map[string]interface{}{
		"appliedJobs":  output.UserProfile.AppliedJobsCount,
		"returned":     len(output.Recommendations),
		"totalMatches": output.TotalMatches,
		"durationMs":   time.Since(startTime).Milliseconds(),
	})
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.UserID == 0 {
		return nil, ErrMissingUser
	}

	user, err := h.getUserProfile(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	appliedTexts, appliedCount, err := h.fetchAppliedJobTexts(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryQuery, err)
	}

	jobs := input.Jobs
	if len(jobs) == 0 {
		jobs, err = h.fetchCandidateJobs(ctx, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCandidateQuery, err)
		}
	}

	profile := matching.UserProfile{
		Skills:          user.Skills,
		Bio:             user.Bio,
		Location:        coordinate(user.Latitude, user.Longitude),
		AppliedJobsText: appliedTexts,
	}

	opts := matching.Options{
		MinSimilarity:        h.config.MinSimilarity,
		Limit:                h.config.Limit,
		MaxDistanceKm:        input.MaxDistance,
		PreferredDistanceKm:  h.config.PreferredDistanceKm,
		AcceptableDistanceKm: h.config.AcceptableDistanceKm,
	}
	if input.MinSimilarity > 0 {
		opts.MinSimilarity = input.MinSimilarity
	}
	if input.Limit > 0 {
		opts.Limit = input.Limit
	}

	result := matching.Rank(profile, candidates(jobs), matching.HistoryWeights, opts)

	return &Output{
		Recommendations: recommendations(result.Matches),
		TotalMatches:    result.TotalMatches,
		UserProfile: ProfileSummary{
			Skills:           user.Skills,
			Bio:              bioPreview(user.Bio),
			AppliedJobsCount: appliedCount,
		},
		Algorithm: Algorithm{
			Name:             AlgorithmName,
			ConsidersHistory: true,
			Weights:          result.Weights,
		},
	}, nil
}

func (h *Handler) getUserProfile(ctx context.Context, userID int64) (*models.User, error) {
	cacheKey := fmt.Sprintf("user:profile:%d", userID)
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(val), &user); err == nil {
			return &user, nil
		}
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT u.user_id, COALESCE(u.bio, ''), u.latitude, u.longitude,
		       COALESCE(string_agg(s.name, ','), '')
		FROM users u
		LEFT JOIN user_skills us ON us.user_id = u.user_id
		LEFT JOIN skills s ON s.skill_id = us.skill_id
		WHERE u.user_id = $1
		GROUP BY u.user_id, u.bio, u.latitude, u.longitude`, userID)

	var user models.User
	var lat, lon sql.NullFloat64
	var skills string
	if err := row.Scan(&user.UserID, &user.Bio, &lat, &lon, &skills); err != nil {
		return nil, err
	}
	if lat.Valid {
		user.Latitude = &lat.Float64
	}
	if lon.Valid {
		user.Longitude = &lon.Float64
	}
	if skills != "" {
		user.Skills = strings.Split(skills, ",")
	}

	data, _ := json.Marshal(user)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return &user, nil
}

// fetchAppliedJobTexts concatenates title and description of every job the
// user applied to. The combined text feeds the history component of the
// similarity score.
func (h *Handler) fetchAppliedJobTexts(ctx context.Context, userID int64) (string, int, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT j.title, COALESCE(j.description, '')
		FROM applications a
		JOIN jobs j ON j.job_id = a.job_id
		WHERE a.user_id = $1`, userID)
	if err != nil {
		return "", 0, err
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var title, description string
		if err := rows.Scan(&title, &description); err != nil {
			return "", 0, err
		}
		texts = append(texts, title+" "+description)
	}
	return strings.Join(texts, " "), len(texts), rows.Err()
}

func (h *Handler) fetchCandidateJobs(ctx context.Context, userID int64) ([]models.Job, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT job_id, title, COALESCE(description, ''), COALESCE(required_skills, ''),
		       latitude, longitude
		FROM jobs
		WHERE user_id <> $1 AND status NOT IN ($2, $3)`,
		userID, models.JobStatusCompleted, models.JobStatusClosed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var job models.Job
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&job.JobID, &job.Title, &job.Description, &job.RequiredSkills, &lat, &lon); err != nil {
			return nil, err
		}
		if lat.Valid {
			job.Latitude = &lat.Float64
		}
		if lon.Valid {
			job.Longitude = &lon.Float64
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func candidates(jobs []models.Job) []matching.JobCandidate {
	out := make([]matching.JobCandidate, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, matching.JobCandidate{
			ID:             job.JobID,
			Title:          job.Title,
			Description:    job.Description,
			RequiredSkills: job.RequiredSkills,
			Location:       coordinate(job.Latitude, job.Longitude),
		})
	}
	return out
}

func recommendations(matches []matching.JobMatch) []Recommendation {
	out := make([]Recommendation, 0, len(matches))
	for _, m := range matches {
		out = append(out, Recommendation{
			JobID:            m.JobID,
			Similarity:       m.Similarity,
			Rank:             m.Rank,
			Distance:         m.DistanceKm,
			DistanceCategory: m.DistanceCategory,
			MatchReasons:     m.MatchReasons,
		})
	}
	return out
}

func coordinate(lat, lon *float64) *matching.Coordinate {
	if lat == nil || lon == nil {
		return nil
	}
	return &matching.Coordinate{Latitude: *lat, Longitude: *lon}
}

func bioPreview(bio string) string {
	if bio == "" {
		return "No bio"
	}
	// Truncate by rune so a multibyte character is never split.
	runes := []rune(bio)
	if len(runes) > 100 {
		return string(runes[:100]) + "..."
	}
	return bio
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

// convertToStandardError lifts execute's sentinel errors into the shared
// error model so the retry policy and BPMN code come from one table.
func convertToStandardError(err error, userID int64) *cerrors.StandardError {
	if stdErr, ok := err.(*cerrors.StandardError); ok {
		return stdErr
	}
	switch {
	case errors.Is(err, ErrProfileFetch):
		return cerrors.NewProfileFetchFailedError(userID, err)
	case errors.Is(err, ErrHistoryQuery):
		return cerrors.NewHistoryQueryFailedError(userID, err)
	case errors.Is(err, ErrCandidateQuery):
		return cerrors.NewJobQueryFailedError(err)
	case errors.Is(err, ErrNilInput), errors.Is(err, ErrMissingUser):
		return cerrors.NewValidationFailedError(err.Error())
	default:
		return cerrors.NewRankingFailedError(err)
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, stdErr *cerrors.StandardError) {
	bpmnErr := cerrors.ConvertToBPMNError(stdErr)

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    bpmnErr.Code,
		"errorMessage": bpmnErr.Message,
		"retryable":    bpmnErr.Retryable,
		"retries":      bpmnErr.Retries,
	})

	failCmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(bpmnErr.Retries)).
		ErrorMessage(fmt.Sprintf("[%s] %s", bpmnErr.Code, bpmnErr.Message))

	var finalCmd interface {
		Send(context.Context) (*pb.FailJobResponse, error)
	}
	varCmd, varErr := failCmd.VariablesFromMap(bpmnErr.ToErrorVariables())
	if varErr != nil {
		h.logger.Error("failed to set error variables, sending without them", map[string]interface{}{
			"error": varErr,
		})
		finalCmd = failCmd
	} else {
		finalCmd = varCmd
	}

	if _, err := finalCmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to fail job", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
