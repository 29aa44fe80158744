// internal/workers/data-access/query-postgresql/handler.go
package querypostgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	cerrors "marketplace-workers/internal/common/errors"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/models"
	"marketplace-workers/internal/workers/data-access/query-postgresql/queries"
)

const (
	TaskType = "query-postgresql"
)

var (
	ErrDatabaseConnectionFailed = errors.New("database connection failed")
	ErrQueryExecutionFailed     = errors.New("query execution failed")
	ErrQueryTimeout             = errors.New("query timed out")
	ErrInvalidQueryType         = errors.New("invalid query type")
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, cerrors.NewParseFailedError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, convertToStandardError(err, input.QueryType))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	queryType := models.QueryType(input.QueryType)
	if _, exists := queries.Registry[queryType]; !exists {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQueryType, input.QueryType)
	}

	params := make(map[string]interface{})
	if input.UserID != 0 {
		params["userId"] = input.UserID
	}
	if input.JobID != 0 {
		params["jobId"] = input.JobID
	}
	if input.Filters != nil {
		params["filters"] = input.Filters
	}

	data, rowCount, execTime, err := queries.Execute(ctx, h.db, queryType, params)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrQueryTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: execTime,
	}, nil
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
func convertToStandardError(err error, queryType string) *cerrors.StandardError {
	if stdErr, ok := err.(*cerrors.StandardError); ok {
		return stdErr
	}
	switch {
	case errors.Is(err, ErrQueryTimeout):
		return cerrors.NewQueryTimeoutError(queryType)
	case errors.Is(err, ErrInvalidQueryType):
		return cerrors.NewInvalidQueryTypeError(queryType)
	case errors.Is(err, ErrDatabaseConnectionFailed):
		return cerrors.NewDatabaseConnectionFailedError(err)
	default:
		return cerrors.NewQueryExecutionFailedError(queryType, err)
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
