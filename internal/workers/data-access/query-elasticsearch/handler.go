// internal/workers/data-access/query-elasticsearch/handler.go
package queryelasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	cerrors "marketplace-workers/internal/common/errors"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/workers/data-access/query-elasticsearch/queries"
)

const (
	TaskType = "query-elasticsearch"
)

var (
	ErrElasticsearchConnectionFailed = errors.New("elasticsearch connection failed")
	ErrSearchQueryFailed             = errors.New("search query failed")
	ErrSearchTimeout                 = errors.New("search timed out")
	ErrIndexNotFound                 = errors.New("search index not found")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
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
		h.failJob(client, job, convertToStandardError(err, &input))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	params := map[string]interface{}{
		"indexName":  input.IndexName,
		"queryType":  input.QueryType,
		"filters":    input.Filters,
		"pagination": input.Pagination,
	}
	if input.JobID != "" {
		params["jobId"] = input.JobID
	}
	if input.Category != "" {
		params["category"] = input.Category
	}

	result, err := queries.Execute(ctx, h.client, params)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		if errors.Is(err, queries.ErrUnknownQueryType) {
			return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
		}
		if errors.Is(err, queries.ErrMissingIndex) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	return &Output{
		Data:      result.Data,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
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
func convertToStandardError(err error, input *Input) *cerrors.StandardError {
	if stdErr, ok := err.(*cerrors.StandardError); ok {
		return stdErr
	}

	queryType := ""
	indexName := ""
	if input != nil {
		queryType = input.QueryType
		indexName = input.IndexName
	}

	switch {
	case errors.Is(err, ErrIndexNotFound):
		return cerrors.NewIndexNotFoundError(indexName)
	case errors.Is(err, ErrSearchTimeout):
		return cerrors.NewSearchTimeoutError(queryType)
	case errors.Is(err, ErrElasticsearchConnectionFailed):
		return cerrors.NewElasticsearchConnectionFailedError(err)
	default:
		return cerrors.NewSearchQueryFailedError(queryType, err)
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
