package querycandidates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"swellyo-workers/internal/candidates"
	commonerrors "swellyo-workers/internal/common/errors"
	"swellyo-workers/internal/common/logger"
	"swellyo-workers/internal/common/metrics"
)

const (
	TaskType = "query-candidates"
)

type Handler struct {
	config       *Config
	repo         candidates.Repository
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, repo candidates.Repository, log logger.Logger) (*Handler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", TaskType, err)
	}
	if repo == nil {
		return nil, fmt.Errorf("%s: candidate repository is required", TaskType)
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		repo:         repo,
		errorHandler: commonerrors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, commonerrors.NewInvalidMatchRequestError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, commonerrors.NewInvalidMatchRequestError("input cannot be nil")
	}

	limit := input.Limit
	switch {
	case limit < 0 || limit > h.config.MaxLimit:
		return nil, commonerrors.NewInvalidMatchRequestError(
			fmt.Sprintf("limit must be between 0 and %d (0 = default), got %d", h.config.MaxLimit, limit))
	case limit == 0:
		limit = h.config.DefaultLimit
	}

	start := time.Now()
	profiles, err := h.repo.FindCandidates(ctx, candidates.Query{
		Destination: input.destination(),
		Limit:       limit,
	})
	if err != nil {
		return nil, candidates.ClassifyError(ctx, h.repo.Source(), err)
	}

	return &Output{
		Candidates:           profiles,
		CandidateCount:       len(profiles),
		Source:               h.repo.Source(),
		QueryExecutionTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":         job.Key,
		"candidateCount": output.CandidateCount,
		"source":         output.Source,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := commonerrors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

// Execute runs the query without a job client.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
