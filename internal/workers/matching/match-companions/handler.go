package matchcompanions

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"swellyo-workers/internal/candidates"
	commonerrors "swellyo-workers/internal/common/errors"
	"swellyo-workers/internal/common/logger"
	"swellyo-workers/internal/common/metrics"
	"swellyo-workers/internal/common/observability"
	"swellyo-workers/internal/matching"
	"swellyo-workers/internal/models"
)

const (
	TaskType = "match-companions"
)

// Match run outcomes.
const (
	outcomeMatched = "matched"
	outcomeEmpty   = "empty"
	outcomeInvalid = "invalid"
	outcomeFailed  = "failed"
)

// HandlerOptions wires the handler. Repository and Observability are optional;
// without a repository every job must carry its candidates.
type HandlerOptions struct {
	Config        *Config
	Engine        *matching.Engine
	Repository    candidates.Repository
	Observability *observability.Observability
	Logger        logger.Logger
}

type Handler struct {
	config       *Config
	engine       *matching.Engine
	repo         candidates.Repository
	obs          *observability.Observability
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("%s: logger is required", TaskType)
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("%s: matching engine is required", TaskType)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", TaskType, err)
	}

	log := opts.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		engine:       opts.Engine,
		repo:         opts.Repository,
		obs:          opts.Observability,
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

	input, err := parseInput([]byte(job.Variables))
	if err != nil {
		metrics.MatchRuns.WithLabelValues(outcomeInvalid).Inc()
		h.fail(ctx, client, job, start, commonerrors.NewInvalidMatchRequestError(err.Error()))
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, start, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "success")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "success")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	if input == nil || input.MatchRequest == nil {
		metrics.MatchRuns.WithLabelValues(outcomeInvalid).Inc()
		return nil, commonerrors.NewInvalidMatchRequestError("matchRequest is required")
	}
	if input.TopK < 0 || input.TopK > h.config.MaxTopK {
		metrics.MatchRuns.WithLabelValues(outcomeInvalid).Inc()
		return nil, commonerrors.NewInvalidMatchRequestError(
			fmt.Sprintf("topK must be between 0 and %d (0 = default), got %d", h.config.MaxTopK, input.TopK))
	}

	req := input.MatchRequest
	for _, name := range input.DroppedCriteria {
		h.logger.Warn("ignoring malformed non-negotiable criterion", map[string]interface{}{
			"criterion": name,
			"userId":    req.Seeker.UserID,
		})
	}

	population, source, err := h.population(ctx, input)
	if err != nil {
		metrics.MatchRuns.WithLabelValues(outcomeFailed).Inc()
		return nil, err
	}

	result := h.engine.Match(req, population, input.TopK)
	h.record(ctx, req, result)

	matchID := uuid.NewString()
	h.logger.Info("match computed", map[string]interface{}{
		"matchId":    matchID,
		"purpose":    string(req.Purpose.Type),
		"considered": result.Considered,
		"eligible":   result.Eligible,
		"returned":   len(result.Matches),
		"source":     source,
	})

	return &Output{
		MatchID:         matchID,
		Matches:         result.Matches,
		MatchCount:      len(result.Matches),
		ConsideredCount: result.Considered,
		EligibleCount:   result.Eligible,
		Rejected:        result.Rejected,
		Weights:         result.Weights,
		DroppedCriteria: input.DroppedCriteria,
		CandidateSource: source,
		DurationMs:      time.Since(start).Milliseconds(),
	}, nil
}

// population returns the job's candidates, or fetches them for the request's destination.
func (h *Handler) population(ctx context.Context, input *Input) ([]models.CandidateProfile, string, error) {
	if input.Candidates != nil {
		return input.Candidates, candidateSourceInput, nil
	}
	if h.repo == nil {
		return nil, "", commonerrors.NewInvalidMatchRequestError("candidates are required when no repository is configured")
	}

	q := candidates.Query{Limit: h.config.FetchLimit}
	if input.MatchRequest.DestinationKnown {
		q.Destination = input.MatchRequest.Destination
	}
	profiles, err := h.repo.FindCandidates(ctx, q)
	if err != nil {
		return nil, "", candidates.ClassifyError(ctx, h.repo.Source(), err)
	}
	return profiles, h.repo.Source(), nil
}

func (h *Handler) record(ctx context.Context, req *models.MatchRequest, result matching.Result) {
	outcome := outcomeMatched
	if len(result.Matches) == 0 {
		outcome = outcomeEmpty
	}
	metrics.MatchRuns.WithLabelValues(outcome).Inc()
	metrics.CandidatesConsidered.Observe(float64(result.Considered))
	for criterion, n := range result.Rejected {
		metrics.CandidatesRejected.WithLabelValues(criterion).Add(float64(n))
	}
	for _, m := range result.Matches {
		metrics.MatchScore.Observe(m.Score)
	}
	h.obs.RecordMatches(ctx, string(req.Purpose.Type), len(result.Matches))
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
		"jobKey":     job.Key,
		"matchId":    output.MatchID,
		"matchCount": output.MatchCount,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, start time.Time, err error) {
	stdErr := commonerrors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

// Execute runs matching without a job client.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// ExecuteVariables parses raw job variables and runs matching.
func (h *Handler) ExecuteVariables(ctx context.Context, variables string) (*Output, error) {
	input, err := parseInput([]byte(variables))
	if err != nil {
		metrics.MatchRuns.WithLabelValues(outcomeInvalid).Inc()
		return nil, commonerrors.NewInvalidMatchRequestError(err.Error())
	}
	return h.execute(ctx, input)
}
