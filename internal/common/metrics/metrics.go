// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// Companion matching
var (
	MatchRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_match_runs_total",
			Help: "Match runs by outcome (matched, empty, invalid, failed)",
		},
		[]string{"outcome"},
	)

	CandidatesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_candidates_rejected_total",
			Help: "Candidates removed by the must-have filter, by first unmet criterion",
		},
		[]string{"criterion"},
	)

	MatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "companion_match_score",
			Help:    "Final score of returned suggestions",
			Buckets: prometheus.LinearBuckets(0, 25, 9),
		},
	)

	CandidatesConsidered = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "companion_candidates_considered",
			Help:    "Population size per match run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	CandidateCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_candidate_cache_lookups_total",
			Help: "Candidate cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
