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
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of jobs currently being handled per worker",
		},
		[]string{"task_type"},
	)

	PackagesEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_packages_emitted_total",
			Help: "Packages emitted by the recommendation engine, per event profile",
		},
		[]string{"profile"},
	)

	TiersDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_tiers_discarded_total",
			Help: "Budget tiers that filled too few categories to yield a package",
		},
		[]string{"profile", "tier"},
	)

	CatalogCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "Catalog snapshot cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// JobTimer tracks one job from activation to completion.
type JobTimer struct {
	taskType string
	timer    *prometheus.Timer
}

// StartJob increments the active gauge and starts the duration timer.
func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{
		taskType: taskType,
		timer:    prometheus.NewTimer(WorkerJobDuration.WithLabelValues(taskType)),
	}
}

// Done records the duration and the outcome. An empty errorCode counts as success.
func (j *JobTimer) Done(errorCode string) {
	j.timer.ObserveDuration()
	WorkerJobsActive.WithLabelValues(j.taskType).Dec()
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(j.taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(j.taskType, errorCode).Inc()
}
