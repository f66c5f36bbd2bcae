// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	"event-package-workers/internal/common/config"
	"event-package-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Registry tracks opened job workers so they can be closed on shutdown.
type Registry struct {
	mu      sync.Mutex
	workers map[string]worker.JobWorker
	log     logger.Logger
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{workers: make(map[string]worker.JobWorker), log: log}
}

// Start opens a job worker for taskType unless it is disabled in wcfg.
func (r *Registry) Start(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler func(worker.JobClient, entities.Job)) {
	if !wcfg.Enabled {
		r.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	w := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	r.mu.Lock()
	r.workers[taskType] = w
	r.mu.Unlock()

	r.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
}

// TaskTypes lists the running workers.
func (r *Registry) TaskTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.workers))
	for t := range r.workers {
		out = append(out, t)
	}
	return out
}

// Close stops polling on every worker and waits for in-flight jobs, up to
// ctx's deadline.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	workers := r.workers
	r.workers = make(map[string]worker.JobWorker)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for taskType, w := range workers {
			r.log.Info("stopping worker", map[string]interface{}{"taskType": taskType})
			w.Close()
			w.AwaitClose()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		r.log.Warn("workers did not stop before shutdown deadline", nil)
	}
}

// CompleteJob sends the complete command for job with output as variables,
// retrying transient gateway errors.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return err
	}

	retry := &RetryConfig{MaxRetries: 2, BaseDelay: 200 * time.Millisecond, MaxDelay: time.Second}
	return ExecuteWithRetry(ctx, retry, "complete job", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
}
