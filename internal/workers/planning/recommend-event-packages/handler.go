// internal/workers/planning/recommend-event-packages/handler.go
package recommendeventpackages

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"event-package-workers/internal/catalog"
	"event-package-workers/internal/common/camunda"
	"event-package-workers/internal/common/errors"
	"event-package-workers/internal/common/logger"
	"event-package-workers/internal/common/metrics"
	"event-package-workers/internal/common/observability"
	"event-package-workers/internal/models"
	"event-package-workers/internal/recommend"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "recommend-event-packages"
)

type Handler struct {
	config  *Config
	engine  *recommend.Engine
	catalog catalog.Provider
	errors  *errors.ErrorHandler
	obs     *observability.Observability
	logger  logger.Logger
}

// NewHandler wires the engine to a catalog provider. provider may be nil
// when every job is expected to carry an inline catalog.
func NewHandler(config *Config, engine *recommend.Engine, provider catalog.Provider, obs *observability.Observability, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		engine:  engine,
		catalog: provider,
		errors:  errors.NewErrorHandler(scoped),
		obs:     obs,
		logger:  scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	start := time.Now()
	timer := metrics.StartJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.process(ctx, job.Variables)
	if err == nil {
		err = camunda.CompleteJob(ctx, client, job, output)
	}

	if err != nil {
		h.finish(ctx, timer, start, errorCode(err))
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.finish(ctx, timer, start, "")
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":       job.Key,
		"requestId":    output.RequestID,
		"packageCount": output.PackageCount,
	})
}

func (h *Handler) finish(ctx context.Context, timer *metrics.JobTimer, start time.Time, code string) {
	timer.Done(code)
	status := "success"
	if code != "" {
		status = "failed"
	}
	h.obs.RecordJobProcessed(ctx, TaskType, status)
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), status)
}

// process validates raw job variables against the input schema before
// decoding them.
func (h *Handler) process(ctx context.Context, variables string) (*Output, error) {
	result, err := inputSchema.ValidateJSON(variables)
	if err != nil {
		return nil, errors.NewInvalidInputSchemaError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewInvalidInputSchemaError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputSchemaError(fmt.Sprintf("parse input: %v", err))
	}
	return h.Execute(ctx, &input)
}

// Execute runs one recommendation for an already decoded input.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	evt := input.EventContext()
	if err := recommend.ValidateContext(evt); err != nil {
		return nil, errors.NewInvalidEventContextError(err.Error())
	}

	profile := h.engine.Profiles().Resolve(evt.EventType)

	products, err := h.loadCatalog(ctx, input, profile)
	if err != nil {
		return nil, err
	}

	result, err := h.engine.Recommend(evt, products)
	if err != nil {
		return nil, errors.NewInvalidEventContextError(err.Error())
	}

	output := &Output{
		RequestID:      input.RequestID,
		Packages:       models.NewPackageProposals(result),
		PackageCount:   len(result.Packages),
		Profile:        result.Profile.Name,
		Tiers:          result.Tiers,
		DiscardedTiers: []string{},
		CatalogSize:    len(products),
	}
	for _, o := range result.Outcomes {
		if o.Emitted {
			continue
		}
		output.DiscardedTiers = append(output.DiscardedTiers, o.Tier.Label)
		metrics.TiersDiscarded.WithLabelValues(profile.Name, o.Tier.Label).Inc()
		h.logger.Debug("tier discarded", map[string]interface{}{
			"requestId": input.RequestID,
			"tier":      o.Tier.Label,
			"filled":    o.Filled,
			"required":  o.Required,
			"skipped":   o.SkippedCategories,
		})
	}

	metrics.PackagesEmitted.WithLabelValues(profile.Name).Add(float64(output.PackageCount))
	h.obs.RecordPackages(ctx, profile.Name, output.PackageCount)

	h.logger.Info("recommendation finished", map[string]interface{}{
		"requestId":    input.RequestID,
		"userId":       input.UserID,
		"profile":      profile.Name,
		"catalogSize":  len(products),
		"packageCount": output.PackageCount,
	})
	return output, nil
}

func (h *Handler) loadCatalog(ctx context.Context, input *Input, profile recommend.CategoryProfile) ([]recommend.Product, error) {
	if input.Catalog != nil {
		if h.config.MaxCatalogSize > 0 && len(input.Catalog) > h.config.MaxCatalogSize {
			return nil, errors.NewInvalidInputSchemaError(fmt.Sprintf(
				"inline catalog has %d products, limit is %d", len(input.Catalog), h.config.MaxCatalogSize))
		}
		return catalog.NewStaticProvider(input.Catalog).Snapshot(ctx, profile.Categories)
	}

	if h.catalog == nil {
		return nil, errors.NewInvalidInputSchemaError("catalog is required when no catalog source is configured")
	}

	products, err := h.catalog.Snapshot(ctx, profile.Categories)
	if err != nil {
		if _, ok := errors.AsStandardError(err); ok {
			return nil, err
		}
		return nil, errors.NewCatalogFetchFailedError("catalog", err)
	}
	return products, nil
}

func errorCode(err error) string {
	if stdErr, ok := errors.AsStandardError(err); ok {
		return string(stdErr.Code)
	}
	return string(errors.ErrCodeInternal)
}
