// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// JobAction is what the handler does with a failed job.
type JobAction string

const (
	ActionFail  JobAction = "fail"
	ActionThrow JobAction = "throw"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler turns worker errors into Zeebe fail or throw-error commands.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Decision is the outcome of classifying one job error.
type Decision struct {
	Action  JobAction
	Retries int
	Error   *StandardError
	BPMN    *BPMNError
}

// Decide classifies err for job. A retryable error fails the job with one
// retry fewer than it was activated with, capped by the code's retry budget.
// Non-retryable errors, and retryable ones on the job's last attempt, throw a
// BPMN error.
func (h *ErrorHandler) Decide(job entities.Job, err error) Decision {
	stdErr := normalizeError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	remaining := int(job.Retries) - 1
	if bpmnErr.Retries > 0 && remaining > 0 {
		if remaining > bpmnErr.Retries {
			remaining = bpmnErr.Retries
		}
		return Decision{Action: ActionFail, Retries: remaining, Error: stdErr, BPMN: bpmnErr}
	}
	return Decision{Action: ActionThrow, Error: stdErr, BPMN: bpmnErr}
}

// HandleJobError handles any error in a worker job
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	d := h.Decide(job, err)
	h.logError(job, d)

	if d.Action == ActionFail {
		h.failJobWithRetries(ctx, client, job, d.BPMN, d.Retries)
		return
	}
	h.throwBPMNError(ctx, client, job, d.BPMN)
}

func normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(retries)).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			if _, err := withVars.Send(ctx); err != nil {
				h.logSendFailure(job, "fail", err)
			}
			return
		}
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logSendFailure(job, "fail", err)
	}
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			if _, err := withVars.Send(ctx); err != nil {
				h.logSendFailure(job, "throw", err)
			}
			return
		}
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logSendFailure(job, "throw", err)
	}
}

func (h *ErrorHandler) logError(job entities.Job, d Decision) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(d.Error.Code),
		"bpmnErrorCode":    d.BPMN.Code,
		"message":          d.BPMN.Message,
		"details":          d.Error.Details,
		"retryable":        d.Error.Retryable,
		"action":           string(d.Action),
		"retries":          d.Retries,
		"errorCategory":    GetErrorCategory(d.Error.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}

func (h *ErrorHandler) logSendFailure(job entities.Job, command string, err error) {
	h.logger.Error("Failed to send job command", map[string]interface{}{
		"jobKey":  job.Key,
		"command": command,
		"error":   err.Error(),
	})
}
