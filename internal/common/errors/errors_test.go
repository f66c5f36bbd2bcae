package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func jobWithRetries(retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:     42,
		Type:    "recommend-event-packages",
		Retries: retries,
	}}
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{"invalid context", NewInvalidEventContextError("guestCount must be greater than 0"), ErrCodeInvalidEventContext, false},
		{"invalid schema", NewInvalidInputSchemaError("budgetMax: required"), ErrCodeInvalidInputSchema, false},
		{"catalog fetch", NewCatalogFetchFailedError("postgres", cause), ErrCodeCatalogFetchFailed, true},
		{"catalog search", NewCatalogSearchFailedError("products", cause), ErrCodeCatalogSearchFailed, true},
		{"catalog timeout", NewCatalogTimeoutError("elasticsearch"), ErrCodeCatalogTimeout, true},
		{"database", NewDatabaseConnectionFailedError(cause), ErrCodeDatabaseConnectionFailed, true},
		{"elasticsearch", NewElasticsearchConnectionFailedError(cause), ErrCodeElasticsearchConnectionFailed, true},
		{"notification", NewNotificationSendFailedError("email", cause), ErrCodeNotificationSendFailed, true},
		{"render", NewProposalRenderFailedError(cause), ErrCodeProposalRenderFailed, false},
		{"business rule", NewBusinessRuleError("no packages", ""), ErrCodeBusinessRule, false},
		{"external", NewExternalServiceError("ses", cause), ErrCodeExternalService, true},
		{"timeout", NewTimeoutError("sns", cause), ErrCodeTimeout, true},
		{"internal", NewInternalError(cause), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.Equal(t, tt.retryable, IsRetryableErrorCode(tt.code))
			assert.False(t, tt.err.Timestamp.IsZero())
			assert.Contains(t, tt.err.Error(), string(tt.code))
		})
	}
}

func TestStandardError_Unwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: timeout")
	wrapped := fmt.Errorf("snapshot: %w", NewCatalogFetchFailedError("postgres", cause))

	assert.True(t, stderrors.Is(wrapped, cause))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeCatalogFetchFailed, stdErr.Code)

	_, ok = AsStandardError(cause)
	assert.False(t, ok)
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewCatalogFetchFailedError("postgres", stderrors.New("boom")).
		WithMetadata("requestId", "req-1")

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "CATALOG_UNAVAILABLE", bpmnErr.Code)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.True(t, bpmnErr.Retryable)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "CATALOG_UNAVAILABLE", vars["errorCode"])
	assert.Equal(t, "CATALOG_FETCH_FAILED", vars["originalErrorCode"])
	assert.Equal(t, "req-1", vars["requestId"])
	assert.NotEmpty(t, vars["timestamp"])
}

func TestConvertToBPMNError_UnmappedCodePassesThrough(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewBusinessRuleError("rule", "details"))

	assert.Equal(t, "BUSINESS_RULE_VIOLATION", bpmnErr.Code)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeCatalogFetchFailed:            "CATALOG",
		ErrCodeCatalogTimeout:                "CATALOG",
		ErrCodeDatabaseConnectionFailed:      "STORAGE",
		ErrCodeElasticsearchConnectionFailed: "STORAGE",
		ErrCodeNotificationSendFailed:        "NOTIFICATION",
		ErrCodeProposalRenderFailed:          "NOTIFICATION",
		ErrCodeInvalidEventContext:           "VALIDATION",
		ErrCodeBusinessRule:                  "VALIDATION",
		ErrCodeTimeout:                       "EXTERNAL",
		ErrCodeInternal:                      "OTHER",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), string(code))
	}
}

func TestErrorHandler_Decide(t *testing.T) {
	h := NewErrorHandler(&recordingLogger{})

	tests := []struct {
		name        string
		err         error
		jobRetries  int32
		wantAction  JobAction
		wantRetries int
		wantCode    string
	}{
		{
			name:        "retryable with budget left",
			err:         NewCatalogFetchFailedError("postgres", stderrors.New("down")),
			jobRetries:  3,
			wantAction:  ActionFail,
			wantRetries: 2,
			wantCode:    "CATALOG_UNAVAILABLE",
		},
		{
			name:        "retryable capped by code budget",
			err:         NewCatalogFetchFailedError("postgres", stderrors.New("down")),
			jobRetries:  6,
			wantAction:  ActionFail,
			wantRetries: 3,
			wantCode:    "CATALOG_UNAVAILABLE",
		},
		{
			name:       "retryable on last attempt",
			err:        NewCatalogTimeoutError("elasticsearch"),
			jobRetries: 1,
			wantAction: ActionThrow,
			wantCode:   "CATALOG_UNAVAILABLE",
		},
		{
			name:       "retryable on exhausted job",
			err:        NewNotificationSendFailedError("email", stderrors.New("throttled")),
			jobRetries: 0,
			wantAction: ActionThrow,
			wantCode:   "NOTIFICATION_SEND_FAILED",
		},
		{
			name:       "non-retryable",
			err:        NewInvalidEventContextError("guestCount must be greater than 0"),
			jobRetries: 3,
			wantAction: ActionThrow,
			wantCode:   "INVALID_EVENT_CONTEXT",
		},
		{
			name:       "plain error becomes internal",
			err:        stderrors.New("nil map"),
			jobRetries: 3,
			wantAction: ActionThrow,
			wantCode:   "INTERNAL_ERROR",
		},
		{
			name:        "wrapped standard error is found",
			err:         fmt.Errorf("execute: %w", NewCatalogSearchFailedError("products", stderrors.New("503"))),
			jobRetries:  3,
			wantAction:  ActionFail,
			wantRetries: 2,
			wantCode:    "CATALOG_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := h.Decide(jobWithRetries(tt.jobRetries), tt.err)

			assert.Equal(t, tt.wantAction, d.Action)
			assert.Equal(t, tt.wantRetries, d.Retries)
			assert.Equal(t, tt.wantCode, d.BPMN.Code)
		})
	}
}

func TestErrorHandler_Decide_RetriesRunOut(t *testing.T) {
	h := NewErrorHandler(&recordingLogger{})
	err := NewCatalogFetchFailedError("postgres", stderrors.New("down"))

	retries := int32(3)
	var seen []int
	for attempt := 0; attempt < 10; attempt++ {
		d := h.Decide(jobWithRetries(retries), err)
		if d.Action == ActionThrow {
			assert.Equal(t, "CATALOG_UNAVAILABLE", d.BPMN.Code)
			assert.Equal(t, []int{2, 1}, seen)
			return
		}
		seen = append(seen, d.Retries)
		retries = int32(d.Retries)
	}
	t.Fatalf("job was never thrown, retries sent: %v", seen)
}
