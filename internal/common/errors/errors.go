// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Recommendation and delivery errors.
const (
	ErrCodeInvalidEventContext ErrorCode = "INVALID_EVENT_CONTEXT"
	ErrCodeInvalidInputSchema  ErrorCode = "INVALID_INPUT_SCHEMA"

	ErrCodeCatalogFetchFailed  ErrorCode = "CATALOG_FETCH_FAILED"
	ErrCodeCatalogSearchFailed ErrorCode = "CATALOG_SEARCH_FAILED"
	ErrCodeCatalogTimeout      ErrorCode = "CATALOG_TIMEOUT"

	ErrCodeDatabaseConnectionFailed      ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeProposalRenderFailed   ErrorCode = "PROPOSAL_RENDER_FAILED"
)

// Generic errors.
const (
	ErrCodeBusinessRule    ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying error, if any, to errors.Is/As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value that is carried into the BPMN error variables.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// AsStandardError finds a *StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidEventContextError rejects a request whose budget, guest count or
// event type cannot be planned for. Never retried.
func NewInvalidEventContextError(details string) *StandardError {
	return newError(ErrCodeInvalidEventContext, "Invalid event context", details, false, nil)
}

// NewInvalidInputSchemaError reports job variables that fail the worker's input schema.
func NewInvalidInputSchemaError(details string) *StandardError {
	return newError(ErrCodeInvalidInputSchema, "Job variables do not match input schema", details, false, nil)
}

func NewCatalogFetchFailedError(source string, err error) *StandardError {
	return newError(ErrCodeCatalogFetchFailed, "Product catalog could not be loaded",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), true, err)
}

func NewCatalogSearchFailedError(index string, err error) *StandardError {
	return newError(ErrCodeCatalogSearchFailed, "Product catalog search failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true, err)
}

func NewCatalogTimeoutError(source string) *StandardError {
	return newError(ErrCodeCatalogTimeout, "Product catalog fetch timed out",
		fmt.Sprintf("source: %s", source), true, nil)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true, err)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection error", err.Error(), true, err)
}

// NewNotificationSendFailedError creates a retryable delivery error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Failed to send notification",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true, err)
}

func NewProposalRenderFailedError(err error) *StandardError {
	return newError(ErrCodeProposalRenderFailed, "Package proposals could not be rendered", err.Error(), false, err)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return newError(ErrCodeBusinessRule, message, details, false, nil)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true, err)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal codes to the error codes caught by boundary
// events in the planning process. Codes not listed are thrown as-is.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidEventContext: "INVALID_EVENT_CONTEXT",
	ErrCodeInvalidInputSchema:  "INVALID_EVENT_CONTEXT",
	ErrCodeCatalogFetchFailed:  "CATALOG_UNAVAILABLE",
	ErrCodeCatalogSearchFailed: "CATALOG_UNAVAILABLE",
	ErrCodeCatalogTimeout:      "CATALOG_UNAVAILABLE",

	ErrCodeDatabaseConnectionFailed:      "CATALOG_UNAVAILABLE",
	ErrCodeElasticsearchConnectionFailed: "CATALOG_UNAVAILABLE",

	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
	ErrCodeProposalRenderFailed:   "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns how many attempts the engine should get for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogFetchFailed,
		ErrCodeCatalogSearchFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeCatalogTimeout,
		ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "ELASTICSEARCH"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "PROPOSAL"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "RULE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TIMEOUT") || strings.Contains(codeStr, "EXTERNAL"):
		return "EXTERNAL"
	default:
		return "OTHER"
	}
}
