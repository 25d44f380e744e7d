// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Document pipeline error codes.
const (
	ErrCodeProseGenerationFailed ErrorCode = "PROSE_GENERATION_FAILED"
	ErrCodeGenerationTimeout     ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeProseShapeInvalid     ErrorCode = "PROSE_SHAPE_INVALID"

	ErrCodeDocumentTypeUnknown ErrorCode = "DOCUMENT_TYPE_UNKNOWN"
	ErrCodeRenderFailed        ErrorCode = "RENDER_FAILED"

	ErrCodeRequirementsLookupFailed ErrorCode = "REQUIREMENTS_LOOKUP_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeAuditIndexFailed       ErrorCode = "AUDIT_INDEX_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeDealInputInvalid ErrorCode = "DEAL_INPUT_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
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

// NewProseGenerationFailedError creates a retryable content-generator error.
func NewProseGenerationFailedError(docType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProseGenerationFailed,
		Message:   "Content generator error",
		Details:   fmt.Sprintf("docType: %s, error: %s", docType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationTimeoutError creates a retryable generator timeout error.
func NewGenerationTimeoutError(docType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Content generation timeout",
		Details:   fmt.Sprintf("docType: %s", docType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProseShapeInvalidError creates a non-retryable generator payload error.
func NewProseShapeInvalidError(docType, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProseShapeInvalid,
		Message:   "Generated prose failed schema validation",
		Details:   fmt.Sprintf("docType: %s, %s", docType, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentTypeUnknownError creates a non-retryable unknown type error.
func NewDocumentTypeUnknownError(docType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentTypeUnknown,
		Message:   "Document type is not registered",
		Details:   fmt.Sprintf("docType: %s", docType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequirementsLookupFailedError creates a retryable program lookup error.
func NewRequirementsLookupFailedError(productLine string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequirementsLookupFailed,
		Message:   "Required document list lookup failed",
		Details:   fmt.Sprintf("productLine: %s, error: %s", productLine, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("query: %s", queryName),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuditIndexFailedError creates a retryable audit indexing error.
func NewAuditIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditIndexFailed,
		Message:   "Audit trail indexing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDealInputInvalidError creates a non-retryable deal input error.
func NewDealInputInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDealInputInvalid,
		Message:   "Deal input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProseGenerationFailed, ErrCodeGenerationTimeout:
		return 2
	case ErrCodeRequirementsLookupFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryTimeout,
		ErrCodeAuditIndexFailed,
		ErrCodeNotificationSendFailed,
		"EXTERNAL_SERVICE_ERROR",
		"TIMEOUT_ERROR":
		return 3
	default:
		return 0
	}
}

// IsRetryable reports whether the code carries a non-zero retry budget.
func IsRetryable(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the coarse category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeProseGenerationFailed, ErrCodeGenerationTimeout, ErrCodeProseShapeInvalid:
		return "generator"
	case ErrCodeRequirementsLookupFailed, ErrCodeDatabaseConnectionFailed, ErrCodeQueryTimeout:
		return "data-access"
	case ErrCodeAuditIndexFailed, ErrCodeNotificationSendFailed:
		return "delivery"
	case ErrCodeDocumentTypeUnknown, ErrCodeRenderFailed, ErrCodeDealInputInvalid:
		return "business"
	default:
		return "internal"
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN error codes are identical to the internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        GetRetryCount(stdErr.Code),
		ErrorVariables: stdErr.Metadata,
	}
}
