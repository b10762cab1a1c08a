package models

import "fmt"

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeExternal   ErrorType = "external"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeCancelled  ErrorType = "cancelled"
)

type AppError struct {
	Code     string                 `json:"code"`
	Message  string                 `json:"message"`
	Type     ErrorType              `json:"type"`
	Cause    error                  `json:"-"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(err error) *AppError {
	clone := *e
	clone.Cause = err
	return &clone
}

func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	clone := *e
	clone.Metadata = make(map[string]interface{}, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		clone.Metadata[k] = v
	}
	clone.Metadata[key] = value
	return &clone
}

func NewValidationError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Type: ErrorTypeValidation}
}

func NewTimeoutError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Type: ErrorTypeTimeout}
}

func NewExternalError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Type: ErrorTypeExternal}
}

func NewInternalError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Type: ErrorTypeInternal}
}

func NewNotFoundError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Type: ErrorTypeNotFound}
}

func WrapExternalError(service string, err error) *AppError {
	return &AppError{
		Code:    fmt.Sprintf("%s_ERROR", service),
		Message: fmt.Sprintf("%s request failed", service),
		Type:    ErrorTypeExternal,
		Cause:   err,
	}
}

var ErrWorkflowNotFound = NewNotFoundError("WORKFLOW_NOT_FOUND", "workflow not found or not active")

var ErrWorkflowCancelled = &AppError{
	Code:    "WORKFLOW_CANCELLED",
	Message: "workflow cancelled before completion",
	Type:    ErrorTypeCancelled,
}
