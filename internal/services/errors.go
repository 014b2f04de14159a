// Package services provides the business logic layer between handlers and the
// analysis pipeline.
package services

import (
	"errors"

	"github.com/soltixdb/pindex/internal/models"
)

// Service error codes
const (
	CodeInvalidRange         = "INVALID_RANGE"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeInsufficientData     = "INSUFFICIENT_DATA"
	CodeEmptyDataset         = "EMPTY_DATASET"
	CodeNotFound             = "NOT_FOUND"
	CodeRebuildInProgress    = "REBUILD_IN_PROGRESS"
	CodeInternal             = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`

	err error
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap returns the pipeline error this service error was built from
func (e *ServiceError) Unwrap() error {
	return e.err
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// wrapError classifies a pipeline error by its kind. Errors that already are
// service errors pass through unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}

	code := CodeInternal
	switch {
	case errors.Is(err, models.ErrRange):
		code = CodeInvalidRange
	case errors.Is(err, models.ErrConfiguration):
		code = CodeInvalidConfiguration
	case errors.Is(err, models.ErrInsufficientData):
		code = CodeInsufficientData
	case errors.Is(err, models.ErrEmptyDataset):
		code = CodeEmptyDataset
	case errors.Is(err, models.ErrNotFound):
		code = CodeNotFound
	}
	return &ServiceError{Code: code, Message: err.Error(), err: err}
}
