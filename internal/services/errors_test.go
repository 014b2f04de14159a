package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/soltixdb/pindex/internal/models"
)

func TestServiceError_Error(t *testing.T) {
	err := &ServiceError{
		Code:    "TEST_ERROR",
		Message: "Test error message",
	}

	if err.Error() != "Test error message" {
		t.Errorf("Expected 'Test error message', got '%s'", err.Error())
	}
}

func TestNewServiceError(t *testing.T) {
	err := NewServiceError("ERROR_CODE", "Error message")

	if err.Code != "ERROR_CODE" {
		t.Errorf("Expected code 'ERROR_CODE', got '%s'", err.Code)
	}
	if err.Details != nil {
		t.Errorf("Expected nil details, got %v", err.Details)
	}
}

func TestNewServiceErrorWithDetails(t *testing.T) {
	details := map[string]interface{}{"crime_type": "Theft"}
	err := NewServiceErrorWithDetails(CodeNotFound, "unknown crime", details)

	if err.Details["crime_type"] != "Theft" {
		t.Errorf("Expected details to be kept, got %v", err.Details)
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("month 13: %w", models.ErrRange), CodeInvalidRange},
		{fmt.Errorf("overlap: %w", models.ErrConfiguration), CodeInvalidConfiguration},
		{fmt.Errorf("march: %w", models.ErrInsufficientData), CodeInsufficientData},
		{fmt.Errorf("averages: %w", models.ErrEmptyDataset), CodeEmptyDataset},
		{fmt.Errorf("crime %q: %w", "Arson", models.ErrNotFound), CodeNotFound},
		{errors.New("disk full"), CodeInternal},
	}

	for _, tt := range tests {
		wrapped := wrapError(tt.err)
		var svcErr *ServiceError
		if !errors.As(wrapped, &svcErr) {
			t.Fatalf("wrapError(%v) is not a ServiceError", tt.err)
		}
		if svcErr.Code != tt.code {
			t.Errorf("wrapError(%v) code = %s, want %s", tt.err, svcErr.Code, tt.code)
		}
		if !errors.Is(wrapped, tt.err) {
			t.Errorf("wrapError(%v) lost the original error", tt.err)
		}
	}

	if wrapError(nil) != nil {
		t.Error("wrapError(nil) should be nil")
	}

	original := NewServiceError(CodeRebuildInProgress, "busy")
	if wrapError(original) != error(original) {
		t.Error("service errors should pass through")
	}
}
