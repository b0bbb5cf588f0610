package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory represents the different failure classes of the engine.
type ErrorCategory string

const (
	// Fatal errors that should stop a run
	ErrorCategoryFatal         ErrorCategory = "FATAL"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	ErrorCategoryStrategyDoc   ErrorCategory = "STRATEGY_DOC"

	// Pipeline errors surfaced per run
	ErrorCategoryData       ErrorCategory = "DATA"
	ErrorCategoryIndicator  ErrorCategory = "INDICATOR"
	ErrorCategoryEvaluation ErrorCategory = "EVALUATION"
	ErrorCategoryPortfolio  ErrorCategory = "PORTFOLIO"

	// Transient errors worth retrying at the data boundary
	ErrorCategoryNetwork ErrorCategory = "NETWORK"
	ErrorCategoryTimeout ErrorCategory = "TIMEOUT"
)

// EngineError is a categorized error with component context.
type EngineError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Retryable  bool
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s in %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s in %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns whether this error can be retried
func (e *EngineError) IsRetryable() bool {
	return e.Retryable
}

// IsFatal returns whether this error should stop the run
func (e *EngineError) IsFatal() bool {
	return e.Category == ErrorCategoryFatal ||
		e.Category == ErrorCategoryConfiguration ||
		e.Category == ErrorCategoryStrategyDoc
}

// New creates a new categorized engine error
func New(category ErrorCategory, component, operation, message string) *EngineError {
	return &EngineError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Retryable: isRetryableCategory(category),
	}
}

// Wrap wraps an existing error with engine error context
func Wrap(err error, category ErrorCategory, component, operation string) *EngineError {
	if err == nil {
		return nil
	}

	return &EngineError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Retryable:  isRetryableCategory(category),
	}
}

// WithRetryable sets the retryable flag
func (e *EngineError) WithRetryable(retryable bool) *EngineError {
	e.Retryable = retryable
	return e
}

func isRetryableCategory(category ErrorCategory) bool {
	switch category {
	case ErrorCategoryNetwork, ErrorCategoryTimeout:
		return true
	default:
		return false
	}
}

// Categorize attempts to classify a generic error by message. Anything
// unrecognized lands in the evaluation bucket, non-retryable.
func Categorize(err error, component, operation string) *EngineError {
	if err == nil {
		return nil
	}

	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "context deadline exceeded") {
		return Wrap(err, ErrorCategoryTimeout, component, operation)
	}
	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "dial") {
		return Wrap(err, ErrorCategoryNetwork, component, operation)
	}
	if strings.Contains(errMsg, "unresolved constant") || strings.Contains(errMsg, "validation") {
		return Wrap(err, ErrorCategoryStrategyDoc, component, operation)
	}
	if strings.Contains(errMsg, "timestamp") || strings.Contains(errMsg, "parse") {
		return Wrap(err, ErrorCategoryData, component, operation)
	}

	return Wrap(err, ErrorCategoryEvaluation, component, operation)
}
