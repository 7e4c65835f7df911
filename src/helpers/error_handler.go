package helpers

import (
	"errors"
	"fmt"
	"sync/atomic"

	"volatility-observer/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

// NoDataMessage is the user-facing message for an empty price history.
const NoDataMessage = "No data found for the given symbol and date range"

type VolatilityError struct {
	Message string
	Cause   error
}

func (e *VolatilityError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *VolatilityError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks at the transport boundary
type NotFoundError struct{ VolatilityError }
type ComputationError struct{ VolatilityError }
type ConfigurationError struct{ VolatilityError }
type NetworkError struct{ VolatilityError }
type DataSourceError struct{ VolatilityError }
type DatabaseError struct{ VolatilityError }
type ValidationError struct{ VolatilityError }

// -----------------------------------------------------------------------------

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{VolatilityError{Message: message}}
}

func NewComputationError(message string, cause error) *ComputationError {
	return &ComputationError{VolatilityError{Message: message, Cause: cause}}
}

func NewNetworkError(message string, cause error) *NetworkError {
	return &NetworkError{VolatilityError{Message: message, Cause: cause}}
}

func NewDataSourceError(message string, cause error) *DataSourceError {
	return &DataSourceError{VolatilityError{Message: message, Cause: cause}}
}

func NewDatabaseError(message string, cause error) *DatabaseError {
	return &DatabaseError{VolatilityError{Message: message, Cause: cause}}
}

func NewConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{VolatilityError{Message: message, Cause: cause}}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{VolatilityError{Message: message}}
}

// -----------------------------------------------------------------------------

// IsNotFound reports whether err carries a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// AsComputationError wraps any error that is not already a NotFoundError or
// ComputationError so the transport layer only sees the two public kinds.
func AsComputationError(err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return err
	}
	var ce *ComputationError
	if errors.As(err, &ce) {
		return err
	}
	return &ComputationError{VolatilityError{Message: err.Error()}}
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger     *logger.Logger
	errorCount atomic.Int64
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{
		Logger: log.Named("ErrorHandler"),
	}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ErrorCount() int64 {
	return e.errorCount.Load()
}

func (e *ErrorHandler) ResetErrorCount() {
	e.errorCount.Store(0)
}

// -----------------------------------------------------------------------------

// Handle logs a non-nil error from a best-effort operation.
func (e *ErrorHandler) Handle(err error, context string) {
	if err != nil {
		e.errorCount.Add(1)
		e.Logger.Error("Error in %s: %v", context, err)
	}
}
