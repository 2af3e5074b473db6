package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrHTTPClient       = new(ErrCodeHTTPClient, "http client error")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")
	ErrRateLimited      = new(ErrCodeRateLimited, "too many requests")

	// invoice lifecycle errors
	ErrInvalidAmount      = new(ErrCodeInvalidAmount, "amount too low")
	ErrExceedsOutstanding = new(ErrCodeExceedsOutstanding, "amount greater than remaining balance")
	ErrAlreadyPaid        = new(ErrCodeAlreadyPaid, "invoice already paid")
	ErrValueOutOfRange    = new(ErrCodeValueOutOfRange, "value out-of-bounds")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:         http.StatusInternalServerError,
		ErrDatabase:           http.StatusInternalServerError,
		ErrNotFound:           http.StatusNotFound,
		ErrAlreadyExists:      http.StatusConflict,
		ErrValidation:         http.StatusBadRequest,
		ErrInvalidOperation:   http.StatusBadRequest,
		ErrSystem:             http.StatusInternalServerError,
		ErrRateLimited:        http.StatusTooManyRequests,
		ErrInvalidAmount:      http.StatusBadRequest,
		ErrExceedsOutstanding: http.StatusBadRequest,
		ErrAlreadyPaid:        http.StatusConflict,
		ErrValueOutOfRange:    http.StatusBadRequest,
	}
)

const (
	ErrCodeHTTPClient         = "http_client_error"
	ErrCodeSystemError        = "system_error"
	ErrCodeNotFound           = "not_found"
	ErrCodeAlreadyExists      = "already_exists"
	ErrCodeValidation         = "validation_error"
	ErrCodeInvalidOperation   = "invalid_operation"
	ErrCodeDatabase           = "database_error"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeInvalidAmount      = "invalid_amount"
	ErrCodeExceedsOutstanding = "exceeds_outstanding"
	ErrCodeAlreadyPaid        = "already_paid"
	ErrCodeValueOutOfRange    = "value_out_of_range"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError with the given code, used by packages that
// need their own sentinel (e.g. the http client)
func New(code string, message string) *InternalError {
	return new(code, message)
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// IsInvalidAmount checks if an invoice was rejected for a non-positive amount
func IsInvalidAmount(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}

// IsExceedsOutstanding checks if a payment was larger than the outstanding balance
func IsExceedsOutstanding(err error) bool {
	return errors.Is(err, ErrExceedsOutstanding)
}

// IsAlreadyPaid checks if a payment targeted a settled invoice
func IsAlreadyPaid(err error) bool {
	return errors.Is(err, ErrAlreadyPaid)
}

// IsValueOutOfRange checks if an input could not be encoded as an unsigned 256 bit integer
func IsValueOutOfRange(err error) bool {
	return errors.Is(err, ErrValueOutOfRange)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// IsRateLimited checks if a request was rejected by the rate limiter
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
