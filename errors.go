package restddb

import (
	"errors"
	"fmt"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// ErrorType is the closed set of REST error categories. The value is the
// HTTP status code of the category.
type ErrorType int

const (
	BadRequest          ErrorType = http.StatusBadRequest
	Unauthorized        ErrorType = http.StatusUnauthorized
	Forbidden           ErrorType = http.StatusForbidden
	NotFound            ErrorType = http.StatusNotFound
	Conflict            ErrorType = http.StatusConflict
	InternalServerError ErrorType = http.StatusInternalServerError
	ServiceUnavailable  ErrorType = http.StatusServiceUnavailable
)

var errorTypeNames = map[ErrorType]string{
	BadRequest:          "BadRequest",
	Unauthorized:        "Unauthorized",
	Forbidden:           "Forbidden",
	NotFound:            "NotFound",
	Conflict:            "Conflict",
	InternalServerError: "InternalServerError",
	ServiceUnavailable:  "ServiceUnavailable",
}

// StatusCode returns the HTTP status code of the category
func (t ErrorType) StatusCode() int {
	return int(t)
}

// IsValid reports whether t belongs to the closed set
func (t ErrorType) IsValid() bool {
	_, ok := errorTypeNames[t]
	return ok
}

// String returns the string representation
func (t ErrorType) String() string {
	if name, ok := errorTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ErrorType(%d)", int(t))
}

// StatusRange is the coarse client/server split of a status code
type StatusRange int

const (
	StatusRangeClient StatusRange = 400
	StatusRangeServer StatusRange = 500
)

// String returns the string representation
func (r StatusRange) String() string {
	if r == StatusRangeServer {
		return "Server"
	}
	return "Client"
}

// StatusRangeOf derives the range from a status code
func StatusRangeOf(code int) StatusRange {
	if code >= 500 {
		return StatusRangeServer
	}
	return StatusRangeClient
}

// Backend failure codes
const (
	ErrCodeConditionalCheckFailed = "ConditionalCheckFailedException"
	ErrCodeResourceNotFound       = "ResourceNotFoundException"
	ErrCodeValidation             = "ValidationException"
	ErrCodeInternalFailure        = "InternalFailure"
	ErrCodeServiceUnavailable     = "ServiceUnavailable"
)

// Construction errors
var (
	ErrInvalidOk  = errors.New("ok requires a default status code of 200, 201 or 204")
	ErrInvalidErr = errors.New("err requires a backend error or both an error type and a message")
)

// BackendError is a store failure normalized to its failure code and the
// HTTP status reported by the backend
type BackendError struct {
	Code       string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *BackendError) Error() string {
	return fmt.Sprintf("[%s] %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

// Unwrap returns the original store error
func (e *BackendError) Unwrap() error {
	return e.Cause
}

// NewBackendError creates a new backend error
func NewBackendError(code string, statusCode int, message string) *BackendError {
	return &BackendError{
		Code:       code,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConditionFailed is the failure every store reports when a write
// precondition does not hold
func ConditionFailed(cause error) *BackendError {
	return &BackendError{
		Code:       ErrCodeConditionalCheckFailed,
		StatusCode: http.StatusBadRequest,
		Message:    "The conditional request failed",
		Cause:      cause,
	}
}

// AsBackendError normalizes any store error into a BackendError
func AsBackendError(err error) *BackendError {
	if err == nil {
		return nil
	}

	var be *BackendError
	if errors.As(err, &be) {
		return be
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &BackendError{
			Code:       apiErr.ErrorCode(),
			StatusCode: statusOf(err, apiErr.ErrorFault()),
			Message:    apiErr.ErrorMessage(),
			Cause:      err,
		}
	}

	return &BackendError{
		Code:       ErrCodeInternalFailure,
		StatusCode: http.StatusInternalServerError,
		Message:    err.Error(),
		Cause:      err,
	}
}

func statusOf(err error, fault smithy.ErrorFault) int {
	var re *awshttp.ResponseError
	if errors.As(err, &re) && re.HTTPStatusCode() != 0 {
		return re.HTTPStatusCode()
	}

	if fault == smithy.FaultClient {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// IsConditionFailed reports whether err is a failed write precondition
func IsConditionFailed(err error) bool {
	be := AsBackendError(err)
	return be != nil && be.Code == ErrCodeConditionalCheckFailed
}

// Classify maps a backend failure onto the closed ErrorType set.
// 503 stays ServiceUnavailable and any other server status collapses to
// InternalServerError. Client-range failures consult the override table by
// failure code and fall back to BadRequest.
func Classify(backend *BackendError, overrides map[string]ErrorType) ErrorType {
	switch {
	case backend.StatusCode == http.StatusServiceUnavailable:
		return ServiceUnavailable
	case backend.StatusCode >= http.StatusInternalServerError:
		return InternalServerError
	}

	if t, ok := overrides[backend.Code]; ok {
		return t
	}
	return BadRequest
}
