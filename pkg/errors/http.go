package errors

import (
	"errors"
	"net/http"
)

func HTTPStatusCode(err error) int {
	switch GetErrorType(err) {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetHumanReadableMessage never exposes the text of a wrapped cause.
func GetHumanReadableMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "An unexpected error occurred"
}

// Named failure conditions reported by the verification endpoints.
const (
	ConditionInvalidArgument = "invalid-argument"
	ConditionUnavailable     = "unavailable"
	ConditionInternal        = "internal"
)

// Condition collapses an error into one of the three client-facing conditions.
func Condition(err error) string {
	switch GetErrorType(err) {
	case ErrorTypeInvalidRequest:
		return ConditionInvalidArgument
	case ErrorTypeUnavailable:
		return ConditionUnavailable
	default:
		return ConditionInternal
	}
}
