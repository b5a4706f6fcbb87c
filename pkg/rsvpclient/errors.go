package rsvpclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Conditions carried by failed verification calls.
const (
	ConditionInvalidArgument = "invalid-argument"
	ConditionUnavailable     = "unavailable"
	ConditionInternal        = "internal"
)

var (
	ErrInvalidTransition  = errors.New("action not allowed in current state")
	ErrBypassNotAvailable = errors.New("verification bypass is not available")
)

// APIError is a non-2xx answer from the server. Existing is set on a 409
// from create and points at the record that already holds the phone.
type APIError struct {
	Status    int
	Condition string
	Message   string
	Existing  *Lookup
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// ValidationError is a user-correctable problem with one form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// CooldownError rejects a submission made too soon after the previous one.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	seconds := int((e.Remaining + time.Second - 1) / time.Second)
	return fmt.Sprintf("נא להמתין %d שניות לפני שליחה חוזרת", seconds)
}

func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// IsWrongCode reports whether a confirm call was rejected as user-correctable.
func IsWrongCode(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Condition == ConditionInvalidArgument
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
