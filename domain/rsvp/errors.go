package rsvp

import (
	"errors"

	"github.com/akeren/purim-rsvp/internal/models"
)

var (
	ErrRegistrationClosed = errors.New("registration is closed")
	ErrNotVerified        = errors.New("phone number must be verified before editing")
	ErrBypassDisabled     = errors.New("verification bypass is disabled")
)

// ExistingRSVPError is wrapped in the conflict returned when a phone already
// has a record. It carries only what the caller needs to start verification.
type ExistingRSVPError struct {
	ID            string
	PhoneVerified bool
}

func (e *ExistingRSVPError) Error() string {
	return "an RSVP already exists for this phone number"
}

func newExistingRSVPError(rsvp *models.RSVP) *ExistingRSVPError {
	return &ExistingRSVPError{ID: rsvp.ID, PhoneVerified: rsvp.PhoneVerified}
}
