package rsvp

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/purim-rsvp/internal/branches"
	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/internal/models"
	apperrors "github.com/akeren/purim-rsvp/pkg/errors"
	"github.com/akeren/purim-rsvp/pkg/validation"
)

type RSVPService interface {
	// CreateRSVP stores a new unverified RSVP. When the phone already has a
	// record the conflict wraps an *ExistingRSVPError.
	CreateRSVP(ctx context.Context, req *CreateRSVPRequest, ipAddress string) (*RSVPResponse, error)

	// FindRSVPByID retrieves an RSVP by its ID.
	FindRSVPByID(ctx context.Context, id string) (*RSVPResponse, error)

	// LookupByPhone reports whether a phone already has an RSVP.
	LookupByPhone(ctx context.Context, phone string) (*LookupResponse, error)

	// UpdateRSVP edits a verified RSVP. Phone and verification state never change here.
	UpdateRSVP(ctx context.Context, id string, req *UpdateRSVPRequest) (*RSVPResponse, error)

	// BypassVerification marks an RSVP verified without a gateway confirmation.
	BypassVerification(ctx context.Context, id string) (*RSVPResponse, error)
}

// Settings holds the event-level switches the service enforces.
type Settings struct {
	// ClosesAt stops new submissions and edits once passed. Nil keeps registration open.
	ClosesAt *time.Time
	// BypassEnabled allows users to continue without an SMS confirmation.
	BypassEnabled bool
	// Now is replaceable in tests.
	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Settings) registrationClosed() bool {
	return s.ClosesAt != nil && !s.now().Before(*s.ClosesAt)
}

// AttendeeFields is a validated, normalized set of attendee-editable values.
type AttendeeFields struct {
	FirstName           string
	LastName            string
	FullName            string
	Branch              string
	BranchDisplayName   string
	CustomBranch        bool
	NeedsTransportation bool
}

// ResolveAttendeeFields validates names, resolves the branch choice and
// applies the no-shuttle rule.
func ResolveAttendeeFields(firstName, lastName, branch, customBranch string, needsTransportation bool) (AttendeeFields, error) {
	first := validation.NormalizeName(firstName)
	last := validation.NormalizeName(lastName)

	if !validation.IsHebrewName(first) || !validation.IsHebrewName(last) {
		return AttendeeFields{}, apperrors.NewInvalidRequestError("names must contain Hebrew letters only", nil)
	}

	selection, err := branches.Resolve(branch, validation.SanitizeText(customBranch))
	if err != nil {
		return AttendeeFields{}, apperrors.NewInvalidRequestError(err.Error(), err)
	}

	return AttendeeFields{
		FirstName:           first,
		LastName:            last,
		FullName:            FullName(first, last),
		Branch:              selection.Value,
		BranchDisplayName:   selection.DisplayName,
		CustomBranch:        selection.Custom,
		NeedsTransportation: needsTransportation && !selection.NoShuttle,
	}, nil
}

// Updates renders the fields as repository column updates.
func (f AttendeeFields) Updates(modifiedAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"first_name":           f.FirstName,
		"last_name":            f.LastName,
		"full_name":            f.FullName,
		"branch":               f.Branch,
		"branch_display_name":  f.BranchDisplayName,
		"custom_branch":        f.CustomBranch,
		"needs_transportation": f.NeedsTransportation,
		"last_modified_at":     modifiedAt,
	}
}

func FullName(first, last string) string {
	return validation.NormalizeName(first + " " + last)
}

type rsvpService struct {
	logger     *log.Logger
	repository RSVPRepository
	settings   Settings
}

func NewRSVPService(logger *log.Logger, repository RSVPRepository, settings Settings) RSVPService {
	return &rsvpService{logger: logger, repository: repository, settings: settings}
}

func (s *rsvpService) CreateRSVP(ctx context.Context, req *CreateRSVPRequest, ipAddress string) (*RSVPResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("CreateRSVP received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	if s.settings.registrationClosed() {
		logger.Warn("CreateRSVP rejected after registration closed")
		return nil, apperrors.NewForbiddenError("registration is closed", ErrRegistrationClosed)
	}

	phone, ok := validation.NormalizeIsraeliMobile(req.Phone)
	if !ok {
		logger.Error("CreateRSVP received invalid phone number")
		return nil, apperrors.NewInvalidRequestError("invalid phone number", nil)
	}

	fields, err := ResolveAttendeeFields(req.FirstName, req.LastName, req.Branch, req.CustomBranch, req.NeedsTransportation)
	if err != nil {
		logger.Error("CreateRSVP received invalid attendee fields", "error", err)
		return nil, err
	}

	// The unique index on phone is what actually prevents duplicates; this read
	// only spares the insert in the common case.
	if existing, err := s.repository.FindRSVPByPhone(ctx, phone); err == nil {
		logger.Info("CreateRSVP found existing RSVP for phone", "id", existing.ID)
		return nil, apperrors.NewConflictError("an RSVP already exists for this phone number", newExistingRSVPError(existing))
	} else if apperrors.GetErrorType(err) != apperrors.ErrorTypeNotFound {
		logger.Error("Failed to look up RSVP by phone", "error", err)
		return nil, err
	}

	now := s.settings.now()
	created, err := s.repository.CreateRSVP(ctx, &models.RSVP{
		FirstName:           fields.FirstName,
		LastName:            fields.LastName,
		FullName:            fields.FullName,
		Phone:               phone,
		Branch:              fields.Branch,
		BranchDisplayName:   fields.BranchDisplayName,
		CustomBranch:        fields.CustomBranch,
		NeedsTransportation: fields.NeedsTransportation,
		IPAddress:           ipAddress,
		SubmittedAt:         now,
		LastModifiedAt:      now,
	})
	if err != nil {
		if apperrors.GetErrorType(err) == apperrors.ErrorTypeConflict {
			return nil, s.conflictForPhone(ctx, logger, phone, err)
		}
		logger.Error("Failed to create RSVP", "error", err)
		return nil, err
	}

	logger.Info("RSVP created", "id", created.ID)

	response := ToRSVPResponse(created)
	return &response, nil
}

// conflictForPhone resolves the record that won a concurrent insert.
func (s *rsvpService) conflictForPhone(ctx context.Context, logger *log.Logger, phone string, cause error) error {
	existing, err := s.repository.FindRSVPByPhone(ctx, phone)
	if err != nil {
		logger.Error("Insert conflicted but existing RSVP could not be loaded", "error", err)
		return cause
	}

	logger.Info("CreateRSVP lost insert race to existing RSVP", "id", existing.ID)
	return apperrors.NewConflictError("an RSVP already exists for this phone number", newExistingRSVPError(existing))
}

func (s *rsvpService) FindRSVPByID(ctx context.Context, id string) (*RSVPResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if id == "" {
		logger.Error("FindRSVPByID received empty ID")
		return nil, apperrors.NewInvalidRequestError("RSVP ID cannot be empty", nil)
	}

	rsvp, err := s.repository.FindRSVPByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find RSVP", "id", id, "error", err)
		return nil, err
	}

	response := ToRSVPResponse(rsvp)
	return &response, nil
}

func (s *rsvpService) LookupByPhone(ctx context.Context, phone string) (*LookupResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	normalized, ok := validation.NormalizeIsraeliMobile(phone)
	if !ok {
		logger.Error("LookupByPhone received invalid phone number")
		return nil, apperrors.NewInvalidRequestError("invalid phone number", nil)
	}

	rsvp, err := s.repository.FindRSVPByPhone(ctx, normalized)
	if err != nil {
		if apperrors.GetErrorType(err) == apperrors.ErrorTypeNotFound {
			return &LookupResponse{Exists: false}, nil
		}
		logger.Error("Failed to look up RSVP by phone", "error", err)
		return nil, err
	}

	response := ToLookupResponse(rsvp)
	return &response, nil
}

func (s *rsvpService) UpdateRSVP(ctx context.Context, id string, req *UpdateRSVPRequest) (*RSVPResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if id == "" {
		logger.Error("UpdateRSVP received empty ID")
		return nil, apperrors.NewInvalidRequestError("RSVP ID cannot be empty", nil)
	}

	if req == nil {
		logger.Error("UpdateRSVP received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	if s.settings.registrationClosed() {
		logger.Warn("UpdateRSVP rejected after registration closed", "id", id)
		return nil, apperrors.NewForbiddenError("registration is closed", ErrRegistrationClosed)
	}

	current, err := s.repository.FindRSVPByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find RSVP for update", "id", id, "error", err)
		return nil, err
	}

	if !current.PhoneVerified {
		logger.Warn("UpdateRSVP rejected for unverified RSVP", "id", id)
		return nil, apperrors.NewForbiddenError("phone number must be verified before editing", ErrNotVerified)
	}

	fields, err := ResolveAttendeeFields(req.FirstName, req.LastName, req.Branch, req.CustomBranch, req.NeedsTransportation)
	if err != nil {
		logger.Error("UpdateRSVP received invalid attendee fields", "id", id, "error", err)
		return nil, err
	}

	if err := s.repository.UpdateRSVP(ctx, id, fields.Updates(s.settings.now())); err != nil {
		logger.Error("Failed to update RSVP", "id", id, "error", err)
		return nil, err
	}

	return s.FindRSVPByID(ctx, id)
}

func (s *rsvpService) BypassVerification(ctx context.Context, id string) (*RSVPResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if !s.settings.BypassEnabled {
		logger.Warn("BypassVerification attempted while disabled", "id", id)
		return nil, apperrors.NewForbiddenError("verification bypass is disabled", ErrBypassDisabled)
	}

	if id == "" {
		logger.Error("BypassVerification received empty ID")
		return nil, apperrors.NewInvalidRequestError("RSVP ID cannot be empty", nil)
	}

	current, err := s.repository.FindRSVPByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find RSVP for bypass", "id", id, "error", err)
		return nil, err
	}

	if current.PhoneVerified {
		response := ToRSVPResponse(current)
		return &response, nil
	}

	if err := s.repository.MarkPhoneVerified(ctx, id, models.VerificationMethodBypass, s.settings.now()); err != nil {
		logger.Error("Failed to mark RSVP verified by bypass", "id", id, "error", err)
		return nil, err
	}

	logger.Warn("RSVP verified without gateway confirmation", "id", id)

	return s.FindRSVPByID(ctx, id)
}

// ExistingRSVPFrom extracts the conflict payload from err, if any.
func ExistingRSVPFrom(err error) (*ExistingRSVPError, bool) {
	var existing *ExistingRSVPError
	if errors.As(err, &existing) {
		return existing, true
	}
	return nil, false
}
