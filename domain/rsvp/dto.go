package rsvp

import (
	"time"

	"github.com/akeren/purim-rsvp/internal/branches"
	"github.com/akeren/purim-rsvp/internal/models"
)

type CreateRSVPRequest struct {
	FirstName           string `json:"first_name" binding:"required,hebrew_name"`
	LastName            string `json:"last_name" binding:"required,hebrew_name"`
	Phone               string `json:"phone" binding:"required,il_mobile"`
	Branch              string `json:"branch" binding:"required,max=100"`
	CustomBranch        string `json:"custom_branch" binding:"omitempty,max=100"`
	NeedsTransportation bool   `json:"needs_transportation"`
}

// UpdateRSVPRequest carries every attendee-editable field. Phone and
// verification state are deliberately absent.
type UpdateRSVPRequest struct {
	FirstName           string `json:"first_name" binding:"required,hebrew_name"`
	LastName            string `json:"last_name" binding:"required,hebrew_name"`
	Branch              string `json:"branch" binding:"required,max=100"`
	CustomBranch        string `json:"custom_branch" binding:"omitempty,max=100"`
	NeedsTransportation bool   `json:"needs_transportation"`
}

type RSVPResponse struct {
	ID                  string  `json:"id"`
	FirstName           string  `json:"first_name"`
	LastName            string  `json:"last_name"`
	FullName            string  `json:"full_name"`
	Phone               string  `json:"phone"`
	Branch              string  `json:"branch"`
	BranchDisplayName   string  `json:"branch_display_name"`
	CustomBranch        bool    `json:"custom_branch"`
	NeedsTransportation bool    `json:"needs_transportation"`
	PhoneVerified       bool    `json:"phone_verified"`
	PhoneVerifiedAt     *string `json:"phone_verified_at"`
	VerificationMethod  string  `json:"verification_method,omitempty"`
	SubmittedAt         string  `json:"submitted_at"`
	LastModifiedAt      string  `json:"last_modified_at"`
}

// RSVPAccessResponse is a record together with the token that unlocks it.
type RSVPAccessResponse struct {
	RSVPResponse
	AccessToken
}

// LookupResponse answers "does this phone have an RSVP" without revealing
// the record's contents.
type LookupResponse struct {
	Exists        bool   `json:"exists"`
	ID            string `json:"id,omitempty"`
	PhoneVerified bool   `json:"phone_verified"`
}

type BranchesResponse struct {
	Groups          []branches.Group `json:"groups"`
	Custom          branches.Branch  `json:"custom"`
	NoShuttleCity   string           `json:"no_shuttle_city"`
	NoShuttleNotice string           `json:"no_shuttle_notice"`
}

// ========================================
// Mappers
// ========================================

func ToRSVPResponse(rsvp *models.RSVP) RSVPResponse {
	if rsvp == nil {
		return RSVPResponse{}
	}

	response := RSVPResponse{
		ID:                  rsvp.ID,
		FirstName:           rsvp.FirstName,
		LastName:            rsvp.LastName,
		FullName:            rsvp.FullName,
		Phone:               rsvp.Phone,
		Branch:              rsvp.Branch,
		BranchDisplayName:   rsvp.BranchDisplayName,
		CustomBranch:        rsvp.CustomBranch,
		NeedsTransportation: rsvp.NeedsTransportation,
		PhoneVerified:       rsvp.PhoneVerified,
		VerificationMethod:  rsvp.VerificationMethod,
		SubmittedAt:         rsvp.SubmittedAt.UTC().Format(time.RFC3339),
		LastModifiedAt:      rsvp.LastModifiedAt.UTC().Format(time.RFC3339),
	}

	if rsvp.PhoneVerifiedAt != nil {
		verifiedAt := rsvp.PhoneVerifiedAt.UTC().Format(time.RFC3339)
		response.PhoneVerifiedAt = &verifiedAt
	}

	return response
}

func ToLookupResponse(rsvp *models.RSVP) LookupResponse {
	if rsvp == nil {
		return LookupResponse{}
	}
	return LookupResponse{
		Exists:        true,
		ID:            rsvp.ID,
		PhoneVerified: rsvp.PhoneVerified,
	}
}

func NewBranchesResponse() BranchesResponse {
	return BranchesResponse{
		Groups:          branches.Groups(),
		Custom:          branches.Branch{Key: branches.CustomKey, Label: branches.CustomLabel},
		NoShuttleCity:   branches.NoShuttleCity,
		NoShuttleNotice: branches.NoShuttleNotice,
	}
}
