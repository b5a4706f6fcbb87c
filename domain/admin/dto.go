package admin

import "github.com/akeren/purim-rsvp/domain/rsvp"

// Sort fields accepted by the listing endpoint.
const (
	SortSubmittedAt = "submitted_at"
	SortBranch      = "branch"
	SortFullName    = "full_name"

	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type ListQuery struct {
	Search    string `form:"search" binding:"omitempty,max=100"`
	Branch    string `form:"branch" binding:"omitempty,max=100"`
	Sort      string `form:"sort" binding:"omitempty,oneof=submitted_at branch full_name"`
	Direction string `form:"direction" binding:"omitempty,oneof=asc desc"`
}

type ListResponse struct {
	Count int                 `json:"count"`
	RSVPs []rsvp.RSVPResponse `json:"rsvps"`
}

// UpdateRSVPRequest is the operator's edit. Phone is optional and may change
// only while the record is unverified.
type UpdateRSVPRequest struct {
	FirstName           string `json:"first_name" binding:"required,hebrew_name"`
	LastName            string `json:"last_name" binding:"required,hebrew_name"`
	Phone               string `json:"phone" binding:"omitempty,il_mobile"`
	Branch              string `json:"branch" binding:"required,max=100"`
	CustomBranch        string `json:"custom_branch" binding:"omitempty,max=100"`
	NeedsTransportation bool   `json:"needs_transportation"`
}

type Passenger struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type BranchRiders struct {
	Branch      string      `json:"branch"`
	DisplayName string      `json:"display_name"`
	Count       int         `json:"count"`
	Passengers  []Passenger `json:"passengers"`
}

type StatsResponse struct {
	Total                  int            `json:"total"`
	NeedingTransportation  int            `json:"needing_transportation"`
	DistinctBranches       int            `json:"distinct_branches"`
	Verified               int            `json:"verified"`
	VerifiedByBypass       int            `json:"verified_by_bypass"`
	TransportationByBranch []BranchRiders `json:"transportation_by_branch"`
}
