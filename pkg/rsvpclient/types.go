package rsvpclient

// Record is the server's view of an RSVP.
type Record struct {
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
	// AccessToken is only present on create and bypass responses.
	AccessToken         string  `json:"access_token,omitempty"`
}

// TransportationLabel renders the transportation answer the way the summary shows it.
func (r Record) TransportationLabel() string {
	if r.NeedsTransportation {
		return "כן"
	}
	return "לא"
}

// Lookup answers whether a phone already has an RSVP, without its contents.
type Lookup struct {
	Exists        bool   `json:"exists"`
	ID            string `json:"id,omitempty"`
	PhoneVerified bool   `json:"phone_verified"`
}

// Submission is the validated payload for create and update calls. Phone is
// omitted on update.
type Submission struct {
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Phone               string `json:"phone,omitempty"`
	Branch              string `json:"branch"`
	CustomBranch        string `json:"custom_branch,omitempty"`
	NeedsTransportation bool   `json:"needs_transportation"`
}

type BranchOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	City  string `json:"city,omitempty"`
}

type BranchGroup struct {
	Label   string         `json:"label"`
	Options []BranchOption `json:"options"`
}

type BranchCatalog struct {
	Groups          []BranchGroup `json:"groups"`
	Custom          BranchOption  `json:"custom"`
	NoShuttleCity   string        `json:"no_shuttle_city"`
	NoShuttleNotice string        `json:"no_shuttle_notice"`
}
