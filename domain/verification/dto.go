package verification

// Request and response bodies use camelCase keys to match the attendee client.

type RequestCodeRequest struct {
	PhoneNumber   string `json:"phoneNumber"`
	RSVPID        string `json:"rsvpId"`
	MessagePrefix string `json:"messagePrefix" binding:"omitempty,max=200"`
}

type RequestCodeResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"requestId"`
}

type ConfirmCodeRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
	RSVPID      string `json:"rsvpId"`
}

// ConfirmCodeResponse carries the token that unlocks the verified record.
type ConfirmCodeResponse struct {
	Success              bool   `json:"success"`
	RSVPID               string `json:"-"`
	AccessToken          string `json:"accessToken,omitempty"`
	AccessTokenExpiresAt string `json:"accessTokenExpiresAt,omitempty"`
}
