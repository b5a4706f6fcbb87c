package rsvpclient

// Purpose tells a pending verification what to do once the phone is proven.
type Purpose string

const (
	PurposeNewSubmission        Purpose = "new-submission"
	PurposeCompleteVerification Purpose = "complete-verification"
	PurposeReturningUser        Purpose = "returning-user"
	PurposeEditAuthorization    Purpose = "edit-authorization"
	PurposeReverify             Purpose = "reverify"
)

// MessagePrefix opens the SMS sent for this purpose. Empty means the server default.
func (p Purpose) MessagePrefix() string {
	switch p {
	case PurposeEditAuthorization:
		return "לעריכת פרטי ההגעה שלך"
	case PurposeReturningUser:
		return "לצפייה באישור ההגעה שלך"
	default:
		return ""
	}
}

// State is one of Loading, FreshForm, PendingVerification, ConfirmedSummary
// or EditMode.
type State interface {
	Name() string
	state()
}

type Loading struct{}

type FreshForm struct{}

type PendingVerification struct {
	RecordID string
	Phone    string
	Purpose  Purpose
}

type ConfirmedSummary struct {
	Record Record
}

type EditMode struct {
	Record Record
}

func (Loading) Name() string             { return "loading" }
func (FreshForm) Name() string           { return "fresh-form" }
func (PendingVerification) Name() string { return "pending-verification" }
func (ConfirmedSummary) Name() string    { return "confirmed-summary" }
func (EditMode) Name() string            { return "edit-mode" }

func (Loading) state()             {}
func (FreshForm) state()           {}
func (PendingVerification) state() {}
func (ConfirmedSummary) state()    {}
func (EditMode) state()            {}
