package rsvpclient

import (
	"github.com/akeren/purim-rsvp/internal/branches"
	"github.com/akeren/purim-rsvp/pkg/validation"
)

// Form holds what the attendee has typed so far. Transportation is only
// reachable through SetNeedsTransportation so the no-shuttle rule holds
// after every change.
type Form struct {
	FirstName    string
	LastName     string
	Phone        string
	Branch       string
	CustomBranch string

	needsTransportation bool
}

// FormFromRecord prefills the edit form.
func FormFromRecord(r Record) Form {
	f := Form{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
	}
	if r.CustomBranch {
		f.Branch = branches.CustomKey
		f.CustomBranch = r.Branch
	} else {
		f.Branch = r.Branch
	}
	f.needsTransportation = r.NeedsTransportation && f.TransportationEnabled()
	return f
}

// SelectBranch changes the branch. A no-shuttle branch clears transportation.
func (f *Form) SelectBranch(key string) {
	f.Branch = key
	if branches.IsNoShuttle(key) {
		f.needsTransportation = false
	}
}

func (f *Form) SetNeedsTransportation(needs bool) error {
	if f.Branch == "" {
		return &ValidationError{Field: "needs_transportation", Message: "יש לבחור סניף לפני בחירת הסעה"}
	}
	if needs && branches.IsNoShuttle(f.Branch) {
		return &ValidationError{Field: "needs_transportation", Message: branches.NoShuttleNotice}
	}
	f.needsTransportation = needs
	return nil
}

func (f Form) NeedsTransportation() bool {
	return f.needsTransportation
}

// TransportationEnabled reports whether the transportation toggle may be used.
func (f Form) TransportationEnabled() bool {
	return f.Branch != "" && !branches.IsNoShuttle(f.Branch)
}

// Submission validates the form. The phone is skipped when editing since it
// never changes after verification.
func (f Form) Submission(editing bool) (Submission, error) {
	first := validation.NormalizeName(f.FirstName)
	if !validation.IsHebrewName(first) {
		return Submission{}, &ValidationError{Field: "first_name", Message: "שם פרטי חייב להכיל אותיות בעברית בלבד"}
	}

	last := validation.NormalizeName(f.LastName)
	if !validation.IsHebrewName(last) {
		return Submission{}, &ValidationError{Field: "last_name", Message: "שם משפחה חייב להכיל אותיות בעברית בלבד"}
	}

	var phone string
	if !editing {
		normalized, ok := validation.NormalizeIsraeliMobile(f.Phone)
		if !ok {
			return Submission{}, &ValidationError{Field: "phone", Message: "מספר טלפון לא תקין"}
		}
		phone = normalized
	}

	if f.Branch == "" {
		return Submission{}, &ValidationError{Field: "branch", Message: "יש לבחור סניף"}
	}

	var custom string
	if f.Branch == branches.CustomKey {
		custom = validation.SanitizeText(f.CustomBranch)
		if custom == "" {
			return Submission{}, &ValidationError{Field: "custom_branch", Message: "יש להזין את שם הסניף"}
		}
	} else if _, ok := branches.Find(f.Branch); !ok {
		return Submission{}, &ValidationError{Field: "branch", Message: "יש לבחור סניף"}
	}

	return Submission{
		FirstName:           first,
		LastName:            last,
		Phone:               phone,
		Branch:              f.Branch,
		CustomBranch:        custom,
		NeedsTransportation: f.needsTransportation && !branches.IsNoShuttle(f.Branch),
	}, nil
}
