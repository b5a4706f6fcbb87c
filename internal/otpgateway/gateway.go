package otpgateway

import (
	"context"
	"strings"
)

// DefaultPurpose opens the SMS when the caller does not supply its own text.
const DefaultPurpose = "לאישור ההשתתפות שלך בנשף פורים"

// CodePlaceholder is replaced by the provider with the generated code.
const CodePlaceholder = "{code}"

// Gateway sends and checks one-time codes through an external SMS provider.
// Both calls answer with a plain bool: transport errors, provider rejections
// and malformed responses all come back as false and are never retried.
type Gateway interface {
	SendCode(ctx context.Context, phoneNumber, purposeText string) bool
	VerifyCode(ctx context.Context, phoneNumber, code string) bool
}

// MessageTemplate builds the SMS body the provider fills in.
func MessageTemplate(purposeText string) string {
	purpose := strings.TrimSpace(purposeText)
	if purpose == "" {
		purpose = DefaultPurpose
	}
	return purpose + ", קוד האימות שלך הוא: " + CodePlaceholder
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
