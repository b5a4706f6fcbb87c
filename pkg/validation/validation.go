package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

const (
	MinNameLength = 2
	MaxNameLength = 50
)

var (
	hebrewNamePattern     = regexp.MustCompile(`^[\p{Hebrew}\s'"׳״-]+$`)
	israeliMobilePattern  = regexp.MustCompile(`^05\d{8}$`)
	gatewayPhonePattern   = regexp.MustCompile(`^\d{10,13}$`)
	nonDigitPattern       = regexp.MustCompile(`\D`)
	htmlSpecialCharacters = strings.NewReplacer("<", "", ">", "", "&", "", `"`, "", "`", "")
)

// NormalizeName trims and composes a name to NFC so visually equal Hebrew
// names compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.Join(strings.Fields(name), " "))
}

// IsHebrewName accepts Hebrew letters plus space, hyphen, apostrophe and
// geresh/gershayim.
func IsHebrewName(name string) bool {
	name = NormalizeName(name)
	length := utf8.RuneCountInString(name)
	if length < MinNameLength || length > MaxNameLength {
		return false
	}

	return hebrewNamePattern.MatchString(name)
}

// DigitsOnly strips every non-digit character.
func DigitsOnly(phone string) string {
	return nonDigitPattern.ReplaceAllString(phone, "")
}

// NormalizeIsraeliMobile returns the national 05XXXXXXXX form, accepting
// separators and a +972 prefix. The bool is false when the number is not an
// Israeli mobile.
func NormalizeIsraeliMobile(phone string) (string, bool) {
	digits := DigitsOnly(phone)

	if strings.HasPrefix(digits, "972") && len(digits) == 12 {
		digits = "0" + digits[3:]
	}

	if !israeliMobilePattern.MatchString(digits) {
		return "", false
	}

	return digits, true
}

// IsGatewayPhone reports whether phone carries 10 to 13 digits once
// separators are removed.
func IsGatewayPhone(phone string) bool {
	return gatewayPhonePattern.MatchString(DigitsOnly(phone))
}

// SanitizeText removes characters that carry meaning in HTML. Applying it
// twice yields the same result.
func SanitizeText(text string) string {
	return strings.TrimSpace(htmlSpecialCharacters.Replace(text))
}

// RegisterCustomValidators adds the hebrew_name and il_mobile tags.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("hebrew_name", func(fl validator.FieldLevel) bool {
		return IsHebrewName(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("il_mobile", func(fl validator.FieldLevel) bool {
		_, ok := NormalizeIsraeliMobile(fl.Field().String())
		return ok
	})
}
