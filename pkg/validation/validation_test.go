package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHebrewName(t *testing.T) {
	valid := []string{"דנה", "כהן", "בן-דוד", "אבו חצירא", "ג'ורג'", "צ׳רלי"}
	for _, name := range valid {
		assert.True(t, IsHebrewName(name), name)
	}

	invalid := []string{"", "א", "Dana", "דנה1", "<b>דנה</b>", "דנה;"}
	for _, name := range invalid {
		assert.False(t, IsHebrewName(name), name)
	}
}

func TestNormalizeIsraeliMobile(t *testing.T) {
	cases := map[string]string{
		"0501234567":       "0501234567",
		"050-123-4567":     "0501234567",
		"+972 50 123 4567": "0501234567",
		"972501234567":     "0501234567",
	}

	for raw, expected := range cases {
		got, ok := NormalizeIsraeliMobile(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, expected, got, raw)
	}

	for _, raw := range []string{"", "021234567", "0401234567", "05012345", "05012345678"} {
		_, ok := NormalizeIsraeliMobile(raw)
		assert.False(t, ok, raw)
	}
}

func TestIsGatewayPhone(t *testing.T) {
	assert.True(t, IsGatewayPhone("050-123-4567"))
	assert.True(t, IsGatewayPhone("+972501234567"))
	assert.False(t, IsGatewayPhone("12345"))
	assert.False(t, IsGatewayPhone("12345678901234"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "scriptalert(1)/script", SanitizeText(" <script>alert(1)</script> "))
	assert.Equal(t, "סניף חדש", SanitizeText(SanitizeText("סניף חדש")))
}

func TestRegisterCustomValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidators(v))

	type payload struct {
		Name  string `validate:"hebrew_name"`
		Phone string `validate:"il_mobile"`
	}

	assert.NoError(t, v.Struct(payload{Name: "דנה", Phone: "0501234567"}))
	assert.Error(t, v.Struct(payload{Name: "Dana", Phone: "0501234567"}))
	assert.Error(t, v.Struct(payload{Name: "דנה", Phone: "123"}))
}
