package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var tagMessages = map[string]string{
	"required":    "This field is required",
	"email":       "Invalid email format",
	"min":         "Value is too short",
	"max":         "Value is too long",
	"len":         "Value has the wrong length",
	"numeric":     "Value must be numeric",
	"uuid":        "Must be a valid ID",
	"oneof":       "Value is not one of the allowed options",
	"hebrew_name": "Must contain Hebrew letters only",
	"il_mobile":   "Must be a valid Israeli mobile number",
}

// paramMessages format tags whose parameter matters to the user.
var paramMessages = map[string]string{
	"min": "Must be at least %s characters",
	"max": "Must not exceed %s characters",
	"len": "Must be exactly %s characters",
}

func messageFor(fieldError validator.FieldError) string {
	if format, ok := paramMessages[fieldError.Tag()]; ok && fieldError.Param() != "" {
		return fmt.Sprintf(format, fieldError.Param())
	}
	if msg, ok := tagMessages[fieldError.Tag()]; ok {
		return msg
	}
	return "Invalid value"
}

func fieldName(structType reflect.Type, name string) string {
	field, found := structType.FieldByName(name)
	if !found {
		return name
	}

	for _, key := range []string{"json", "form"} {
		if tag, _, _ := strings.Cut(field.Tag.Get(key), ","); tag != "" && tag != "-" {
			return tag
		}
	}
	return name
}

// FormatValidationErrors turns binding failures into per-field messages keyed
// by the JSON (or form) name of each field on model.
func FormatValidationErrors(err error, model interface{}) []ValidationErrorResponse {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorResponse{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
		}}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
	}

	out := make([]ValidationErrorResponse, len(validationErrors))
	for i, fieldError := range validationErrors {
		field := fieldError.Field()
		if structType != nil {
			field = fieldName(structType, field)
		}
		out[i] = ValidationErrorResponse{Field: field, Message: messageFor(fieldError)}
	}

	return out
}
