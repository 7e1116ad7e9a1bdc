package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/routeledger/backend/internal/interfaces/http/dto"
)

// SetupValidator configures gin's validator to report JSON/form tag names
// in binding errors instead of Go struct field names.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// FormatBindingError translates a gin binding error into field-level
// violation details. Non-validator errors produce a single generic detail.
func FormatBindingError(err error) []dto.ViolationDetail {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		details := make([]dto.ViolationDetail, 0, len(validationErrors))
		for _, e := range validationErrors {
			details = append(details, dto.ViolationDetail{
				Code:    "INVALID_FIELD",
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
		return details
	}
	return []dto.ViolationDetail{{
		Code:    "INVALID_BODY",
		Message: err.Error(),
	}}
}

// validationMessage returns a human-readable message for a field error
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "datetime":
		return "Must be a date in the form " + e.Param()
	case "min":
		return "Must be at least " + e.Param()
	case "max":
		return "Must be at most " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	default:
		return "Invalid value"
	}
}
