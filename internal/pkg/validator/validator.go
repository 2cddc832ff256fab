package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Role validation
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		for _, r := range []string{"customer", "provider"} {
			if role == r {
				return true
			}
		}
		return false
	})

	// Upper-case English day name (MONDAY..SUNDAY)
	validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		day := fl.Field().String()
		for _, d := range []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"} {
			if day == d {
				return true
			}
		}
		return false
	})

	// ISO calendar date YYYY-MM-DD
	validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return validate.Var(fl.Field().String(), "datetime=2006-01-02") == nil
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "role":
			errors[field] = "Invalid role. Must be: customer or provider"
		case "weekday":
			errors[field] = "Invalid day. Must be an upper-case English day name"
		case "isodate":
			errors[field] = "Invalid date. Expected YYYY-MM-DD"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
