// Package validation holds the shared validator used by services and request decoding.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var (
	cpfMaskedPattern   = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	phoneMaskedPattern = regexp.MustCompile(`^\(\d{2}\) \d{5}-\d{4}$`)
	zipMaskedPattern   = regexp.MustCompile(`^\d{5}-\d{3}$`)

	// uuid overrides the built-in tag, which rejects upper-case hex.
	uuidPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "cpf_masked", cpfMaskedPattern)
	mustRegister(v, "phone_masked", phoneMaskedPattern)
	mustRegister(v, "zip_masked", zipMaskedPattern)
	mustRegister(v, "uuid", uuidPattern)
	return v
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct validates input and returns a VALIDATION_ERROR whose details map JSON field names to messages.
func Struct(input any) error {
	if err := validate.Struct(input); err != nil {
		return FormatErrors(err)
	}
	return nil
}

// FormatErrors converts validator failures into the typed validation error.
func FormatErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = message(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid uuid"
	case "cpf_masked":
		return "must match 000.000.000-00"
	case "phone_masked":
		return "must match (00) 00000-0000"
	case "zip_masked":
		return "must match 00000-000"
	}
	return "is invalid"
}
