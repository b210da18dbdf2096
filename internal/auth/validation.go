// AngelaMos | 2026
// validation.go

package auth

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

// local-part@domain with at least one dot in the domain, no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NewValidator returns a validator with the "emailaddr" tag registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	//nolint:errcheck // tag name and func are static
	_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})

	return v
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// classify turns validator output into the login and signup gates:
// any missing field wins over a malformed email, which wins over
// length limits.
func classify(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return core.ValidationError("invalid request")
	}

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return ErrMissingFields
		}
	}

	for _, fe := range verrs {
		if fe.Tag() == "emailaddr" {
			return ErrInvalidEmailFormat
		}
	}

	return core.ValidationError(core.FormatValidationError(err))
}
