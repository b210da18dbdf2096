// AngelaMos | 2026
// validate.go

package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		return name
	})
	return v
}

// validate runs the field tags, then the rules that span sections.
func validate(c *Config) error {
	if err := structValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return describe(fieldErrs[0])
		}
		return err
	}

	if c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*") {
		return errors.New("cors.allowed_origins: wildcard '*' cannot be combined with allow_credentials")
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return errors.New("metrics.path is required when metrics are enabled")
	}

	if c.IsProduction() && c.Otel.Enabled && c.Otel.Insecure {
		return errors.New("otel.insecure must be false in production")
	}

	return nil
}

// describe names the failing field by its config path, e.g.
// "database.url is required".
func describe(fe validator.FieldError) error {
	path := strings.TrimPrefix(fe.Namespace(), "Config.")

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", path)
	case "gt":
		return fmt.Errorf("%s must be greater than %s", path, fe.Param())
	case "gtfield":
		return fmt.Errorf("%s must be longer than %s", path, strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Errorf("%s must be one of [%s]", path, fe.Param())
	default:
		return fmt.Errorf("%s failed %s=%s", path, fe.Tag(), fe.Param())
	}
}
