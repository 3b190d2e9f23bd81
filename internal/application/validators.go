package application

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-tipstat/internal/domain"
)

// configValidator validates Config and its nested sections.
var configValidator = mustNewValidator()

// mustNewValidator builds the validator with the custom rules below.
// Registration only fails on programmer error, so it panics.
func mustNewValidator() *validator.Validate {
	v := validator.New()
	if err := registerCustomValidators(v); err != nil {
		panic(err)
	}
	return v
}

// registerCustomValidators registers semantic validators used in struct
// tags beyond the built-in rules.
func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("fieldaliases", validateFieldAliases); err != nil {
		return fmt.Errorf("failed to register fieldaliases validator: %w", err)
	}
	return nil
}

// validateFieldAliases reports whether a domain.FieldMapping names at least
// one non-empty alias for every required field.
func validateFieldAliases(fl validator.FieldLevel) bool {
	m, ok := fl.Field().Interface().(domain.FieldMapping)
	if !ok {
		return false
	}
	return m.Validate() == nil
}
