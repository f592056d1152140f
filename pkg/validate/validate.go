// Package validate holds the custom validator rules shared by request binding
// and the user service.
package validate

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Username accepts letters, digits and underscores only.
func Username(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// Register installs the custom rules on v.
func Register(v *validator.Validate) error {
	return v.RegisterValidation("username", Username)
}

// New returns a validator with the custom rules installed.
func New() *validator.Validate {
	v := validator.New()
	// rule names are constants, registration cannot fail
	_ = Register(v)
	return v
}
