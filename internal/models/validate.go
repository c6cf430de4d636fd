package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ghanaCardPattern matches national ID numbers such as GHA-123456789-0.
// Input must already be upper-cased; lower-case prefixes are rejected.
var ghanaCardPattern = regexp.MustCompile(`^[A-Z]{3}-\d{9}-\d$`)

// NewValidator returns a validator with the portal's custom rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ghcard", func(fl validator.FieldLevel) bool {
		return ghanaCardPattern.MatchString(fl.Field().String())
	})
	return v
}
