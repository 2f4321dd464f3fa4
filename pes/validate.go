package pes

import "github.com/go-playground/validator/v10"

// validate is the shared validator instance used across the package.
var validate = validator.New()

// Validate checks a struct against its validation tags.
func Validate(s any) error {
	return validate.Struct(s)
}
