package models

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a draft's struct tags.
func Validate(draft any) error {
	return validate.Struct(draft)
}
