package handler

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to Echo's Validator
// interface. Request DTOs declare their shape and range constraints as
// struct tags, so handler logic never sees an out-of-range payload.
type Validator struct {
	validate *validator.Validate
}

// NewValidator constructs the shared request validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
