package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotNumber     = errors.New("not a number")
	ErrOutOfRange    = errors.New("value out of range")
	ErrNegative      = errors.New("negative value")
	ErrInvalidName   = errors.New("name too short")
	ErrInvalidPhone  = errors.New("invalid phone number")
	ErrUnknownOption = errors.New("unknown catalog option")
)

// ValidationError is a user-correctable input error for one draft field.
type ValidationError struct {
	Field Field
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
