package core

import "errors"

// ValidationError marks failures the client can fix. Handlers map these
// to HTTP 400 while everything else becomes a 500.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
