package helpers

import (
	"github.com/go-errors/errors"
)

// Error classes returned by the services, mapped onto HTTP statuses by
// the controllers. Wrap with context, test with errors.Is.
var (
	ErrNotFound   = errors.Errorf("not found")
	ErrConflict   = errors.Errorf("already exists")
	ErrValidation = errors.Errorf("validation failed")
)

// HTTPError is the error body documented in the swagger annotations.
type HTTPError struct {
	Error string `json:"error"`
}
