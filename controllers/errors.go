package controllers

import (
	"net/http"

	"github.com/feedhub-io/feedhub/helpers"

	"github.com/go-errors/errors"
)

// errStatus maps service errors to response codes. Conflicts, absent
// targets and rejected payloads all answer 400 with the error message,
// anything else is a 500.
func errStatus(err error) int {
	switch {
	case errors.Is(err, helpers.ErrNotFound),
		errors.Is(err, helpers.ErrConflict),
		errors.Is(err, helpers.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
