package domain

import (
	"github.com/allisson/siteapi/internal/errors"
)

var (
	// ErrDuplicateSubmission indicates the same phone number was accepted within the duplicate window.
	ErrDuplicateSubmission = errors.Wrap(errors.ErrConflict, "duplicate submission")

	// ErrRegistrationNotFound indicates no registration has the requested id.
	ErrRegistrationNotFound = errors.Wrap(errors.ErrNotFound, "registration not found")

	// ErrInvalidStatus indicates an unknown status value.
	ErrInvalidStatus = errors.Wrap(errors.ErrInvalidInput, "invalid status")

	// ErrInvalidStatusTransition indicates the requested status change is not allowed from the current status.
	ErrInvalidStatusTransition = errors.Wrap(errors.ErrInvalidInput, "invalid status transition")
)
