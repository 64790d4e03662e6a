package domain

import (
	"github.com/allisson/siteapi/internal/errors"
)

// Authentication errors. Every kind wraps ErrUnauthorized so the HTTP layer
// answers them with one indistinguishable 401.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrAccountDisabled indicates the account exists but is not active.
	ErrAccountDisabled = errors.Wrap(errors.ErrUnauthorized, "account disabled")

	// ErrMalformedToken indicates the token does not have three decodable segments.
	ErrMalformedToken = errors.Wrap(errors.ErrUnauthorized, "malformed token")

	// ErrSignatureMismatch indicates the token signature does not match its content.
	ErrSignatureMismatch = errors.Wrap(errors.ErrUnauthorized, "signature mismatch")

	// ErrExpiredToken indicates the token expiry is in the past.
	ErrExpiredToken = errors.Wrap(errors.ErrUnauthorized, "expired token")
)

// Account directory errors.
var (
	// ErrAccountNotFound indicates no account has the requested id.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrAccountAlreadyExists indicates the email is already registered.
	ErrAccountAlreadyExists = errors.Wrap(errors.ErrConflict, "account already exists")

	// ErrInvalidRole indicates a role outside the assignable set.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")

	// ErrInsufficientRole indicates the caller's role does not allow the operation.
	ErrInsufficientRole = errors.Wrap(errors.ErrForbidden, "insufficient role")
)
