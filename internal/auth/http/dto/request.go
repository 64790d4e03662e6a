// Package dto provides request and response bodies for the auth endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
	customValidation "github.com/allisson/siteapi/internal/validation"
)

func roleRule() validation.Rule {
	roles := authDomain.Roles()
	allowed := make([]any, 0, len(roles))
	for _, role := range roles {
		allowed = append(allowed, role)
	}
	return validation.In(allowed...).Error("must be ADMIN or EDITOR")
}

// LoginRequest contains the credentials presented at login. The credential may
// be sent as "password" or "secret"; "password" wins when both are set.
// Only presence is checked; strength rules would leak policy to attackers.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`         //nolint:gosec // request field
	Secret   string `json:"secret,omitempty"` //nolint:gosec // request field
}

// Credential returns the presented password.
func (r *LoginRequest) Credential() string {
	if r.Password != "" {
		return r.Password
	}
	return r.Secret
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Password, validation.When(r.Secret == "", validation.Required), validation.Length(0, 1024)),
		validation.Field(&r.Secret, validation.Length(0, 1024)),
	)
}

// CreateAccountRequest contains the parameters for creating an account.
type CreateAccountRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"` //nolint:gosec // request field
	Role     authDomain.Role `json:"role"`
}

// Validate checks if the create account request is valid.
func (r *CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NoWhitespace,
			customValidation.Email,
			validation.Length(3, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
			customValidation.AdminPassword,
			validation.Length(0, 1024),
		),
		validation.Field(&r.Role, validation.Required, roleRule()),
	)
}

// UpdateAccountRequest carries optional account fields. Absent fields are unchanged.
type UpdateAccountRequest struct {
	Email    *string          `json:"email"`
	Role     *authDomain.Role `json:"role"`
	IsActive *bool            `json:"is_active"`
}

// Validate checks if the update account request is valid.
func (r *UpdateAccountRequest) Validate() error {
	if r.Email == nil && r.Role == nil && r.IsActive == nil {
		return validation.NewError("validation_empty_update", "at least one field must be provided")
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.NilOrNotEmpty,
			customValidation.NoWhitespace,
			customValidation.Email,
			validation.Length(3, 255),
		),
		validation.Field(&r.Role, validation.NilOrNotEmpty, roleRule()),
	)
}

// ToInput converts the request into the use case input.
func (r *UpdateAccountRequest) ToInput() authDomain.UpdateAccountInput {
	return authDomain.UpdateAccountInput{
		Email:    r.Email,
		Role:     r.Role,
		IsActive: r.IsActive,
	}
}

// ResetPasswordRequest contains the replacement password.
type ResetPasswordRequest struct {
	Password string `json:"password"` //nolint:gosec // request field
}

// Validate checks if the reset password request is valid.
func (r *ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password,
			validation.Required,
			customValidation.AdminPassword,
			validation.Length(0, 1024),
		),
	)
}
