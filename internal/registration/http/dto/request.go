// Package dto provides request and response bodies for the registration endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
	customValidation "github.com/allisson/siteapi/internal/validation"
)

// SubmitRegistrationRequest is the public registration form.
type SubmitRegistrationRequest struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	BusinessModel string `json:"business_model"`
	Message       string `json:"message"`
	Source        string `json:"source"`
}

// Validate checks if the submission is valid.
func (r *SubmitRegistrationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FullName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Phone, validation.Required, customValidation.Phone),
		validation.Field(&r.Email, customValidation.NoWhitespace, customValidation.Email, validation.Length(0, 255)),
		validation.Field(&r.BusinessModel, validation.Length(0, 255)),
		validation.Field(&r.Message, validation.Length(0, 2000)),
		validation.Field(&r.Source, customValidation.NoWhitespace, validation.Length(0, 64)),
	)
}

// ToInput converts the request to a domain submission.
func (r *SubmitRegistrationRequest) ToInput() registrationDomain.SubmitInput {
	return registrationDomain.SubmitInput{
		FullName:      r.FullName,
		Phone:         r.Phone,
		Email:         r.Email,
		BusinessModel: r.BusinessModel,
		Message:       r.Message,
		Source:        r.Source,
	}
}

// UpdateStatusRequest moves a registration to a new status.
type UpdateStatusRequest struct {
	Status registrationDomain.Status `json:"status"`
}

// Validate checks if the update status request is valid.
func (r *UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status,
			validation.Required,
			validation.In(
				registrationDomain.StatusPending,
				registrationDomain.StatusContacted,
				registrationDomain.StatusSucceeded,
				registrationDomain.StatusRejected,
			).Error("must be pending, contacted, succeeded or rejected"),
		),
	)
}
