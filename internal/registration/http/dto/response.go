package dto

import (
	"time"

	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
)

// SubmitRegistrationResponse acknowledges a public submission. It echoes no
// personal data.
type SubmitRegistrationResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MapRegistrationToSubmitResponse converts a stored registration to the submission acknowledgement.
func MapRegistrationToSubmitResponse(registration *registrationDomain.Registration) SubmitRegistrationResponse {
	return SubmitRegistrationResponse{
		ID:        registration.ID.String(),
		Status:    string(registration.Status),
		CreatedAt: registration.CreatedAt,
	}
}

// RegistrationResponse is the privileged view of a registration.
type RegistrationResponse struct {
	ID               string    `json:"id"`
	FullName         string    `json:"full_name"`
	Phone            *string   `json:"phone"`
	PhoneUnavailable bool      `json:"phone_unavailable"`
	Email            string    `json:"email"`
	BusinessModel    string    `json:"business_model"`
	Message          string    `json:"message"`
	Source           string    `json:"source"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MapRegistrationToResponse converts a decrypted registration view to an API response.
func MapRegistrationToResponse(view *registrationDomain.RegistrationView) RegistrationResponse {
	resp := RegistrationResponse{
		ID:               view.ID.String(),
		FullName:         view.FullName,
		PhoneUnavailable: view.PhoneUnavailable,
		Email:            view.Email,
		BusinessModel:    view.BusinessModel,
		Message:          view.Message,
		Source:           view.Source,
		Status:           string(view.Status),
		CreatedAt:        view.CreatedAt,
		UpdatedAt:        view.UpdatedAt,
	}
	if !view.PhoneUnavailable {
		phone := view.Phone
		resp.Phone = &phone
	}
	return resp
}

// ListRegistrationsResponse represents a page of registrations.
type ListRegistrationsResponse struct {
	Data []RegistrationResponse `json:"data"`
}

// MapRegistrationsToListResponse converts registration views to a list response.
func MapRegistrationsToListResponse(views []*registrationDomain.RegistrationView) ListRegistrationsResponse {
	data := make([]RegistrationResponse, 0, len(views))
	for _, view := range views {
		data = append(data, MapRegistrationToResponse(view))
	}
	return ListRegistrationsResponse{Data: data}
}

// CountRegistrationsResponse holds a registration count.
type CountRegistrationsResponse struct {
	Count int64 `json:"count"`
}
