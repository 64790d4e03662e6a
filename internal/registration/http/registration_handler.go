// Package http provides the HTTP handlers for lead registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/siteapi/internal/httputil"
	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
	"github.com/allisson/siteapi/internal/registration/http/dto"
	registrationUseCase "github.com/allisson/siteapi/internal/registration/usecase"
	customValidation "github.com/allisson/siteapi/internal/validation"
)

// RegistrationHandler serves public submission and staff triage of registrations.
type RegistrationHandler struct {
	registrationUseCase registrationUseCase.RegistrationUseCase
	logger              *slog.Logger
}

// NewRegistrationHandler creates a new registration handler.
func NewRegistrationHandler(
	registrationUseCase registrationUseCase.RegistrationUseCase,
	logger *slog.Logger,
) *RegistrationHandler {
	return &RegistrationHandler{
		registrationUseCase: registrationUseCase,
		logger:              logger,
	}
}

// SubmitHandler stores a public registration.
// POST /v1/registrations - public. Returns 201 Created, or 409 Conflict for a
// repeated phone number inside the duplicate window.
func (h *RegistrationHandler) SubmitHandler(c *gin.Context) {
	var req dto.SubmitRegistrationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	registration, err := h.registrationUseCase.Submit(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRegistrationToSubmitResponse(registration))
}

// GetHandler returns one registration with its phone decrypted.
// GET /v1/registrations/:id - ADMIN or EDITOR.
func (h *RegistrationHandler) GetHandler(c *gin.Context) {
	id, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	view, err := h.registrationUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRegistrationToResponse(view))
}

// ListHandler returns a page of registrations, newest first.
// GET /v1/registrations?status=pending&offset=0&limit=50 - ADMIN or EDITOR.
func (h *RegistrationHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	views, err := h.registrationUseCase.List(c.Request.Context(), registrationDomain.ListFilter{
		Status: statusQuery(c),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRegistrationsToListResponse(views))
}

// CountHandler counts registrations.
// GET /v1/registrations/count?status=pending - ADMIN or EDITOR.
func (h *RegistrationHandler) CountHandler(c *gin.Context) {
	count, err := h.registrationUseCase.Count(c.Request.Context(), statusQuery(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CountRegistrationsResponse{Count: count})
}

// UpdateStatusHandler moves a registration through the triage workflow.
// PATCH /v1/registrations/:id/status - ADMIN or EDITOR. Returns 204 No Content.
func (h *RegistrationHandler) UpdateStatusHandler(c *gin.Context) {
	id, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.registrationUseCase.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// statusQuery returns the status filter, or nil when the parameter is absent.
func statusQuery(c *gin.Context) *registrationDomain.Status {
	value, ok := c.GetQuery("status")
	if !ok || value == "" {
		return nil
	}
	status := registrationDomain.Status(value)
	return &status
}
