package controllers

import (
	"log/slog"
	"net/http"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// ParticipantRequest is one person on an outer-college registration.
// Completeness is checked when the registration is validated.
type ParticipantRequest struct {
	Name        string `json:"name"`
	RollNumber  string `json:"roll_number"`
	Department  string `json:"department"`
	Year        string `json:"year"`
	Contact     string `json:"contact"`
	Email       string `json:"email" validate:"omitempty,email"`
	CollegeName string `json:"college_name"`
}

func (p ParticipantRequest) toParticipant() domain.Participant {
	return domain.Participant{
		Name:        p.Name,
		RollNumber:  p.RollNumber,
		Department:  p.Department,
		Year:        p.Year,
		Contact:     p.Contact,
		Email:       p.Email,
		CollegeName: p.CollegeName,
	}
}

// OuterRegisterRequest is the request body for POST /events/{eventID}/outer-registrations.
type OuterRegisterRequest struct {
	ParticipationType string               `json:"participation_type" validate:"required,oneof=solo team"`
	TeamName          string               `json:"team_name"`
	Leader            ParticipantRequest   `json:"leader"`
	TeamMembers       []ParticipantRequest `json:"team_members" validate:"dive"`
}

// Validate implements Validator.
func (o OuterRegisterRequest) Validate() []string {
	return helpers.ValidateStruct(o)
}

func (o OuterRegisterRequest) toRegistration() *domain.OuterCollegeRegistration {
	reg := &domain.OuterCollegeRegistration{
		ParticipationType: domain.ParticipationType(o.ParticipationType),
		TeamName:          o.TeamName,
		Leader:            o.Leader.toParticipant(),
	}
	for _, m := range o.TeamMembers {
		reg.TeamMembers = append(reg.TeamMembers, m.toParticipant())
	}
	return reg
}

// UpdateOuterStatusRequest is the request body for PATCH /admin/outer-registrations/{registrationID}.
type UpdateOuterStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Approved Rejected"`
}

// Validate implements Validator.
func (u UpdateOuterStatusRequest) Validate() []string {
	return helpers.ValidateStruct(u)
}

// OuterRegistrationSuccessResponse is the success response envelope for a single outer-college registration.
type OuterRegistrationSuccessResponse struct {
	Data  *domain.OuterCollegeRegistration `json:"data"`
	Error *helpers.APIError                `json:"error"`
}

// ListOuterRegistrationsSuccessResponse is the success response envelope for outer-college registration listings.
type ListOuterRegistrationsSuccessResponse struct {
	Data  []*domain.OuterCollegeRegistration `json:"data"`
	Error *helpers.APIError                  `json:"error"`
}

type OuterRegistrationController struct {
	Logger  *slog.Logger
	Service domain.OuterCollegeService
}

func NewOuterRegistrationController(logger *slog.Logger, svc domain.OuterCollegeService) *OuterRegistrationController {
	return &OuterRegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register for an outer-college event
// @Description Registers a solo participant or a team (leader plus up to 5 members). The registration starts as Pending and does not consume platform capacity.
// @Tags registrations
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param body body OuterRegisterRequest true "Participants"
// @Success 201 {object} controllers.OuterRegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_failed"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: duplicate_registration or registration_closed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/outer-registrations [post]
func (c *OuterRegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req OuterRegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.Register(r.Context(), eventID, req.toRegistration())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// ListOuterRegistrations godoc
// @Summary List outer-college registrations of an event
// @Tags admin-registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListOuterRegistrationsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/outer-registrations [get]
func (c *OuterRegistrationController) ListOuterRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	regs, err := c.Service.ListByEvent(r.Context(), actor, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if regs == nil {
		regs = []*domain.OuterCollegeRegistration{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// UpdateOuterRegistrationStatus godoc
// @Summary Review an outer-college registration
// @Description Approves or rejects a registration. The team leader is notified by email when an address is on file.
// @Tags admin-registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Param body body UpdateOuterStatusRequest true "New status"
// @Success 200 {object} controllers.OuterRegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/outer-registrations/{registrationID} [patch]
func (c *OuterRegistrationController) UpdateOuterRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := helpers.PathID(w, r, "registrationID")
	if !ok {
		return
	}
	var req UpdateOuterStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	reg, err := c.Service.UpdateStatus(r.Context(), actor, registrationID, domain.OuterRegistrationStatus(req.Status))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// DeleteOuterRegistration godoc
// @Summary Delete an outer-college registration
// @Tags admin-registrations
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/outer-registrations/{registrationID} [delete]
func (c *OuterRegistrationController) DeleteOuterRegistration(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := helpers.PathID(w, r, "registrationID")
	if !ok {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), actor, registrationID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
