package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

const (
	cellOneOf      = "IT IIC EMDC"
	modeOneOf      = "Online Offline"
	statusOneOf    = "Upcoming Ongoing Completed Cancelled"
	eventTypeOneOf = "Hackathon Workshop 'Inter College' 'Intra College' 'Fun Event'"
)

// CreateEventRequest is the request body for POST /admin/events.
// Outer-college events may omit name, organizing_body, event_coordinator and mode.
type CreateEventRequest struct {
	Name                string     `json:"name"`
	OrganizingBody      string     `json:"organizing_body"`
	EventCoordinator    string     `json:"event_coordinator"`
	Description         string     `json:"description"`
	CellsAndAssociation string     `json:"cells_and_association" validate:"omitempty,oneof=IT IIC EMDC"`
	EventTypes          []string   `json:"event_types" validate:"dive,oneof=Hackathon Workshop 'Inter College' 'Intra College' 'Fun Event'"`
	EventDate           time.Time  `json:"event_date"`
	RegistrationEndDate *time.Time `json:"registration_end_date"`
	Mode                string     `json:"mode" validate:"omitempty,oneof=Online Offline"`
	Venue               string     `json:"venue"`
	MaxParticipants     int        `json:"max_participants"`
	Status              string     `json:"status" validate:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
	IsPublished         bool       `json:"is_published"`
	IsOuterCollegeEvent bool       `json:"is_outer_college_event"`
	RegistrationLink    string     `json:"registration_link" validate:"omitempty,url"`
	PosterPath          string     `json:"poster_path"`
	BrochurePath        string     `json:"brochure_path"`
}

// Validate implements Validator. Field presence rules are enforced by the event itself.
func (c CreateEventRequest) Validate() []string {
	return helpers.ValidateStruct(c)
}

func (c CreateEventRequest) toEvent() *domain.Event {
	return &domain.Event{
		Name:                c.Name,
		OrganizingBody:      c.OrganizingBody,
		EventCoordinator:    c.EventCoordinator,
		Description:         c.Description,
		CellsAndAssociation: domain.Cell(c.CellsAndAssociation),
		EventTypes:          eventTypes(c.EventTypes),
		EventDate:           c.EventDate,
		RegistrationEndDate: c.RegistrationEndDate,
		Mode:                domain.Mode(c.Mode),
		Venue:               c.Venue,
		MaxParticipants:     c.MaxParticipants,
		Status:              domain.Status(c.Status),
		IsPublished:         c.IsPublished,
		IsOuterCollegeEvent: c.IsOuterCollegeEvent,
		RegistrationLink:    c.RegistrationLink,
		PosterPath:          c.PosterPath,
		BrochurePath:        c.BrochurePath,
	}
}

// UpdateEventRequest is the request body for PATCH /admin/events/{eventID}. All fields optional; omitted fields are unchanged.
// current_registrations is not accepted.
type UpdateEventRequest struct {
	Name                     *string    `json:"name"`
	OrganizingBody           *string    `json:"organizing_body"`
	EventCoordinator         *string    `json:"event_coordinator"`
	Description              *string    `json:"description"`
	CellsAndAssociation      *string    `json:"cells_and_association" validate:"omitempty,oneof=IT IIC EMDC"`
	EventTypes               []string   `json:"event_types" validate:"omitempty,min=1,dive,oneof=Hackathon Workshop 'Inter College' 'Intra College' 'Fun Event'"`
	EventDate                *time.Time `json:"event_date"`
	RegistrationEndDate      *time.Time `json:"registration_end_date"`
	ClearRegistrationEndDate bool       `json:"clear_registration_end_date"`
	Mode                     *string    `json:"mode" validate:"omitempty,oneof=Online Offline"`
	Venue                    *string    `json:"venue"`
	MaxParticipants          *int       `json:"max_participants" validate:"omitempty,gte=1"`
	Status                   *string    `json:"status" validate:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
	IsPublished              *bool      `json:"is_published"`
	IsOuterCollegeEvent      *bool      `json:"is_outer_college_event"`
	RegistrationLink         *string    `json:"registration_link" validate:"omitempty,url"`
	PosterPath               *string    `json:"poster_path"`
	BrochurePath             *string    `json:"brochure_path"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	errs := helpers.ValidateStruct(u)
	if u.ClearRegistrationEndDate && u.RegistrationEndDate != nil {
		errs = append(errs, "registration_end_date and clear_registration_end_date are mutually exclusive")
	}
	return errs
}

func (u UpdateEventRequest) toUpdate() *domain.EventUpdate {
	upd := &domain.EventUpdate{
		Name:                 u.Name,
		OrganizingBody:       u.OrganizingBody,
		EventCoordinator:     u.EventCoordinator,
		Description:          u.Description,
		EventDate:            u.EventDate,
		RegistrationEndDate:  u.RegistrationEndDate,
		ClearRegistrationEnd: u.ClearRegistrationEndDate,
		Venue:                u.Venue,
		MaxParticipants:      u.MaxParticipants,
		IsPublished:          u.IsPublished,
		IsOuterCollegeEvent:  u.IsOuterCollegeEvent,
		RegistrationLink:     u.RegistrationLink,
		PosterPath:           u.PosterPath,
		BrochurePath:         u.BrochurePath,
	}
	if u.CellsAndAssociation != nil {
		cell := domain.Cell(*u.CellsAndAssociation)
		upd.CellsAndAssociation = &cell
	}
	if u.EventTypes != nil {
		upd.EventTypes = eventTypes(u.EventTypes)
	}
	if u.Mode != nil {
		mode := domain.Mode(*u.Mode)
		upd.Mode = &mode
	}
	if u.Status != nil {
		status := domain.Status(*u.Status)
		upd.Status = &status
	}
	return upd
}

func eventTypes(in []string) []domain.EventType {
	if in == nil {
		return nil
	}
	out := make([]domain.EventType, len(in))
	for i, t := range in {
		out[i] = domain.EventType(t)
	}
	return out
}

// EventSuccessResponse is the success response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.EventView `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsResponse is the data payload for event listings.
type ListEventsResponse struct {
	Events     []*domain.EventView    `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success response envelope for event listings.
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// parseEventFilter reads cell, type and outer from the query string.
func parseEventFilter(r *http.Request) (domain.EventFilter, string) {
	q := r.URL.Query()
	var f domain.EventFilter
	if s := q.Get("cell"); s != "" {
		f.Cell = domain.Cell(s)
		if !f.Cell.Valid() {
			return f, "cell must be one of [" + cellOneOf + "]"
		}
	}
	if s := q.Get("type"); s != "" {
		f.EventType = domain.EventType(s)
		if !f.EventType.Valid() {
			return f, "type must be one of [" + eventTypeOneOf + "]"
		}
	}
	if s := q.Get("outer"); s != "" {
		outer, err := strconv.ParseBool(s)
		if err != nil {
			return f, "outer must be a boolean"
		}
		f.OuterCollege = &outer
	}
	return f, ""
}

func (c *EventController) writeList(w http.ResponseWriter, r *http.Request, list func(domain.EventFilter, domain.PaginationParams) ([]*domain.EventView, int, error)) {
	filter, msg := parseEventFilter(r)
	if msg != "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, msg)
		return
	}
	page := helpers.ParsePagination(r)
	events, total, err := list(filter, page)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if events == nil {
		events = []*domain.EventView{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{
		Events:     events,
		Pagination: helpers.NewPaginationMeta(page, total),
	})
}

// ListEvents godoc
// @Summary List published events
// @Description Lists published events ordered by event date. Each event carries its effective status, seats left and whether registration is open.
// @Tags events
// @Produce json
// @Param cell query string false "Filter by cell (IT, IIC, EMDC)"
// @Param type query string false "Filter by event type"
// @Param outer query bool false "Only outer-college (true) or platform (false) events"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	c.writeList(w, r, func(f domain.EventFilter, p domain.PaginationParams) ([]*domain.EventView, int, error) {
		return c.Service.ListPublic(r.Context(), f, p)
	})
}

// GetEvent godoc
// @Summary Get a published event
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	view, err := c.Service.GetPublic(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event owned by the authenticated admin. The cell defaults to the admin's cell. Outer-college events get default descriptive fields and are always published.
// @Tags admin-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_failed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event := req.toEvent()
	if err := c.Service.Create(r.Context(), actor, event); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, domain.NewEventView(event, time.Now()))
}

// ListAdminEvents godoc
// @Summary List events in the admin's scope
// @Description Lists published and unpublished events. Admins see events of their cell and events they created; OT and super admins see all.
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param cell query string false "Filter by cell (IT, IIC, EMDC)"
// @Param type query string false "Filter by event type"
// @Param outer query bool false "Only outer-college (true) or platform (false) events"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *EventController) ListAdminEvents(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	c.writeList(w, r, func(f domain.EventFilter, p domain.PaginationParams) ([]*domain.EventView, int, error) {
		return c.Service.ListForAdmin(r.Context(), actor, f, p)
	})
}

// GetAdminEvent godoc
// @Summary Get an event in the admin's scope
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [get]
func (c *EventController) GetAdminEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	view, err := c.Service.GetForAdmin(r.Context(), actor, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Updates the given fields. Only the creator, OT admins and super admins may update. max_participants may not drop below current registrations.
// @Tags admin-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_failed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	view, err := c.Service.Update(r.Context(), actor, eventID, req.toUpdate())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event together with all of its registrations.
// @Tags admin-events
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), actor, eventID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
