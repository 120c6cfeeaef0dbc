package domain

import (
	"context"
	"strings"
	"time"
)

// Cell is the college cell or association that organizes an event.
type Cell string

const (
	CellIT   Cell = "IT"
	CellIIC  Cell = "IIC"
	CellEMDC Cell = "EMDC"
	// CellOT is only valid on admin accounts; it grants unrestricted visibility.
	CellOT Cell = "OT"
)

// Valid reports whether c may be set on an event.
func (c Cell) Valid() bool {
	switch c {
	case CellIT, CellIIC, CellEMDC:
		return true
	}
	return false
}

// EventType tags an event. An event carries one or more tags.
type EventType string

const (
	EventTypeHackathon    EventType = "Hackathon"
	EventTypeWorkshop     EventType = "Workshop"
	EventTypeInterCollege EventType = "Inter College"
	EventTypeIntraCollege EventType = "Intra College"
	EventTypeFunEvent     EventType = "Fun Event"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeHackathon, EventTypeWorkshop, EventTypeInterCollege, EventTypeIntraCollege, EventTypeFunEvent:
		return true
	}
	return false
}

// Mode is where an event takes place.
type Mode string

const (
	ModeOnline  Mode = "Online"
	ModeOffline Mode = "Offline"
)

func (m Mode) Valid() bool {
	return m == ModeOnline || m == ModeOffline
}

// Status is the lifecycle status stored on an event. Admins set it explicitly.
type Status string

const (
	StatusUpcoming  Status = "Upcoming"
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Defaults used for outer-college events, which do not require descriptive fields.
const (
	OuterCollegeDefaultName        = "Outer College Event"
	OuterCollegeDefaultOrganizer   = "External Institution"
	OuterCollegeDefaultCoordinator = "External Coordinator"
	OuterCollegeDefaultCapacity    = 100
)

// Event is the aggregate root for an event and its registration capacity.
// swagger:model Event
type Event struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	OrganizingBody       string      `json:"organizing_body"`
	EventCoordinator     string      `json:"event_coordinator"`
	Description          string      `json:"description"`
	CellsAndAssociation  Cell        `json:"cells_and_association"`
	EventTypes           []EventType `json:"event_types"`
	EventDate            time.Time   `json:"event_date"`
	RegistrationEndDate  *time.Time  `json:"registration_end_date,omitempty"`
	Mode                 Mode        `json:"mode"`
	Venue                string      `json:"venue"`
	MaxParticipants      int         `json:"max_participants"`
	CurrentRegistrations int         `json:"current_registrations"`
	Status               Status      `json:"status"`
	IsPublished          bool        `json:"is_published"`
	IsOuterCollegeEvent  bool        `json:"is_outer_college_event"`
	RegistrationLink     string      `json:"registration_link,omitempty"`
	PosterPath           string      `json:"poster_path"`
	BrochurePath         string      `json:"brochure_path,omitempty"`
	CreatedBy            string      `json:"created_by"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// ApplyOuterCollegeDefaults fills every field an outer-college event may omit,
// so a poster alone is enough. A missing event date becomes now. It never
// touches publication and is a no-op for regular events.
func (e *Event) ApplyOuterCollegeDefaults(now time.Time) {
	if !e.IsOuterCollegeEvent {
		return
	}
	if strings.TrimSpace(e.Name) == "" {
		e.Name = OuterCollegeDefaultName
	}
	if strings.TrimSpace(e.OrganizingBody) == "" {
		e.OrganizingBody = OuterCollegeDefaultOrganizer
	}
	if strings.TrimSpace(e.EventCoordinator) == "" {
		e.EventCoordinator = OuterCollegeDefaultCoordinator
	}
	if e.Mode == "" {
		e.Mode = ModeOnline
	}
	if len(e.EventTypes) == 0 {
		e.EventTypes = []EventType{EventTypeInterCollege}
	}
	if e.EventDate.IsZero() {
		e.EventDate = now
	}
	if e.MaxParticipants == 0 {
		e.MaxParticipants = OuterCollegeDefaultCapacity
	}
}

// Validate checks the field-level invariants of the event and returns a
// *ValidationError naming every offending field.
func (e *Event) Validate() error {
	var fe fieldErrors
	if !e.IsOuterCollegeEvent {
		if strings.TrimSpace(e.Name) == "" {
			fe.add("name")
		}
		if strings.TrimSpace(e.OrganizingBody) == "" {
			fe.add("organizing_body")
		}
		if strings.TrimSpace(e.EventCoordinator) == "" {
			fe.add("event_coordinator")
		}
		if e.Mode == ModeOffline && strings.TrimSpace(e.Venue) == "" {
			fe.add("venue")
		}
	}
	if !e.CellsAndAssociation.Valid() && !(e.IsOuterCollegeEvent && e.CellsAndAssociation == CellOT) {
		fe.add("cells_and_association")
	}
	if len(e.EventTypes) == 0 {
		fe.add("event_types")
	}
	for _, t := range e.EventTypes {
		if !t.Valid() {
			fe.add("event_types")
		}
	}
	if !e.Mode.Valid() {
		fe.add("mode")
	}
	if !e.Status.Valid() {
		fe.add("status")
	}
	if e.EventDate.IsZero() {
		fe.add("event_date")
	}
	if e.RegistrationEndDate != nil && e.RegistrationEndDate.IsZero() {
		fe.add("registration_end_date")
	}
	if e.MaxParticipants <= 0 {
		fe.add("max_participants")
	}
	if e.CurrentRegistrations < 0 {
		fe.add("current_registrations")
	}
	if strings.TrimSpace(e.PosterPath) == "" {
		fe.add("poster_path")
	}
	return fe.err()
}

// CanRegister reports whether another platform registration fits. It is an
// advisory check; the capacity counter enforces the limit atomically.
func (e *Event) CanRegister() bool {
	return e.CurrentRegistrations < e.MaxParticipants
}

// SeatsLeft returns the remaining platform capacity, never negative.
func (e *Event) SeatsLeft() int {
	if left := e.MaxParticipants - e.CurrentRegistrations; left > 0 {
		return left
	}
	return 0
}

// EffectiveStatus returns the status shown to users at now.
func (e *Event) EffectiveStatus(now time.Time) Status {
	return EffectiveStatus(e.Status, e.RegistrationEndDate, now)
}

// RegistrationOpen reports whether new registrations are accepted at now.
func (e *Event) RegistrationOpen(now time.Time) bool {
	switch e.EffectiveStatus(now) {
	case StatusCompleted, StatusCancelled:
		return false
	}
	return true
}

// EffectiveStatus derives the displayed status from the stored one. A passed
// registration end date turns any non-cancelled event into Completed; a nil or
// zero end date never overrides. It never mutates anything.
func EffectiveStatus(stored Status, registrationEndDate *time.Time, now time.Time) Status {
	if registrationEndDate == nil || registrationEndDate.IsZero() {
		return stored
	}
	if registrationEndDate.Before(now) && stored != StatusCancelled {
		return StatusCompleted
	}
	return stored
}

// EventUpdate carries the admin-editable fields of an event. Nil fields are unchanged.
// CurrentRegistrations is not editable here; only the capacity counter writes it.
type EventUpdate struct {
	Name                 *string
	OrganizingBody       *string
	EventCoordinator     *string
	Description          *string
	CellsAndAssociation  *Cell
	EventTypes           []EventType
	EventDate            *time.Time
	RegistrationEndDate  *time.Time
	ClearRegistrationEnd bool
	Mode                 *Mode
	Venue                *string
	MaxParticipants      *int
	Status               *Status
	IsPublished          *bool
	IsOuterCollegeEvent  *bool
	RegistrationLink     *string
	PosterPath           *string
	BrochurePath         *string
}

// Apply copies the non-nil fields of u onto e.
func (u *EventUpdate) Apply(e *Event) {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.OrganizingBody != nil {
		e.OrganizingBody = *u.OrganizingBody
	}
	if u.EventCoordinator != nil {
		e.EventCoordinator = *u.EventCoordinator
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.CellsAndAssociation != nil {
		e.CellsAndAssociation = *u.CellsAndAssociation
	}
	if u.EventTypes != nil {
		e.EventTypes = u.EventTypes
	}
	if u.EventDate != nil {
		e.EventDate = *u.EventDate
	}
	if u.ClearRegistrationEnd {
		e.RegistrationEndDate = nil
	} else if u.RegistrationEndDate != nil {
		end := *u.RegistrationEndDate
		e.RegistrationEndDate = &end
	}
	if u.Mode != nil {
		e.Mode = *u.Mode
	}
	if u.Venue != nil {
		e.Venue = *u.Venue
	}
	if u.MaxParticipants != nil {
		e.MaxParticipants = *u.MaxParticipants
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
	if u.IsPublished != nil {
		e.IsPublished = *u.IsPublished
	}
	if u.IsOuterCollegeEvent != nil {
		e.IsOuterCollegeEvent = *u.IsOuterCollegeEvent
	}
	if u.RegistrationLink != nil {
		e.RegistrationLink = *u.RegistrationLink
	}
	if u.PosterPath != nil {
		e.PosterPath = *u.PosterPath
	}
	if u.BrochurePath != nil {
		e.BrochurePath = *u.BrochurePath
	}
}

// EventView is an event as returned to callers, with read-time derived fields.
// swagger:model EventView
type EventView struct {
	*Event
	EffectiveStatus  Status `json:"effective_status"`
	SeatsLeft        int    `json:"seats_left"`
	RegistrationOpen bool   `json:"registration_open"`
}

// NewEventView derives the read-time fields of e at now.
func NewEventView(e *Event, now time.Time) *EventView {
	return &EventView{
		Event:            e,
		EffectiveStatus:  e.EffectiveStatus(now),
		SeatsLeft:        e.SeatsLeft(),
		RegistrationOpen: e.RegistrationOpen(now),
	}
}

// EventFilter narrows event listings. Zero values mean "any".
// ScopeCell restricts results to the admin scope of one cell.
type EventFilter struct {
	Cell          Cell
	EventType     EventType
	OuterCollege  *bool
	PublishedOnly bool
	ScopeCell     Cell
}

// ScopeTo restricts f to the actor's own cell. Only OT admins are unscoped;
// role does not widen the scope.
func (f EventFilter) ScopeTo(actor *Actor) EventFilter {
	if actor == nil || actor.Unrestricted() {
		return f
	}
	f.ScopeCell = actor.Cell
	return f
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// Update persists the admin-editable fields; it never writes current_registrations.
	Update(ctx context.Context, event *Event) error
	// Delete removes the event together with its registrations of both kinds.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EventFilter, page PaginationParams) ([]*Event, int, error)
}

// CapacityCounter is the only writer of Event.CurrentRegistrations.
type CapacityCounter interface {
	// Increment adds one registration if the event is below capacity and returns
	// the new count. It fails with ErrCapacityExceeded when full.
	Increment(ctx context.Context, eventID string) (int, error)
	// Decrement removes one registration, clamped at zero.
	Decrement(ctx context.Context, eventID string) (int, error)
}

// EventService defines event management for admins and event browsing for students.
type EventService interface {
	Create(ctx context.Context, actor *Actor, event *Event) error
	Update(ctx context.Context, actor *Actor, eventID string, update *EventUpdate) (*EventView, error)
	Delete(ctx context.Context, actor *Actor, eventID string) error
	GetPublic(ctx context.Context, eventID string) (*EventView, error)
	ListPublic(ctx context.Context, filter EventFilter, page PaginationParams) ([]*EventView, int, error)
	GetForAdmin(ctx context.Context, actor *Actor, eventID string) (*EventView, error)
	ListForAdmin(ctx context.Context, actor *Actor, filter EventFilter, page PaginationParams) ([]*EventView, int, error)
}
