package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)
	var zero time.Time

	tests := []struct {
		name   string
		stored Status
		end    *time.Time
		want   Status
	}{
		{"no end date keeps stored", StatusUpcoming, nil, StatusUpcoming},
		{"zero end date keeps stored", StatusOngoing, &zero, StatusOngoing},
		{"future end date keeps stored", StatusUpcoming, &future, StatusUpcoming},
		{"end date equal to now keeps stored", StatusUpcoming, &now, StatusUpcoming},
		{"past end date completes upcoming", StatusUpcoming, &past, StatusCompleted},
		{"past end date completes ongoing", StatusOngoing, &past, StatusCompleted},
		{"past end date keeps cancelled", StatusCancelled, &past, StatusCancelled},
		{"completed stays completed", StatusCompleted, &past, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveStatus(tt.stored, tt.end, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, EffectiveStatus(got, tt.end, now))
		})
	}
}

func validEvent() *Event {
	return &Event{
		Name:                "Hack Night",
		OrganizingBody:      "IT Cell",
		EventCoordinator:    "Priya",
		CellsAndAssociation: CellIT,
		EventTypes:          []EventType{EventTypeHackathon},
		EventDate:           time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
		Mode:                ModeOnline,
		MaxParticipants:     10,
		Status:              StatusUpcoming,
		PosterPath:          "posters/a.png",
	}
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(e *Event)
		wantFields []string
	}{
		{name: "valid", mutate: func(e *Event) {}},
		{
			name:       "offline without venue",
			mutate:     func(e *Event) { e.Mode = ModeOffline },
			wantFields: []string{"venue"},
		},
		{
			name: "outer-college offline without venue",
			mutate: func(e *Event) {
				e.IsOuterCollegeEvent = true
				e.Mode = ModeOffline
			},
		},
		{
			name: "outer-college without descriptive fields",
			mutate: func(e *Event) {
				e.IsOuterCollegeEvent = true
				e.Name, e.OrganizingBody, e.EventCoordinator = "", "", ""
			},
		},
		{
			name:       "missing poster",
			mutate:     func(e *Event) { e.PosterPath = " " },
			wantFields: []string{"poster_path"},
		},
		{
			name: "every bad field is reported",
			mutate: func(e *Event) {
				e.Name = ""
				e.CellsAndAssociation = CellOT
				e.EventTypes = []EventType{"Party"}
				e.MaxParticipants = 0
				e.CurrentRegistrations = -1
				e.Status = "Paused"
			},
			wantFields: []string{"name", "cells_and_association", "event_types", "status", "max_participants", "current_registrations"},
		},
		{
			name:       "no event types",
			mutate:     func(e *Event) { e.EventTypes = nil },
			wantFields: []string{"event_types"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(e)
			err := e.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, ErrValidation))
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.ElementsMatch(t, tt.wantFields, ve.Fields)
		})
	}
}

func TestEvent_ApplyOuterCollegeDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	e := &Event{IsOuterCollegeEvent: true, CellsAndAssociation: CellIT, Status: StatusUpcoming, PosterPath: "p.png"}
	e.ApplyOuterCollegeDefaults(now)
	assert.Equal(t, OuterCollegeDefaultName, e.Name)
	assert.Equal(t, OuterCollegeDefaultOrganizer, e.OrganizingBody)
	assert.Equal(t, OuterCollegeDefaultCoordinator, e.EventCoordinator)
	assert.Equal(t, ModeOnline, e.Mode)
	assert.Equal(t, []EventType{EventTypeInterCollege}, e.EventTypes)
	assert.Equal(t, now, e.EventDate)
	assert.Equal(t, OuterCollegeDefaultCapacity, e.MaxParticipants)
	assert.False(t, e.IsPublished)
	require.NoError(t, e.Validate())

	date := now.Add(48 * time.Hour)
	named := &Event{
		IsOuterCollegeEvent: true,
		Name:                "Robo Wars",
		Mode:                ModeOffline,
		EventTypes:          []EventType{EventTypeHackathon},
		EventDate:           date,
		MaxParticipants:     30,
	}
	named.ApplyOuterCollegeDefaults(now)
	assert.Equal(t, "Robo Wars", named.Name)
	assert.Equal(t, ModeOffline, named.Mode)
	assert.Equal(t, []EventType{EventTypeHackathon}, named.EventTypes)
	assert.Equal(t, date, named.EventDate)
	assert.Equal(t, 30, named.MaxParticipants)

	negative := &Event{IsOuterCollegeEvent: true, MaxParticipants: -1}
	negative.ApplyOuterCollegeDefaults(now)
	assert.Equal(t, -1, negative.MaxParticipants)

	regular := &Event{}
	regular.ApplyOuterCollegeDefaults(now)
	assert.Empty(t, regular.Name)
	assert.Empty(t, regular.EventTypes)
	assert.Zero(t, regular.MaxParticipants)
}

func TestEvent_Validate_OTCell(t *testing.T) {
	outer := validEvent()
	outer.IsOuterCollegeEvent = true
	outer.CellsAndAssociation = CellOT
	require.NoError(t, outer.Validate())

	regular := validEvent()
	regular.CellsAndAssociation = CellOT
	var ve *ValidationError
	require.ErrorAs(t, regular.Validate(), &ve)
	assert.Equal(t, []string{"cells_and_association"}, ve.Fields)
}

func TestEvent_Capacity(t *testing.T) {
	e := validEvent()
	e.MaxParticipants = 2
	assert.True(t, e.CanRegister())
	assert.Equal(t, 2, e.SeatsLeft())

	e.CurrentRegistrations = 2
	assert.False(t, e.CanRegister())
	assert.Equal(t, 0, e.SeatsLeft())

	e.CurrentRegistrations = 3
	assert.Equal(t, 0, e.SeatsLeft())
}

func TestEventUpdate_Apply(t *testing.T) {
	e := validEvent()
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	e.RegistrationEndDate = &end
	e.CurrentRegistrations = 4

	name := "Renamed"
	capacity := 50
	(&EventUpdate{Name: &name, MaxParticipants: &capacity, ClearRegistrationEnd: true}).Apply(e)

	assert.Equal(t, "Renamed", e.Name)
	assert.Equal(t, 50, e.MaxParticipants)
	assert.Nil(t, e.RegistrationEndDate)
	assert.Equal(t, 4, e.CurrentRegistrations)
	assert.Equal(t, "IT Cell", e.OrganizingBody)
}

func TestEventFilter_ScopeTo(t *testing.T) {
	base := EventFilter{Cell: CellIT}

	tests := []struct {
		name  string
		actor *Actor
		want  Cell
	}{
		{"admin is scoped to own cell", &Actor{AdminID: "a1", Role: RoleAdmin, Cell: CellIIC}, CellIIC},
		{"super admin is scoped to own cell", &Actor{AdminID: "a3", Role: RoleSuperAdmin, Cell: CellIT}, CellIT},
		{"OT admin is unscoped", &Actor{AdminID: "a2", Role: RoleAdmin, Cell: CellOT}, ""},
		{"OT super admin is unscoped", &Actor{AdminID: "a4", Role: RoleSuperAdmin, Cell: CellOT}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scoped := base.ScopeTo(tt.actor)
			assert.Equal(t, tt.want, scoped.ScopeCell)
			assert.Equal(t, CellIT, scoped.Cell)
		})
	}
}
