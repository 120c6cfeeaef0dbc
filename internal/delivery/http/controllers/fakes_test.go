package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testEventID = "6f1c2b8e-3f1d-4a57-9a8e-0c2f5b7d9e11"
	testRegID   = "0b7e4c1a-9d2f-4e8b-8c3a-5f6d7e8f9a01"
)

var (
	testActor = &domain.Actor{AdminID: "admin-1", Email: "head@it.edu", Role: domain.RoleAdmin, Cell: domain.CellIT}
	testNow   = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func testEvent() *domain.Event {
	return &domain.Event{
		ID:                   testEventID,
		Name:                 "Hack Night",
		OrganizingBody:       "IT Cell",
		EventCoordinator:     "Priya",
		CellsAndAssociation:  domain.CellIT,
		EventTypes:           []domain.EventType{domain.EventTypeHackathon},
		EventDate:            testNow.Add(72 * time.Hour),
		Mode:                 domain.ModeOnline,
		MaxParticipants:      10,
		CurrentRegistrations: 3,
		Status:               domain.StatusUpcoming,
		IsPublished:          true,
		PosterPath:           "posters/hack.png",
		CreatedBy:            "admin-1",
	}
}

// newRequest builds a request with an optional JSON body, path values and actor.
func newRequest(t *testing.T, method, target string, body any, pathValues map[string]string, actor *domain.Actor) *http.Request {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if actor != nil {
		req = req.WithContext(middleware.SetActor(req.Context(), actor))
	}
	return req
}

// decodeEnvelope decodes the response envelope, with data decoded into data when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if data != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Error
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err          error
	view         *domain.EventView
	views        []*domain.EventView
	total        int
	lastActor    *domain.Actor
	lastEventID  string
	lastCreate   *domain.Event
	lastUpdate   *domain.EventUpdate
	lastFilter   domain.EventFilter
	lastPage     domain.PaginationParams
	deleteCalled bool
}

func (f *fakeEventService) Create(_ context.Context, actor *domain.Actor, e *domain.Event) error {
	f.lastActor, f.lastCreate = actor, e
	if f.err != nil {
		return f.err
	}
	e.ID = testEventID
	e.CreatedBy = actor.AdminID
	return nil
}

func (f *fakeEventService) Update(_ context.Context, actor *domain.Actor, id string, u *domain.EventUpdate) (*domain.EventView, error) {
	f.lastActor, f.lastEventID, f.lastUpdate = actor, id, u
	return f.view, f.err
}

func (f *fakeEventService) Delete(_ context.Context, actor *domain.Actor, id string) error {
	f.lastActor, f.lastEventID, f.deleteCalled = actor, id, true
	return f.err
}

func (f *fakeEventService) GetPublic(_ context.Context, id string) (*domain.EventView, error) {
	f.lastEventID = id
	return f.view, f.err
}

func (f *fakeEventService) ListPublic(_ context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.EventView, int, error) {
	f.lastFilter, f.lastPage = filter, page
	return f.views, f.total, f.err
}

func (f *fakeEventService) GetForAdmin(_ context.Context, actor *domain.Actor, id string) (*domain.EventView, error) {
	f.lastActor, f.lastEventID = actor, id
	return f.view, f.err
}

func (f *fakeEventService) ListForAdmin(_ context.Context, actor *domain.Actor, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.EventView, int, error) {
	f.lastActor, f.lastFilter, f.lastPage = actor, filter, page
	return f.views, f.total, f.err
}

// fakeRegistrationService implements domain.RegistrationService.
type fakeRegistrationService struct {
	err        error
	reg        *domain.Registration
	regs       []*domain.Registration
	lastEvent  string
	lastID     string
	lastInput  domain.RegistrationInput
	lastStatus domain.RegistrationStatus
	lastActor  *domain.Actor
}

func (f *fakeRegistrationService) Register(_ context.Context, eventID string, in domain.RegistrationInput) (*domain.Registration, error) {
	f.lastEvent, f.lastInput = eventID, in
	return f.reg, f.err
}

func (f *fakeRegistrationService) Delete(_ context.Context, actor *domain.Actor, id string) error {
	f.lastActor, f.lastID = actor, id
	return f.err
}

func (f *fakeRegistrationService) UpdateStatus(_ context.Context, actor *domain.Actor, id string, status domain.RegistrationStatus) (*domain.Registration, error) {
	f.lastActor, f.lastID, f.lastStatus = actor, id, status
	return f.reg, f.err
}

func (f *fakeRegistrationService) ListByEvent(_ context.Context, actor *domain.Actor, eventID string) ([]*domain.Registration, error) {
	f.lastActor, f.lastEvent = actor, eventID
	return f.regs, f.err
}

// fakeOuterService implements domain.OuterCollegeService.
type fakeOuterService struct {
	err        error
	regs       []*domain.OuterCollegeRegistration
	lastEvent  string
	lastID     string
	lastReg    *domain.OuterCollegeRegistration
	lastStatus domain.OuterRegistrationStatus
	lastActor  *domain.Actor
}

func (f *fakeOuterService) Register(_ context.Context, eventID string, reg *domain.OuterCollegeRegistration) (*domain.OuterCollegeRegistration, error) {
	f.lastEvent, f.lastReg = eventID, reg
	if f.err != nil {
		return nil, f.err
	}
	reg.ID = testRegID
	reg.EventID = eventID
	return reg, nil
}

func (f *fakeOuterService) ListByEvent(_ context.Context, actor *domain.Actor, eventID string) ([]*domain.OuterCollegeRegistration, error) {
	f.lastActor, f.lastEvent = actor, eventID
	return f.regs, f.err
}

func (f *fakeOuterService) UpdateStatus(_ context.Context, actor *domain.Actor, id string, status domain.OuterRegistrationStatus) (*domain.OuterCollegeRegistration, error) {
	f.lastActor, f.lastID, f.lastStatus = actor, id, status
	if f.err != nil {
		return nil, f.err
	}
	return &domain.OuterCollegeRegistration{ID: id, Status: status}, nil
}

func (f *fakeOuterService) Delete(_ context.Context, actor *domain.Actor, id string) error {
	f.lastActor, f.lastID = actor, id
	return f.err
}

// fakeAuthService implements domain.AuthService.
type fakeAuthService struct {
	token     string
	admin     *domain.Admin
	err       error
	lastEmail string
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string) (string, *domain.Admin, error) {
	f.lastEmail = email
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.admin, nil
}

func (f *fakeAuthService) EnsureAdmin(context.Context, *domain.Admin, string) (bool, error) {
	return false, nil
}
