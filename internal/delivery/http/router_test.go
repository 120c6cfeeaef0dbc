package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/domain"

	"github.com/stretchr/testify/assert"
)

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*domain.Actor, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &domain.Actor{AdminID: "admin-1", Role: domain.RoleAdmin, Cell: domain.CellIT}, nil
}

type stubEvents struct{ domain.EventService }

func (stubEvents) ListPublic(context.Context, domain.EventFilter, domain.PaginationParams) ([]*domain.EventView, int, error) {
	return nil, 0, nil
}

func (stubEvents) ListForAdmin(context.Context, *domain.Actor, domain.EventFilter, domain.PaginationParams) ([]*domain.EventView, int, error) {
	return nil, 0, nil
}

type stubPinger struct{}

func (stubPinger) PingContext(context.Context) error { return nil }

func TestNewRouter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := NewRouter(Controllers{
		Events:             controllers.NewEventController(logger, stubEvents{}),
		Registrations:      controllers.NewRegistrationController(logger, nil),
		OuterRegistrations: controllers.NewOuterRegistrationController(logger, nil),
		Auth:               controllers.NewAuthController(logger, nil),
		Health:             controllers.NewHealthController(logger, stubPinger{}),
	}, stubVerifier{}, logger)
	handler := NewHandler(mux, []string{"https://events.college.edu"}, logger)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"public list", http.MethodGet, "/events", "", http.StatusOK},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"admin list without token", http.MethodGet, "/admin/events", "", http.StatusUnauthorized},
		{"admin list with bad token", http.MethodGet, "/admin/events", "bad", http.StatusUnauthorized},
		{"admin list with token", http.MethodGet, "/admin/events", "good", http.StatusOK},
		{"admin delete without token", http.MethodDelete, "/admin/events/6f1c2b8e-3f1d-4a57-9a8e-0c2f5b7d9e11", "", http.StatusUnauthorized},
		{"wrong method", http.MethodPut, "/events", "", http.StatusMethodNotAllowed},
		{"unknown path", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
