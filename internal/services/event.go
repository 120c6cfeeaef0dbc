package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, actor *domain.Actor, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor == nil {
		return domain.ErrForbidden
	}
	now := s.now()
	if event.CellsAndAssociation == "" && (actor.Cell.Valid() || event.IsOuterCollegeEvent) {
		event.CellsAndAssociation = actor.Cell
	}
	if event.Status == "" {
		event.Status = domain.StatusUpcoming
	}
	if event.IsOuterCollegeEvent {
		event.ApplyOuterCollegeDefaults(now)
		event.IsPublished = true
	}
	event.CurrentRegistrations = 0
	event.CreatedBy = actor.AdminID

	if err := event.Validate(); err != nil {
		return err
	}

	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) Update(ctx context.Context, actor *domain.Actor, eventID string, update *domain.EventUpdate) (*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getManaged(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if update != nil {
		update.Apply(event)
	}
	event.ApplyOuterCollegeDefaults(now)
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if event.MaxParticipants < event.CurrentRegistrations {
		return nil, &domain.ValidationError{Fields: []string{"max_participants"}}
	}

	event.UpdatedAt = now
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return domain.NewEventView(event, now), nil
}

func (s *eventService) Delete(ctx context.Context, actor *domain.Actor, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getManaged(ctx, actor, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) GetPublic(ctx context.Context, eventID string) (*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished {
		return nil, domain.ErrNotFound
	}
	return domain.NewEventView(event, s.now()), nil
}

func (s *eventService) ListPublic(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.EventView, int, error) {
	filter.PublishedOnly = true
	filter.ScopeCell = ""
	return s.list(ctx, filter, page)
}

func (s *eventService) GetForAdmin(ctx context.Context, actor *domain.Actor, eventID string) (*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(event) {
		return nil, domain.ErrNotFound
	}
	return domain.NewEventView(event, s.now()), nil
}

func (s *eventService) ListForAdmin(ctx context.Context, actor *domain.Actor, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.EventView, int, error) {
	if actor == nil {
		return nil, 0, domain.ErrForbidden
	}
	filter.PublishedOnly = false
	return s.list(ctx, filter.ScopeTo(actor), page)
}

func (s *eventService) list(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.EventView, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	page = page.Normalize(defaultPageSize, maxPageSize)
	events, total, err := s.eventRepo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	now := s.now()
	views := make([]*domain.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, domain.NewEventView(e, now))
	}
	return views, total, nil
}

func (s *eventService) get(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// getManaged loads the event and checks that actor may change it.
func (s *eventService) getManaged(ctx context.Context, actor *domain.Actor, eventID string) (*domain.Event, error) {
	event, err := s.get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(event) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}
