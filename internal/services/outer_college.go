package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campusevents/internal/domain"
)

type outerCollegeService struct {
	eventRepo      domain.EventRepository
	outerRepo      domain.OuterCollegeRegistrationRepository
	notifier       domain.Notifier
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewOuterCollegeService creates the outer-college registration service.
// These registrations never touch the event capacity counter.
func NewOuterCollegeService(
	eventRepo domain.EventRepository,
	outerRepo domain.OuterCollegeRegistrationRepository,
	notifier domain.Notifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.OuterCollegeService {
	return &outerCollegeService{
		eventRepo:      eventRepo,
		outerRepo:      outerRepo,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *outerCollegeService) Register(ctx context.Context, eventID string, reg *domain.OuterCollegeRegistration) (*domain.OuterCollegeRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsPublished {
		return nil, domain.ErrNotFound
	}
	if !event.IsOuterCollegeEvent {
		return nil, fmt.Errorf("%w: event is not an outer-college event", domain.ErrInvalidInput)
	}

	now := s.now()
	if !event.RegistrationOpen(now) {
		return nil, domain.ErrRegistrationClosed
	}

	reg.ID = ""
	reg.EventID = eventID
	reg.Status = domain.OuterRegistrationPending
	reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	reg.CreatedAt = now
	reg.UpdatedAt = now

	if err := s.outerRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			return nil, domain.ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("create outer-college registration: %w", err)
	}
	return reg, nil
}

func (s *outerCollegeService) ListByEvent(ctx context.Context, actor *domain.Actor, eventID string) ([]*domain.OuterCollegeRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !actor.CanView(event) {
		return nil, domain.ErrNotFound
	}
	regs, err := s.outerRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list outer-college registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.OuterCollegeRegistration{}
	}
	return regs, nil
}

func (s *outerCollegeService) UpdateStatus(ctx context.Context, actor *domain.Actor, registrationID string, status domain.OuterRegistrationStatus) (*domain.OuterCollegeRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.Valid() {
		return nil, &domain.ValidationError{Fields: []string{"status"}}
	}
	_, event, err := s.getManaged(ctx, actor, registrationID)
	if err != nil {
		return nil, err
	}
	reg, err := s.outerRepo.UpdateStatus(ctx, registrationID, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update outer-college registration status: %w", err)
	}

	if reg.Leader.Email != "" && status != domain.OuterRegistrationPending {
		notice := &domain.RegistrationNotice{
			Kind:           domain.NoticeOuterReviewed,
			RegistrationID: reg.ID,
			EventID:        event.ID,
			EventName:      event.Name,
			EventDate:      event.EventDate.Format(time.RFC1123),
			Email:          reg.Leader.Email,
			Name:           reg.Leader.Name,
			TeamName:       reg.TeamName,
			Status:         string(reg.Status),
		}
		if s.notifier != nil {
			if err := s.notifier.Publish(ctx, notice); err != nil {
				s.logger.WarnContext(ctx, "registration notice not published",
					"kind", notice.Kind, "registration_id", notice.RegistrationID, "err", err)
			}
		}
	}
	return reg, nil
}

func (s *outerCollegeService) Delete(ctx context.Context, actor *domain.Actor, registrationID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, _, err := s.getManaged(ctx, actor, registrationID); err != nil {
		return err
	}
	if err := s.outerRepo.Delete(ctx, registrationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete outer-college registration: %w", err)
	}
	return nil
}

func (s *outerCollegeService) getManaged(ctx context.Context, actor *domain.Actor, registrationID string) (*domain.OuterCollegeRegistration, *domain.Event, error) {
	reg, err := s.outerRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get outer-college registration: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	if !actor.CanManage(event) {
		return nil, nil, domain.ErrForbidden
	}
	return reg, event, nil
}
