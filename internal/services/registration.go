package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campusevents/internal/domain"
)

type registrationService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	notifier         domain.Notifier
	logger           *slog.Logger
	contextTimeout   time.Duration
	now              func() time.Time
}

// NewRegistrationService creates the platform registration service. The
// notifier is told about new registrations after they commit.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	notifier domain.Notifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		notifier:         notifier,
		logger:           logger,
		contextTimeout:   timeout,
		now:              time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID string, in domain.RegistrationInput) (*domain.Registration, error) {
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
	if event.IsOuterCollegeEvent {
		return nil, fmt.Errorf("%w: event accepts outer-college registrations only", domain.ErrInvalidInput)
	}

	now := s.now()
	if !event.RegistrationOpen(now) {
		return nil, domain.ErrRegistrationClosed
	}

	reg := domain.NewRegistration(eventID, in.StudentName, in.StudentEmail, in.Phone, in.Department, in.Year, now)
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.registrationRepo.GetByEventAndEmail(ctx, eventID, reg.StudentEmail); err == nil {
		return nil, domain.ErrDuplicateRegistration
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if !event.CanRegister() {
		return nil, domain.ErrCapacityExceeded
	}

	if err := s.registrationRepo.CreateReserving(ctx, reg); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateRegistration),
			errors.Is(err, domain.ErrCapacityExceeded),
			errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.notify(ctx, &domain.RegistrationNotice{
		Kind:           domain.NoticeRegistrationCreated,
		RegistrationID: reg.ID,
		EventID:        event.ID,
		EventName:      event.Name,
		EventDate:      event.EventDate.Format(time.RFC1123),
		Venue:          event.Venue,
		Mode:           string(event.Mode),
		Email:          reg.StudentEmail,
		Name:           reg.StudentName,
	})
	return reg, nil
}

func (s *registrationService) Delete(ctx context.Context, actor *domain.Actor, registrationID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getManaged(ctx, actor, registrationID); err != nil {
		return err
	}
	if err := s.registrationRepo.DeleteReleasing(ctx, registrationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

// UpdateStatus changes the registration status. Cancelling does not free a seat.
func (s *registrationService) UpdateStatus(ctx context.Context, actor *domain.Actor, registrationID string, status domain.RegistrationStatus) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.Valid() {
		return nil, &domain.ValidationError{Fields: []string{"status"}}
	}
	if _, err := s.getManaged(ctx, actor, registrationID); err != nil {
		return nil, err
	}
	reg, err := s.registrationRepo.UpdateStatus(ctx, registrationID, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update registration status: %w", err)
	}
	return reg, nil
}

func (s *registrationService) ListByEvent(ctx context.Context, actor *domain.Actor, eventID string) ([]*domain.Registration, error) {
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
	regs, err := s.registrationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (s *registrationService) getManaged(ctx context.Context, actor *domain.Actor, registrationID string) (*domain.Registration, error) {
	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !actor.CanManage(event) {
		return nil, domain.ErrForbidden
	}
	return reg, nil
}

func (s *registrationService) notify(ctx context.Context, notice *domain.RegistrationNotice) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, notice); err != nil {
		s.logger.WarnContext(ctx, "registration notice not published",
			"kind", notice.Kind, "registration_id", notice.RegistrationID, "err", err)
	}
}
