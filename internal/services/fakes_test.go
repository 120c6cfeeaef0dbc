package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"campusevents/internal/domain"
)

const testTimeout = 5 * time.Second

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func cloneEvent(e *domain.Event) *domain.Event {
	c := *e
	c.EventTypes = append([]domain.EventType(nil), e.EventTypes...)
	if e.RegistrationEndDate != nil {
		end := *e.RegistrationEndDate
		c.RegistrationEndDate = &end
	}
	return &c
}

// fakeEventRepo is an in-memory EventRepository and CapacityCounter for tests.
// It hands out copies so services cannot mutate stored state without Update.
type fakeEventRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Event
	nextID  int
	err     error // if set, Create returns this error
	deleted []string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) put(e *domain.Event) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	f.byID[e.ID] = cloneEvent(e)
	return e
}

func (f *fakeEventRepo) stored(id string) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.put(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.byID[id]; ok {
		return cloneEvent(e), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byID[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if e.MaxParticipants < cur.CurrentRegistrations {
		return &domain.ValidationError{Fields: []string{"max_participants"}}
	}
	c := cloneEvent(e)
	c.CurrentRegistrations = cur.CurrentRegistrations
	e.CurrentRegistrations = cur.CurrentRegistrations
	f.byID[e.ID] = c
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Event
	for _, e := range f.byID {
		if filter.PublishedOnly && !e.IsPublished {
			continue
		}
		if filter.Cell != "" && e.CellsAndAssociation != filter.Cell {
			continue
		}
		if filter.OuterCollege != nil && e.IsOuterCollegeEvent != *filter.OuterCollege {
			continue
		}
		if filter.EventType != "" && !hasType(e.EventTypes, filter.EventType) {
			continue
		}
		if filter.ScopeCell != "" && e.CellsAndAssociation != filter.ScopeCell {
			continue
		}
		out = append(out, cloneEvent(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func hasType(types []domain.EventType, t domain.EventType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

func (f *fakeEventRepo) Increment(ctx context.Context, eventID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[eventID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if e.CurrentRegistrations >= e.MaxParticipants {
		return 0, domain.ErrCapacityExceeded
	}
	e.CurrentRegistrations++
	return e.CurrentRegistrations, nil
}

func (f *fakeEventRepo) Decrement(ctx context.Context, eventID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[eventID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if e.CurrentRegistrations > 0 {
		e.CurrentRegistrations--
	}
	return e.CurrentRegistrations, nil
}

// fakeRegistrationRepo keeps registrations in memory and reserves seats
// through the event fake's counter, mirroring the transactional repository.
type fakeRegistrationRepo struct {
	mu      sync.Mutex
	events  *fakeEventRepo
	byID    map[string]*domain.Registration
	nextID  int
	listErr error
}

func newFakeRegistrationRepo(events *fakeEventRepo) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{events: events, byID: make(map[string]*domain.Registration), nextID: 1}
}

func (f *fakeRegistrationRepo) CreateReserving(ctx context.Context, reg *domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.EventID == reg.EventID && r.StudentEmail == reg.StudentEmail {
			return domain.ErrDuplicateRegistration
		}
	}
	if _, err := f.events.Increment(ctx, reg.EventID); err != nil {
		return err
	}
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	f.nextID++
	c := *reg
	f.byID[reg.ID] = &c
	return nil
}

func (f *fakeRegistrationRepo) DeleteReleasing(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	_, err := f.events.Decrement(ctx, reg.EventID)
	return err
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.byID[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) GetByEventAndEmail(ctx context.Context, eventID, email string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.EventID == eventID && r.StudentEmail == strings.ToLower(email) {
			c := *r
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) UpdateStatus(ctx context.Context, id string, status domain.RegistrationStatus) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.Status = status
	c := *r
	return &c, nil
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Registration
	for _, r := range f.byID {
		if r.EventID == eventID {
			c := *r
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeOuterRepo is an in-memory OuterCollegeRegistrationRepository.
type fakeOuterRepo struct {
	byID   map[string]*domain.OuterCollegeRegistration
	nextID int
}

func newFakeOuterRepo() *fakeOuterRepo {
	return &fakeOuterRepo{byID: make(map[string]*domain.OuterCollegeRegistration), nextID: 1}
}

func (f *fakeOuterRepo) Create(ctx context.Context, reg *domain.OuterCollegeRegistration) error {
	for _, r := range f.byID {
		if r.EventID == reg.EventID && r.RollNumber() == reg.RollNumber() {
			return domain.ErrDuplicateRegistration
		}
	}
	reg.ID = fmt.Sprintf("out-%d", f.nextID)
	f.nextID++
	c := *reg
	f.byID[reg.ID] = &c
	return nil
}

func (f *fakeOuterRepo) GetByID(ctx context.Context, id string) (*domain.OuterCollegeRegistration, error) {
	if r, ok := f.byID[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOuterRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.OuterCollegeRegistration, error) {
	var out []*domain.OuterCollegeRegistration
	for _, r := range f.byID {
		if r.EventID == eventID {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeOuterRepo) UpdateStatus(ctx context.Context, id string, status domain.OuterRegistrationStatus) (*domain.OuterCollegeRegistration, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.Status = status
	c := *r
	return &c, nil
}

func (f *fakeOuterRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeNotifier records published notices.
type fakeNotifier struct {
	notices []*domain.RegistrationNotice
	err     error
}

func (f *fakeNotifier) Publish(ctx context.Context, notice *domain.RegistrationNotice) error {
	if f.err != nil {
		return f.err
	}
	f.notices = append(f.notices, notice)
	return nil
}

// fakeAdminRepo is an in-memory AdminRepository keyed by email.
type fakeAdminRepo struct {
	byEmail map[string]*domain.Admin
	err     error
	created []*domain.Admin
}

func (f *fakeAdminRepo) Create(ctx context.Context, a *domain.Admin) error {
	if f.err != nil {
		return f.err
	}
	if f.byEmail == nil {
		f.byEmail = map[string]*domain.Admin{}
	}
	a.ID = fmt.Sprintf("admin-%d", len(f.byEmail)+1)
	f.byEmail[a.Email] = a
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAdminRepo) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeHasher treats "salt:password" as the stored hash.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) { return salt + ":" + password, nil }

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct {
	issued []*domain.Actor
	err    error
}

func (f *fakeIssuer) Issue(actor *domain.Actor) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.issued = append(f.issued, actor)
	return "token-" + actor.AdminID, nil
}

type sentMail struct {
	to, subject, html, text string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: html, text: text})
	return nil
}

type fakeRenderer struct {
	names []string
	err   error
}

func (f *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	if f.err != nil {
		return "", "", "", f.err
	}
	f.names = append(f.names, templateName)
	return "subject:" + templateName, "<p>html</p>", "text", nil
}

// Test actors.
var (
	itAdmin    = &domain.Actor{AdminID: "admin-it", Email: "it@college.edu", Role: domain.RoleAdmin, Cell: domain.CellIT}
	iicAdmin   = &domain.Actor{AdminID: "admin-iic", Email: "iic@college.edu", Role: domain.RoleAdmin, Cell: domain.CellIIC}
	otAdmin    = &domain.Actor{AdminID: "admin-ot", Email: "ot@college.edu", Role: domain.RoleAdmin, Cell: domain.CellOT}
	superAdmin = &domain.Actor{AdminID: "admin-super", Email: "root@college.edu", Role: domain.RoleSuperAdmin, Cell: domain.CellEMDC}
)

// publishedEvent returns a valid published platform event owned by itAdmin.
func publishedEvent(maxParticipants int) *domain.Event {
	return &domain.Event{
		Name:                "Hack Night",
		OrganizingBody:      "IT Cell",
		EventCoordinator:    "Priya",
		CellsAndAssociation: domain.CellIT,
		EventTypes:          []domain.EventType{domain.EventTypeHackathon},
		EventDate:           fixedNow.Add(72 * time.Hour),
		Mode:                domain.ModeOnline,
		MaxParticipants:     maxParticipants,
		Status:              domain.StatusUpcoming,
		IsPublished:         true,
		PosterPath:          "posters/hack.png",
		CreatedBy:           itAdmin.AdminID,
	}
}
