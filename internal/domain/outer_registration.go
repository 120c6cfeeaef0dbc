package domain

import (
	"context"
	"strings"
	"time"
)

// MaxTeamMembers is the largest team an outer-college registration may list,
// not counting the leader.
const MaxTeamMembers = 5

// ParticipationType is how a participant enters an outer-college event.
type ParticipationType string

const (
	ParticipationSolo ParticipationType = "solo"
	ParticipationTeam ParticipationType = "team"
)

func (p ParticipationType) Valid() bool {
	return p == ParticipationSolo || p == ParticipationTeam
}

// OuterRegistrationStatus is the review status of an outer-college registration.
type OuterRegistrationStatus string

const (
	OuterRegistrationPending  OuterRegistrationStatus = "Pending"
	OuterRegistrationApproved OuterRegistrationStatus = "Approved"
	OuterRegistrationRejected OuterRegistrationStatus = "Rejected"
)

func (s OuterRegistrationStatus) Valid() bool {
	switch s {
	case OuterRegistrationPending, OuterRegistrationApproved, OuterRegistrationRejected:
		return true
	}
	return false
}

// Participant is one person on an outer-college registration.
type Participant struct {
	Name        string `json:"name"`
	RollNumber  string `json:"roll_number"`
	Department  string `json:"department"`
	Year        string `json:"year"`
	Contact     string `json:"contact"`
	Email       string `json:"email,omitempty"`
	CollegeName string `json:"college_name,omitempty"`
}

func (p *Participant) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.RollNumber = strings.TrimSpace(p.RollNumber)
	p.Department = strings.TrimSpace(p.Department)
	p.Year = strings.TrimSpace(p.Year)
	p.Contact = strings.TrimSpace(p.Contact)
	p.Email = NormalizeEmail(p.Email)
	p.CollegeName = strings.TrimSpace(p.CollegeName)
}

func (p *Participant) missing() []string {
	var out []string
	if p.Name == "" {
		out = append(out, "name")
	}
	if p.RollNumber == "" {
		out = append(out, "roll_number")
	}
	if p.Department == "" {
		out = append(out, "department")
	}
	if p.Year == "" {
		out = append(out, "year")
	}
	if p.Contact == "" {
		out = append(out, "contact")
	}
	return out
}

// OuterCollegeRegistration is a solo or team entry for an outer-college event.
// These registrations never consume the event's platform capacity.
// swagger:model OuterCollegeRegistration
type OuterCollegeRegistration struct {
	ID                string                  `json:"id"`
	EventID           string                  `json:"event_id"`
	ParticipationType ParticipationType       `json:"participation_type"`
	TeamName          string                  `json:"team_name,omitempty"`
	Leader            Participant             `json:"leader"`
	TeamMembers       []Participant           `json:"team_members"`
	Status            OuterRegistrationStatus `json:"status"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// RollNumber is the identity used for per-event uniqueness.
func (r *OuterCollegeRegistration) RollNumber() string {
	return r.Leader.RollNumber
}

// Normalize trims identity fields and drops team data from solo entries.
func (r *OuterCollegeRegistration) Normalize() {
	r.Leader.normalize()
	r.TeamName = strings.TrimSpace(r.TeamName)
	if r.ParticipationType == ParticipationSolo {
		r.TeamName = ""
		r.TeamMembers = nil
	}
	for i := range r.TeamMembers {
		r.TeamMembers[i].normalize()
	}
	if r.TeamMembers == nil {
		r.TeamMembers = []Participant{}
	}
	if r.Status == "" {
		r.Status = OuterRegistrationPending
	}
}

// Validate checks participation type, leader identity and team size.
func (r *OuterCollegeRegistration) Validate() error {
	var fe fieldErrors
	if r.EventID == "" {
		fe.add("event_id")
	}
	if !r.ParticipationType.Valid() {
		fe.add("participation_type")
	}
	for _, f := range r.Leader.missing() {
		fe.add("leader." + f)
	}
	if r.ParticipationType == ParticipationTeam {
		if len(r.TeamMembers) > MaxTeamMembers {
			fe.add("team_members")
		}
		for i := range r.TeamMembers {
			if len(r.TeamMembers[i].missing()) > 0 {
				fe.add("team_members")
			}
		}
	}
	if !r.Status.Valid() {
		fe.add("status")
	}
	return fe.err()
}

// OuterCollegeRegistrationRepository defines storage for outer-college registrations.
// Create relies on a unique (event_id, roll_number) constraint and reports
// ErrDuplicateRegistration on conflict.
type OuterCollegeRegistrationRepository interface {
	Create(ctx context.Context, reg *OuterCollegeRegistration) error
	GetByID(ctx context.Context, id string) (*OuterCollegeRegistration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*OuterCollegeRegistration, error)
	UpdateStatus(ctx context.Context, id string, status OuterRegistrationStatus) (*OuterCollegeRegistration, error)
	Delete(ctx context.Context, id string) error
}

// OuterCollegeService defines outer-college registration operations.
type OuterCollegeService interface {
	Register(ctx context.Context, eventID string, reg *OuterCollegeRegistration) (*OuterCollegeRegistration, error)
	ListByEvent(ctx context.Context, actor *Actor, eventID string) ([]*OuterCollegeRegistration, error)
	UpdateStatus(ctx context.Context, actor *Actor, registrationID string, status OuterRegistrationStatus) (*OuterCollegeRegistration, error)
	Delete(ctx context.Context, actor *Actor, registrationID string) error
}
