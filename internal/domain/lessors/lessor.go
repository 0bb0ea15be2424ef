package lessors

import (
	"context"
	"strings"
	"time"

	"courtly/internal/domain/shared/errs"
	"courtly/internal/domain/shared/events"
	"courtly/internal/domain/shared/geo"
	"courtly/internal/domain/shared/status"
)

var (
	ErrLessorNotFound   = errs.NotFound("Lessor not found")
	ErrMissingFields    = errs.Validation("Missing required fields")
	ErrPasswordMismatch = errs.Validation("Passwords do not match")
	ErrEmailTaken       = errs.Conflict("Email is already in use")
	ErrPhoneTaken       = errs.Conflict("Phone number is already in use")
	ErrFacilityNotFound = errs.NotFound("Facility not found")
	ErrCourtNotFound    = errs.NotFound("Court not found")
	ErrInvalidPrice     = errs.Validation("Price must not be negative")
	ErrPasswordRequired = errs.Validation("New password is required")
)

type LessorID string

type Address struct {
	Street string
	City   string
	State  string
}

type Lessor struct {
	ID              LessorID
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Address         Address
	PasswordHash    string
	SportCenterName string
	Description     string
	Logo            string
	Facilities      []Facility
	Hours           OperatingHours
	Location        *geo.Point
	Status          status.Status
	TimeAvailable   bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	events.Recorder
}

type ListFilter struct {
	Status status.Status
}

type Repository interface {
	ByID(ctx context.Context, id LessorID) (*Lessor, error)
	ByEmail(ctx context.Context, email string) (*Lessor, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Save(ctx context.Context, l *Lessor) error
	List(ctx context.Context, f ListFilter) ([]*Lessor, error)
	// Delete fails with ErrLessorNotFound when nothing was removed.
	Delete(ctx context.Context, id LessorID) error
}

type RegisterParams struct {
	ID              LessorID
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Address         Address
	PasswordHash    string
	SportCenterName string
	Description     string
	Hours           OperatingHours
	Now             time.Time
}

func Register(p RegisterParams) (*Lessor, error) {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" ||
		NormalizeEmail(p.Email) == "" || strings.TrimSpace(p.Phone) == "" ||
		strings.TrimSpace(p.SportCenterName) == "" || p.PasswordHash == "" {
		return nil, ErrMissingFields
	}
	now := p.Now.UTC()
	l := &Lessor{
		ID:              p.ID,
		FirstName:       strings.TrimSpace(p.FirstName),
		LastName:        strings.TrimSpace(p.LastName),
		Email:           NormalizeEmail(p.Email),
		Phone:           strings.TrimSpace(p.Phone),
		Address:         p.Address,
		PasswordHash:    p.PasswordHash,
		SportCenterName: strings.TrimSpace(p.SportCenterName),
		Description:     strings.TrimSpace(p.Description),
		Hours:           p.Hours,
		Status:          status.Pending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	l.Record(LessorRegistered{
		LessorID:        l.ID,
		Email:           l.Email,
		SportCenterName: l.SportCenterName,
		At:              now,
	})
	return l, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfilePatch carries optional profile edits; nil fields are left untouched.
type ProfilePatch struct {
	FirstName       *string
	LastName        *string
	Phone           *string
	SportCenterName *string
	Description     *string
	Address         *Address
	Hours           *OperatingHours
	TimeAvailable   *bool
	Logo            *string
}

func (l *Lessor) ApplyProfile(p ProfilePatch, now time.Time) {
	setString(&l.FirstName, p.FirstName)
	setString(&l.LastName, p.LastName)
	setString(&l.Phone, p.Phone)
	setString(&l.SportCenterName, p.SportCenterName)
	setString(&l.Description, p.Description)
	setString(&l.Logo, p.Logo)
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.Hours != nil {
		l.Hours = *p.Hours
	}
	if p.TimeAvailable != nil {
		l.TimeAvailable = *p.TimeAvailable
	}
	l.UpdatedAt = now.UTC()
}

func (l *Lessor) SetLocation(p geo.Point, now time.Time) {
	l.Location = &geo.Point{Lng: p.Lng, Lat: p.Lat}
	l.UpdatedAt = now.UTC()
}

func (l *Lessor) SetStatus(s status.Status, now time.Time) error {
	if !s.Valid() {
		return status.ErrInvalidStatus
	}
	if s == l.Status {
		return nil
	}
	l.Status = s
	l.UpdatedAt = now.UTC()
	l.Record(LessorStatusChanged{LessorID: l.ID, Email: l.Email, Status: s, At: l.UpdatedAt})
	return nil
}

// ResetPassword replaces the login hash. Used by moderators for locked-out lessors.
func (l *Lessor) ResetPassword(hash string, now time.Time) error {
	if hash == "" {
		return ErrPasswordRequired
	}
	l.PasswordHash = hash
	l.UpdatedAt = now.UTC()
	return nil
}

// MarkRemoved records the removal event; the caller deletes the document.
func (l *Lessor) MarkRemoved(now time.Time) {
	l.Record(LessorRemoved{LessorID: l.ID, Email: l.Email, At: now.UTC()})
}

func (l *Lessor) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

func setString(dst *string, v *string) {
	if v == nil {
		return
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return
	}
	*dst = trimmed
}
