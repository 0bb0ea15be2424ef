package lessors

import (
	"strings"
	"time"
)

type FacilityID string

type CourtID string

// Facility is owned by its lessor and only reachable through it.
type Facility struct {
	ID          FacilityID
	Name        string
	Description string
	Price       float64
	Image       string
	Courts      []Court
}

type Court struct {
	ID          CourtID
	Name        string
	Description string
	Images      []string
}

type FacilityParams struct {
	ID          FacilityID
	Name        string
	Description string
	Price       float64
	Image       string
}

type FacilityPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Image       *string
}

type CourtParams struct {
	ID          CourtID
	Name        string
	Description string
	Images      []string
}

// CourtPatch edits a court. Images replaces the list; AppendImage adds one.
type CourtPatch struct {
	Name        *string
	Description *string
	Images      []string
	AppendImage string
}

func (l *Lessor) AddFacility(p FacilityParams, now time.Time) (Facility, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" || p.ID == "" {
		return Facility{}, ErrMissingFields
	}
	if p.Price < 0 {
		return Facility{}, ErrInvalidPrice
	}
	f := Facility{
		ID:          p.ID,
		Name:        name,
		Description: strings.TrimSpace(p.Description),
		Price:       p.Price,
		Image:       strings.TrimSpace(p.Image),
	}
	l.Facilities = append(l.Facilities, f)
	l.UpdatedAt = now.UTC()
	return f, nil
}

// Facility returns a copy of the facility with the given id.
func (l *Lessor) Facility(id FacilityID) (Facility, error) {
	idx := l.facilityIndex(id)
	if idx < 0 {
		return Facility{}, ErrFacilityNotFound
	}
	return cloneFacility(l.Facilities[idx]), nil
}

func (l *Lessor) UpdateFacility(id FacilityID, p FacilityPatch, now time.Time) (Facility, error) {
	idx := l.facilityIndex(id)
	if idx < 0 {
		return Facility{}, ErrFacilityNotFound
	}
	if p.Price != nil && *p.Price < 0 {
		return Facility{}, ErrInvalidPrice
	}
	f := &l.Facilities[idx]
	setString(&f.Name, p.Name)
	if p.Description != nil {
		f.Description = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		f.Price = *p.Price
	}
	setString(&f.Image, p.Image)
	l.UpdatedAt = now.UTC()
	return cloneFacility(*f), nil
}

func (l *Lessor) RemoveFacility(id FacilityID, now time.Time) error {
	idx := l.facilityIndex(id)
	if idx < 0 {
		return ErrFacilityNotFound
	}
	l.Facilities = append(l.Facilities[:idx], l.Facilities[idx+1:]...)
	l.UpdatedAt = now.UTC()
	return nil
}

func (l *Lessor) AddCourt(facilityID FacilityID, p CourtParams, now time.Time) (Court, error) {
	idx := l.facilityIndex(facilityID)
	if idx < 0 {
		return Court{}, ErrFacilityNotFound
	}
	name := strings.TrimSpace(p.Name)
	if name == "" || p.ID == "" {
		return Court{}, ErrMissingFields
	}
	c := Court{
		ID:          p.ID,
		Name:        name,
		Description: strings.TrimSpace(p.Description),
		Images:      cleanImages(p.Images),
	}
	l.Facilities[idx].Courts = append(l.Facilities[idx].Courts, c)
	l.UpdatedAt = now.UTC()
	return cloneCourt(c), nil
}

func (l *Lessor) Court(facilityID FacilityID, courtID CourtID) (Court, error) {
	fi, ci, err := l.courtIndex(facilityID, courtID)
	if err != nil {
		return Court{}, err
	}
	return cloneCourt(l.Facilities[fi].Courts[ci]), nil
}

func (l *Lessor) UpdateCourt(facilityID FacilityID, courtID CourtID, p CourtPatch, now time.Time) (Court, error) {
	fi, ci, err := l.courtIndex(facilityID, courtID)
	if err != nil {
		return Court{}, err
	}
	c := &l.Facilities[fi].Courts[ci]
	setString(&c.Name, p.Name)
	if p.Description != nil {
		c.Description = strings.TrimSpace(*p.Description)
	}
	if p.Images != nil {
		c.Images = cleanImages(p.Images)
	}
	if img := strings.TrimSpace(p.AppendImage); img != "" {
		c.Images = append(c.Images, img)
	}
	l.UpdatedAt = now.UTC()
	return cloneCourt(*c), nil
}

func (l *Lessor) RemoveCourt(facilityID FacilityID, courtID CourtID, now time.Time) error {
	fi, ci, err := l.courtIndex(facilityID, courtID)
	if err != nil {
		return err
	}
	courts := l.Facilities[fi].Courts
	l.Facilities[fi].Courts = append(courts[:ci], courts[ci+1:]...)
	l.UpdatedAt = now.UTC()
	return nil
}

// CourtRef pairs a court with the facility that owns it.
type CourtRef struct {
	FacilityID   FacilityID
	FacilityName string
	Court        Court
}

func (l *Lessor) AllCourts() []CourtRef {
	var out []CourtRef
	for _, f := range l.Facilities {
		for _, c := range f.Courts {
			out = append(out, CourtRef{FacilityID: f.ID, FacilityName: f.Name, Court: cloneCourt(c)})
		}
	}
	return out
}

func (l *Lessor) facilityIndex(id FacilityID) int {
	for i := range l.Facilities {
		if l.Facilities[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *Lessor) courtIndex(facilityID FacilityID, courtID CourtID) (int, int, error) {
	fi := l.facilityIndex(facilityID)
	if fi < 0 {
		return -1, -1, ErrFacilityNotFound
	}
	for ci := range l.Facilities[fi].Courts {
		if l.Facilities[fi].Courts[ci].ID == courtID {
			return fi, ci, nil
		}
	}
	return -1, -1, ErrCourtNotFound
}

func cleanImages(in []string) []string {
	out := make([]string, 0, len(in))
	for _, img := range in {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}

func cloneFacility(f Facility) Facility {
	out := f
	out.Courts = make([]Court, len(f.Courts))
	for i, c := range f.Courts {
		out.Courts[i] = cloneCourt(c)
	}
	return out
}

func cloneCourt(c Court) Court {
	out := c
	out.Images = append([]string(nil), c.Images...)
	return out
}
