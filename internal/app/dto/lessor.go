package dto

import (
	"time"

	"courtly/internal/domain/lessors"
	"courtly/internal/domain/shared/geo"
)

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
}

type OperatingHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type Location struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

type Court struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images"`
}

type Facility struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Courts      []Court `json:"courts"`
}

type CourtWithFacility struct {
	FacilityID   string `json:"facility_id"`
	FacilityName string `json:"facility_name"`
	Court
}

type Lessor struct {
	ID              string         `json:"id"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone_number"`
	Address         Address        `json:"address"`
	SportCenterName string         `json:"sportcenter_name"`
	Description     string         `json:"sportcenter_description,omitempty"`
	Logo            string         `json:"logo,omitempty"`
	Facilities      []Facility     `json:"facilities"`
	Hours           OperatingHours `json:"operating_hours"`
	Location        *Location      `json:"location,omitempty"`
	Status          string         `json:"status"`
	TimeAvailable   bool           `json:"time_available"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// LessorLocation is the public map marker for a sport center.
type LessorLocation struct {
	ID              string   `json:"id"`
	SportCenterName string   `json:"sportcenter_name"`
	Logo            string   `json:"logo,omitempty"`
	Location        Location `json:"location"`
}

func MapLessor(l *lessors.Lessor) Lessor {
	out := Lessor{
		ID:              string(l.ID),
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Email:           l.Email,
		Phone:           l.Phone,
		Address:         MapAddress(l.Address),
		SportCenterName: l.SportCenterName,
		Description:     l.Description,
		Logo:            l.Logo,
		Facilities:      MapFacilities(l.Facilities),
		Hours:           OperatingHours{Open: l.Hours.Open, Close: l.Hours.Close},
		Location:        MapLocation(l.Location),
		Status:          string(l.Status),
		TimeAvailable:   l.TimeAvailable,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	return out
}

func MapLessors(list []*lessors.Lessor) []Lessor {
	out := make([]Lessor, 0, len(list))
	for _, l := range list {
		out = append(out, MapLessor(l))
	}
	return out
}

func MapAddress(a lessors.Address) Address {
	return Address{Street: a.Street, City: a.City, State: a.State}
}

func MapLocation(p *geo.Point) *Location {
	if p == nil {
		return nil
	}
	return &Location{Lng: p.Lng, Lat: p.Lat}
}

func MapFacilities(list []lessors.Facility) []Facility {
	out := make([]Facility, 0, len(list))
	for _, f := range list {
		out = append(out, MapFacility(f))
	}
	return out
}

func MapFacility(f lessors.Facility) Facility {
	courts := make([]Court, 0, len(f.Courts))
	for _, c := range f.Courts {
		courts = append(courts, MapCourt(c))
	}
	return Facility{
		ID:          string(f.ID),
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Image:       f.Image,
		Courts:      courts,
	}
}

func MapCourt(c lessors.Court) Court {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return Court{ID: string(c.ID), Name: c.Name, Description: c.Description, Images: images}
}

type UploadedImage struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
