package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	domainlessors "courtly/internal/domain/lessors"
	"courtly/internal/domain/shared/geo"
)

type LessorRepository struct {
	mu    sync.RWMutex
	items map[domainlessors.LessorID]*domainlessors.Lessor
}

func NewLessorRepository() *LessorRepository {
	return &LessorRepository{items: make(map[domainlessors.LessorID]*domainlessors.Lessor)}
}

func (r *LessorRepository) ByID(ctx context.Context, id domainlessors.LessorID) (*domainlessors.Lessor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[id]
	if !ok {
		return nil, domainlessors.ErrLessorNotFound
	}
	return cloneLessor(l), nil
}

func (r *LessorRepository) ByEmail(ctx context.Context, email string) (*domainlessors.Lessor, error) {
	email = domainlessors.NormalizeEmail(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.items {
		if l.Email == email {
			return cloneLessor(l), nil
		}
	}
	return nil, domainlessors.ErrLessorNotFound
}

func (r *LessorRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.items {
		if l.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

// Save enforces the same uniqueness the Mongo indexes do.
func (r *LessorRepository) Save(ctx context.Context, l *domainlessors.Lessor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, other := range r.items {
		if id == l.ID {
			continue
		}
		if other.Email == l.Email {
			return domainlessors.ErrEmailTaken
		}
		if other.Phone == l.Phone {
			return domainlessors.ErrPhoneTaken
		}
	}
	r.items[l.ID] = cloneLessor(l)
	return nil
}

// List returns matches ordered by creation time, oldest first.
func (r *LessorRepository) List(ctx context.Context, f domainlessors.ListFilter) ([]*domainlessors.Lessor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlessors.Lessor, 0, len(r.items))
	for _, l := range r.items {
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		out = append(out, cloneLessor(l))
	}
	slices.SortFunc(out, func(a, b *domainlessors.Lessor) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *LessorRepository) Delete(ctx context.Context, id domainlessors.LessorID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlessors.ErrLessorNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneLessor(l *domainlessors.Lessor) *domainlessors.Lessor {
	out := &domainlessors.Lessor{
		ID:              l.ID,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Email:           l.Email,
		Phone:           l.Phone,
		Address:         l.Address,
		PasswordHash:    l.PasswordHash,
		SportCenterName: l.SportCenterName,
		Description:     l.Description,
		Logo:            l.Logo,
		Hours:           l.Hours,
		Status:          l.Status,
		TimeAvailable:   l.TimeAvailable,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	if l.Location != nil {
		out.Location = &geo.Point{Lng: l.Location.Lng, Lat: l.Location.Lat}
	}
	out.Facilities = make([]domainlessors.Facility, 0, len(l.Facilities))
	for _, f := range l.Facilities {
		courts := make([]domainlessors.Court, 0, len(f.Courts))
		for _, c := range f.Courts {
			c.Images = slices.Clone(c.Images)
			courts = append(courts, c)
		}
		f.Courts = courts
		out.Facilities = append(out.Facilities, f)
	}
	return out
}

var _ domainlessors.Repository = (*LessorRepository)(nil)
