package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"courtly/internal/domain/accounts"
)

type AccountRepository struct {
	mu    sync.RWMutex
	items map[accounts.ID]accounts.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{items: make(map[accounts.ID]accounts.Account)}
}

func (r *AccountRepository) ByID(ctx context.Context, id accounts.ID) (*accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok {
		return nil, accounts.ErrNotFound
	}
	return &a, nil
}

func (r *AccountRepository) ByEmail(ctx context.Context, role accounts.Role, email string) (*accounts.Account, error) {
	email = accounts.NormalizeEmail(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.items {
		if a.Role == role && a.Email == email {
			return &a, nil
		}
	}
	return nil, accounts.NotFoundFor(role)
}

// Save rejects a second account with the same role and email.
func (r *AccountRepository) Save(ctx context.Context, a *accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, other := range r.items {
		if id != a.ID && other.Role == a.Role && other.Email == a.Email {
			return accounts.ErrEmailTaken
		}
	}
	r.items[a.ID] = *a
	return nil
}

func (r *AccountRepository) List(ctx context.Context, role accounts.Role) ([]*accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*accounts.Account, 0)
	for _, a := range r.items {
		if a.Role == role {
			out = append(out, &a)
		}
	}
	slices.SortFunc(out, func(x, y *accounts.Account) int {
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
	return out, nil
}

// Created returns the creation time of every account with the given role.
func (r *AccountRepository) Created(role accounts.Role) []accounts.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]accounts.Account, 0)
	for _, a := range r.items {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out
}

var _ accounts.Repository = (*AccountRepository)(nil)
