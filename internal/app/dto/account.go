package dto

import (
	"time"

	"courtly/internal/domain/accounts"
)

type Account struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone_number,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func MapAccount(a *accounts.Account) Account {
	return Account{
		ID:        string(a.ID),
		Role:      string(a.Role),
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		CreatedAt: a.CreatedAt,
	}
}

// AuthResult is returned by register and login endpoints.
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	Account   *Account  `json:"account,omitempty"`
	Lessor    *Lessor   `json:"lessor,omitempty"`
}
