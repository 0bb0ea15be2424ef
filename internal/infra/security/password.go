package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"courtly/internal/domain/shared/errs"
)

var ErrPasswordTooLong = errs.Validation("Password must be at most 72 bytes")

// BcryptHasher hashes account passwords for users, lessors and moderators.
// Costs below bcrypt.MinCost fall back to the library default.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (h BcryptHasher) cost() int {
	if h.Cost >= bcrypt.MinCost {
		return h.Cost
	}
	return bcrypt.DefaultCost
}
