package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"courtly/internal/app/services/auth"
	"courtly/internal/domain/shared/errs"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hash, "s3cret-pass"))
	assert.Error(t, h.Compare(hash, "wrong"))
}

func TestBcryptHasherRejectsLongPassword(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	_, err := h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestJWTIssuerIssueAndParse(t *testing.T) {
	issuer, err := NewJWTIssuer("secret", time.Hour)
	require.NoError(t, err)

	token, exp, err := issuer.Issue(auth.Principal{ID: "l-1", Email: "owner@example.com", Role: auth.RoleLessor})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	p, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, auth.Principal{ID: "l-1", Email: "owner@example.com", Role: auth.RoleLessor}, p)
}

func TestJWTIssuerRejectsExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := &JWTIssuer{Secret: []byte("secret"), TTL: time.Hour, Now: func() time.Time { return past }}
	token, _, err := issuer.Issue(auth.Principal{ID: "u-1", Role: auth.RoleUser})
	require.NoError(t, err)

	fresh := &JWTIssuer{Secret: []byte("secret"), TTL: time.Hour}
	_, err = fresh.Parse(token)
	assert.Error(t, err)
}

func TestJWTIssuerRejectsForeignSecret(t *testing.T) {
	a := &JWTIssuer{Secret: []byte("a")}
	b := &JWTIssuer{Secret: []byte("b")}
	token, _, err := a.Issue(auth.Principal{ID: "u-1", Role: auth.RoleUser})
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.Error(t, err)
}

func TestNewJWTIssuerNeedsSecret(t *testing.T) {
	_, err := NewJWTIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
