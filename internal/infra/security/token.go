package security

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"courtly/internal/app/services/auth"
)

const issuer = "courtly"

var ErrEmptySecret = errors.New("security: jwt secret is empty")

type claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 access tokens carrying the principal's id, email and role.
type JWTIssuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &JWTIssuer{Secret: []byte(secret), TTL: ttl}, nil
}

func (j *JWTIssuer) Issue(p auth.Principal) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(j.ttl())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role:  p.Role,
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (j *JWTIssuer) Parse(raw string) (auth.Principal, error) {
	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(j.now))
	if err != nil {
		return auth.Principal{}, err
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return auth.Principal{}, errors.New("security: invalid token")
	}
	return auth.Principal{ID: c.Subject, Email: c.Email, Role: c.Role}, nil
}

func (j *JWTIssuer) now() time.Time {
	if j.Now != nil {
		return j.Now().UTC()
	}
	return time.Now().UTC()
}

func (j *JWTIssuer) ttl() time.Duration {
	if j.TTL > 0 {
		return j.TTL
	}
	return 24 * time.Hour
}

var _ auth.TokenIssuer = (*JWTIssuer)(nil)
