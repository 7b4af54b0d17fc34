package jwtverify

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

// Verifier validates HMAC-signed bearer tokens. Implements
// ports.TokenVerifier.
type Verifier struct {
	secret []byte
}

func New(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("missing jwt secret")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

type claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (v *Verifier) Verify(token string) (domain.UserClaims, error) {
	var none domain.UserClaims
	if token == "" {
		return none, domain.WrapError(domain.ErrUnauthorized, "verify token", errors.New("empty token"))
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return none, domain.WrapError(domain.ErrUnauthorized, "verify token", err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return none, domain.WrapError(domain.ErrUnauthorized, "verify token", errors.New("missing subject claim"))
	}

	return domain.UserClaims{
		UserID: c.Subject,
		Email:  c.Email,
		Name:   c.Name,
	}, nil
}
