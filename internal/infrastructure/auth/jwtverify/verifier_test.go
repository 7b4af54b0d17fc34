package jwtverify

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

func signToken(t *testing.T, secret string, c jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestVerifyValidToken(t *testing.T) {
	v, err := New("test-secret")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub":   "user-1",
		"email": "student@example.edu",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	got, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got.UserID != "user-1" || got.Email != "student@example.edu" {
		t.Fatalf("unexpected claims %+v", got)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v, _ := New("test-secret")
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(token)
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v, _ := New("test-secret")
	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.Verify(token)
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyRequiresSubject(t *testing.T) {
	v, _ := New("test-secret")
	token := signToken(t, "test-secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(token)
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
