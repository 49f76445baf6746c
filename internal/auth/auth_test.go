package auth

import (
	"errors"
	"testing"
	"time"

	"moneytrack/internal/core"
)

func testService() *Service {
	// Low cost keeps the tests fast.
	return NewService("test-secret", 3*time.Hour, 4)
}

func TestPasswordHashing(t *testing.T) {
	s := testService()

	hash, err := s.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !s.CheckPassword(hash, "hunter22") {
		t.Error("correct password should verify")
	}
	if s.CheckPassword(hash, "hunter23") {
		t.Error("wrong password should not verify")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := testService()
	user := core.User{ID: "u1", Email: "u1@example.com"}

	token, err := s.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	claims, err := s.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.ID != "u1" || claims.Email != "u1@example.com" {
		t.Errorf("claims = %s/%s, want u1/u1@example.com", claims.ID, claims.Email)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("token should carry an expiry")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 2*time.Hour+55*time.Minute || ttl > 3*time.Hour {
		t.Errorf("expiry %v from now, want about 3h", ttl)
	}
}

func TestTokenValidation(t *testing.T) {
	s := testService()
	user := core.User{ID: "u1", Email: "u1@example.com"}

	t.Run("garbage token", func(t *testing.T) {
		if _, err := s.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want %v", err, ErrInvalidToken)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := s.IssueToken(user)
		if err != nil {
			t.Fatalf("IssueToken() error = %v", err)
		}
		other := NewService("other-secret", 3*time.Hour, 4)
		if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want %v", err, ErrInvalidToken)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewService("test-secret", -time.Hour, 4)
		token, err := expired.IssueToken(user)
		if err != nil {
			t.Fatalf("IssueToken() error = %v", err)
		}
		if _, err := s.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want %v", err, ErrInvalidToken)
		}
	})
}
