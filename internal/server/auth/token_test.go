package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/linkmark/internal/common"
	"github.com/dmitrijs2005/linkmark/internal/server/config"
	"github.com/dmitrijs2005/linkmark/internal/server/models"
)

func newTestService(t *testing.T, validity time.Duration) *Service {
	t.Helper()
	cfg := &config.Config{
		TokenSecretKey:        strings.Repeat("k", config.MinSecretKeyLength),
		TokenValidityDuration: validity,
	}
	return NewService(cfg)
}

func testUser() *models.User {
	return &models.User{
		ID:      "user-123",
		Email:   "alice@example.com",
		Name:    "Alice",
		UserKey: "Ab3d",
		IsAdmin: true,
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Hour)
	u := testUser()

	tok, err := s.Issue(u)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got.ID != u.ID || got.Email != u.Email || got.Name != u.Name {
		t.Fatalf("principal mismatch: got %+v want %+v", got, u)
	}
	if got.UserKey != u.UserKey || got.IsAdmin != u.IsAdmin {
		t.Fatalf("principal mismatch: got %+v want %+v", got, u)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := newTestService(t, -1*time.Second)

	tok, err := s.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = s.Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Hour)
	tok, err := s.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	other := NewService(&config.Config{
		TokenSecretKey:        strings.Repeat("w", config.MinSecretKeyLength),
		TokenValidityDuration: time.Hour,
	})

	_, err = other.Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Hour)
	tok, err := s.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Payload and expiry stay intact; only the signature segment changes.
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", tok)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = s.Verify(tampered)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered signature, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Hour)

	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		if _, err := s.Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}
