package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dropDatabas3/gatewarden/internal/claims"
)

func newTokenService(t *testing.T, baseURL string) *TokenService {
	t.Helper()
	issuer, err := claims.NewEphemeralIssuer("gatewarden", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewEphemeralIssuer err: %v", err)
	}
	s, err := NewTokenService(TokenServiceConfig{
		Issuer:    issuer,
		BaseURL:   baseURL,
		VerifyTTL: 48 * time.Hour,
		ResetTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenService err: %v", err)
	}
	return s
}

func TestIssue_VerifyEmail(t *testing.T) {
	s := newTokenService(t, "https://auth.example.com")

	tok, err := s.Issue(context.Background(), claims.KindVerifyEmail, "u1")
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}
	if tok.Token == "" {
		t.Fatalf("empty token")
	}
	if tok.Kind != claims.KindVerifyEmail || tok.SubjectID != "u1" {
		t.Fatalf("unexpected token: %+v", tok)
	}
	if tok.ExpiresAt.Before(time.Now().Add(47 * time.Hour)) {
		t.Fatalf("verify TTL not applied: %v", tok.ExpiresAt)
	}
}

func TestIssue_ConfirmPasswordIsTokenless(t *testing.T) {
	s := newTokenService(t, "https://auth.example.com")

	tok, err := s.Issue(context.Background(), claims.KindConfirmPassword, "u1")
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}
	if tok.Token != "" {
		t.Fatalf("confirm-password should not carry a token")
	}
	if s.Link(claims.KindConfirmPassword, tok) != "" {
		t.Fatalf("no link should be built for a tokenless notice")
	}
}

func TestIssue_UnknownKind(t *testing.T) {
	s := newTokenService(t, "https://auth.example.com")

	if _, err := s.Issue(context.Background(), "nope", "u1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIssue_EmptySubject(t *testing.T) {
	s := newTokenService(t, "https://auth.example.com")

	if _, err := s.Issue(context.Background(), claims.KindVerifyEmail, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLink_EmbedsTokenAndPath(t *testing.T) {
	s := newTokenService(t, "https://auth.example.com")

	tok, err := s.Issue(context.Background(), claims.KindForgotPassword, "u1")
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}
	link := s.Link(claims.KindForgotPassword, tok)
	if !strings.HasPrefix(link, "https://auth.example.com/auth/reset?") {
		t.Fatalf("unexpected link: %q", link)
	}
	if !strings.Contains(link, "token=") {
		t.Fatalf("token missing from link: %q", link)
	}
}

func TestLink_BadBaseURL(t *testing.T) {
	s := newTokenService(t, "://broken")

	tok, err := s.Issue(context.Background(), claims.KindVerifyEmail, "u1")
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}
	if link := s.Link(claims.KindVerifyEmail, tok); link != "" {
		t.Fatalf("expected empty link for broken base URL, got %q", link)
	}
}

func TestTTL_PerKind(t *testing.T) {
	s := newTokenService(t, "https://auth.example.com")

	if got := s.TTL(claims.KindVerifyEmail); got != 48*time.Hour {
		t.Fatalf("verify TTL: %v", got)
	}
	if got := s.TTL(claims.KindForgotPassword); got != time.Hour {
		t.Fatalf("reset TTL: %v", got)
	}
	if got := s.TTL(claims.KindConfirmPassword); got != 0 {
		t.Fatalf("notice TTL should be 0, got %v", got)
	}
}
