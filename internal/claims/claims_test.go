package claims

import (
	"testing"
	"time"
)

func newPair(t *testing.T, iss string) (*Issuer, *Verifier) {
	t.Helper()
	issuer, err := NewEphemeralIssuer(iss, 15*time.Minute)
	if err != nil {
		t.Fatalf("NewEphemeralIssuer err: %v", err)
	}
	return issuer, NewVerifier(issuer.PublicKey(), iss)
}

func TestSession_RoundTrip(t *testing.T) {
	issuer, verifier := newPair(t, "gatewarden")

	raw, exp, err := issuer.IssueSession("u1", true, "web")
	if err != nil {
		t.Fatalf("IssueSession err: %v", err)
	}
	if exp.Before(time.Now()) {
		t.Fatalf("exp in the past: %v", exp)
	}

	c, err := verifier.Verify(raw)
	if err != nil {
		t.Fatalf("Verify err: %v", err)
	}
	if c.Subject != "u1" {
		t.Fatalf("subject mismatch: %q", c.Subject)
	}
	if !c.Verified {
		t.Fatalf("verified flag lost")
	}
	if c.Scope != "web" {
		t.Fatalf("scope mismatch: %q", c.Scope)
	}
	if c.Kind != "" {
		t.Fatalf("session token should have empty kind, got %q", c.Kind)
	}
}

func TestVerify_EmptyToken(t *testing.T) {
	_, verifier := newPair(t, "gatewarden")
	if _, err := verifier.Verify(""); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	issuer, verifier := newPair(t, "gatewarden")

	raw, _, err := issuer.IssueSession("u1", false, "")
	if err != nil {
		t.Fatalf("IssueSession err: %v", err)
	}
	tampered := raw[:len(raw)-4] + "AAAA"
	if _, err := verifier.Verify(tampered); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	issuer, _ := newPair(t, "other-service")
	verifier := NewVerifier(issuer.PublicKey(), "gatewarden")

	raw, _, err := issuer.IssueSession("u1", true, "")
	if err != nil {
		t.Fatalf("IssueSession err: %v", err)
	}
	if _, err := verifier.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	issuer, _ := newPair(t, "gatewarden")
	other, _ := newPair(t, "gatewarden")
	verifier := NewVerifier(other.PublicKey(), "gatewarden")

	raw, _, err := issuer.IssueSession("u1", true, "")
	if err != nil {
		t.Fatalf("IssueSession err: %v", err)
	}
	if _, err := verifier.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	issuer, err := NewEphemeralIssuer("gatewarden", time.Minute)
	if err != nil {
		t.Fatalf("NewEphemeralIssuer err: %v", err)
	}
	verifier := NewVerifier(issuer.PublicKey(), "gatewarden")

	// TTL negativo deja el exp más allá de la tolerancia de 30s.
	raw, _, err := issuer.IssueAction(KindVerifyEmail, "u1", -2*time.Minute)
	if err != nil {
		t.Fatalf("IssueAction err: %v", err)
	}
	if _, err := verifier.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyAction_RoundTrip(t *testing.T) {
	issuer, verifier := newPair(t, "gatewarden")

	raw, _, err := issuer.IssueAction(KindForgotPassword, "u1", time.Hour)
	if err != nil {
		t.Fatalf("IssueAction err: %v", err)
	}
	c, err := verifier.VerifyAction(raw, KindForgotPassword)
	if err != nil {
		t.Fatalf("VerifyAction err: %v", err)
	}
	if c.Subject != "u1" || c.Kind != KindForgotPassword {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestVerifyAction_KindMismatch(t *testing.T) {
	issuer, verifier := newPair(t, "gatewarden")

	raw, _, err := issuer.IssueAction(KindVerifyEmail, "u1", time.Hour)
	if err != nil {
		t.Fatalf("IssueAction err: %v", err)
	}
	if _, err := verifier.VerifyAction(raw, KindForgotPassword); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for kind mismatch, got %v", err)
	}
}

func TestVerifyAction_SessionTokenFails(t *testing.T) {
	// Un token de sesión (kind vacío) nunca pasa como action token.
	issuer, verifier := newPair(t, "gatewarden")

	raw, _, err := issuer.IssueSession("u1", true, "")
	if err != nil {
		t.Fatalf("IssueSession err: %v", err)
	}
	if _, err := verifier.VerifyAction(raw, KindVerifyEmail); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for session token, got %v", err)
	}
}
