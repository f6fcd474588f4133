package csrf

import (
	"context"
	"testing"
	"time"

	"github.com/dropDatabas3/gatewarden/internal/cache"
)

func newGuard(t *testing.T) *Guard {
	t.Helper()
	return NewGuard(cache.NewMemory("test", time.Minute), time.Minute)
}

func TestCheck_MissingWhenNoSet(t *testing.T) {
	g := newGuard(t)
	ctx := context.Background()

	if err := g.Check(ctx, "u1", "whatever"); err != ErrMissing {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestCheck_MissingWhenNoTokenPresented(t *testing.T) {
	g := newGuard(t)
	ctx := context.Background()

	if _, err := g.Issue(ctx, "u1"); err != nil {
		t.Fatalf("Issue err: %v", err)
	}
	if err := g.Check(ctx, "u1", ""); err != ErrMissing {
		t.Fatalf("expected ErrMissing for empty token, got %v", err)
	}
}

func TestCheck_MismatchWhenNotMember(t *testing.T) {
	g := newGuard(t)
	ctx := context.Background()

	if _, err := g.Issue(ctx, "u1"); err != nil {
		t.Fatalf("Issue err: %v", err)
	}
	if err := g.Check(ctx, "u1", "not-a-member"); err != ErrMismatch {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}

func TestIssueCheck_RoundTrip(t *testing.T) {
	g := newGuard(t)
	ctx := context.Background()

	tok, err := g.Issue(ctx, "u1")
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}
	if tok == "" {
		t.Fatalf("empty token issued")
	}
	if err := g.Check(ctx, "u1", tok); err != nil {
		t.Fatalf("Check err: %v", err)
	}
}

func TestCheck_ExactMatchOnly(t *testing.T) {
	// Membership exacta: ninguna normalización de whitespace ni case.
	g := newGuard(t)
	ctx := context.Background()

	tok, err := g.Issue(ctx, "u1")
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}
	if err := g.Check(ctx, "u1", " "+tok); err != ErrMismatch {
		t.Fatalf("expected ErrMismatch for padded token, got %v", err)
	}
	if err := g.Check(ctx, "u1", tok+"x"); err != ErrMismatch {
		t.Fatalf("expected ErrMismatch for suffixed token, got %v", err)
	}
}

func TestCheck_MultipleTokensPerSubject(t *testing.T) {
	// Multi-device: varios tokens conviven bajo el mismo subject.
	g := newGuard(t)
	ctx := context.Background()

	tokA, err := g.Issue(ctx, "u1")
	if err != nil {
		t.Fatalf("Issue A err: %v", err)
	}
	tokB, err := g.Issue(ctx, "u1")
	if err != nil {
		t.Fatalf("Issue B err: %v", err)
	}
	if tokA == tokB {
		t.Fatalf("issued tokens should differ")
	}
	if err := g.Check(ctx, "u1", tokA); err != nil {
		t.Fatalf("Check tokA err: %v", err)
	}
	if err := g.Check(ctx, "u1", tokB); err != nil {
		t.Fatalf("Check tokB err: %v", err)
	}
}

func TestCheck_SubjectIsolation(t *testing.T) {
	g := newGuard(t)
	ctx := context.Background()

	tok, err := g.Issue(ctx, "u1")
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}
	// Para u2 no hay set: missing, no mismatch.
	if err := g.Check(ctx, "u2", tok); err != ErrMissing {
		t.Fatalf("expected ErrMissing for other subject, got %v", err)
	}
}

func TestRevoke_RemovesSingleToken(t *testing.T) {
	g := newGuard(t)
	ctx := context.Background()

	tokA, _ := g.Issue(ctx, "u1")
	tokB, _ := g.Issue(ctx, "u1")

	if err := g.Revoke(ctx, "u1", tokA); err != nil {
		t.Fatalf("Revoke err: %v", err)
	}
	if err := g.Check(ctx, "u1", tokA); err != ErrMismatch {
		t.Fatalf("expected ErrMismatch after revoke, got %v", err)
	}
	// El otro token de la sesión sigue vivo.
	if err := g.Check(ctx, "u1", tokB); err != nil {
		t.Fatalf("Check tokB after revoke err: %v", err)
	}
}
