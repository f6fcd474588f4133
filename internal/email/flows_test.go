package email

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/gatewarden/internal/claims"
)

func newFlows(t *testing.T, baseURL string, relay Relay) *Flows {
	t.Helper()
	return NewFlows(newTokenService(t, baseURL), newRenderer(t), NewDispatcher(relay))
}

func TestIssueActionEmail_EndToEnd(t *testing.T) {
	relay := &fakeRelay{result: RelayResult{Accepted: []string{"a@b.com"}}}
	f := newFlows(t, "https://auth.example.com", relay)

	err := f.IssueActionEmail(context.Background(), claims.KindVerifyEmail, "u1", "a@b.com", "es")
	if err != nil {
		t.Fatalf("IssueActionEmail err: %v", err)
	}
	if relay.sends != 1 {
		t.Fatalf("expected 1 send, got %d", relay.sends)
	}
}

func TestIssueActionEmail_BadBaseURLFailsBeforeNetwork(t *testing.T) {
	// Base URL rota → Link() vacío → la variante con link obligatorio aborta
	// en el renderer, sin tocar el relay.
	relay := &fakeRelay{result: RelayResult{Accepted: []string{"a@b.com"}}}
	f := newFlows(t, "://broken", relay)

	err := f.IssueActionEmail(context.Background(), claims.KindVerifyEmail, "u1", "a@b.com", "es")
	if !errors.Is(err, ErrLinkRequired) {
		t.Fatalf("expected ErrLinkRequired, got %v", err)
	}
	if relay.sends != 0 {
		t.Fatalf("relay should not be touched, sends=%d", relay.sends)
	}
}

func TestIssueActionEmail_RelayDown(t *testing.T) {
	relay := &fakeRelay{verifyErr: errors.New("refused")}
	f := newFlows(t, "https://auth.example.com", relay)

	err := f.IssueActionEmail(context.Background(), claims.KindForgotPassword, "u1", "a@b.com", "es")
	if !errors.Is(err, ErrRelayUnreachable) {
		t.Fatalf("expected ErrRelayUnreachable, got %v", err)
	}
}

func TestIssueActionEmail_AllRejected(t *testing.T) {
	relay := &fakeRelay{result: RelayResult{Rejected: []string{"a@b.com"}}}
	f := newFlows(t, "https://auth.example.com", relay)

	err := f.IssueActionEmail(context.Background(), claims.KindVerifyEmail, "u1", "a@b.com", "es")
	if !errors.Is(err, ErrAllRejected) {
		t.Fatalf("expected ErrAllRejected, got %v", err)
	}
}

func TestIssueActionEmail_ConfirmPasswordNotice(t *testing.T) {
	// El notice sin token se despacha igual que los demás kinds.
	relay := &fakeRelay{result: RelayResult{Accepted: []string{"a@b.com"}}}
	f := newFlows(t, "https://auth.example.com", relay)

	err := f.IssueActionEmail(context.Background(), claims.KindConfirmPassword, "u1", "a@b.com", "en")
	if err != nil {
		t.Fatalf("IssueActionEmail err: %v", err)
	}
	if relay.sends != 1 {
		t.Fatalf("expected 1 send, got %d", relay.sends)
	}
}
