package email

import (
	"context"
	"errors"
	"testing"
)

// fakeRelay registra las llamadas y devuelve lo configurado.
type fakeRelay struct {
	verifyErr error
	sendErr   error
	result    RelayResult
	sends     int
}

func (f *fakeRelay) Verify(ctx context.Context) error { return f.verifyErr }

func (f *fakeRelay) Send(ctx context.Context, msg Message) (RelayResult, error) {
	f.sends++
	return f.result, f.sendErr
}

func TestDispatcherSend_EmptyRecipient(t *testing.T) {
	relay := &fakeRelay{}
	d := NewDispatcher(relay)

	if _, err := d.Send(context.Background(), "", Content{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if relay.sends != 0 {
		t.Fatalf("relay should not be touched")
	}
}

func TestDispatcherSend_HealthProbeFailure(t *testing.T) {
	// Probe caído: el send nunca se intenta, la falla es de conectividad.
	relay := &fakeRelay{verifyErr: errors.New("dial tcp: refused")}
	d := NewDispatcher(relay)

	_, err := d.Send(context.Background(), "a@b.com", Content{Subject: "s"})
	if !errors.Is(err, ErrRelayUnreachable) {
		t.Fatalf("expected ErrRelayUnreachable, got %v", err)
	}
	if relay.sends != 0 {
		t.Fatalf("Send should not run when probe fails, ran %d times", relay.sends)
	}
}

func TestDispatcherSend_AllRejected(t *testing.T) {
	relay := &fakeRelay{result: RelayResult{Rejected: []string{"a@b.com"}}}
	d := NewDispatcher(relay)

	res, err := d.Send(context.Background(), "a@b.com", Content{Subject: "s"})
	if !errors.Is(err, ErrAllRejected) {
		t.Fatalf("expected ErrAllRejected, got %v", err)
	}
	if !res.HealthCheck {
		t.Fatalf("health check should be recorded as passed")
	}
	if len(res.Rejected) != 1 {
		t.Fatalf("rejected list lost: %+v", res)
	}
}

func TestDispatcherSend_PartialAcceptIsSuccess(t *testing.T) {
	relay := &fakeRelay{result: RelayResult{
		Accepted: []string{"a@b.com"},
		Rejected: []string{"c@d.com"},
	}}
	d := NewDispatcher(relay)

	res, err := d.Send(context.Background(), "a@b.com", Content{Subject: "s"})
	if err != nil {
		t.Fatalf("partial accept should succeed, got %v", err)
	}
	if len(res.Accepted) != 1 || len(res.Rejected) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDispatcherSend_TransportError(t *testing.T) {
	relay := &fakeRelay{sendErr: errors.New("broken pipe")}
	d := NewDispatcher(relay)

	_, err := d.Send(context.Background(), "a@b.com", Content{Subject: "s"})
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if errors.Is(err, ErrAllRejected) || errors.Is(err, ErrRelayUnreachable) {
		t.Fatalf("transport error misclassified: %v", err)
	}
}
