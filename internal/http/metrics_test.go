package http

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegisterMetrics_CustomRegistryServesItsOwnMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := RegisterMetrics(reg)
	if err != nil {
		t.Fatalf("RegisterMetrics err: %v", err)
	}

	RecordWSConnection(1)
	defer RecordWSConnection(-1)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ws_connections") {
		t.Fatalf("la página /metrics no expone las métricas registradas en el registry propio")
	}
}

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/healthz", "/healthz"},
		{"/v1/presence/web", "/v1/presence/web"},
		{"/v1/presence/550e8400-e29b-41d4-a716-446655440000", "/v1/presence/:param"},
		{"/v1/users/12345", "/v1/users/:param"},
		{"/v1/email/verify/confirm?token=abc", "/v1/email/verify/confirm"},
	}
	for _, c := range cases {
		if got := normalizePath(c.in); got != c.want {
			t.Fatalf("normalizePath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsDynamicSegment(t *testing.T) {
	dynamic := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"deadbeefdeadbeef",
		"eyJhbGciOiJFZERTQSJ9xxxxxxxx",
		"42",
	}
	for _, seg := range dynamic {
		if !isDynamicSegment(seg) {
			t.Fatalf("expected dynamic: %q", seg)
		}
	}

	static := []string{"presence", "verify", "v1", "csrf"}
	for _, seg := range static {
		if isDynamicSegment(seg) {
			t.Fatalf("expected static: %q", seg)
		}
	}
}
