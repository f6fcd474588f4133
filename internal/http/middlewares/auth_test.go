package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dropDatabas3/gatewarden/internal/claims"
)

func newAuthPair(t *testing.T) (*claims.Issuer, *claims.Verifier) {
	t.Helper()
	issuer, err := claims.NewEphemeralIssuer("gatewarden", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewEphemeralIssuer err: %v", err)
	}
	return issuer, claims.NewVerifier(issuer.PublicKey(), "gatewarden")
}

func TestRequireAuth_MissingToken(t *testing.T) {
	_, verifier := newAuthPair(t)
	next, called := okHandler()
	h := RequireAuth(verifier)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if *called {
		t.Fatalf("handler should not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := decodeErr(t, rec); code != "TOKEN_MISSING" {
		t.Fatalf("expected TOKEN_MISSING, got %q", code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatalf("missing WWW-Authenticate header")
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	_, verifier := newAuthPair(t)
	next, called := okHandler()
	h := RequireAuth(verifier)(next)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if *called {
		t.Fatalf("handler should not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := decodeErr(t, rec); code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %q", code)
	}
}

func TestRequireAuth_ValidTokenInjectsClaims(t *testing.T) {
	issuer, verifier := newAuthPair(t)
	raw, _, err := issuer.IssueSession("u1", true, "web")
	if err != nil {
		t.Fatalf("IssueSession err: %v", err)
	}

	var got *claims.Claims
	h := RequireAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got == nil || got.Subject != "u1" || !got.Verified {
		t.Fatalf("claims not injected: %+v", got)
	}
}

func TestOptionalAuth_MissingTokenContinues(t *testing.T) {
	_, verifier := newAuthPair(t)
	next, called := okHandler()
	h := OptionalAuth(verifier)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if !*called || rec.Code != http.StatusOK {
		t.Fatalf("optional auth should continue without token, status=%d", rec.Code)
	}
}

func TestRequireVerified_UnverifiedIsForbidden(t *testing.T) {
	next, called := okHandler()
	h := RequireVerified()(next)

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req = req.WithContext(WithClaims(req.Context(), &claims.Claims{Subject: "u1", Verified: false}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if *called {
		t.Fatalf("handler should not run")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if code := decodeErr(t, rec); code != "USER_VERIFICATION" {
		t.Fatalf("expected USER_VERIFICATION, got %q", code)
	}
}

func TestRequireVerified_VerifiedPasses(t *testing.T) {
	next, called := okHandler()
	h := RequireVerified()(next)

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req = req.WithContext(WithClaims(req.Context(), &claims.Claims{Subject: "u1", Verified: true}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !*called || rec.Code != http.StatusOK {
		t.Fatalf("verified subject should pass, status=%d", rec.Code)
	}
}
