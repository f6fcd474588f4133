package verification

import (
	"testing"

	"github.com/dropDatabas3/gatewarden/internal/claims"
)

func TestRequire_VerifiedPassesBothTransports(t *testing.T) {
	c := &claims.Claims{Subject: "u1", Verified: true}

	if err := Require(c, RequestCaller{}); err != nil {
		t.Fatalf("request caller err: %v", err)
	}
	if err := Require(c, ConnectionCaller{}); err != nil {
		t.Fatalf("connection caller err: %v", err)
	}
}

func TestRequire_UnverifiedConnectionIsAuthFailure(t *testing.T) {
	c := &claims.Claims{Subject: "u1", Verified: false}

	if err := Require(c, ConnectionCaller{}); err != ErrUnverifiedConnection {
		t.Fatalf("expected ErrUnverifiedConnection, got %v", err)
	}
}

func TestRequire_UnverifiedRequestIsAuthzFailure(t *testing.T) {
	c := &claims.Claims{Subject: "u1", Verified: false}

	if err := Require(c, RequestCaller{}); err != ErrUnverifiedRequest {
		t.Fatalf("expected ErrUnverifiedRequest, got %v", err)
	}
}

func TestRequire_NilClaimsFailClosed(t *testing.T) {
	// Sin claims no hay identidad: se trata como conexión no autenticada
	// sin importar el transporte.
	if err := Require(nil, RequestCaller{}); err != ErrUnverifiedConnection {
		t.Fatalf("expected ErrUnverifiedConnection for nil claims, got %v", err)
	}
	if err := Require(nil, ConnectionCaller{}); err != ErrUnverifiedConnection {
		t.Fatalf("expected ErrUnverifiedConnection for nil claims, got %v", err)
	}
}

func TestRequire_NilCallerDefaultsToRequest(t *testing.T) {
	c := &claims.Claims{Subject: "u1", Verified: false}

	if err := Require(c, nil); err != ErrUnverifiedRequest {
		t.Fatalf("expected ErrUnverifiedRequest, got %v", err)
	}
}
