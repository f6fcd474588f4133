package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  env: \"\"\n")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if c.App.Env != "dev" {
		t.Fatalf("env default: %q", c.App.Env)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("addr default: %q", c.Server.Addr)
	}
	if c.Cache.Kind != "memory" {
		t.Fatalf("cache kind default: %q", c.Cache.Kind)
	}
	if c.Auth.CSRF.HeaderName != "X-CSRF-Token" {
		t.Fatalf("csrf header default: %q", c.Auth.CSRF.HeaderName)
	}
	if MustDuration(c.Auth.Verify.TTL) != 48*time.Hour {
		t.Fatalf("verify ttl default: %v", c.Auth.Verify.TTL)
	}
	if MustDuration(c.Auth.Reset.TTL) != time.Hour {
		t.Fatalf("reset ttl default: %v", c.Auth.Reset.TTL)
	}
}

func TestLoad_Values(t *testing.T) {
	path := writeConfig(t, `
app:
  env: prod
  log_level: warn
server:
  addr: ":9090"
jwt:
  issuer: gatewarden
  session_ttl: 30m
auth:
  csrf:
    header_name: X-Guard
    token_ttl: 12h
  verify:
    ttl: 24h
ws:
  origin_required: true
  allowed_origins:
    - https://app.example.com
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if c.App.Env != "prod" || c.Server.Addr != ":9090" {
		t.Fatalf("values not loaded: %+v", c)
	}
	if c.JWT.Issuer != "gatewarden" {
		t.Fatalf("issuer: %q", c.JWT.Issuer)
	}
	if c.Auth.CSRF.HeaderName != "X-Guard" {
		t.Fatalf("csrf header: %q", c.Auth.CSRF.HeaderName)
	}
	if MustDuration(c.Auth.Verify.TTL) != 24*time.Hour {
		t.Fatalf("verify ttl: %v", c.Auth.Verify.TTL)
	}
	if !c.WS.OriginRequired || len(c.WS.AllowedOrigins) != 1 {
		t.Fatalf("ws config: %+v", c.WS)
	}
	if MustDuration(c.JWT.SessionTTL) != 30*time.Minute {
		t.Fatalf("session ttl: %q", c.JWT.SessionTTL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "app: [broken")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
