package email

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dropDatabas3/gatewarden/internal/claims"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(RendererConfig{})
	if err != nil {
		t.Fatalf("NewRenderer err: %v", err)
	}
	return r
}

func TestRender_VerifyRequiresLink(t *testing.T) {
	r := newRenderer(t)

	_, err := r.Render(claims.KindVerifyEmail, RecipientContext{Email: "a@b.com"})
	if !errors.Is(err, ErrLinkRequired) {
		t.Fatalf("expected ErrLinkRequired, got %v", err)
	}
}

func TestRender_ForgotRequiresLink(t *testing.T) {
	r := newRenderer(t)

	_, err := r.Render(claims.KindForgotPassword, RecipientContext{Email: "a@b.com"})
	if !errors.Is(err, ErrLinkRequired) {
		t.Fatalf("expected ErrLinkRequired, got %v", err)
	}
}

func TestRender_VerifyEmbedsLink(t *testing.T) {
	r := newRenderer(t)

	link := "https://auth.example.com/auth/verify-email?token=abc"
	c, err := r.Render(claims.KindVerifyEmail, RecipientContext{
		Email: "a@b.com",
		Link:  link,
		TTL:   48 * time.Hour,
	})
	if err != nil {
		t.Fatalf("Render err: %v", err)
	}
	if !strings.Contains(c.HTML, link) || !strings.Contains(c.Text, link) {
		t.Fatalf("link missing from rendered content")
	}
	if c.Subject == "" {
		t.Fatalf("empty subject")
	}
}

func TestRender_ConfirmPasswordIsTokenless(t *testing.T) {
	// El notice de password cambiado no lleva link ni token.
	r := newRenderer(t)

	c, err := r.Render(claims.KindConfirmPassword, RecipientContext{Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Render err: %v", err)
	}
	if strings.Contains(c.HTML, "http") {
		t.Fatalf("notice should not contain links: %q", c.HTML)
	}
	if !strings.Contains(c.Text, "a@b.com") {
		t.Fatalf("recipient missing from body")
	}
}

func TestRender_EmptyEmail(t *testing.T) {
	r := newRenderer(t)

	if _, err := r.Render(claims.KindConfirmPassword, RecipientContext{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRender_UnknownKind(t *testing.T) {
	r := newRenderer(t)

	if _, err := r.Render("delete-account", RecipientContext{Email: "a@b.com", Link: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRender_SubjectByLang(t *testing.T) {
	r := newRenderer(t)

	es, err := r.Render(claims.KindConfirmPassword, RecipientContext{Email: "a@b.com", Lang: "es"})
	if err != nil {
		t.Fatalf("Render es err: %v", err)
	}
	en, err := r.Render(claims.KindConfirmPassword, RecipientContext{Email: "a@b.com", Lang: "en"})
	if err != nil {
		t.Fatalf("Render en err: %v", err)
	}
	if es.Subject == en.Subject {
		t.Fatalf("subjects should differ by lang: %q", es.Subject)
	}
}
