package email

import (
	"bytes"
	"fmt"
	htemplate "html/template"
	ttemplate "text/template"
	"time"

	"github.com/dropDatabas3/gatewarden/internal/claims"
)

// templateVars son las variables disponibles en los templates.
type templateVars struct {
	UserEmail string
	Link      string
	TTL       string
}

// Renderer produce el contenido de cada kind de email.
// Los kinds verify-email y forgot-password requieren link embebido: renderizar
// sin link es error fatal de configuración (ErrLinkRequired), detectado acá,
// antes de tocar la red.
type Renderer struct {
	verifyHTML *htemplate.Template
	verifyText *ttemplate.Template
	resetHTML  *htemplate.Template
	resetText  *ttemplate.Template
}

// RendererConfig permite overridear los templates default por string.
type RendererConfig struct {
	VerifyHTMLTmpl string
	VerifyTextTmpl string
	ResetHTMLTmpl  string
	ResetTextTmpl  string
}

const (
	defaultVerifyHTML = `<p>Hola {{.UserEmail}},</p><p>Verificá tu email: <a href="{{.Link}}">{{.Link}}</a></p><p>El link vence en {{.TTL}}.</p>`
	defaultVerifyText = `Hola {{.UserEmail}}, verificá tu email visitando: {{.Link}} (vence en {{.TTL}})`
	defaultResetHTML  = `<p>Hola {{.UserEmail}},</p><p>Restablecé tu contraseña: <a href="{{.Link}}">{{.Link}}</a></p><p>El link vence en {{.TTL}}.</p>`
	defaultResetText  = `Hola {{.UserEmail}}, restablecé tu contraseña visitando: {{.Link}} (vence en {{.TTL}})`
)

// NewRenderer compila los templates (overrides o defaults).
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	r := &Renderer{}
	var err error

	pick := func(override, def string) string {
		if override != "" {
			return override
		}
		return def
	}

	if r.verifyHTML, err = htemplate.New("verify_html").Parse(pick(cfg.VerifyHTMLTmpl, defaultVerifyHTML)); err != nil {
		return nil, fmt.Errorf("parse verify HTML template: %w", err)
	}
	if r.verifyText, err = ttemplate.New("verify_text").Parse(pick(cfg.VerifyTextTmpl, defaultVerifyText)); err != nil {
		return nil, fmt.Errorf("parse verify text template: %w", err)
	}
	if r.resetHTML, err = htemplate.New("reset_html").Parse(pick(cfg.ResetHTMLTmpl, defaultResetHTML)); err != nil {
		return nil, fmt.Errorf("parse reset HTML template: %w", err)
	}
	if r.resetText, err = ttemplate.New("reset_text").Parse(pick(cfg.ResetTextTmpl, defaultResetText)); err != nil {
		return nil, fmt.Errorf("parse reset text template: %w", err)
	}
	return r, nil
}

// Render produce el contenido para el kind dado.
func (r *Renderer) Render(kind string, rc RecipientContext) (Content, error) {
	if rc.Email == "" {
		return Content{}, ErrInvalidInput
	}
	if kindRequiresLink(kind) && rc.Link == "" {
		return Content{}, ErrLinkRequired
	}

	vars := templateVars{
		UserEmail: rc.Email,
		Link:      rc.Link,
		TTL:       formatDuration(rc.TTL),
	}

	switch kind {
	case claims.KindVerifyEmail:
		html, text, err := execute(r.verifyHTML, r.verifyText, vars)
		if err != nil {
			return Content{}, err
		}
		return Content{Subject: subjectFor(kind, rc.Lang), HTML: html, Text: text}, nil

	case claims.KindForgotPassword:
		html, text, err := execute(r.resetHTML, r.resetText, vars)
		if err != nil {
			return Content{}, err
		}
		return Content{Subject: subjectFor(kind, rc.Lang), HTML: html, Text: text}, nil

	case claims.KindConfirmPassword:
		// Notice sin token: cuerpo fijo, ningún link.
		html := fmt.Sprintf("<p>Hola %s,</p><p>Tu contraseña fue actualizada correctamente.</p>", htemplate.HTMLEscapeString(rc.Email))
		text := fmt.Sprintf("Hola %s, tu contraseña fue actualizada correctamente.", rc.Email)
		return Content{Subject: subjectFor(kind, rc.Lang), HTML: html, Text: text}, nil

	default:
		return Content{}, fmt.Errorf("%w: unknown action kind %q", ErrInvalidInput, kind)
	}
}

func kindRequiresLink(kind string) bool {
	return kind == claims.KindVerifyEmail || kind == claims.KindForgotPassword
}

func subjectFor(kind, lang string) string {
	en := lang == "en"
	switch kind {
	case claims.KindVerifyEmail:
		if en {
			return "Verify your email"
		}
		return "Verificá tu email"
	case claims.KindForgotPassword:
		if en {
			return "Reset your password"
		}
		return "Restablecé tu contraseña"
	default:
		if en {
			return "Your password was updated"
		}
		return "Tu contraseña fue actualizada"
	}
}

func execute(html *htemplate.Template, text *ttemplate.Template, vars templateVars) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := html.Execute(&htmlBuf, vars); err != nil {
		return "", "", err
	}
	if err := text.Execute(&textBuf, vars); err != nil {
		return "", "", err
	}
	return htmlBuf.String(), textBuf.String(), nil
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	hours := int(d.Hours())
	if hours >= 24 {
		days := hours / 24
		if days == 1 {
			return "1 día"
		}
		return fmt.Sprintf("%d días", days)
	}
	if hours >= 1 {
		if hours == 1 {
			return "1 hora"
		}
		return fmt.Sprintf("%d horas", hours)
	}
	minutes := int(d.Minutes())
	if minutes == 1 {
		return "1 minuto"
	}
	return fmt.Sprintf("%d minutos", minutes)
}
