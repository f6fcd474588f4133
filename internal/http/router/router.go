// Package router define las rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/gatewarden/internal/claims"
	httpx "github.com/dropDatabas3/gatewarden/internal/http"
	authctrl "github.com/dropDatabas3/gatewarden/internal/http/controllers/auth"
	emailctrl "github.com/dropDatabas3/gatewarden/internal/http/controllers/email"
	healthctrl "github.com/dropDatabas3/gatewarden/internal/http/controllers/health"
	presencectrl "github.com/dropDatabas3/gatewarden/internal/http/controllers/presence"
	securityctrl "github.com/dropDatabas3/gatewarden/internal/http/controllers/security"
	httperrors "github.com/dropDatabas3/gatewarden/internal/http/errors"
	mw "github.com/dropDatabas3/gatewarden/internal/http/middlewares"
	"github.com/dropDatabas3/gatewarden/internal/security/csrf"
)

// Deps contiene las dependencias del router principal.
type Deps struct {
	Verifier *claims.Verifier
	Guard    *csrf.Guard

	CSRFHeaderName string

	Auth     *authctrl.Controllers
	Email    *emailctrl.Controllers
	Security *securityctrl.Controllers
	Presence *presencectrl.Controllers
	Health   *healthctrl.HealthController

	// MetricsHandler es el handler de /metrics (promhttp). Opcional.
	MetricsHandler http.Handler

	// WSHandler atiende el upgrade websocket en /v1/ws. Opcional.
	WSHandler http.Handler
}

// New arma el mux chi con toda la cadena de middlewares.
//
// Orden de la cadena protegida: request-id → logging → metrics → recover →
// auth → csrf → (verified donde aplica) → handler. CSRF corre después de
// auth porque el subject sale de las claims verificadas, nunca de un header.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	base := []mw.Middleware{
		mw.WithRequestID(),
		mw.WithLogging(),
		httpWrap(httpx.WithMetrics),
		mw.WithRecover(),
	}

	authed := append(append([]mw.Middleware{}, base...),
		mw.RequireAuth(deps.Verifier),
	)

	protected := append(append([]mw.Middleware{}, authed...),
		mw.WithCSRF(deps.Guard, mw.CSRFConfig{HeaderName: deps.CSRFHeaderName}),
	)

	verified := append(append([]mw.Middleware{}, protected...),
		mw.RequireVerified(),
	)

	// ─── Infra ───
	r.Method(http.MethodGet, "/healthz", mw.ChainFunc(deps.Health.Healthz, base...))
	r.Method(http.MethodGet, "/readyz", mw.ChainFunc(deps.Health.Readyz, base...))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// ─── Auth (público) ───
	r.Method(http.MethodPost, "/v1/auth/login", mw.ChainFunc(deps.Auth.Login.Login, base...))

	// ─── Auth (sesión) ───
	r.Method(http.MethodPost, "/v1/auth/logout", mw.ChainFunc(deps.Auth.Logout.Logout, protected...))
	r.Method(http.MethodGet, "/v1/security/csrf", mw.ChainFunc(deps.Security.CSRF.GetToken, authed...))

	// ─── Presence (sesión) ───
	r.Method(http.MethodGet, "/v1/presence/{scope}", mw.ChainFunc(deps.Presence.Presence.Get, authed...))
	r.Method(http.MethodGet, "/v1/presence/{scope}/current", mw.ChainFunc(deps.Presence.Presence.RequireCurrent, authed...))

	// ─── Email flows ───
	// verify y password-changed requieren sesión; forgot es anónimo.
	r.Method(http.MethodPost, "/v1/email/verify", mw.ChainFunc(deps.Email.Flows.StartVerify, protected...))
	r.Method(http.MethodPost, "/v1/email/password-changed", mw.ChainFunc(deps.Email.Flows.PasswordChanged, verified...))
	r.Method(http.MethodPost, "/v1/email/forgot", mw.ChainFunc(deps.Email.Flows.StartForgot, base...))
	r.Method(http.MethodGet, "/v1/email/verify/confirm", mw.ChainFunc(deps.Email.Confirm.ConfirmVerify, base...))
	r.Method(http.MethodPost, "/v1/email/forgot/confirm", mw.ChainFunc(deps.Email.Confirm.ConfirmForgot, base...))

	// ─── Realtime ───
	if deps.WSHandler != nil {
		r.Method(http.MethodGet, "/v1/ws", mw.Chain(deps.WSHandler, base...))
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httperrors.WriteError(w, req, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httperrors.WriteError(w, req, httperrors.ErrMethodNotAllowed)
	})

	return r
}

// httpWrap adapta un func(http.Handler) http.Handler al tipo Middleware local.
func httpWrap(f func(http.Handler) http.Handler) mw.Middleware {
	return func(next http.Handler) http.Handler { return f(next) }
}
