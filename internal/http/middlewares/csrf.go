package middlewares

import (
	stderrors "errors"
	"net/http"
	"strings"

	httpx "github.com/dropDatabas3/gatewarden/internal/http"
	"github.com/dropDatabas3/gatewarden/internal/http/errors"
	"github.com/dropDatabas3/gatewarden/internal/security/csrf"
)

// CSRFConfig configura el middleware CSRF.
type CSRFConfig struct {
	HeaderName string // Default: "X-CSRF-Token"
}

// WithCSRF valida el artefacto CSRF contra el set emitido para el subject
// autenticado. Debe usarse DESPUÉS de RequireAuth.
// Comportamiento:
//   - Métodos seguros (GET, HEAD, OPTIONS) pasan sin check.
//   - Sin artefacto presentado: 401 TOKEN_CSRF_MISSING.
//   - Artefacto presentado que no coincide exactamente con ninguno emitido:
//     403 TOKEN_INVALID. Son fallas distintas a propósito.
func WithCSRF(guard *csrf.Guard, cfg CSRFConfig) Middleware {
	headerName := strings.TrimSpace(cfg.HeaderName)
	if headerName == "" {
		headerName = "X-CSRF-Token"
	}

	isUnsafe := func(m string) bool {
		switch strings.ToUpper(m) {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			return true
		default:
			return false
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isUnsafe(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			sub := GetSubjectID(r.Context())
			if sub == "" {
				errors.WriteError(w, r, errors.ErrTokenMissing.WithDetail("no authenticated subject for CSRF check"))
				return
			}

			presented := strings.TrimSpace(r.Header.Get(headerName))

			err := guard.Check(r.Context(), sub, presented)
			switch {
			case err == nil:
				httpx.RecordCSRFCheck("ok")
				next.ServeHTTP(w, r)
			case stderrors.Is(err, csrf.ErrMissing):
				httpx.RecordCSRFCheck("missing")
				errors.WriteError(w, r, errors.ErrCSRFMissing)
			case stderrors.Is(err, csrf.ErrMismatch):
				httpx.RecordCSRFCheck("mismatch")
				errors.WriteError(w, r, errors.ErrTokenInvalid)
			default:
				// Backend de tokens inaccesible: fail closed.
				httpx.RecordCSRFCheck("error")
				errors.WriteError(w, r, errors.ErrInternalServerError.WithCause(err))
			}
		})
	}
}
