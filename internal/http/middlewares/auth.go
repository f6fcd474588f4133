package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/gatewarden/internal/claims"
	"github.com/dropDatabas3/gatewarden/internal/http/errors"
)

// =================================================================================
// AUTHENTICATION MIDDLEWARES
// =================================================================================

// BearerToken extrae el token crudo del header Authorization, o "" si no hay.
func BearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("Bearer "):])
}

// RequireAuth valida Authorization: Bearer <JWT> y guarda las claims en el contexto.
// Si el token es inválido o no está presente, responde 401.
func RequireAuth(verifier *claims.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				errors.WriteError(w, r, errors.ErrTokenMissing)
				return
			}

			cl, err := verifier.Verify(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				errors.WriteError(w, r, errors.ErrUnauthorized.WithCause(err))
				return
			}

			// Inyectar claims en contexto
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), cl)))
		})
	}
}

// OptionalAuth intenta validar el token pero NO falla si no está presente
// o es inválido. Útil para endpoints con comportamiento dual.
func OptionalAuth(verifier *claims.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			cl, err := verifier.Verify(raw)
			if err != nil {
				// Token inválido pero opcional, continuar sin claims
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), cl)))
		})
	}
}
