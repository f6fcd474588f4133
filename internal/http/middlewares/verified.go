package middlewares

import (
	"net/http"

	httpx "github.com/dropDatabas3/gatewarden/internal/http"
	"github.com/dropDatabas3/gatewarden/internal/http/errors"
	"github.com/dropDatabas3/gatewarden/internal/security/verification"
)

// RequireVerified exige que el subject autenticado tenga el email verificado.
// Debe usarse DESPUÉS de RequireAuth. El transporte request/response rechaza
// con 403: el caller está autenticado, le falta la precondición de verificación.
func RequireVerified() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cl := GetClaims(r.Context())
			if err := verification.Require(cl, verification.RequestCaller{}); err != nil {
				if cl == nil {
					errors.WriteError(w, r, errors.ErrTokenMissing.WithDetail("no claims in context"))
					return
				}
				httpx.RecordVerificationDenial("request")
				errors.WriteError(w, r, errors.ErrUnverifiedRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
