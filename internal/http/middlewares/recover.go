package middlewares

import (
	"net/http"
	"runtime/debug"

	"github.com/dropDatabas3/gatewarden/internal/http/errors"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
)

// WithRecover captura panics del handler y responde 500 en vez de tirar
// la conexión. El stack queda en el log, nunca en la respuesta.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						logger.String("panic", toString(rec)),
						logger.String("stack", string(debug.Stack())),
					)
					errors.WriteError(w, r, errors.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "unknown panic"
}
