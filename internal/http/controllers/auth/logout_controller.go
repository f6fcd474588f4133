package auth

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/gatewarden/internal/http/helpers"
	"github.com/dropDatabas3/gatewarden/internal/http/middlewares"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
	"github.com/dropDatabas3/gatewarden/internal/security/csrf"
)

// LogoutController maneja POST /v1/auth/logout.
type LogoutController struct {
	guard *csrf.Guard
}

// NewLogoutController crea un controller de logout.
func NewLogoutController(guard *csrf.Guard) *LogoutController {
	return &LogoutController{guard: guard}
}

// Logout revoca el artefacto CSRF presentado. Las claims de sesión son
// stateless y expiran solas; lo revocable es el artefacto del set compartido.
// Idempotente: revocar un token ya revocado no es error.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	sub := middlewares.GetSubjectID(ctx)
	presented := strings.TrimSpace(r.Header.Get("X-CSRF-Token"))

	if sub != "" && presented != "" {
		if err := c.guard.Revoke(ctx, sub, presented); err != nil {
			// Best effort: el artefacto expira por TTL de todas formas.
			log.Warn("failed to revoke csrf token", logger.Err(err))
		}
	}

	log.Info("session closed", logger.SubjectID(sub))
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
