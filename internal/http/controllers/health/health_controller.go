// Package health contiene el controller para health checks.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/gatewarden/internal/cache"
	"github.com/dropDatabas3/gatewarden/internal/email"
	"github.com/dropDatabas3/gatewarden/internal/http/helpers"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
)

// HealthController maneja las rutas de health check.
type HealthController struct {
	cache   cache.Client
	relay   email.Relay
	version string
}

// NewHealthController crea un controller de health check.
func NewHealthController(c cache.Client, relay email.Relay, version string) *HealthController {
	return &HealthController{cache: c, relay: relay, version: version}
}

type healthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components"`
}

// Healthz maneja GET /healthz: proceso vivo, sin dependencias.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz: chequea cache compartido y relay SMTP.
// El cache caído deja el servicio unavailable (toda la capa de seguridad
// depende de él, fail closed). El relay caído sólo degrada: los flujos de
// correo fallan pero la verificación de requests sigue operativa.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Readyz"))

	components := map[string]string{"cache": "ok", "smtp": "ok"}
	status := "ready"
	statusCode := http.StatusOK

	if err := c.cache.Ping(ctx); err != nil {
		log.Error("cache ping failed", logger.Err(err))
		components["cache"] = "down"
		status = "unavailable"
		statusCode = http.StatusServiceUnavailable
	}

	if err := c.relay.Verify(ctx); err != nil {
		log.Warn("smtp relay probe failed", logger.Err(err))
		components["smtp"] = "down"
		if status == "ready" {
			status = "degraded"
		}
	}

	if c.version != "" {
		w.Header().Set("X-Service-Version", c.version)
	}

	log.Debug("health check completed", logger.String("status", status))
	helpers.WriteJSON(w, statusCode, healthResponse{
		Status:     status,
		Version:    c.version,
		Components: components,
	})
}
