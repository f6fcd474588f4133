// Package presence contiene el controller de consulta de presencia.
package presence

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/gatewarden/internal/http/errors"
	"github.com/dropDatabas3/gatewarden/internal/http/helpers"
	"github.com/dropDatabas3/gatewarden/internal/http/middlewares"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
	"github.com/dropDatabas3/gatewarden/internal/presence"
)

// Controllers agrupa los controllers del dominio presence.
type Controllers struct {
	Presence *PresenceController
}

// NewControllers crea el agregador de controllers de presence.
func NewControllers(registry *presence.Registry) *Controllers {
	return &Controllers{Presence: NewPresenceController(registry)}
}

// PresenceController maneja GET /v1/presence/{scope}.
type PresenceController struct {
	registry *presence.Registry
}

// NewPresenceController crea un controller de presencia.
func NewPresenceController(registry *presence.Registry) *PresenceController {
	return &PresenceController{registry: registry}
}

type presenceResponse struct {
	SubjectID string   `json:"subject_id"`
	Scope     string   `json:"scope"`
	Handles   []string `json:"handles"`
	Online    bool     `json:"online"`
}

// Get devuelve los handles vivos del subject autenticado en el scope pedido.
// Set vacío es un estado normal (online=false), no un error.
func (c *PresenceController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PresenceController.Get"))

	sub := middlewares.GetSubjectID(ctx)
	scope := chi.URLParam(r, "scope")
	if scope == "" {
		httperrors.WriteError(w, r, httperrors.ErrMissingFields.WithDetail("scope es requerido"))
		return
	}

	handles, err := c.registry.Lookup(ctx, sub, scope)
	if err != nil {
		log.Error("presence lookup failed", logger.Err(err), logger.Scope(scope))
		httperrors.WriteError(w, r, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	helpers.WriteJSON(w, http.StatusOK, presenceResponse{
		SubjectID: sub,
		Scope:     scope,
		Handles:   handles,
		Online:    len(handles) > 0,
	})
}

// RequireCurrent devuelve los handles del subject exigiendo presencia viva.
// GET /v1/presence/{scope}/current: sin handles responde 404 PRESENCE_NOT_FOUND.
func (c *PresenceController) RequireCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PresenceController.RequireCurrent"))

	sub := middlewares.GetSubjectID(ctx)
	scope := chi.URLParam(r, "scope")
	if scope == "" {
		httperrors.WriteError(w, r, httperrors.ErrMissingFields.WithDetail("scope es requerido"))
		return
	}

	handles, err := c.registry.RequireCurrent(ctx, sub, scope)
	if err != nil {
		if stderrors.Is(err, presence.ErrNotCurrent) {
			httperrors.WriteError(w, r, httperrors.ErrPresenceNotFound)
			return
		}
		log.Error("presence lookup failed", logger.Err(err), logger.Scope(scope))
		httperrors.WriteError(w, r, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	helpers.WriteJSON(w, http.StatusOK, presenceResponse{
		SubjectID: sub,
		Scope:     scope,
		Handles:   handles,
		Online:    true,
	})
}
