package security

import (
	"net/http"

	httperrors "github.com/dropDatabas3/gatewarden/internal/http/errors"
	"github.com/dropDatabas3/gatewarden/internal/http/helpers"
	"github.com/dropDatabas3/gatewarden/internal/http/middlewares"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
	"github.com/dropDatabas3/gatewarden/internal/security/csrf"
)

// CSRFController maneja GET /v1/security/csrf.
type CSRFController struct {
	guard *csrf.Guard
}

// NewCSRFController crea un controller de emisión CSRF.
func NewCSRFController(guard *csrf.Guard) *CSRFController {
	return &CSRFController{guard: guard}
}

type csrfResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// GetToken emite un token CSRF adicional para el subject autenticado.
// Un subject puede acumular varios tokens válidos (varias pestañas).
func (c *CSRFController) GetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CSRFController.GetToken"))

	sub := middlewares.GetSubjectID(ctx)
	if sub == "" {
		httperrors.WriteError(w, r, httperrors.ErrTokenMissing)
		return
	}

	token, err := c.guard.Issue(ctx, sub)
	if err != nil {
		log.Error("failed to issue csrf token", logger.Err(err))
		httperrors.WriteError(w, r, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	log.Debug("csrf token issued", logger.SubjectID(sub))
	helpers.WriteJSON(w, http.StatusOK, csrfResponse{CSRFToken: token})
}
