package email

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/gatewarden/internal/claims"
	"github.com/dropDatabas3/gatewarden/internal/email"
	httpx "github.com/dropDatabas3/gatewarden/internal/http"
	httperrors "github.com/dropDatabas3/gatewarden/internal/http/errors"
	"github.com/dropDatabas3/gatewarden/internal/http/helpers"
	"github.com/dropDatabas3/gatewarden/internal/http/middlewares"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
	"github.com/dropDatabas3/gatewarden/internal/store"
)

// FlowsController maneja el inicio de los flujos de correo transaccional.
type FlowsController struct {
	flows *email.Flows
	users store.UserRepository
}

// NewFlowsController crea un controller de flujos de correo.
func NewFlowsController(flows *email.Flows, users store.UserRepository) *FlowsController {
	return &FlowsController{flows: flows, users: users}
}

// StartVerify inicia el flujo de verificación de email para el subject
// autenticado. POST /v1/email/verify
func (c *FlowsController) StartVerify(w http.ResponseWriter, r *http.Request) {
	c.startForSubject(w, r, claims.KindVerifyEmail, "FlowsController.StartVerify")
}

// PasswordChanged envía la notificación de contraseña actualizada al subject
// autenticado. No lleva token ni link. POST /v1/email/password-changed
func (c *FlowsController) PasswordChanged(w http.ResponseWriter, r *http.Request) {
	c.startForSubject(w, r, claims.KindConfirmPassword, "FlowsController.PasswordChanged")
}

func (c *FlowsController) startForSubject(w http.ResponseWriter, r *http.Request, kind, op string) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op(op))

	sub := middlewares.GetSubjectID(ctx)
	if sub == "" {
		httperrors.WriteError(w, r, httperrors.ErrTokenMissing)
		return
	}

	user, err := c.users.FindByID(ctx, sub)
	if err != nil {
		if stderrors.Is(err, store.ErrUserNotFound) {
			httperrors.WriteError(w, r, httperrors.ErrUserNotFound)
			return
		}
		log.Error("user lookup failed", logger.Err(err))
		httperrors.WriteError(w, r, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	if err := c.flows.IssueActionEmail(ctx, kind, sub, user.Email, httperrors.Lang(r)); err != nil {
		writeDispatchError(w, r, kind, err)
		return
	}

	httpx.RecordEmailDispatch(kind, "sent")
	helpers.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

type forgotRequest struct {
	Email string `json:"email"`
}

// StartForgot inicia el flujo de restablecimiento de contraseña. Es anónimo:
// si el email no existe responde igual que si existiera, para no filtrar
// qué cuentas están registradas. POST /v1/email/forgot
func (c *FlowsController) StartForgot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("FlowsController.StartForgot"))

	var req forgotRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		httperrors.WriteError(w, r, httperrors.ErrMissingFields.WithDetail("email es requerido"))
		return
	}

	user, err := c.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if stderrors.Is(err, store.ErrUserNotFound) {
			log.Debug("forgot requested for unknown email")
			helpers.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
			return
		}
		log.Error("user lookup failed", logger.Err(err))
		httperrors.WriteError(w, r, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	if err := c.flows.IssueActionEmail(ctx, claims.KindForgotPassword, user.ID, user.Email, httperrors.Lang(r)); err != nil {
		writeDispatchError(w, r, claims.KindForgotPassword, err)
		return
	}

	httpx.RecordEmailDispatch(claims.KindForgotPassword, "sent")
	helpers.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}
