package email

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/gatewarden/internal/claims"
	httperrors "github.com/dropDatabas3/gatewarden/internal/http/errors"
	"github.com/dropDatabas3/gatewarden/internal/http/helpers"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
)

// ConfirmController valida los action tokens que vuelven por los links.
// Usa el mismo camino de decodificación que las claims de sesión, con el
// check de kind agregado. La mutación de la cuenta (marcar verificada,
// cambiar la contraseña) es del sistema de cuentas, no de esta capa.
type ConfirmController struct {
	verifier *claims.Verifier
}

// NewConfirmController crea un controller de confirmación.
func NewConfirmController(verifier *claims.Verifier) *ConfirmController {
	return &ConfirmController{verifier: verifier}
}

type confirmResponse struct {
	SubjectID string `json:"subject_id"`
	Kind      string `json:"kind"`
	Valid     bool   `json:"valid"`
}

// ConfirmVerify valida un token de verify-email.
// GET /v1/email/verify/confirm?token=...
func (c *ConfirmController) ConfirmVerify(w http.ResponseWriter, r *http.Request) {
	c.confirm(w, r, claims.KindVerifyEmail, r.URL.Query().Get("token"), "ConfirmController.ConfirmVerify")
}

type confirmRequest struct {
	Token string `json:"token"`
}

// ConfirmForgot valida un token de forgot-password.
// POST /v1/email/forgot/confirm
func (c *ConfirmController) ConfirmForgot(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	c.confirm(w, r, claims.KindForgotPassword, req.Token, "ConfirmController.ConfirmForgot")
}

func (c *ConfirmController) confirm(w http.ResponseWriter, r *http.Request, kind, raw, op string) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op(op), logger.Kind(kind))

	raw = strings.TrimSpace(raw)
	if raw == "" {
		httperrors.WriteError(w, r, httperrors.ErrTokenMissing)
		return
	}

	cl, err := c.verifier.VerifyAction(raw, kind)
	if err != nil {
		log.Warn("action token rejected", logger.Err(err))
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized.WithDetail("action token inválido o expirado"))
		return
	}

	log.Info("action token confirmed", logger.SubjectID(cl.Subject))
	helpers.WriteJSON(w, http.StatusOK, confirmResponse{
		SubjectID: cl.Subject,
		Kind:      kind,
		Valid:     true,
	})
}
