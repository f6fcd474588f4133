// Package email contiene los controllers de flujos de correo transaccional.
package email

import (
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/gatewarden/internal/claims"
	"github.com/dropDatabas3/gatewarden/internal/email"
	httpx "github.com/dropDatabas3/gatewarden/internal/http"
	httperrors "github.com/dropDatabas3/gatewarden/internal/http/errors"
	"github.com/dropDatabas3/gatewarden/internal/store"
)

// Controllers agrupa los controllers del dominio email.
type Controllers struct {
	Flows   *FlowsController
	Confirm *ConfirmController
}

// NewControllers crea el agregador de controllers de email.
func NewControllers(flows *email.Flows, users store.UserRepository, verifier *claims.Verifier) *Controllers {
	return &Controllers{
		Flows:   NewFlowsController(flows, users),
		Confirm: NewConfirmController(verifier),
	}
}

// writeDispatchError traduce los errores nombrados del pipeline de correo
// a la respuesta HTTP. Única traducción dominio → HTTP para este dominio.
func writeDispatchError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	switch {
	case stderrors.Is(err, email.ErrRelayUnreachable):
		httpx.RecordEmailDispatch(kind, "connect_failed")
		httperrors.WriteError(w, r, httperrors.ErrSMTPConnect.WithCause(err))
	case stderrors.Is(err, email.ErrAllRejected):
		httpx.RecordEmailDispatch(kind, "rejected")
		httperrors.WriteError(w, r, httperrors.ErrSMTPRejected.WithCause(err))
	case stderrors.Is(err, email.ErrLinkRequired):
		httpx.RecordEmailDispatch(kind, "error")
		httperrors.WriteError(w, r, httperrors.ErrEmailLinkRequired.WithCause(err))
	default:
		httpx.RecordEmailDispatch(kind, "error")
		httperrors.WriteError(w, r, httperrors.ErrInternalServerError.WithCause(err))
	}
}
