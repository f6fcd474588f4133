package email

import (
	"context"
	"errors"

	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
)

// Flows encadena emisión de token → rendering → despacho, end to end.
// Es la operación que el routing expone como issueActionEmail.
type Flows struct {
	tokens     *TokenService
	renderer   *Renderer
	dispatcher *Dispatcher
}

// NewFlows crea el wrapper end-to-end.
func NewFlows(tokens *TokenService, renderer *Renderer, dispatcher *Dispatcher) *Flows {
	return &Flows{tokens: tokens, renderer: renderer, dispatcher: dispatcher}
}

// IssueActionEmail emite el token del kind, renderiza el contenido y lo
// despacha al destinatario. Falla con los errores nombrados del paquete:
// ErrLinkRequired (guard de configuración, antes de cualquier red),
// ErrRelayUnreachable y ErrAllRejected.
func (f *Flows) IssueActionEmail(ctx context.Context, kind, subjectID, recipient, lang string) error {
	log := logger.From(ctx).With(
		logger.Op("IssueActionEmail"),
		logger.Kind(kind),
		logger.SubjectID(subjectID),
	)

	tok, err := f.tokens.Issue(ctx, kind, subjectID)
	if err != nil {
		log.Error("failed to issue action token", logger.Err(err))
		return err
	}

	content, err := f.renderer.Render(kind, RecipientContext{
		Email: recipient,
		Lang:  lang,
		Link:  f.tokens.Link(kind, tok),
		TTL:   f.tokens.TTL(kind),
	})
	if err != nil {
		if errors.Is(err, ErrLinkRequired) {
			// Error de programación: variante con link obligatorio sin link.
			log.Error("template variant requires link", logger.Err(err))
		} else {
			log.Error("failed to render email content", logger.Err(err))
		}
		return err
	}

	if _, err := f.dispatcher.Send(ctx, recipient, content); err != nil {
		return err
	}

	log.Info("action email sent", logger.Recipient(recipient))
	return nil
}
