package email

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
)

// Dispatcher envía contenido ya renderizado por el relay y clasifica el
// resultado de entrega. No reintenta: la política de retry, si existe,
// es del caller.
type Dispatcher struct {
	relay Relay
}

// NewDispatcher crea un Dispatcher sobre el relay inyectado.
func NewDispatcher(relay Relay) *Dispatcher {
	return &Dispatcher{relay: relay}
}

// Send despacha el contenido al destinatario.
//
// Secuencia: (a) health probe del relay — la falla es fatal para esta llamada
// (ErrRelayUnreachable) y distingue "relay caído" de "destinatario
// rechazado"; (b) submit; (c) veredicto por destinatario — todos rechazados
// es ErrAllRejected, al menos un aceptado es éxito (rechazo parcial queda
// registrado en el resultado).
//
// El send corre en una goroutine propia para respetar la cancelación del
// caller: el handshake SMTP puede tardar segundos y no debe bloquear más
// allá del lifetime del request.
func (d *Dispatcher) Send(ctx context.Context, recipient string, content Content) (DispatchResult, error) {
	if recipient == "" {
		return DispatchResult{}, ErrInvalidInput
	}

	log := logger.From(ctx).With(
		logger.Component("Dispatcher"),
		logger.Recipient(recipient),
	)

	if err := d.relay.Verify(ctx); err != nil {
		log.Error("relay health probe failed", logger.Err(err))
		return DispatchResult{}, fmt.Errorf("%w: %v", ErrRelayUnreachable, err)
	}

	msg := Message{
		To:      []string{recipient},
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
	}

	type sendOut struct {
		res RelayResult
		err error
	}
	ch := make(chan sendOut, 1)
	go func() {
		res, err := d.relay.Send(ctx, msg)
		ch <- sendOut{res, err}
	}()

	var out sendOut
	select {
	case <-ctx.Done():
		return DispatchResult{HealthCheck: true}, ctx.Err()
	case out = <-ch:
	}

	if out.err != nil {
		return DispatchResult{HealthCheck: true}, fmt.Errorf("dispatch send: %w", out.err)
	}

	result := DispatchResult{
		Accepted:    out.res.Accepted,
		Rejected:    out.res.Rejected,
		HealthCheck: true,
	}
	if len(result.Accepted) == 0 {
		log.Warn("relay rejected every recipient", logger.Count(len(result.Rejected)))
		return result, ErrAllRejected
	}

	log.Info("email dispatched",
		logger.Int("accepted", len(result.Accepted)),
		logger.Int("rejected", len(result.Rejected)),
	)
	return result, nil
}
