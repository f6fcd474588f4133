// Package email cubre el flujo token-gated de acciones por correo: emisión de
// action tokens single-purpose, rendering del contenido y despacho por el
// relay SMTP con detección de fallas de entrega.
package email

import (
	"context"
	"errors"
	"time"
)

// ─── Errors ───

var (
	// ErrLinkRequired: se intentó renderizar una variante que estructuralmente
	// requiere link sin proveer uno. Error de configuración/programación,
	// se aborta antes de cualquier llamada de red.
	ErrLinkRequired = errors.New("email: template requires a link and none was supplied")

	// ErrRelayUnreachable: el health probe del relay falló; no se intentó enviar.
	ErrRelayUnreachable = errors.New("email: mail relay unreachable")

	// ErrAllRejected: el relay rechazó a todos los destinatarios.
	ErrAllRejected = errors.New("email: all recipients rejected by relay")

	ErrInvalidInput = errors.New("email: invalid input")
)

// ─── Relay ───

// Message es el mensaje saliente ya compuesto.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// RelayResult es el veredicto por destinatario del relay.
type RelayResult struct {
	Accepted []string
	Rejected []string
}

// Relay abstrae el cliente del mail relay. Sólo importa su contrato de
// éxito/fallo; el transporte interno es un colaborador externo.
type Relay interface {
	// Verify chequea la salud del relay sin enviar nada.
	Verify(ctx context.Context) error

	// Send entrega el mensaje y reporta aceptados/rechazados por destinatario.
	// Un error es una falla de transporte, no un rechazo de destinatario.
	Send(ctx context.Context, msg Message) (RelayResult, error)
}

// ─── Dispatch result ───

// DispatchResult es el resultado transitorio de un despacho.
type DispatchResult struct {
	Accepted    []string
	Rejected    []string
	HealthCheck bool // true si el probe pasó
}

// ─── Action tokens ───

// ActionToken es un token firmado single-purpose para un link de email.
// Se emite on demand y no se persiste más allá del momento de emisión.
type ActionToken struct {
	Kind      string
	SubjectID string
	Token     string
	ExpiresAt time.Time
}

// RecipientContext son los datos del destinatario para el rendering.
type RecipientContext struct {
	Email string
	Lang  string
	Link  string // link con el token embebido; vacío para notices sin token
	TTL   time.Duration
}

// Content es el contenido renderizado, opaco salvo el Subject extraíble
// para el header del mensaje saliente.
type Content struct {
	Subject string
	HTML    string
	Text    string
}
