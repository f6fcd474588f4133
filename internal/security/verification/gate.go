// Package verification bloquea operaciones que requieren cuenta verificada.
//
// El mismo input produce señales distintas según el transporte, por diseño:
// una cuenta no verificada nunca debe ESTABLECER una conexión persistente
// (falla de autenticación, 401), mientras que sobre una sesión ya existente
// sólo se niega la operación puntual (falla de autorización, 403).
package verification

import (
	"errors"

	"github.com/dropDatabas3/gatewarden/internal/claims"
)

var (
	// ErrUnverifiedConnection: rechazo en etapa de autenticación (401-class).
	ErrUnverifiedConnection = errors.New("verification: unverified account on connection establishment")

	// ErrUnverifiedRequest: rechazo en etapa de autorización (403-class).
	ErrUnverifiedRequest = errors.New("verification: unverified account on request")
)

// CallerKind identifica el tipo de transporte del caller.
type CallerKind int

const (
	RequestResponse CallerKind = iota
	Connection
)

// Caller abstrae el transporte que invoca el gate. Dos implementaciones,
// una por transporte; la lógica compartida no hace type-checks en runtime.
type Caller interface {
	Kind() CallerKind
}

// RequestCaller es el caller de un request HTTP sobre sesión existente.
type RequestCaller struct{}

func (RequestCaller) Kind() CallerKind { return RequestResponse }

// ConnectionCaller es el caller de un establecimiento de conexión persistente.
type ConnectionCaller struct{}

func (ConnectionCaller) Kind() CallerKind { return Connection }

// Require falla si la cuenta de las claims no está verificada.
// Precondición: c ya pasó por el Verifier. Claims nil fallan cerrado como
// conexión no autenticada.
func Require(c *claims.Claims, caller Caller) error {
	if c == nil {
		return ErrUnverifiedConnection
	}
	if c.Verified {
		return nil
	}
	if caller != nil && caller.Kind() == Connection {
		return ErrUnverifiedConnection
	}
	return ErrUnverifiedRequest
}
