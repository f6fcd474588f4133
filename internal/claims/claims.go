// Package claims define la aserción de identidad decodificada y el par
// firmar/verificar sobre EdDSA. Ambos transportes (request/response y
// conexión persistente) verifican por exactamente el mismo camino: ningún
// transporte implementa un decode paralelo.
package claims

import (
	"time"
)

// Claims es la aserción de identidad ya verificada de una llamada.
// Inmutable una vez decodificada; owned por la llamada, nunca se muta.
type Claims struct {
	Subject   string    // id estable de la cuenta ("sub")
	Verified  bool      // flag de verificación de la cuenta ("verified")
	Scope     string    // scope/categoría opaca ("scope")
	Kind      string    // kind de action token; vacío en tokens de sesión ("kind")
	IssuedAt  time.Time // "iat"
	ExpiresAt time.Time // "exp"
}

// Action token kinds.
const (
	KindVerifyEmail     = "verify-email"
	KindForgotPassword  = "forgot-password"
	KindConfirmPassword = "confirm-password"
)
