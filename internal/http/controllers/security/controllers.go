// Package security contiene los controllers de endpoints de seguridad.
package security

import "github.com/dropDatabas3/gatewarden/internal/security/csrf"

// Controllers agrupa los controllers del dominio security.
type Controllers struct {
	CSRF *CSRFController
}

// NewControllers crea el agregador de controllers de security.
func NewControllers(guard *csrf.Guard) *Controllers {
	return &Controllers{CSRF: NewCSRFController(guard)}
}
