// Package auth contiene los controllers de autenticación de sesión.
package auth

import (
	"github.com/dropDatabas3/gatewarden/internal/claims"
	"github.com/dropDatabas3/gatewarden/internal/security/csrf"
	"github.com/dropDatabas3/gatewarden/internal/store"
)

// Controllers agrupa los controllers del dominio auth.
type Controllers struct {
	Login  *LoginController
	Logout *LogoutController
}

// NewControllers crea el agregador de controllers de auth.
func NewControllers(users store.UserRepository, issuer *claims.Issuer, guard *csrf.Guard) *Controllers {
	return &Controllers{
		Login:  NewLoginController(users, issuer, guard),
		Logout: NewLogoutController(guard),
	}
}
