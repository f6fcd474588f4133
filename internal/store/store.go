// Package store define el acceso al documento de usuario para la validación
// de credenciales. El esquema persistente completo es un colaborador externo;
// acá sólo importa el contrato findOne con proyección mínima.
package store

import (
	"context"
	"errors"
)

// ErrUserNotFound: no existe usuario para el criterio dado.
var ErrUserNotFound = errors.New("store: user not found")

// UserRecord es la proyección mínima para autenticar y emitir claims.
type UserRecord struct {
	ID            string
	Email         string
	PasswordHash  string
	EmailVerified bool
}

// UserRepository expone el lookup de credenciales.
type UserRepository interface {
	// FindByEmail retorna la proyección del usuario o ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)

	// FindByID retorna la proyección del usuario o ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*UserRecord, error)
}
