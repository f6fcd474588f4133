// Package cache provee abstracciones para el cache compartido con soporte multi-backend.
//
// Soporta:
//   - Memory (in-process, para desarrollo/testing)
//   - Redis (distribuido, para producción)
//
// Además de las operaciones escalares expone operaciones de set (SAdd/SRem/SMembers),
// usadas como primitiva de seguridad: tokens CSRF válidos por subject y handles de
// presencia por (subject, scope). El cliente nunca es dueño del lifecycle del backend:
// se construye una vez al inicio y se inyecta por referencia en cada componente.
package cache

import (
	"context"
	"time"
)

// Client define las operaciones contra el cache compartido.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL opcional. Si ttl es 0, no expira.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete elimina una key.
	Delete(ctx context.Context, key string) error

	// SAdd agrega miembros a un set. Crea el set si no existe.
	SAdd(ctx context.Context, key string, members ...string) error

	// SRem remueve miembros de un set. No-op si el miembro no está.
	SRem(ctx context.Context, key string, members ...string) error

	// SMembers retorna todos los miembros de un set.
	// Un set ausente retorna slice vacío, NO error: la ausencia total de la key
	// es una condición normal para los consumidores de seguridad.
	SMembers(ctx context.Context, key string) ([]string, error)

	// Expire fija el TTL de una key existente.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Kind       string // "memory" | "redis"
	Addr       string
	Password   string
	DB         int
	Prefix     string        // Prefijo para todas las keys
	DefaultTTL time.Duration // sólo memory
}

// Errores de cache.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (e errNotFound) Error() string { return "cache: key not found" }

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	_, ok := err.(errNotFound)
	return ok
}

// New crea un cliente de cache según la configuración.
func New(cfg Config) (Client, error) {
	switch cfg.Kind {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	}
}
