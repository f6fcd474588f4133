// Package presence mantiene el registro de connection handles vivos por
// (subject, scope) sobre el cache compartido.
//
// Las operaciones de set del cache son atómicas por key, así que attach/detach
// concurrentes de muchas conexiones del mismo subject convergen a un set
// consistente sin locking in-process (insert/remove conmutan para handles
// distintos). El set puede quedar vacío brevemente; este paquete no lo destruye.
package presence

import (
	"context"
	"errors"

	"github.com/dropDatabas3/gatewarden/internal/cache"
)

const keyPrefix = "presence:"

// ErrNotCurrent: el caller asumió que el subject tiene al menos un handle vivo
// y el set está vacío. Distinto de un lookup vacío normal ("user offline"):
// algunos callers lo ignoran en silencio, otros lo tratan como violación dura.
var ErrNotCurrent = errors.New("presence: subject has no live handles")

// Registry mapea (subject, scope) al set de handles vivos.
type Registry struct {
	cache cache.Client
}

// NewRegistry crea un Registry sobre el cache inyectado.
func NewRegistry(c cache.Client) *Registry {
	return &Registry{cache: c}
}

func key(subjectID, scope string) string {
	return keyPrefix + scope + ":" + subjectID
}

// Attach agrega un handle al set. Idempotente ante attach duplicado.
func (r *Registry) Attach(ctx context.Context, subjectID, scope, handle string) error {
	return r.cache.SAdd(ctx, key(subjectID, scope), handle)
}

// Detach remueve un handle. No-op si no estaba.
func (r *Registry) Detach(ctx context.Context, subjectID, scope, handle string) error {
	return r.cache.SRem(ctx, key(subjectID, scope), handle)
}

// Lookup retorna el set actual de handles (posiblemente vacío).
func (r *Registry) Lookup(ctx context.Context, subjectID, scope string) ([]string, error) {
	return r.cache.SMembers(ctx, key(subjectID, scope))
}

// RequireCurrent es la variante que asume presencia: falla con ErrNotCurrent
// si el subject no tiene ningún handle vivo bajo el scope.
func (r *Registry) RequireCurrent(ctx context.Context, subjectID, scope string) ([]string, error) {
	handles, err := r.Lookup(ctx, subjectID, scope)
	if err != nil {
		return nil, err
	}
	if len(handles) == 0 {
		return nil, ErrNotCurrent
	}
	return handles, nil
}
