// Package csrf implementa la defensa anti-forgery sobre el cache compartido.
//
// Cada subject mantiene un set de tokens válidos (uno por sesión/dispositivo
// activo) bajo la key "csrf:<subject>". El guard sólo lee y matchea; la
// emisión/rotación vive en Issue, invocada al establecer sesión. La expiración
// es del cache (TTL de la key), nunca de este paquete.
package csrf

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/gatewarden/internal/cache"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
	"github.com/dropDatabas3/gatewarden/internal/security/token"
)

const keyPrefix = "csrf:"

var (
	// ErrMissing: el subject no tiene set de tokens, o no presentó token.
	// Equivale a "no autenticado para esta defensa" (401).
	ErrMissing = errors.New("csrf: token missing")

	// ErrMismatch: se presentó un token pero no es miembro del set (403).
	ErrMismatch = errors.New("csrf: token mismatch")
)

// Guard chequea el token anti-forgery presentado contra el set del subject.
type Guard struct {
	cache    cache.Client
	tokenTTL time.Duration
}

// NewGuard crea un Guard sobre el cache compartido inyectado.
func NewGuard(c cache.Client, tokenTTL time.Duration) *Guard {
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Guard{cache: c, tokenTTL: tokenTTL}
}

// Check verifica que presented sea miembro exacto del set del subject.
//
// subjectID DEBE venir de Claims ya verificadas, nunca de input sin
// autenticar. Set vacío/ausente o token no presentado → ErrMissing.
// Token presente pero sin match exacto (sin normalización, sin prefijos)
// → ErrMismatch. No escribe el set bajo ninguna condición.
func (g *Guard) Check(ctx context.Context, subjectID, presented string) error {
	members, err := g.cache.SMembers(ctx, keyPrefix+subjectID)
	if err != nil {
		return err
	}
	if len(members) == 0 || presented == "" {
		return ErrMissing
	}
	for _, m := range members {
		if m == presented {
			return nil
		}
	}
	return ErrMismatch
}

// Issue genera un token opaco nuevo y lo agrega al set del subject.
// Se llama al establecer una sesión; múltiples tokens por subject son
// esperados (multi-device). El TTL renueva la key completa.
func (g *Guard) Issue(ctx context.Context, subjectID string) (string, error) {
	t, err := token.GenerateOpaqueToken(32)
	if err != nil {
		return "", err
	}
	key := keyPrefix + subjectID
	if err := g.cache.SAdd(ctx, key, t); err != nil {
		return "", err
	}
	if err := g.cache.Expire(ctx, key, g.tokenTTL); err != nil {
		// El token ya está en el set; un Expire fallido sólo deja el TTL previo.
		logger.From(ctx).Warn("csrf: expire failed", logger.SubjectID(subjectID), logger.Err(err))
	}
	return t, nil
}

// Revoke remueve un token del set (logout de una sesión puntual).
func (g *Guard) Revoke(ctx context.Context, subjectID, t string) error {
	return g.cache.SRem(ctx, keyPrefix+subjectID, t)
}
