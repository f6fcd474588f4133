package middlewares

import (
	"context"

	"github.com/dropDatabas3/gatewarden/internal/claims"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyClaims
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID retorna el request ID del contexto, o "" si no hay.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// WithClaims inyecta las claims verificadas en el contexto.
func WithClaims(ctx context.Context, cl *claims.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, cl)
}

// GetClaims retorna las claims del contexto, o nil si no hay.
func GetClaims(ctx context.Context) *claims.Claims {
	if v, ok := ctx.Value(ctxKeyClaims).(*claims.Claims); ok {
		return v
	}
	return nil
}

// GetSubjectID retorna el subject autenticado del contexto, o "".
func GetSubjectID(ctx context.Context) string {
	if cl := GetClaims(ctx); cl != nil {
		return cl.Subject
	}
	return ""
}
