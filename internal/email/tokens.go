package email

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/dropDatabas3/gatewarden/internal/claims"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
)

// TokenService emite action tokens firmados y construye los links que los
// embeben. Los tokens se consumen exactamente una vez aguas abajo por el
// mismo camino de verificación de claims; acá sólo se emiten.
type TokenService struct {
	issuer    *claims.Issuer
	baseURL   string
	verifyTTL time.Duration
	resetTTL  time.Duration
}

// TokenServiceConfig configura el TokenService.
type TokenServiceConfig struct {
	Issuer    *claims.Issuer
	BaseURL   string        // URL base para links (ej: https://auth.example.com)
	VerifyTTL time.Duration // TTL de tokens de verificación (default 48h)
	ResetTTL  time.Duration // TTL de tokens de reset (default 1h)
}

// NewTokenService crea el servicio de action tokens.
func NewTokenService(cfg TokenServiceConfig) (*TokenService, error) {
	if cfg.Issuer == nil {
		return nil, fmt.Errorf("issuer is required")
	}
	if cfg.VerifyTTL == 0 {
		cfg.VerifyTTL = 48 * time.Hour
	}
	if cfg.ResetTTL == 0 {
		cfg.ResetTTL = 1 * time.Hour
	}
	return &TokenService{
		issuer:    cfg.Issuer,
		baseURL:   cfg.BaseURL,
		verifyTTL: cfg.VerifyTTL,
		resetTTL:  cfg.ResetTTL,
	}, nil
}

// Issue emite un action token para el kind y subject dados.
// confirm-password es un notice sin token: retorna un ActionToken vacío
// salvo el kind, y ningún link se construye.
func (s *TokenService) Issue(ctx context.Context, kind, subjectID string) (ActionToken, error) {
	if subjectID == "" {
		return ActionToken{}, ErrInvalidInput
	}

	var ttl time.Duration
	switch kind {
	case claims.KindVerifyEmail:
		ttl = s.verifyTTL
	case claims.KindForgotPassword:
		ttl = s.resetTTL
	case claims.KindConfirmPassword:
		return ActionToken{Kind: kind, SubjectID: subjectID}, nil
	default:
		return ActionToken{}, fmt.Errorf("%w: unknown action kind %q", ErrInvalidInput, kind)
	}

	raw, exp, err := s.issuer.IssueAction(kind, subjectID, ttl)
	if err != nil {
		return ActionToken{}, fmt.Errorf("issue action token: %w", err)
	}

	logger.From(ctx).Debug("action token issued",
		logger.Kind(kind),
		logger.SubjectID(subjectID),
	)
	return ActionToken{Kind: kind, SubjectID: subjectID, Token: raw, ExpiresAt: exp}, nil
}

// TTL retorna el TTL configurado para el kind (0 para notices sin token).
func (s *TokenService) TTL(kind string) time.Duration {
	switch kind {
	case claims.KindVerifyEmail:
		return s.verifyTTL
	case claims.KindForgotPassword:
		return s.resetTTL
	default:
		return 0
	}
}

// Link construye la URL con el token embebido para el kind dado.
func (s *TokenService) Link(kind string, t ActionToken) string {
	if t.Token == "" {
		return ""
	}
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return ""
	}
	switch kind {
	case claims.KindVerifyEmail:
		u.Path = "/auth/verify-email"
	case claims.KindForgotPassword:
		u.Path = "/auth/reset"
	default:
		return ""
	}
	q := u.Query()
	q.Set("token", t.Token)
	u.RawQuery = q.Encode()
	return u.String()
}
