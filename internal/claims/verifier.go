package claims

import (
	"crypto/ed25519"
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken cubre firma inválida, token malformado, expirado o issuer
// incorrecto. El detalle no se expone: fail-closed sin discriminar causa.
var ErrInvalidToken = errors.New("claims: invalid token")

// Verifier decodifica y valida un token firmado en Claims.
// Idempotente y libre de efectos; seguro para uso concurrente.
type Verifier struct {
	pub         ed25519.PublicKey
	expectedIss string
}

// NewVerifier crea un Verifier contra la clave pública del Issuer.
func NewVerifier(pub ed25519.PublicKey, expectedIss string) *Verifier {
	return &Verifier{pub: pub, expectedIss: expectedIss}
}

// Verify valida firma EdDSA, iss (si fue configurado) y exp/nbf con una
// pequeña tolerancia. Retorna ErrInvalidToken ante cualquier defecto.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	keyfunc := func(t *jwtv5.Token) (any, error) { return v.pub, nil }

	tok, err := jwtv5.Parse(raw, keyfunc, jwtv5.WithValidMethods([]string{"EdDSA"}))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if v.expectedIss != "" {
		if iss, _ := mc["iss"].(string); iss != v.expectedIss {
			return nil, ErrInvalidToken
		}
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	now := time.Now()
	c := &Claims{Subject: sub}
	if expf, ok := mc["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(expf), 0)
		if c.ExpiresAt.Before(now.Add(-30 * time.Second)) {
			return nil, ErrInvalidToken
		}
	}
	if nbff, ok := mc["nbf"].(float64); ok {
		if time.Unix(int64(nbff), 0).After(now.Add(30 * time.Second)) {
			return nil, ErrInvalidToken
		}
	}
	if iatf, ok := mc["iat"].(float64); ok {
		c.IssuedAt = time.Unix(int64(iatf), 0)
	}
	c.Verified, _ = mc["verified"].(bool)
	c.Scope, _ = mc["scope"].(string)
	c.Kind, _ = mc["kind"].(string)
	return c, nil
}

// VerifyAction valida un action token y exige el kind esperado.
// Un token de sesión (kind vacío) o de otro kind falla cerrado.
func (v *Verifier) VerifyAction(raw, kind string) (*Claims, error) {
	c, err := v.Verify(raw)
	if err != nil {
		return nil, err
	}
	if c.Kind != kind {
		return nil, ErrInvalidToken
	}
	return c, nil
}
