package claims

import (
	"crypto/ed25519"
	"crypto/rand"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Issuer firma tokens de sesión y action tokens con una clave ed25519.
type Issuer struct {
	Iss        string
	SessionTTL time.Duration

	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewIssuer crea un Issuer con la clave dada.
func NewIssuer(iss string, priv ed25519.PrivateKey, sessionTTL time.Duration) *Issuer {
	if sessionTTL == 0 {
		sessionTTL = 15 * time.Minute
	}
	return &Issuer{
		Iss:        iss,
		SessionTTL: sessionTTL,
		priv:       priv,
		pub:        priv.Public().(ed25519.PublicKey),
	}
}

// NewEphemeralIssuer genera una clave nueva. Útil para dev/testing: los tokens
// no sobreviven un restart.
func NewEphemeralIssuer(iss string, sessionTTL time.Duration) (*Issuer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return NewIssuer(iss, priv, sessionTTL), nil
}

// PublicKey expone la clave pública para construir el Verifier.
func (i *Issuer) PublicKey() ed25519.PublicKey { return i.pub }

// IssueSession emite un token de sesión para el subject dado.
func (i *Issuer) IssueSession(sub string, verified bool, scope string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.SessionTTL)
	return i.sign(jwtv5.MapClaims{
		"iss":      i.Iss,
		"sub":      sub,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      exp.Unix(),
		"verified": verified,
		"scope":    scope,
	}, exp)
}

// IssueAction emite un action token single-purpose (verify-email,
// forgot-password, confirm-password) con TTL propio.
func (i *Issuer) IssueAction(kind, sub string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	return i.sign(jwtv5.MapClaims{
		"iss":  i.Iss,
		"sub":  sub,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  exp.Unix(),
		"kind": kind,
	}, exp)
}

func (i *Issuer) sign(mc jwtv5.MapClaims, exp time.Time) (string, time.Time, error) {
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, mc)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(i.priv)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
