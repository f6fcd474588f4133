package auth

import (
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/gatewarden/internal/claims"
	httperrors "github.com/dropDatabas3/gatewarden/internal/http/errors"
	"github.com/dropDatabas3/gatewarden/internal/http/helpers"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
	"github.com/dropDatabas3/gatewarden/internal/security/csrf"
	"github.com/dropDatabas3/gatewarden/internal/security/password"
	"github.com/dropDatabas3/gatewarden/internal/store"
)

// LoginController maneja POST /v1/auth/login.
type LoginController struct {
	users  store.UserRepository
	issuer *claims.Issuer
	guard  *csrf.Guard
}

// NewLoginController crea un controller de login.
func NewLoginController(users store.UserRepository, issuer *claims.Issuer, guard *csrf.Guard) *LoginController {
	return &LoginController{users: users, issuer: issuer, guard: guard}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Scope    string `json:"scope,omitempty"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	CSRFToken   string `json:"csrf_token"`
	Verified    bool   `json:"verified"`
}

// Login valida credenciales, emite las claims de sesión y un token CSRF
// asociado al subject. El establecimiento de sesión es el único lugar donde
// se emiten artefactos CSRF.
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req loginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		httperrors.WriteError(w, r, httperrors.ErrMissingFields.WithDetail("email y password son requeridos"))
		return
	}

	user, err := c.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if stderrors.Is(err, store.ErrUserNotFound) {
			// Mismo error que password incorrecto para no filtrar existencia.
			httperrors.WriteError(w, r, httperrors.ErrInvalidCredentials)
			return
		}
		log.Error("credential lookup failed", logger.Err(err))
		httperrors.WriteError(w, r, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		httperrors.WriteError(w, r, httperrors.ErrInvalidCredentials)
		return
	}

	token, exp, err := c.issuer.IssueSession(user.ID, user.EmailVerified, req.Scope)
	if err != nil {
		log.Error("failed to issue session claims", logger.Err(err))
		httperrors.WriteError(w, r, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	csrfToken, err := c.guard.Issue(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue csrf token", logger.Err(err))
		httperrors.WriteError(w, r, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	log.Info("session established",
		logger.SubjectID(user.ID),
		logger.Bool("verified", user.EmailVerified),
	)

	helpers.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(exp).Seconds()),
		CSRFToken:   csrfToken,
		Verified:    user.EmailVerified,
	})
}
