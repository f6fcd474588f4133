package errors

import (
	"fmt"
	"net/http"
)

// StatusSMTPRejected: el relay rechazó a todos los destinatarios. Se usa el
// código extendido 541 para que el cliente distinga rechazo de relay caído.
const StatusSMTPRejected = 541

// AppError define la estructura estándar para errores de la aplicación.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Detail     string            `json:"detail,omitempty"`
	HTTPStatus int               `json:"-"` // No se serializa, usado para el header
	Err        error             `json:"-"` // Error original (causa), útil para logs, no se expone al cliente
	Vars       map[string]string `json:"-"` // Variables para el template del catálogo i18n
}

// Error implementa la interfaz error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original
func (e *AppError) Unwrap() error {
	return e.Err
}

// New crea un nuevo AppError
func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// FromError intenta convertir un error genérico en un AppError.
// Si no es un AppError, devuelve un error interno genérico conservando la causa.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail agrega detalle adicional al error.
// Devuelve una COPIA para no mutar las variables globales base.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause agrega el error original (causa).
// Devuelve una COPIA del error.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// LISTA DE ERRORES PREDEFINIDOS
// =================================================================================

// ---------------------------------------------------------------------------------
// 401 Unauthorized - Autenticación y CSRF faltante
// ---------------------------------------------------------------------------------

var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "No autorizado. Se requiere autenticación.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenMissing = &AppError{
		Code:       "TOKEN_MISSING",
		Message:    "No se proporcionó token de autenticación.",
		HTTPStatus: http.StatusUnauthorized,
	}

	// ErrCSRFMissing: ningún artefacto CSRF presentado. Es deliberadamente
	// distinto de ErrTokenInvalid (artefacto presentado pero incorrecto).
	ErrCSRFMissing = &AppError{
		Code:       "TOKEN_CSRF_MISSING",
		Message:    "No se proporcionó token CSRF.",
		HTTPStatus: http.StatusUnauthorized,
		Vars:       map[string]string{"artifact": "CSRF"},
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Las credenciales proporcionadas son inválidas.",
		HTTPStatus: http.StatusUnauthorized,
	}

	// ErrUnverifiedConnection: sujeto no verificado sobre una conexión
	// persistente. La conexión falla como no-autenticada.
	ErrUnverifiedConnection = &AppError{
		Code:       "USER_VERIFICATION",
		Message:    "La cuenta debe ser verificada antes de continuar.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// ---------------------------------------------------------------------------------
// 403 Forbidden - Token inválido y verificación sobre request/response
// ---------------------------------------------------------------------------------

var (
	// ErrTokenInvalid: el artefacto presentado no coincide con ninguno emitido.
	// El mensaje localizado se parametriza con el nombre del artefacto.
	ErrTokenInvalid = &AppError{
		Code:       "TOKEN_INVALID",
		Message:    "El token CSRF presentado es inválido.",
		HTTPStatus: http.StatusForbidden,
		Vars:       map[string]string{"artifact": "CSRF"},
	}

	// ErrUnverifiedRequest: sujeto no verificado sobre request/response.
	// Mismo code que ErrUnverifiedConnection, distinto status por transporte.
	ErrUnverifiedRequest = &AppError{
		Code:       "USER_VERIFICATION",
		Message:    "La cuenta debe ser verificada antes de continuar.",
		HTTPStatus: http.StatusForbidden,
	}
)

// ---------------------------------------------------------------------------------
// 404 Not Found
// ---------------------------------------------------------------------------------

var (
	ErrPresenceNotFound = &AppError{
		Code:       "PRESENCE_NOT_FOUND",
		Message:    "No hay presencia registrada para el sujeto.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "El usuario especificado no existe.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrRouteNotFound = &AppError{
		Code:       "ROUTE_NOT_FOUND",
		Message:    "La ruta solicitada no existe.",
		HTTPStatus: http.StatusNotFound,
	}
)

// ---------------------------------------------------------------------------------
// 400 Bad Request
// ---------------------------------------------------------------------------------

var (
	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "El cuerpo de la solicitud no es un JSON válido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingFields = &AppError{
		Code:       "MISSING_FIELDS",
		Message:    "Faltan campos requeridos en la solicitud.",
		HTTPStatus: http.StatusBadRequest,
	}
)

// ---------------------------------------------------------------------------------
// 405 Method Not Allowed
// ---------------------------------------------------------------------------------

var (
	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "El método HTTP no está permitido para este recurso.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
)

// ---------------------------------------------------------------------------------
// 500+ Server Errors - Internos y entrega de correo
// ---------------------------------------------------------------------------------

var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Ocurrió un error interno en el servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrSMTPConnect: el health probe del relay falló, nada se envió.
	ErrSMTPConnect = &AppError{
		Code:       "SEND_EMAIL_SMTP_CONNECT",
		Message:    "No se pudo conectar con el relay de correo.",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrSMTPRejected: el relay aceptó la conexión pero rechazó a todos
	// los destinatarios.
	ErrSMTPRejected = &AppError{
		Code:       "SEND_EMAIL_SMTP_REJECTED",
		Message:    "El relay de correo rechazó la entrega.",
		HTTPStatus: StatusSMTPRejected,
	}

	// ErrEmailLinkRequired: error de configuración, la variante de correo
	// requiere link y no hay link disponible.
	ErrEmailLinkRequired = &AppError{
		Code:       "FORMAT_EMAIL_LINK_REQUIRED",
		Message:    "La plantilla de correo requiere un link y no se generó ninguno.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
