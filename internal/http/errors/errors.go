package errors

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dropDatabas3/gatewarden/internal/i18n"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
)

// errorResponse estructura interna para la serialización JSON.
// Controla exactamente qué campos se envían al cliente.
type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// catalog usado para localizar mensajes. Opcional: sin catálogo se usan
// los mensajes default en español de los errores predefinidos.
var catalog *i18n.Catalog

// UseCatalog registra el catálogo de mensajes. Llamar una vez en el arranque.
func UseCatalog(c *i18n.Catalog) { catalog = c }

// categoryFor mapea el code del error a la categoría del catálogo.
func categoryFor(code string) string {
	if strings.HasPrefix(code, "SEND_EMAIL_") || strings.HasPrefix(code, "FORMAT_EMAIL_") {
		return i18n.CategoryEmail
	}
	return i18n.CategoryAuth
}

// Lang extrae el idioma preferido del request (query ?lang= o Accept-Language).
func Lang(r *http.Request) string {
	if l := strings.TrimSpace(r.URL.Query().Get("lang")); l != "" {
		return l
	}
	al := r.Header.Get("Accept-Language")
	if al == "" {
		return ""
	}
	// Sólo el primer tag, sin región ("es-AR" -> "es").
	tag := strings.TrimSpace(strings.SplitN(al, ",", 2)[0])
	return strings.ToLower(strings.SplitN(tag, "-", 2)[0])
}

// WriteError escribe la respuesta HTTP para el error dado.
// Localiza el mensaje con el catálogo si hay uno registrado, y loguea los
// errores 5xx con severidad error (los 4xx son ruido esperado del cliente
// y quedan en el log del middleware de requests).
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)

	msg := appErr.Message
	if catalog != nil {
		// Resolve devuelve el nombre cuando no hay entrada: en ese caso se
		// conserva el mensaje default del error.
		if resolved := catalog.Resolve(Lang(r), categoryFor(appErr.Code), appErr.Code, appErr.Vars); resolved != appErr.Code {
			msg = resolved
		}
	}

	if appErr.HTTPStatus >= 500 {
		logger.From(r.Context()).Error("request failed with server error",
			logger.String("code", appErr.Code),
			logger.Status(appErr.HTTPStatus),
			logger.Err(appErr),
		)
	}

	resp := errorResponse{
		Code:      appErr.Code,
		Message:   msg,
		Detail:    appErr.Detail,
		RequestID: w.Header().Get("X-Request-ID"),
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
