// Package i18n resuelve mensajes localizados por (categoría, nombre de error).
//
// Sólo produce texto para humanos: NUNCA decide control de flujo. La cadena de
// fallback (idioma pedido → idioma default → el propio nombre de error) hace
// que Resolve jamás falle ni panichee: un catálogo roto degrada a un string
// estable, no a un error.
package i18n

import "strings"

// Categorías de mensajes.
const (
	CategoryAuth  = "auth"
	CategoryEmail = "email"
)

// Catalog es el lookup de mensajes por idioma/categoría/nombre.
type Catalog struct {
	defaultLang string
	messages    map[string]map[string]string // lang -> "category.name" -> template
}

// NewCatalog crea el catálogo con los mensajes embebidos.
func NewCatalog(defaultLang string) *Catalog {
	if defaultLang == "" {
		defaultLang = "es"
	}
	return &Catalog{defaultLang: defaultLang, messages: builtin}
}

// Resolve busca el mensaje para (categoría, nombre) en el idioma dado y
// sustituye variables con sintaxis {var}. Siempre retorna un string usable.
func (c *Catalog) Resolve(lang, category, name string, vars map[string]string) string {
	tmpl := c.lookup(lang, category+"."+name)
	if tmpl == "" {
		// Fallback final: el nombre estable del error, nunca vacío.
		return name
	}
	for k, v := range vars {
		tmpl = strings.ReplaceAll(tmpl, "{"+k+"}", v)
	}
	return tmpl
}

func (c *Catalog) lookup(lang, key string) string {
	if lang != "" {
		if m, ok := c.messages[lang]; ok {
			if s, ok := m[key]; ok {
				return s
			}
		}
	}
	if lang != c.defaultLang {
		if m, ok := c.messages[c.defaultLang]; ok {
			if s, ok := m[key]; ok {
				return s
			}
		}
	}
	return ""
}

var builtin = map[string]map[string]string{
	"es": {
		"auth.TOKEN_CSRF_MISSING":          "No autenticado para la defensa {artifact}.",
		"auth.TOKEN_INVALID":               "El token {artifact} presentado no es válido.",
		"auth.TOKEN_MISSING":               "No se proporcionó token de autenticación.",
		"auth.USER_VERIFICATION":           "La cuenta debe ser verificada antes de continuar.",
		"auth.INVALID_CREDENTIALS":         "Las credenciales proporcionadas son inválidas.",
		"auth.PRESENCE_NOT_FOUND":          "El usuario no tiene conexiones activas.",
		"email.SEND_EMAIL_SMTP_CONNECT":    "No se pudo conectar con el servidor de correo.",
		"email.SEND_EMAIL_SMTP_REJECTED":   "El servidor de correo rechazó al destinatario.",
		"email.FORMAT_EMAIL_LINK_REQUIRED": "Error interno al componer el email.",
	},
	"en": {
		"auth.TOKEN_CSRF_MISSING":          "Not authenticated for the {artifact} defense.",
		"auth.TOKEN_INVALID":               "The presented {artifact} token is not valid.",
		"auth.TOKEN_MISSING":               "No authentication token was provided.",
		"auth.USER_VERIFICATION":           "The account must be verified before continuing.",
		"auth.INVALID_CREDENTIALS":         "The provided credentials are invalid.",
		"auth.PRESENCE_NOT_FOUND":          "The user has no active connections.",
		"email.SEND_EMAIL_SMTP_CONNECT":    "Could not connect to the mail server.",
		"email.SEND_EMAIL_SMTP_REJECTED":   "The mail server rejected the recipient.",
		"email.FORMAT_EMAIL_LINK_REQUIRED": "Internal error while composing the email.",
	},
}
