package email

import (
	"net"
	"strings"
)

// SMTPDiag clasifica un error del relay. La única distinción con efecto en el
// flujo es RecipientRejected: el transporte anduvo pero el relay rechazó al
// destinatario. El resto de los codes son etiquetas para el log.
type SMTPDiag struct {
	Code      string // recipient_rejected|timeout|dial|tls|auth|network|unknown
	Temporary bool   // true cuando reintentar más tarde podría servir
}

// RecipientRejected indica un veredicto negativo del relay sobre el
// destinatario, no una falla de transporte.
func (d SMTPDiag) RecipientRejected() bool { return d.Code == "recipient_rejected" }

// DiagnoseSMTP clasifica err mirando el texto del error SMTP. Los servidores
// no exponen los enhanced status codes de forma tipada, así que el match es
// por substring sobre los códigos y frases usuales.
func DiagnoseSMTP(err error) SMTPDiag {
	if err == nil {
		return SMTPDiag{Code: "unknown"}
	}
	s := strings.ToLower(err.Error())

	// Rechazo de destinatario: 5.1.1 (no existe) o 5.7.1/policy (no se acepta).
	if strings.Contains(s, "5.1.1") || strings.Contains(s, "user unknown") ||
		strings.Contains(s, "mailbox not found") ||
		strings.Contains(s, "5.7.1") || strings.Contains(s, "message rejected") ||
		strings.Contains(s, "policy") {
		return SMTPDiag{Code: "recipient_rejected"}
	}

	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return SMTPDiag{Code: "timeout", Temporary: true}
	}
	if strings.Contains(s, "timeout") {
		return SMTPDiag{Code: "timeout", Temporary: true}
	}

	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "dial tcp") {
		return SMTPDiag{Code: "dial", Temporary: true}
	}

	if strings.Contains(s, "x509:") ||
		strings.Contains(s, "tls") && (strings.Contains(s, "handshake") || strings.Contains(s, "certificate")) {
		return SMTPDiag{Code: "tls"}
	}

	if strings.Contains(s, "5.7.8") || strings.Contains(s, "535") ||
		strings.Contains(s, "authentication failed") {
		return SMTPDiag{Code: "auth"}
	}

	// 4xx transitorios (throttling, cola llena) y resto de errores de red.
	if strings.Contains(s, "451") || strings.Contains(s, "421") ||
		strings.Contains(s, "try again later") {
		return SMTPDiag{Code: "network", Temporary: true}
	}
	if _, ok := err.(net.Error); ok {
		return SMTPDiag{Code: "network", Temporary: true}
	}
	return SMTPDiag{Code: "unknown"}
}
