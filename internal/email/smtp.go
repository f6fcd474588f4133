package email

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
	mail "github.com/go-mail/mail"
)

// SMTPRelay implementa Relay usando SMTP via go-mail.
type SMTPRelay struct {
	Host               string
	Port               int
	From               string
	User               string
	Pass               string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
}

// NewSMTPRelay crea un SMTPRelay con los parámetros dados.
func NewSMTPRelay(host string, port int, from, user, pass string) *SMTPRelay {
	return &SMTPRelay{
		Host:    host,
		Port:    port,
		From:    from,
		User:    user,
		Pass:    pass,
		TLSMode: "auto",
	}
}

func (s *SMTPRelay) dialer() *mail.Dialer {
	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, // solo dev
	}
	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = &tls.Config{InsecureSkipVerify: s.InsecureSkipVerify}
	default:
		// "auto"/"starttls": go-mail negocia STARTTLS si corresponde
	}
	return d
}

// Verify abre y cierra una conexión contra el relay (handshake completo).
func (s *SMTPRelay) Verify(ctx context.Context) error {
	sc, err := s.dialer().Dial()
	if err != nil {
		return fmt.Errorf("smtp verify: %w", err)
	}
	return sc.Close()
}

// Send entrega el mensaje. El veredicto por destinatario se deriva del error
// SMTP: un rechazo de destinatario (5.1.1 / 5.7.1) marca a todos los
// destinatarios como rechazados sin fallar el transporte; el resto de los
// errores se propaga como falla.
func (s *SMTPRelay) Send(ctx context.Context, msg Message) (RelayResult, error) {
	log := logger.From(ctx).With(
		logger.Component("SMTPRelay"),
		logger.String("host", s.Host),
		logger.Int("port", s.Port),
	)

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)

	// Preferimos multipart/alternative (txt + html)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
	}
	if msg.HTML != "" {
		if msg.Text == "" {
			m.SetBody("text/html", msg.HTML)
		} else {
			m.AddAlternative("text/html", msg.HTML)
		}
	}

	if err := s.dialer().DialAndSend(m); err != nil {
		diag := DiagnoseSMTP(err)
		if diag.RecipientRejected() {
			log.Warn("smtp recipients rejected",
				logger.Err(err),
				logger.String("diag_code", diag.Code),
			)
			return RelayResult{Rejected: msg.To}, nil
		}
		log.Error("smtp send failed",
			logger.Err(err),
			logger.String("diag_code", diag.Code),
			logger.Bool("temporary", diag.Temporary),
		)
		return RelayResult{}, fmt.Errorf("smtp send: %w", err)
	}

	return RelayResult{Accepted: msg.To}, nil
}
