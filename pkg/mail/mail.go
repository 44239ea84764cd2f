package mail

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/telekom/punch-reminder/pkg/config"
	"github.com/telekom/punch-reminder/pkg/metrics"
)

const (
	implicitTLSPort = 465
	startTLSPort    = 587
)

type Sender interface {
	Send(receivers []string, subject, body string) error
	GetHost() string
	GetPort() int
}

// TransportError wraps any failure to connect, authenticate or deliver.
type TransportError struct {
	Op   string
	Host string
	Port int
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("smtp %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ResolveSMTP derives the SMTP endpoint from a sender address. Known
// providers are mapped explicitly; anything else is assumed to run
// smtp.<domain> with implicit TLS.
func ResolveSMTP(address string) (host string, port int) {
	address = strings.ToLower(strings.TrimSpace(address))
	domain := address[strings.LastIndex(address, "@")+1:]
	switch domain {
	case "gmail.com":
		return "smtp.gmail.com", implicitTLSPort
	case "163.com":
		return "smtp.163.com", implicitTLSPort
	case "qq.com":
		return "smtp.qq.com", implicitTLSPort
	default:
		return "smtp." + domain, implicitTLSPort
	}
}

type sender struct {
	dialer        *gomail.Dialer
	fallbackPort  int
	senderAddress string
	senderName    string
	debug         bool
	log           *zap.SugaredLogger
}

func NewSender(cfg config.Mail, log *zap.SugaredLogger) Sender {
	host, port := ResolveSMTP(cfg.SenderAddress)
	if cfg.Host != "" {
		host = cfg.Host
	}
	if cfg.Port != 0 {
		port = cfg.Port
	}

	log = log.Named("mail")
	log.Infow("Initializing mail sender", "host", host, "port", port, "user", cfg.SenderAddress)

	d := gomail.NewDialer(host, port, cfg.SenderAddress, cfg.SenderPassword)
	d.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}

	senderName := cfg.SenderName
	if senderName == "" {
		senderName = config.DefaultSenderName
	}

	return &sender{
		dialer:        d,
		fallbackPort:  startTLSPort,
		senderAddress: cfg.SenderAddress,
		senderName:    senderName,
		debug:         cfg.Debug,
		log:           log,
	}
}

// trace logs transport steps; they are only visible at info level with SMTP_DEBUG.
func (s *sender) trace(msg string, keysAndValues ...interface{}) {
	if s.debug {
		s.log.Infow(msg, keysAndValues...)
		return
	}
	s.log.Debugw(msg, keysAndValues...)
}

func (s *sender) newMessage(receivers []string, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.senderAddress, s.senderName)
	msg.SetHeader("To", receivers...)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), s.messageIDDomain()))
	msg.SetBody("text/html", body)
	return msg
}

func (s *sender) messageIDDomain() string {
	if i := strings.LastIndex(s.senderAddress, "@"); i >= 0 && i < len(s.senderAddress)-1 {
		return s.senderAddress[i+1:]
	}
	return "localhost"
}

// dial connects and authenticates with the configured dialer. If implicit
// TLS cannot be established it retries once on the submission port with
// STARTTLS.
func (s *sender) dial() (gomail.SendCloser, *gomail.Dialer, error) {
	s.trace("Connecting to SMTP server", "host", s.dialer.Host, "port", s.dialer.Port, "ssl", s.dialer.SSL)
	sc, err := s.dialer.Dial()
	if err == nil {
		return sc, s.dialer, nil
	}
	if !s.dialer.SSL || s.fallbackPort == 0 {
		return nil, s.dialer, err
	}
	// An SMTP reply means TLS worked and the server rejected us, usually at
	// AUTH. Another port would only hide that error.
	var reply *textproto.Error
	if errors.As(err, &reply) {
		return nil, s.dialer, err
	}

	s.log.Warnw("SSL connection failed, trying STARTTLS", "host", s.dialer.Host, "port", s.fallbackPort, "error", err)
	fallback := gomail.NewDialer(s.dialer.Host, s.fallbackPort, s.dialer.Username, s.dialer.Password)
	fallback.SSL = false
	fallback.TLSConfig = s.dialer.TLSConfig
	sc, err = fallback.Dial()
	return sc, fallback, err
}

func (s *sender) Send(receivers []string, subject, body string) error {
	s.log.Infow("Preparing to send mail", "receivers", len(receivers), "subject", subject, "host", s.GetHost())
	if len(receivers) == 0 {
		return &TransportError{Op: "send", Host: s.GetHost(), Port: s.GetPort(), Err: fmt.Errorf("no receivers")}
	}
	msg := s.newMessage(receivers, subject, body)

	sc, d, err := s.dial()
	if err != nil {
		return s.fail(&TransportError{Op: "dial", Host: d.Host, Port: d.Port, Err: err})
	}

	s.trace("Delivering message", "receivers", receivers)
	if err := gomail.Send(sc, msg); err != nil {
		_ = sc.Close()
		return s.fail(&TransportError{Op: "send", Host: d.Host, Port: d.Port, Err: err})
	}
	if err := sc.Close(); err != nil {
		return s.fail(&TransportError{Op: "quit", Host: d.Host, Port: d.Port, Err: err})
	}

	s.log.Infow("Mail sent successfully", "receivers", len(receivers), "host", d.Host, "port", d.Port)
	metrics.MailSendSuccess.WithLabelValues(s.GetHost()).Inc()
	return nil
}

func (s *sender) fail(err *TransportError) error {
	s.log.Errorw("Failed to send mail", "error", err)
	if strings.Contains(err.Host, "163.com") {
		s.log.Warn("163 mailboxes require an SMTP authorization code instead of the login password " +
			"(Settings -> POP3/SMTP/IMAP -> add authorization code) and SMTP must be enabled")
	}
	metrics.MailSendFailure.WithLabelValues(s.GetHost()).Inc()
	return err
}

func (s *sender) GetHost() string {
	return s.dialer.Host
}

func (s *sender) GetPort() int {
	return s.dialer.Port
}
