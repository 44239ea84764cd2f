package mail

import "go.uber.org/zap"

// LogSender logs mails instead of sending them. Used by --dry-run.
type LogSender struct {
	log  *zap.SugaredLogger
	Sent int
}

func NewLogSender(log *zap.SugaredLogger) *LogSender {
	return &LogSender{log: log.Named("mail-dry-run")}
}

func (s *LogSender) Send(receivers []string, subject, body string) error {
	s.Sent++
	s.log.Infow("Dry run, mail not sent", "receivers", receivers, "subject", subject, "bodyBytes", len(body))
	return nil
}

func (s *LogSender) GetHost() string {
	return "dry-run"
}

func (s *LogSender) GetPort() int {
	return 0
}
