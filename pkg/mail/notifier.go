package mail

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// Notifier renders a reminder for the current local time and sends it to a
// single receiver.
type Notifier struct {
	sender   Sender
	receiver string
	clock    clock.PassiveClock
	loc      *time.Location
	log      *zap.SugaredLogger
}

func NewNotifier(sender Sender, receiver string, clk clock.PassiveClock, loc *time.Location, log *zap.SugaredLogger) *Notifier {
	return &Notifier{
		sender:   sender,
		receiver: receiver,
		clock:    clk,
		loc:      loc,
		log:      log.Named("notifier"),
	}
}

// Notify sends the reminder for variant v. Transport errors are returned
// unchanged so the process exits non-zero.
func (n *Notifier) Notify(ctx context.Context, v Variant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := n.clock.Now().In(n.loc)
	subject, body, err := Render(v, NewReminderParams(v, now))
	if err != nil {
		return err
	}
	n.log.Infow("Sending reminder", "type", v, "receiver", n.receiver, "localTime", now.Format(time.RFC3339))
	if err := n.sender.Send([]string{n.receiver}, subject, body); err != nil {
		return fmt.Errorf("sending %s reminder: %w", v, err)
	}
	return nil
}
