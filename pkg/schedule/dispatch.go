package schedule

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/telekom/punch-reminder/pkg/holiday"
	"github.com/telekom/punch-reminder/pkg/mail"
	"github.com/telekom/punch-reminder/pkg/metrics"
)

// Notifier is the email side of a dispatch.
type Notifier interface {
	Notify(ctx context.Context, v mail.Variant) error
}

// Outcome is the result of one dispatch run. Its String form is the outcome
// label of punch_reminder_dispatch_total.
type Outcome int

const (
	Sent Outcome = iota
	SkippedNonWorkday
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Sent:
		return "sent"
	case SkippedNonWorkday:
		return "skipped_non_workday"
	default:
		return "failed"
	}
}

// Dispatcher runs one scheduled reminder: holiday check, window selection,
// wait, send.
type Dispatcher struct {
	Clock    Clock
	Location *time.Location
	Oracle   holiday.Oracle
	Notifier Notifier
	// Start is the instant the run began. The window and the holiday lookup
	// are decided from it, so time spent loading the oracle cannot move the
	// run into another window. Zero means "read the clock in Run".
	Start time.Time
	// DefaultVariant is sent when the run starts outside both windows.
	DefaultVariant mail.Variant
	// AssumeWorkdayOnUnknown is the policy for dates the oracle cannot
	// answer. true sends anyway; false skips.
	AssumeWorkdayOnUnknown bool
	Log                    *zap.SugaredLogger
}

// Run sends at most one reminder. Notifier errors are returned with the
// Failed outcome and are never retried here.
func (d Dispatcher) Run(ctx context.Context) (Outcome, error) {
	loc := d.Location
	if loc == nil {
		loc = Location()
	}
	start := d.Start
	if start.IsZero() {
		start = d.Clock.Now()
	}
	now := start.In(loc)
	window := SelectWindow(now.Hour(), d.DefaultVariant)
	log := d.Log.Named("dispatch").With("date", now.Format("2006-01-02"), "window", window.Name)

	verdict := d.Oracle.Lookup(ctx, now)
	metrics.HolidayLookups.WithLabelValues(verdict.Status.String()).Inc()
	switch verdict.Status {
	case holiday.Workday:
		log.Infow("Workday confirmed", "makeUpDay", verdict.MakeUp, "name", verdict.Name)
	case holiday.NonWorkday:
		log.Infow("Not a workday, no reminder today", "holiday", verdict.Name, "weekday", now.Weekday().String())
	case holiday.Unknown:
		if d.AssumeWorkdayOnUnknown {
			log.Warnw("Workday status unknown, assuming workday", "error", verdict.Cause)
		} else {
			log.Warnw("Workday status unknown, skipping", "error", verdict.Cause)
		}
	}
	if !verdict.Resolve(d.AssumeWorkdayOnUnknown) {
		metrics.DispatchTotal.WithLabelValues(window.Name, SkippedNonWorkday.String()).Inc()
		return SkippedNonWorkday, nil
	}

	var waited time.Duration
	if window.Wait {
		log.Infow("Dispatch window selected", "target", window.Target(), "type", window.Variant)
		waited = NewWaiter(d.Clock, loc, d.Log).WaitUntil(window.Hour, window.Minute)
	} else {
		log.Infow("Outside dispatch windows, sending immediately", "type", window.Variant)
	}
	metrics.WaitSeconds.Set(waited.Seconds())

	if err := d.Notifier.Notify(ctx, window.Variant); err != nil {
		metrics.DispatchTotal.WithLabelValues(window.Name, Failed.String()).Inc()
		return Failed, fmt.Errorf("dispatching %s reminder: %w", window.Name, err)
	}
	metrics.DispatchTotal.WithLabelValues(window.Name, Sent.String()).Inc()
	log.Infow("Reminder dispatched", "type", window.Variant, "waited", waited.String())
	return Sent, nil
}
