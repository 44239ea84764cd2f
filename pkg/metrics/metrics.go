package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds every punch-reminder metric. It is kept separate from the
// default registry so a push carries only this job's series.
var Registry = prometheus.NewRegistry()

var (
	DispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "punch_reminder_dispatch_total",
		Help: "Total number of dispatch runs by window and outcome",
	}, []string{"window", "outcome"})
	HolidayLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "punch_reminder_holiday_lookups_total",
		Help: "Total number of workday lookups by verdict status",
	}, []string{"status"})
	// WaitSeconds is the sleep the waiter requested before the last send.
	WaitSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "punch_reminder_wait_seconds",
		Help: "Seconds spent waiting for the target time in the last run",
	})

	// Mail metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "punch_reminder_mail_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "punch_reminder_mail_send_failure_total",
		Help: "Total number of failed mail sends",
	}, []string{"host"})
)

func init() {
	Registry.MustRegister(DispatchTotal)
	Registry.MustRegister(HolidayLookups)
	Registry.MustRegister(WaitSeconds)
	Registry.MustRegister(MailSendSuccess)
	Registry.MustRegister(MailSendFailure)
}

// Push sends the current state of Registry to the Pushgateway at url, grouped
// under job.
func Push(url, job string) error {
	if err := push.New(url, job).Gatherer(Registry).Push(); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
