package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/telekom/punch-reminder/pkg/config"
	"github.com/telekom/punch-reminder/pkg/holiday"
	"github.com/telekom/punch-reminder/pkg/mail"
	"github.com/telekom/punch-reminder/pkg/metrics"
	"github.com/telekom/punch-reminder/pkg/schedule"
)

func NewSendCommand() *cobra.Command {
	var emailType string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a reminder right away, without the holiday check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			cfg, err := rt.loadConfig()
			if err != nil {
				return err
			}
			return rt.runSend(cmd.Context(), cfg, emailType)
		},
	}

	cmd.Flags().StringVarP(&emailType, "type", "t", "", "Reminder type: morning or evening (default EMAIL_TYPE)")

	return cmd
}

func NewDispatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch",
		Short: "Check the holiday calendar, wait for the next dispatch window and send once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			cfg, err := rt.loadConfig()
			if err != nil {
				return err
			}
			return rt.runDispatch(cmd.Context(), cfg)
		},
	}
}

func (rt *runtimeState) notifier(cfg config.Config) *mail.Notifier {
	var sender mail.Sender
	if rt.dryRun {
		sender = mail.NewLogSender(rt.log)
	} else {
		sender = rt.newSender(cfg.Mail, rt.log)
	}
	return mail.NewNotifier(sender, cfg.Mail.Receiver, rt.clock, schedule.Location(), rt.log)
}

func (rt *runtimeState) runSend(ctx context.Context, cfg config.Config, emailType string) error {
	defer rt.sync()
	if emailType == "" {
		emailType = cfg.EmailType
	}
	v, err := mail.ParseVariant(emailType)
	if err != nil {
		return err
	}

	rt.log.Infow("Sending reminder without holiday check", "type", v, "dryRun", rt.dryRun)
	err = rt.notifier(cfg).Notify(ctx, v)
	outcome := schedule.Sent
	if err != nil {
		outcome = schedule.Failed
		rt.log.Errorw("Reminder failed", "type", v, "error", err)
	}
	metrics.DispatchTotal.WithLabelValues("manual", outcome.String()).Inc()
	rt.pushMetrics(cfg)
	return err
}

func (rt *runtimeState) runDispatch(ctx context.Context, cfg config.Config) error {
	defer rt.sync()
	v, err := mail.ParseVariant(cfg.EmailType)
	if err != nil {
		return err
	}

	// Fetching remote holiday data can take a while; the window belongs to
	// the moment the command started.
	d := schedule.Dispatcher{
		Clock:                  rt.clock,
		Location:               schedule.Location(),
		Start:                  rt.start,
		Oracle:                 rt.oracle(ctx, cfg),
		Notifier:               rt.notifier(cfg),
		DefaultVariant:         v,
		AssumeWorkdayOnUnknown: cfg.Holiday.FailOpen,
		Log:                    rt.log,
	}
	outcome, err := d.Run(ctx)
	if err != nil {
		rt.log.Errorw("Dispatch failed", "error", err)
	} else {
		rt.log.Infow("Dispatch finished", "outcome", outcome.String())
	}
	rt.pushMetrics(cfg)
	return err
}

func (rt *runtimeState) oracle(ctx context.Context, cfg config.Config) holiday.Oracle {
	return holiday.Load(ctx, cfg.Holiday.DataURL, cfg.Holiday.Timeout, rt.log)
}

// pushMetrics is best effort. The reminder outcome decides the exit code.
func (rt *runtimeState) pushMetrics(cfg config.Config) {
	if cfg.Metrics.PushgatewayURL == "" {
		return
	}
	start := time.Now()
	if err := metrics.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
		rt.log.Warnw("Pushing metrics failed", "url", cfg.Metrics.PushgatewayURL, "error", err)
		return
	}
	rt.log.Debugw("Metrics pushed", "url", cfg.Metrics.PushgatewayURL, "job", cfg.Metrics.Job, "took", time.Since(start).String())
}

// isConfigurationError is used by callers that can work with a partial
// configuration.
func isConfigurationError(err error) (*config.ConfigurationError, bool) {
	var cerr *config.ConfigurationError
	if errors.As(err, &cerr) {
		return cerr, true
	}
	return nil, false
}
