// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/telekom/punch-reminder/pkg/config"
	"github.com/telekom/punch-reminder/pkg/mail"
	"github.com/telekom/punch-reminder/pkg/schedule"
	"github.com/telekom/punch-reminder/pkg/system"
)

// Config wires the command tree to its environment. Tests replace the
// process-level pieces.
type Config struct {
	OutputWriter io.Writer
	Getenv       func(string) string
	Clock        schedule.Clock
	// NewSender builds the SMTP transport. It is not called for --dry-run.
	NewSender func(config.Mail, *zap.SugaredLogger) mail.Sender
	// Logger overrides the logger normally built from --debug and LOG_DEBUG.
	Logger *zap.Logger
}

type runtimeState struct {
	envFile   string
	debug     bool
	dryRun    bool
	writer    io.Writer
	getenv    func(string) string
	clock     schedule.Clock
	start     time.Time
	newSender func(config.Mail, *zap.SugaredLogger) mail.Sender
	logger    *zap.Logger
	log       *zap.SugaredLogger
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		OutputWriter: os.Stdout,
		Getenv:       os.Getenv,
		Clock:        clock.RealClock{},
		NewSender:    mail.NewSender,
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{
		writer:    cfg.OutputWriter,
		getenv:    cfg.Getenv,
		clock:     cfg.Clock,
		newSender: cfg.NewSender,
		logger:    cfg.Logger,
	}

	root := &cobra.Command{
		Use:   "punch-reminder",
		Short: "Send attendance punch reminder emails on Chinese workdays",
		Long: "Sends a morning or evening punch reminder by email. With AUTO_CHECK enabled the\n" +
			"run checks the holiday calendar, waits for 08:15 or 17:35 Beijing time and sends once.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return rt.init(cmd.Flags().Changed("env-file"))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := rt.loadConfig()
			if err != nil {
				return err
			}
			if cfg.AutoCheck {
				return rt.runDispatch(cmd.Context(), cfg)
			}
			return rt.runSend(cmd.Context(), cfg, "")
		},
	}

	root.PersistentFlags().StringVar(&rt.envFile, "env-file", config.DefaultEnvFile, "Path to a .env file; existing environment variables take precedence")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", false, "Enable debug level logging")
	root.PersistentFlags().BoolVar(&rt.dryRun, "dry-run", false, "Log the reminder instead of sending it")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewSendCommand(),
		NewDispatchCommand(),
		NewCheckDayCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) init(envFileRequired bool) error {
	if rt.writer == nil {
		rt.writer = os.Stdout
	}
	if rt.getenv == nil {
		rt.getenv = os.Getenv
	}
	if rt.clock == nil {
		rt.clock = clock.RealClock{}
	}
	if rt.newSender == nil {
		rt.newSender = mail.NewSender
	}

	rt.start = rt.clock.Now()

	if err := config.LoadEnvFile(rt.envFile, envFileRequired); err != nil {
		return err
	}

	if rt.logger == nil {
		logger, err := system.NewLogger(rt.debug || config.ParseBool(rt.getenv(config.EnvLogDebug)))
		if err != nil {
			return err
		}
		rt.logger = logger
	}
	// Every log line of one invocation carries the same run ID.
	rt.log = rt.logger.Sugar().With("run", uuid.NewString())
	return nil
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

// loadConfig reads the full configuration. Errors are logged here so the
// operator sees them in the same stream as the rest of the run.
func (rt *runtimeState) loadConfig() (config.Config, error) {
	cfg, err := config.Load(rt.getenv)
	if err != nil {
		rt.log.Errorw("Invalid configuration", "error", err)
		return cfg, err
	}
	rt.log.Debugw("Configuration loaded", "config", cfg.Redacted())
	return cfg, nil
}

// sync flushes the logger; a failure to sync stderr is not worth reporting.
func (rt *runtimeState) sync() {
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
}
