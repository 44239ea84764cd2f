// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by Load.
const (
	EnvSenderEmail     = "SENDER_EMAIL"
	EnvSenderPassword  = "SENDER_PASSWORD"
	EnvReceiverEmail   = "RECEIVER_EMAIL"
	EnvSenderName      = "SENDER_NAME"
	EnvEmailType       = "EMAIL_TYPE"
	EnvAutoCheck       = "AUTO_CHECK"
	EnvSMTPDebug       = "SMTP_DEBUG"
	EnvSMTPHost        = "SMTP_HOST"
	EnvSMTPPort        = "SMTP_PORT"
	EnvHolidayDataURL  = "HOLIDAY_DATA_URL"
	EnvHolidayFailOpen = "HOLIDAY_FAIL_OPEN"
	EnvHolidayTimeout  = "HOLIDAY_TIMEOUT"
	EnvPushgatewayURL  = "PUSHGATEWAY_URL"
	EnvMetricsJob      = "METRICS_JOB"
	EnvLogDebug        = "LOG_DEBUG"
)

const (
	DefaultEmailType      = "morning"
	DefaultSenderName     = "打卡提醒"
	DefaultMetricsJob     = "punch-reminder"
	DefaultHolidayTimeout = 10 * time.Second
	DefaultEnvFile        = ".env"
)

type Mail struct {
	SenderAddress  string
	SenderPassword string
	// SenderName is the display name used in the From header.
	SenderName string
	Receiver   string
	// Host and Port override the provider lookup derived from SenderAddress.
	// Zero values mean "resolve from the sender's domain".
	Host  string
	Port  int
	Debug bool
}

type Holiday struct {
	// DataURL optionally points at a YAML holiday calendar that replaces the
	// embedded data for the years it lists.
	DataURL string
	// FailOpen decides how an unknown workday verdict is treated.
	FailOpen bool
	Timeout  time.Duration
}

type Metrics struct {
	PushgatewayURL string
	Job            string
}

type Config struct {
	Mail Mail
	// EmailType is the template variant used when the dispatcher does not pick one.
	EmailType string
	AutoCheck bool
	Holiday   Holiday
	Metrics   Metrics
	Debug     bool
}

// ConfigurationError reports missing or malformed settings. It is returned
// before any network activity takes place.
type ConfigurationError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required environment variables: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid environment variables: "+strings.Join(e.Invalid, "; "))
	}
	return "configuration error: " + strings.Join(parts, "; ")
}

// OnlyMissing reports whether every problem is an unset variable. Commands
// that do not send mail can proceed in that case.
func (e *ConfigurationError) OnlyMissing() bool {
	return len(e.Invalid) == 0
}

func (e *ConfigurationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}

// Load builds a Config from getenv, usually os.Getenv.
func Load(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }
	cerr := &ConfigurationError{}

	cfg := Config{
		Mail: Mail{
			SenderAddress:  get(EnvSenderEmail),
			SenderPassword: getenv(EnvSenderPassword),
			SenderName:     get(EnvSenderName),
			Receiver:       get(EnvReceiverEmail),
			Host:           get(EnvSMTPHost),
			Debug:          ParseBool(get(EnvSMTPDebug)),
		},
		EmailType: strings.ToLower(get(EnvEmailType)),
		AutoCheck: ParseBool(get(EnvAutoCheck)),
		Holiday: Holiday{
			DataURL:  get(EnvHolidayDataURL),
			FailOpen: true,
			Timeout:  DefaultHolidayTimeout,
		},
		Metrics: Metrics{
			PushgatewayURL: get(EnvPushgatewayURL),
			Job:            get(EnvMetricsJob),
		},
		Debug: ParseBool(get(EnvLogDebug)),
	}

	for _, required := range []struct {
		name  string
		value string
	}{
		{EnvSenderEmail, cfg.Mail.SenderAddress},
		{EnvSenderPassword, cfg.Mail.SenderPassword},
		{EnvReceiverEmail, cfg.Mail.Receiver},
	} {
		if required.value == "" {
			cerr.Missing = append(cerr.Missing, required.name)
		}
	}

	if cfg.Mail.SenderName == "" {
		cfg.Mail.SenderName = DefaultSenderName
	}
	if cfg.Mail.SenderAddress != "" && !strings.Contains(cfg.Mail.SenderAddress, "@") {
		cerr.Invalid = append(cerr.Invalid, fmt.Sprintf("%s: %q is not an email address", EnvSenderEmail, cfg.Mail.SenderAddress))
	}

	switch cfg.EmailType {
	case "":
		cfg.EmailType = DefaultEmailType
	case "morning", "evening":
	default:
		cerr.Invalid = append(cerr.Invalid, fmt.Sprintf("%s: %q is not one of morning, evening", EnvEmailType, cfg.EmailType))
	}

	if raw := get(EnvSMTPPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			cerr.Invalid = append(cerr.Invalid, fmt.Sprintf("%s: %q is not a valid port", EnvSMTPPort, raw))
		} else {
			cfg.Mail.Port = port
		}
	}

	if raw := get(EnvHolidayFailOpen); raw != "" {
		cfg.Holiday.FailOpen = ParseBool(raw)
	}
	if raw := get(EnvHolidayTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			cerr.Invalid = append(cerr.Invalid, fmt.Sprintf("%s: %q is not a positive duration", EnvHolidayTimeout, raw))
		} else {
			cfg.Holiday.Timeout = d
		}
	}

	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = DefaultMetricsJob
	}

	if !cerr.empty() {
		return cfg, cerr
	}
	return cfg, nil
}

// LoadEnvFile seeds the process environment from a .env file. Variables that
// are already set win. A missing file is only an error when required is set.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		path = DefaultEnvFile
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !required && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading env file %s: %w", path, err)
}

// ParseBool accepts the usual truthy spellings (true, 1, yes, on, y); anything
// else, including the empty string, is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.Mail.SenderPassword != "" {
		c.Mail.SenderPassword = "******"
	}
	return c
}
