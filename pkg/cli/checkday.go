package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/telekom/punch-reminder/pkg/config"
	"github.com/telekom/punch-reminder/pkg/holiday"
	"github.com/telekom/punch-reminder/pkg/schedule"
)

type dayReport struct {
	Date    string `json:"date" yaml:"date"`
	Weekday string `json:"weekday" yaml:"weekday"`
	Status  string `json:"status" yaml:"status"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	MakeUp  bool   `json:"makeUp" yaml:"makeUp"`
	Remind  bool   `json:"remind" yaml:"remind"`
	Cause   string `json:"cause,omitempty" yaml:"cause,omitempty"`
}

func newDayReport(v holiday.Verdict, failOpen bool) dayReport {
	r := dayReport{
		Date:    v.Date.Format("2006-01-02"),
		Weekday: v.Date.Weekday().String(),
		Status:  v.Status.String(),
		Name:    v.Name,
		MakeUp:  v.MakeUp,
		Remind:  v.Resolve(failOpen),
	}
	if v.Cause != nil {
		r.Cause = v.Cause.Error()
	}
	return r
}

func (r dayReport) writeText(w io.Writer) error {
	line := fmt.Sprintf("%s %s: %s", r.Date, r.Weekday, r.Status)
	if r.Name != "" {
		line += " (" + r.Name + ")"
	}
	if r.Cause != "" {
		line += " [" + r.Cause + "]"
	}
	if r.Remind {
		line += ", reminder will be sent"
	} else {
		line += ", no reminder"
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func NewCheckDayCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "check-day [YYYY-MM-DD]",
		Short: "Show whether a date is a workday in the holiday calendar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.sync()

			// Mail settings are not needed to answer a calendar question.
			cfg, err := config.Load(rt.getenv)
			if cerr, ok := isConfigurationError(err); ok && cerr.OnlyMissing() {
				err = nil
			}
			if err != nil {
				return err
			}

			loc := schedule.Location()
			date := rt.clock.Now().In(loc)
			if len(args) == 1 {
				date, err = time.ParseInLocation("2006-01-02", args[0], loc)
				if err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", args[0], err)
				}
			}

			verdict := rt.oracle(cmd.Context(), cfg).Lookup(cmd.Context(), date)
			report := newDayReport(verdict, cfg.Holiday.FailOpen)
			return WriteObject(rt.Writer(), format, report, report.writeText)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: json, yaml")

	return cmd
}
