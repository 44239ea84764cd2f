package mail

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// ReminderParams is the data handed to the reminder templates.
type ReminderParams struct {
	Title string
	// Date is the long Chinese date, e.g. "2026年10月19日 星期一".
	Date string
	// Time is the local wall-clock time, "HH:MM".
	Time   string
	Footer string
}

var weekdayNames = [...]string{
	time.Sunday:    "星期日",
	time.Monday:    "星期一",
	time.Tuesday:   "星期二",
	time.Wednesday: "星期三",
	time.Thursday:  "星期四",
	time.Friday:    "星期五",
	time.Saturday:  "星期六",
}

var titles = map[Variant]string{
	Morning: "早安打卡提醒",
	Evening: "下班打卡提醒",
}

var subjectIcons = map[Variant]string{
	Morning: "☀️",
	Evening: "🌙",
}

var (
	morningTemplate = template.New("morning").Funcs(sprig.FuncMap())
	eveningTemplate = template.New("evening").Funcs(sprig.FuncMap())

	//go:embed templates/morning.html
	morningTemplateRaw string
	//go:embed templates/evening.html
	eveningTemplateRaw string
)

func init() {
	if _, err := morningTemplate.Parse(morningTemplateRaw); err != nil {
		panic(err)
	}
	if _, err := eveningTemplate.Parse(eveningTemplateRaw); err != nil {
		panic(err)
	}
}

// FormatDate renders t as the long Chinese date used in subjects and bodies.
func FormatDate(t time.Time) string {
	return t.Format("2006年01月02日") + " " + weekdayNames[t.Weekday()]
}

// NewReminderParams fills the template data for variant v at local time now.
func NewReminderParams(v Variant, now time.Time) ReminderParams {
	return ReminderParams{
		Title: titles[v],
		Date:  FormatDate(now),
		Time:  now.Format("15:04"),
	}
}

// Subject builds the subject line for variant v.
func Subject(v Variant, p ReminderParams) string {
	return fmt.Sprintf("%s %s - %s", subjectIcons[v], titles[v], p.Date)
}

func render(t *template.Template, p any) (string, error) {
	b := bytes.Buffer{}
	err := t.Execute(&b, p)
	return b.String(), err
}

// Render returns the subject and HTML body for variant v.
func Render(v Variant, p ReminderParams) (subject, body string, err error) {
	switch v {
	case Morning:
		body, err = render(morningTemplate, p)
	case Evening:
		body, err = render(eveningTemplate, p)
	default:
		return "", "", fmt.Errorf("no template for email type %q", v)
	}
	if err != nil {
		return "", "", fmt.Errorf("rendering %s template: %w", v, err)
	}
	return Subject(v, p), body, nil
}
