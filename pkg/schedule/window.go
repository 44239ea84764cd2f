package schedule

import (
	"fmt"

	"github.com/telekom/punch-reminder/pkg/mail"
)

// Window is the time-of-day band a run falls into.
type Window struct {
	Name string
	// Wait is false for the immediate window, which has no target time.
	Wait    bool
	Hour    int
	Minute  int
	Variant mail.Variant
}

var (
	// MorningWindow covers 07:00-08:59 and targets 08:15.
	MorningWindow = Window{Name: "morning", Wait: true, Hour: 8, Minute: 15, Variant: mail.Morning}
	// EveningWindow covers 16:00-17:59 and targets 17:35.
	EveningWindow = Window{Name: "evening", Wait: true, Hour: 17, Minute: 35, Variant: mail.Evening}
)

// SelectWindow maps the local hour to a window. Hours outside both bands are
// manual or test invocations and send fallback right away.
func SelectWindow(hour int, fallback mail.Variant) Window {
	switch {
	case hour >= 7 && hour < 9:
		return MorningWindow
	case hour >= 16 && hour < 18:
		return EveningWindow
	default:
		return Window{Name: "immediate", Variant: fallback}
	}
}

// Target formats the window's target as HH:MM, or "now" for the immediate window.
func (w Window) Target() string {
	if !w.Wait {
		return "now"
	}
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}
