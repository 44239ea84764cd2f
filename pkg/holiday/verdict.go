package holiday

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrYearUnsupported is the cause of an Unknown verdict for a year the
	// calendar data does not cover.
	ErrYearUnsupported = errors.New("holiday data does not cover year")
	// ErrDataUnavailable is the cause when calendar data could not be loaded.
	ErrDataUnavailable = errors.New("holiday data unavailable")
)

type Status int

const (
	Unknown Status = iota
	Workday
	NonWorkday
)

func (s Status) String() string {
	switch s {
	case Workday:
		return "workday"
	case NonWorkday:
		return "non_workday"
	default:
		return "unknown"
	}
}

// Verdict is the answer for a single date.
type Verdict struct {
	Date   time.Time
	Status Status
	// Name is the holiday or make-up day name, empty for ordinary days and weekends.
	Name string
	// MakeUp is set for weekend days that are worked to compensate a holiday.
	MakeUp bool
	// Cause explains an Unknown status.
	Cause error
}

// Resolve collapses the verdict to a workday decision. assumeWorkday is the
// answer used for Unknown.
func (v Verdict) Resolve(assumeWorkday bool) bool {
	switch v.Status {
	case Workday:
		return true
	case NonWorkday:
		return false
	default:
		return assumeWorkday
	}
}

// Oracle answers workday questions for calendar dates.
type Oracle interface {
	Lookup(ctx context.Context, date time.Time) Verdict
}

// Unavailable is an Oracle without data. Every lookup is Unknown with Cause.
type Unavailable struct {
	Cause error
}

func (u Unavailable) Lookup(_ context.Context, date time.Time) Verdict {
	cause := u.Cause
	if cause == nil {
		cause = ErrDataUnavailable
	}
	return Verdict{Date: date, Status: Unknown, Cause: cause}
}
