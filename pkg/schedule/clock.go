package schedule

import (
	"time"

	"k8s.io/utils/clock"
)

// ZoneName is the only time zone reminders are scheduled in.
const ZoneName = "Asia/Shanghai"

// Clock is the time source the waiter sleeps on. clock.RealClock satisfies
// it; tests use a fake clock whose Sleep advances fake time.
type Clock interface {
	clock.PassiveClock
	Sleep(d time.Duration)
}

// Location returns the scheduling zone. China has no DST, so a fixed +08:00
// zone is an exact substitute when the tz database is missing.
func Location() *time.Location {
	loc, err := time.LoadLocation(ZoneName)
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}

// TargetTime is hour:minute on now's calendar date in now's location, with
// seconds and nanoseconds zeroed. It never rolls over to the next day.
func TargetTime(now time.Time, hour, minute int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, now.Location())
}
