package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	clocktesting "k8s.io/utils/clock/testing"
)

// sleepRecorder is a fake clock that records every Sleep request. For the
// first driftLeft sleeps, drift is added to fake time on top of the requested
// duration to simulate oversleeping (positive) or the wall clock being set
// back (negative).
type sleepRecorder struct {
	*clocktesting.FakeClock
	sleeps    []time.Duration
	drift     time.Duration
	driftLeft int
}

func newSleepRecorder(now time.Time) *sleepRecorder {
	return &sleepRecorder{FakeClock: clocktesting.NewFakeClock(now)}
}

func (s *sleepRecorder) Sleep(d time.Duration) {
	s.sleeps = append(s.sleeps, d)
	if s.driftLeft > 0 {
		s.driftLeft--
		d += s.drift
	}
	s.FakeClock.SetTime(s.FakeClock.Now().Add(d))
}

func (s *sleepRecorder) total() time.Duration {
	var sum time.Duration
	for _, d := range s.sleeps {
		sum += d
	}
	return sum
}

var beijing = Location()

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, beijing)
}

func TestLocationIsUTCPlusEight(t *testing.T) {
	_, offset := time.Date(2026, time.July, 1, 12, 0, 0, 0, Location()).Zone()
	assert.Equal(t, 8*3600, offset)
	_, offset = time.Date(2026, time.January, 1, 12, 0, 0, 0, Location()).Zone()
	assert.Equal(t, 8*3600, offset)
}

func TestTargetTime(t *testing.T) {
	now := time.Date(2026, time.October, 19, 8, 10, 42, 123456789, beijing)
	target := TargetTime(now, 8, 15)

	assert.Equal(t, time.Date(2026, time.October, 19, 8, 15, 0, 0, beijing), target)
	assert.Equal(t, beijing, target.Location())

	// Past targets stay on today's date.
	past := TargetTime(at(2026, time.October, 19, 20, 0, 0), 8, 15)
	assert.Equal(t, 19, past.Day())
	assert.True(t, past.Before(at(2026, time.October, 19, 20, 0, 0)))
}
