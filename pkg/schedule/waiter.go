package schedule

import (
	"time"

	"go.uber.org/zap"
)

// DefaultChunk bounds a single sleep, and therefore the gap between progress
// lines a supervisor tailing the log will see.
const DefaultChunk = 60 * time.Second

// Waiter blocks the calling goroutine until a wall-clock target in its
// location, sleeping in bounded chunks on its Clock.
type Waiter struct {
	clock Clock
	loc   *time.Location
	chunk time.Duration
	log   *zap.SugaredLogger
}

// NewWaiter returns a Waiter using DefaultChunk.
func NewWaiter(clk Clock, loc *time.Location, log *zap.SugaredLogger) *Waiter {
	return &Waiter{clock: clk, loc: loc, chunk: DefaultChunk, log: log.Named("waiter")}
}

// WaitUntil blocks until hour:minute today in the scheduling zone and
// returns the total sleep it requested. It returns at once if that moment has
// already passed. Remaining time is recomputed from the clock after every
// chunk, so oversleeping or clock adjustments are absorbed.
func (w *Waiter) WaitUntil(hour, minute int) time.Duration {
	now := w.clock.Now().In(w.loc)
	target := TargetTime(now, hour, minute)
	if !now.Before(target) {
		w.log.Infow("Target time already passed, proceeding now", "target", target.Format("15:04"), "now", now.Format("15:04:05"))
		return 0
	}

	w.log.Infow("Waiting for target time", "target", target.Format(time.RFC3339), "remaining", target.Sub(now).Round(time.Second).String())
	var slept time.Duration
	for remaining := target.Sub(now); remaining > 0; remaining = target.Sub(w.clock.Now()) {
		if remaining > w.chunk {
			w.log.Infow("Still waiting", "target", target.Format("15:04"), "remainingSeconds", int(remaining.Seconds()))
		}
		d := remaining
		if d > w.chunk {
			d = w.chunk
		}
		w.clock.Sleep(d)
		slept += d
	}
	w.log.Infow("Target time reached", "target", target.Format("15:04"), "slept", slept.String())
	return slept
}
