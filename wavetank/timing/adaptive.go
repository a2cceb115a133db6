package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	slice        time.Duration
	nextSlice    time.Time
	sliceCounter int64
}

func NewAdaptiveLimiter(slice time.Duration) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		slice:     slice,
		nextSlice: time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextSlice() {
	now := time.Now()
	sleepTime := a.nextSlice.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 2*time.Millisecond {
			for time.Now().Before(a.nextSlice) {
				// busy-wait under 2ms, higher accuracy.
			}
		} else {
			time.Sleep(sleepTime - time.Millisecond)
			for time.Now().Before(a.nextSlice) {
			}
		}
	} else if sleepTime < -5*a.slice {
		// too far behind to catch up
		a.nextSlice = now
	}

	a.nextSlice = a.nextSlice.Add(a.slice)
	a.sliceCounter++

	if a.sliceCounter%100 == 0 {
		drift := time.Since(a.nextSlice.Add(-a.slice))
		if drift.Abs() > a.slice {
			a.nextSlice = a.nextSlice.Add(drift / 10)
			slog.Debug("Slice timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"slices", a.sliceCounter)
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextSlice = time.Now()
	a.sliceCounter = 0
}

// Stop is a no-op: the adaptive limiter sleeps instead of holding a timer.
func (a *AdaptiveLimiter) Stop() {}
