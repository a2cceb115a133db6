package timing

import (
	"fmt"
	"time"
)

// Limiter paces the realtime loop in fixed slices of wall-clock time.
type Limiter interface {
	// WaitForNextSlice blocks until the next slice starts.
	// Returns immediately if the loop is behind schedule.
	WaitForNextSlice()

	// Reset resets the timing state, useful after pauses.
	Reset()

	// Stop releases any timer the limiter holds. Reset starts it again.
	Stop()
}

// DefaultSliceDuration is how much wall-clock time one batch of ticks covers.
const DefaultSliceDuration = 10 * time.Millisecond

// LimiterKind names a Limiter implementation.
type LimiterKind string

const (
	LimiterTicker   LimiterKind = "ticker"
	LimiterAdaptive LimiterKind = "adaptive"
	LimiterNone     LimiterKind = "none"
)

// ParseLimiterKind validates a limiter name.
func ParseLimiterKind(name string) (LimiterKind, error) {
	switch k := LimiterKind(name); k {
	case LimiterTicker, LimiterAdaptive, LimiterNone:
		return k, nil
	default:
		return "", fmt.Errorf("unknown limiter %q", name)
	}
}

// NewLimiter builds the limiter of the given kind for slices of length slice.
func NewLimiter(kind LimiterKind, slice time.Duration) (Limiter, error) {
	if slice <= 0 {
		return nil, fmt.Errorf("invalid slice duration %v", slice)
	}
	switch kind {
	case LimiterTicker:
		return NewTickerLimiter(slice), nil
	case LimiterAdaptive:
		return NewAdaptiveLimiter(slice), nil
	case LimiterNone:
		return NewNoOpLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q", kind)
	}
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextSlice() {}
func (n *noOpLimiter) Reset()            {}
func (n *noOpLimiter) Stop()             {}

// TickPeriod returns the duration of one tick at the given sample rate.
func TickPeriod(sampleRate uint32) time.Duration {
	if sampleRate == 0 {
		return 0
	}
	return time.Second / time.Duration(sampleRate)
}

// TicksIn returns how many ticks at sampleRate fall within d.
func TicksIn(d time.Duration, sampleRate uint32) uint64 {
	if d <= 0 {
		return 0
	}
	secs := uint64(d / time.Second)
	rem := uint64(d % time.Second)
	return secs*uint64(sampleRate) + rem*uint64(sampleRate)/uint64(time.Second)
}
