package timing

import "time"

// TickerLimiter uses time.Ticker for simple, consistent slice timing.
// Less accurate than AdaptiveLimiter but simpler and good enough for most cases.
type TickerLimiter struct {
	ticker *time.Ticker
	slice  time.Duration
}

func NewTickerLimiter(slice time.Duration) *TickerLimiter {
	return &TickerLimiter{
		ticker: time.NewTicker(slice),
		slice:  slice,
	}
}

func (t *TickerLimiter) WaitForNextSlice() {
	<-t.ticker.C
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.slice)
}

// Stop stops the underlying ticker. Reset restarts it.
func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
