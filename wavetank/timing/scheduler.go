package timing

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Ticker is the work a scheduler fires once per tick.
type Ticker interface {
	Tick() uint8
}

// State is the dispatch state of a Scheduler.
type State int32

const (
	Idle State = iota
	Dispatching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dispatching:
		return "dispatching"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// maxCatchUpSlices bounds how far behind Run will fire to catch up. Ticks
// older than this are dropped and counted as misses.
const maxCatchUpSlices = 4

// missLogInterval rate-limits the deadline miss warning to the first of
// every missLogInterval occurrences.
const missLogInterval = 100

// Stats is a snapshot of scheduler counters.
type Stats struct {
	Ticks         uint64
	Misses        uint64
	Overruns      uint64
	WorstDispatch time.Duration
	State         State
}

// Scheduler turns timer fires into ticks. It is non-reentrant: a fire that
// arrives while a tick is dispatching is a deadline miss and does nothing.
type Scheduler struct {
	target     Ticker
	sampleRate uint32
	slice      time.Duration
	limiter    Limiter

	state    atomic.Int32
	ticks    atomic.Uint64
	misses   atomic.Uint64
	overruns atomic.Uint64
	worst    atomic.Int64
	missLogs atomic.Uint64
}

// NewScheduler fires target at sampleRate ticks per second. Run paces itself
// with limiter in slices of the given duration; a nil limiter never waits.
func NewScheduler(target Ticker, sampleRate uint32, limiter Limiter, slice time.Duration) *Scheduler {
	if limiter == nil {
		limiter = NewNoOpLimiter()
	}
	if slice <= 0 {
		slice = DefaultSliceDuration
	}
	return &Scheduler{
		target:     target,
		sampleRate: sampleRate,
		slice:      slice,
		limiter:    limiter,
	}
}

// Fire runs one tick if the scheduler is idle. It reports false, and counts
// a deadline miss, if a tick is already dispatching.
func (s *Scheduler) Fire() bool {
	if !s.state.CompareAndSwap(int32(Idle), int32(Dispatching)) {
		s.misses.Add(1)
		return false
	}
	s.target.Tick()
	s.ticks.Add(1)
	s.state.Store(int32(Idle))
	return true
}

// RunTicks fires n ticks back to back, ignoring wall-clock time.
func (s *Scheduler) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.Fire()
	}
}

// Run fires ticks in realtime until ctx is done. Each slice it fires the
// ticks that came due since the previous one and checks the dispatch time
// against the slice budget.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Debug("Scheduler started", "sample_rate", s.sampleRate, "tick", TickPeriod(s.sampleRate), "slice", s.slice)
	defer func() {
		s.limiter.Stop()
		slog.Debug("Scheduler stopped", "ticks", s.ticks.Load(), "misses", s.misses.Load())
	}()

	maxBatch := TicksIn(maxCatchUpSlices*s.slice, s.sampleRate)
	s.limiter.Reset()
	start := time.Now()
	var fired uint64

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		s.limiter.WaitForNextSlice()

		due := TicksIn(time.Since(start), s.sampleRate) - fired
		if due > maxBatch {
			dropped := due - maxBatch
			s.misses.Add(dropped)
			fired += dropped
			due = maxBatch
			s.logMiss("dropped", dropped)
		}

		begin := time.Now()
		for i := uint64(0); i < due; i++ {
			s.Fire()
		}
		fired += due

		elapsed := time.Since(begin)
		s.recordDispatch(elapsed)
		if elapsed > s.slice {
			s.overruns.Add(1)
			s.logMiss("overrun", due)
		}
	}
}

func (s *Scheduler) recordDispatch(d time.Duration) {
	for {
		worst := s.worst.Load()
		if int64(d) <= worst || s.worst.CompareAndSwap(worst, int64(d)) {
			return
		}
	}
}

func (s *Scheduler) logMiss(kind string, ticks uint64) {
	if s.missLogs.Add(1)%missLogInterval != 1 {
		return
	}
	slog.Warn("Tick deadline missed",
		"kind", kind,
		"ticks", ticks,
		"misses", s.misses.Load(),
		"overruns", s.overruns.Load())
}

// Stats returns the current counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Ticks:         s.ticks.Load(),
		Misses:        s.misses.Load(),
		Overruns:      s.overruns.Load(),
		WorstDispatch: time.Duration(s.worst.Load()),
		State:         State(s.state.Load()),
	}
}

// SampleRate returns the tick rate in ticks per second.
func (s *Scheduler) SampleRate() uint32 {
	return s.sampleRate
}
