package output

import (
	"sync/atomic"

	"github.com/valerio/go-wavetank/wavetank/synth"
)

var (
	_ synth.Sink = (*Latch)(nil)
	_ synth.Sink = (*Ring)(nil)
	_ synth.Sink = (Tee)(nil)
	_ synth.Sink = (*WavRecorder)(nil)
)

// Latch is the single-byte output register. The tick writes it, observers
// may read the last value at any time.
type Latch struct {
	value atomic.Uint32
}

func NewLatch() *Latch {
	l := &Latch{}
	l.value.Store(uint32(synth.Silence))
	return l
}

func (l *Latch) Latch(sample uint8) {
	l.value.Store(uint32(sample))
}

// Value returns the last latched byte.
func (l *Latch) Value() uint8 {
	return uint8(l.value.Load())
}

// Tee forwards every sample to each sink in order.
type Tee []synth.Sink

func (t Tee) Latch(sample uint8) {
	for _, s := range t {
		s.Latch(sample)
	}
}
