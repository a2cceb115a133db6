package output

import (
	"sync/atomic"

	"github.com/valerio/go-wavetank/wavetank/synth"
)

// Ring is a fixed-capacity FIFO of output samples between the tick and a
// consumer running at its own pace. It is lock-free for one producer (the
// tick, through Latch) and one consumer (Samples, Read and Reset). When full,
// new samples are dropped and counted.
type Ring struct {
	buf []uint8

	// head is written only by the consumer, tail only by the producer.
	head atomic.Uint64
	tail atomic.Uint64

	dropped atomic.Uint64
	under   atomic.Uint64
}

func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]uint8, capacity)}
}

// Latch appends a sample. It never blocks.
func (r *Ring) Latch(sample uint8) {
	tail := r.tail.Load()
	if tail-r.head.Load() >= uint64(len(r.buf)) {
		r.dropped.Add(1)
		return
	}
	r.buf[tail%uint64(len(r.buf))] = sample
	r.tail.Store(tail + 1)
}

// Samples removes and returns up to count samples. If fewer are buffered the
// result is padded with silence.
func (r *Ring) Samples(count int) []uint8 {
	samples := make([]uint8, count)
	r.fill(samples)
	return samples
}

// Read implements io.Reader over the buffered samples as unsigned 8-bit PCM.
// It never blocks: an underrun is filled with silence.
func (r *Ring) Read(p []byte) (int, error) {
	r.fill(p)
	return len(p), nil
}

func (r *Ring) fill(p []uint8) {
	head := r.head.Load()
	n := min(r.tail.Load()-head, uint64(len(p)))
	for i := uint64(0); i < n; i++ {
		p[i] = r.buf[(head+i)%uint64(len(r.buf))]
	}
	r.head.Store(head + n)

	if n < uint64(len(p)) {
		r.under.Add(1)
		for i := n; i < uint64(len(p)); i++ {
			p[i] = synth.Silence
		}
	}
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int {
	head := r.head.Load()
	return int(r.tail.Load() - head)
}

// Cap returns the capacity of the ring.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Stats returns how many samples were dropped on overflow and how many reads
// ran short.
func (r *Ring) Stats() (dropped, underruns uint64) {
	return r.dropped.Load(), r.under.Load()
}

// Reset discards every buffered sample. Only the consumer may call it.
func (r *Ring) Reset() {
	r.head.Store(r.tail.Load())
}
