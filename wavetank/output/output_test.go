package output

import (
	"bytes"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-wavetank/wavetank/synth"
)

func TestLatch(t *testing.T) {
	l := NewLatch()
	assert.Equal(t, synth.Silence, l.Value())
	l.Latch(0x86)
	assert.Equal(t, uint8(0x86), l.Value())
}

func TestTeeForwardsInOrder(t *testing.T) {
	a, b := NewLatch(), NewRing(4)
	tee := Tee{a, b}
	tee.Latch(1)
	tee.Latch(2)
	assert.Equal(t, uint8(2), a.Value())
	assert.Equal(t, []uint8{1, 2}, b.Samples(2))
}

func TestRing(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		latched  []uint8
		read     int
		want     []uint8
		dropped  uint64
	}{
		{"exact", 4, []uint8{1, 2, 3, 4}, 4, []uint8{1, 2, 3, 4}, 0},
		{"underrun pads silence", 4, []uint8{9}, 3, []uint8{9, 128, 128}, 0},
		{"overflow drops newest", 3, []uint8{1, 2, 3, 4, 5}, 3, []uint8{1, 2, 3}, 2},
		{"empty", 2, nil, 2, []uint8{128, 128}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRing(tt.capacity)
			for _, s := range tt.latched {
				r.Latch(s)
			}
			assert.Equal(t, tt.want, r.Samples(tt.read))
			dropped, _ := r.Stats()
			assert.Equal(t, tt.dropped, dropped)
		})
	}
}

func TestRingWrapsAround(t *testing.T) {
	r := NewRing(3)
	for round := 0; round < 5; round++ {
		r.Latch(uint8(round))
		r.Latch(uint8(round + 10))
		assert.Equal(t, []uint8{uint8(round), uint8(round + 10)}, r.Samples(2))
	}
	assert.Zero(t, r.Len())
}

func TestRingConcurrentProducerConsumer(t *testing.T) {
	const total = 20000
	r := NewRing(64)
	var done atomic.Bool

	go func() {
		for i := 0; i < total; i++ {
			r.Latch(uint8(i % 100))
		}
		done.Store(true)
	}()

	received := 0
	for {
		finished := done.Load()
		for _, s := range r.Samples(16) {
			if s == synth.Silence {
				continue
			}
			require.Less(t, int(s), 100)
			received++
		}
		if finished && r.Len() == 0 {
			break
		}
	}

	dropped, _ := r.Stats()
	assert.Equal(t, uint64(total), uint64(received)+dropped)
}

func TestRingRead(t *testing.T) {
	r := NewRing(8)
	for i := 0; i < 5; i++ {
		r.Latch(uint8(10 + i))
	}
	p := make([]byte, 3)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{10, 11, 12}, p)
	assert.Equal(t, 2, r.Len())

	p = make([]byte, 4)
	_, err = r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{13, 14, 128, 128}, p)
	_, under := r.Stats()
	assert.Equal(t, uint64(1), under)

	r.Latch(1)
	r.Reset()
	assert.Zero(t, r.Len())
	assert.Equal(t, 8, r.Cap())
}

func TestWavRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	rec, err := CreateWav(path, 13983)
	require.NoError(t, err)

	samples := make([]uint8, wavChunk+100)
	for i := range samples {
		samples[i] = uint8(i * 7)
	}
	for _, s := range samples {
		rec.Latch(s)
	}
	assert.Equal(t, len(samples), rec.Len())
	require.NoError(t, rec.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, samples), "pcm data follows the header verbatim")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint32(13983), dec.SampleRate)
	assert.Equal(t, uint16(8), dec.BitDepth)
	assert.Equal(t, uint16(1), dec.NumChans)
}

func TestCreateWavBadPath(t *testing.T) {
	_, err := CreateWav(filepath.Join(t.TempDir(), "missing", "out.wav"), 8000)
	assert.Error(t, err)
}
