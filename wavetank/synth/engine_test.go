package synth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-wavetank/wavetank/tables"
)

func TestEngineBootIsSilent(t *testing.T) {
	e, sink := newTestEngine(t, MixWrap)
	for i := 0; i < 1000; i++ {
		e.Tick()
	}
	require.Len(t, sink.samples, 1000)
	for _, s := range sink.samples {
		require.Equal(t, Silence, s)
	}
	for id, v := range e.Voices() {
		assert.Zero(t, v.Phase, "voice %d", id)
		assert.Zero(t, v.Volume, "voice %d", id)
		assert.Same(t, &tables.Sine, v.Waveform, "voice %d", id)
	}
	assert.Equal(t, uint64(1000), e.Ticks())
}

func TestEngineSingleVoiceGolden(t *testing.T) {
	e, sink := newTestEngine(t, MixWrap)
	e.SetFrequency(0, 0x0750)
	e.SetVolume(0, 0x40)
	e.SetWaveform(0, &tables.Sine)

	out := e.Tick()

	v, ok := e.Voice(0)
	require.True(t, ok)
	assert.Equal(t, uint16(0x0750), v.Phase)
	assert.Equal(t, uint8(150), Sample(v.Waveform, v.Phase))
	assert.Equal(t, uint8(0x86), out)
	assert.Equal(t, []uint8{0x86}, sink.samples)
	assert.Equal(t, uint8(0x86), e.Output())

	e.Tick()
	e.Tick()
	assert.Equal(t, []uint8{134, 138, 144}, sink.samples)
}

func TestEngineEightVoicesWrap(t *testing.T) {
	for _, tt := range []struct {
		name   string
		mode   MixMode
		volume uint8
		want   uint8
	}{
		{"wrap at clean peak", MixWrap, tables.MaxCleanVolume, 128},
		{"clamp at clean peak", MixClamp, tables.MaxCleanVolume, 255},
		// above MaxCleanVolume the response folds back: +1 per voice at 127
		{"wrap at max volume", MixWrap, MaxVolume, 136},
		{"clamp at max volume", MixClamp, MaxVolume, 136},
	} {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, tt.mode)
			for id := 0; id < VoiceCount; id++ {
				e.SetFrequency(id, 0x3A00)
				e.SetVolume(id, tt.volume)
			}
			assert.Equal(t, tt.want, e.Tick())
		})
	}
}

func TestEngineMutedVoiceContributesNothing(t *testing.T) {
	solo, _ := newTestEngine(t, MixWrap)
	solo.SetFrequency(0, 0x0333)
	solo.SetVolume(0, 40)

	muted, _ := newTestEngine(t, MixWrap)
	muted.SetFrequency(0, 0x0333)
	muted.SetVolume(0, 40)
	muted.SetWaveform(1, tables.Square())
	muted.SetFrequency(1, 0x1111)
	muted.SetVolume(1, 30)
	muted.Mute(1)

	for i := 0; i < 500; i++ {
		require.Equal(t, solo.Tick(), muted.Tick(), "tick %d", i)
	}
}

func TestEngineZeroVolumeStillAdvancesPhase(t *testing.T) {
	e, _ := newTestEngine(t, MixWrap)
	e.SetFrequency(3, 0x0100)
	for i := 0; i < 10; i++ {
		assert.Equal(t, Silence, e.Tick())
	}
	v, _ := e.Voice(3)
	assert.Equal(t, uint16(0x0A00), v.Phase)
}

func TestEngineIsDeterministic(t *testing.T) {
	run := func() []uint8 {
		e, sink := newTestEngine(t, MixWrap)
		for id := 0; id < VoiceCount; id++ {
			e.SetFrequency(id, uint16(0x0200+id*0x0155))
			e.SetVolume(id, uint8(8*id))
		}
		e.SetWaveform(2, tables.Triangle())
		e.SetWaveform(5, tables.Noise(0x1D))
		for i := 0; i < 2000; i++ {
			e.Tick()
		}
		return sink.samples
	}
	assert.Equal(t, run(), run())
}

func TestEngineVoiceOrderDoesNotMatter(t *testing.T) {
	a, _ := newTestEngine(t, MixWrap)
	b, _ := newTestEngine(t, MixWrap)
	a.SetFrequency(0, 0x0444)
	a.SetVolume(0, 50)
	a.SetFrequency(1, 0x0999)
	a.SetVolume(1, 20)
	b.SetFrequency(7, 0x0444)
	b.SetVolume(7, 50)
	b.SetFrequency(4, 0x0999)
	b.SetVolume(4, 20)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Tick(), b.Tick())
	}
}

func TestEngineResetPhase(t *testing.T) {
	e, _ := newTestEngine(t, MixWrap)
	e.SetFrequency(0, 0x0750)
	e.Tick()
	e.Tick()
	e.ResetPhase(0)

	v, _ := e.Voice(0)
	assert.Equal(t, uint16(0x0EA0), v.Phase, "reset applies on the next tick")

	e.Tick()
	v, _ = e.Voice(0)
	assert.Equal(t, uint16(0x0750), v.Phase)
}

func TestEngineIgnoresBadInput(t *testing.T) {
	e, _ := newTestEngine(t, MixWrap)
	assert.NotPanics(t, func() {
		e.SetFrequency(-1, 1)
		e.SetVolume(VoiceCount, 1)
		e.SetWaveform(0, nil)
		e.ResetPhase(99)
		e.Mute(8)
	})
	_, ok := e.Voice(VoiceCount)
	assert.False(t, ok)
	assert.Zero(t, e.Volume(-3))
	v, _ := e.Voice(0)
	assert.Same(t, &tables.Sine, v.Waveform)
}

func TestEngineMuteAllAndReset(t *testing.T) {
	e, _ := newTestEngine(t, MixWrap)
	for id := 0; id < VoiceCount; id++ {
		e.SetFrequency(id, 0x0800)
		e.SetVolume(id, 30)
	}
	e.Tick()
	e.MuteAll()
	for id := 0; id < VoiceCount; id++ {
		assert.Zero(t, e.Volume(id))
	}
	assert.Equal(t, Silence, e.Tick())

	e.Reset()
	assert.Zero(t, e.Ticks())
	v, _ := e.Voice(4)
	assert.Zero(t, v.Frequency)
	assert.Zero(t, v.Phase)
}

func TestEngineConcurrentControl(t *testing.T) {
	const (
		ticks  = 20000
		writes = 5000
	)
	e, sink := newTestEngine(t, MixWrap)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < ticks; i++ {
			e.Tick()
		}
	}()

	waves := []*tables.Waveform{&tables.Sine, tables.Square(), tables.Saw()}
	for i := 0; i < writes; i++ {
		id := i % VoiceCount
		e.SetFrequency(id, uint16(i*37))
		e.SetVolume(id, uint8(i%128))
		e.SetWaveform(id, waves[i%len(waves)])
		if i%100 == 0 {
			e.ResetPhase(id)
		}
	}
	wg.Wait()

	assert.Equal(t, uint64(ticks), e.Ticks())
	assert.Len(t, sink.samples, ticks)

	// every voice holds the last value written to each field
	for id := 0; id < VoiceCount; id++ {
		last := writes - VoiceCount + id
		v, ok := e.Voice(id)
		require.True(t, ok)
		assert.Equal(t, uint16(last*37), v.Frequency, "voice %d", id)
		assert.Equal(t, uint8(last%128), v.Volume, "voice %d", id)
		assert.Same(t, waves[last%len(waves)], v.Waveform, "voice %d", id)
		e.ResetPhase(id)
	}

	e.Tick()
	for id, v := range e.Voices() {
		assert.Equal(t, v.Frequency, v.Phase, "voice %d restarts from zero", id)
	}
}

func BenchmarkEngineTick(b *testing.B) {
	e := NewEngine(defaultScaler(b), MixWrap, &tables.Sine, nil)
	for id := 0; id < VoiceCount; id++ {
		e.SetFrequency(id, uint16(0x0300*(id+1)))
		e.SetVolume(id, 40)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Tick()
	}
}
