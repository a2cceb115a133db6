package synth

import (
	"sync/atomic"

	"github.com/valerio/go-wavetank/wavetank/tables"
)

// Sink receives the mixed output byte once per tick. It stands in for the
// write-only output register and must not block.
type Sink interface {
	Latch(sample uint8)
}

type discardSink struct{}

func (discardSink) Latch(uint8) {}

// Engine owns the voice bank and runs the per-tick pipeline: phase engine,
// sampler, volume scaler and mixer for every voice, then latches the result.
//
// Tick must only be called from one goroutine at a time. The control surface
// methods are safe to call from any goroutine while ticks run.
type Engine struct {
	bank     Bank
	scaler   Scaler
	mode     MixMode
	sink     Sink
	fallback *tables.Waveform
	ticks    atomic.Uint64
	last     atomic.Uint32
}

// NewEngine returns an engine in the boot state. Every voice points at
// waveform, which must not be nil. A nil sink discards the output.
func NewEngine(scaler Scaler, mode MixMode, waveform *tables.Waveform, sink Sink) *Engine {
	if sink == nil {
		sink = discardSink{}
	}
	e := &Engine{
		scaler:   scaler,
		mode:     mode,
		sink:     sink,
		fallback: waveform,
	}
	e.Reset()
	return e
}

// Reset returns every voice to the silent boot state: phase 0, frequency 0,
// volume 0, default waveform.
func (e *Engine) Reset() {
	for i := range e.bank {
		e.bank[i].boot(e.fallback)
	}
	e.ticks.Store(0)
	e.last.Store(uint32(Silence))
}

// Tick runs one pass of the pipeline and returns the byte it latched.
func (e *Engine) Tick() uint8 {
	var contributions [VoiceCount]uint8
	for i := range e.bank {
		v := &e.bank[i]
		sample := v.step()
		contributions[i] = e.scaler.Scale(sample, uint8(v.volume.Load()))
	}
	out := e.mode.Mix(&contributions)
	e.sink.Latch(out)
	e.last.Store(uint32(out))
	e.ticks.Add(1)
	return out
}

// Ticks returns the number of ticks run since boot.
func (e *Engine) Ticks() uint64 {
	return e.ticks.Load()
}

// Output returns the last latched byte.
func (e *Engine) Output() uint8 {
	return uint8(e.last.Load())
}

// MixMode returns the overflow policy of the mixer.
func (e *Engine) MixMode() MixMode {
	return e.mode
}

// SetFrequency sets the phase increment added to the voice every tick.
// Out of range ids are ignored.
func (e *Engine) SetFrequency(id int, increment uint16) {
	if v := e.voice(id); v != nil {
		v.frequency.Store(uint32(increment))
	}
}

// SetVolume sets the voice amplitude. Values above MaxVolume are accepted
// and give an unspecified amplitude.
func (e *Engine) SetVolume(id int, volume uint8) {
	if v := e.voice(id); v != nil {
		v.volume.Store(uint32(volume))
	}
}

// SetWaveform points the voice at a different table. The table must stay
// unchanged for as long as any voice references it. A nil table is ignored.
func (e *Engine) SetWaveform(id int, w *tables.Waveform) {
	if w == nil {
		return
	}
	if v := e.voice(id); v != nil {
		v.waveform.Store(w)
	}
}

// ResetPhase restarts the voice at the start of its waveform. The reset
// takes effect on the next tick.
func (e *Engine) ResetPhase(id int) {
	if v := e.voice(id); v != nil {
		v.resetPhase.Store(true)
	}
}

// Mute sets the voice volume to zero.
func (e *Engine) Mute(id int) {
	e.SetVolume(id, 0)
}

// MuteAll sets every voice volume to zero.
func (e *Engine) MuteAll() {
	for i := range e.bank {
		e.bank[i].volume.Store(0)
	}
}

// Volume returns the current volume of the voice, 0 for out of range ids.
func (e *Engine) Volume(id int) uint8 {
	if v := e.voice(id); v != nil {
		return uint8(v.volume.Load())
	}
	return 0
}

// Voice returns a copy of the voice state.
func (e *Engine) Voice(id int) (VoiceState, bool) {
	v := e.voice(id)
	if v == nil {
		return VoiceState{}, false
	}
	return v.state(), true
}

// Voices returns a copy of every voice state.
func (e *Engine) Voices() [VoiceCount]VoiceState {
	var out [VoiceCount]VoiceState
	for i := range e.bank {
		out[i] = e.bank[i].state()
	}
	return out
}

func (e *Engine) voice(id int) *Voice {
	if id < 0 || id >= VoiceCount {
		return nil
	}
	return &e.bank[id]
}
