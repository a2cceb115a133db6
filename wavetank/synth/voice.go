package synth

import (
	"sync/atomic"

	"github.com/valerio/go-wavetank/wavetank/bit"
	"github.com/valerio/go-wavetank/wavetank/tables"
)

// VoiceCount is the fixed number of voices. The bank is never resized.
const VoiceCount = 8

// MaxVolume is the top of the volume domain.
const MaxVolume = 127

// Voice holds the state of one synthesizer channel.
//
// Every field is its own atomic word, written by exactly one side: frequency,
// volume and waveform by the control surface, phase by the tick. A phase reset
// requested from the control surface is a flag the tick consumes, so phase
// keeps a single writer.
type Voice struct {
	phase      atomic.Uint32
	frequency  atomic.Uint32
	volume     atomic.Uint32
	waveform   atomic.Pointer[tables.Waveform]
	resetPhase atomic.Bool
}

// VoiceState is a point-in-time copy of a voice, for observers.
type VoiceState struct {
	Phase     uint16
	Frequency uint16
	Volume    uint8
	Waveform  *tables.Waveform
}

// Bank is the fixed array of voices, indexed by voice id.
type Bank [VoiceCount]Voice

// Advance returns (phase + increment) mod 65536, added low byte first with the
// carry propagated into the high byte.
func Advance(phase, increment uint16) uint16 {
	return bit.Add16(phase, increment)
}

// Sample returns the waveform entry addressed by the high byte of phase.
// Every index is valid, so there is no bounds check.
func Sample(w *tables.Waveform, phase uint16) uint8 {
	return w[bit.High(phase)]
}

// step runs the phase engine and sampler for the voice and returns the raw
// sample. Only the tick calls it.
func (v *Voice) step() uint8 {
	phase := uint16(v.phase.Load())
	if v.resetPhase.Swap(false) {
		phase = 0
	}
	phase = Advance(phase, uint16(v.frequency.Load()))
	v.phase.Store(uint32(phase))
	return Sample(v.waveform.Load(), phase)
}

// boot puts the voice in the silent power-on state.
func (v *Voice) boot(w *tables.Waveform) {
	v.phase.Store(0)
	v.frequency.Store(0)
	v.volume.Store(0)
	v.waveform.Store(w)
	v.resetPhase.Store(false)
}

func (v *Voice) state() VoiceState {
	return VoiceState{
		Phase:     uint16(v.phase.Load()),
		Frequency: uint16(v.frequency.Load()),
		Volume:    uint8(v.volume.Load()),
		Waveform:  v.waveform.Load(),
	}
}
