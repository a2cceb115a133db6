package debug

import (
	"github.com/valerio/go-wavetank/wavetank/pitch"
	"github.com/valerio/go-wavetank/wavetank/synth"
	"github.com/valerio/go-wavetank/wavetank/tables"
	"github.com/valerio/go-wavetank/wavetank/timing"
)

// VoiceStatus is the human-readable state of one voice.
type VoiceStatus struct {
	Voice     int
	Increment uint16
	Frequency float64
	Note      string
	Volume    uint8
	Waveform  string
	Phase     uint16
}

// Active reports whether the voice is audible.
func (v VoiceStatus) Active() bool {
	return v.Volume > 0 && v.Increment > 0
}

// Snapshot is everything a monitor shows for one frame.
type Snapshot struct {
	Voices     [synth.VoiceCount]VoiceStatus
	Output     uint8
	Scope      []uint8
	SampleRate uint32
	Scheduler  timing.Stats
	Curve      string
	MixMode    string
	Selected   int
}

// VoiceSource exposes a copy of the voice bank.
type VoiceSource interface {
	Voices() [synth.VoiceCount]synth.VoiceState
}

// ExtractVoices converts the raw bank state into VoiceStatus entries. Slot
// names come from set; tables outside the set show as "custom". Note names
// are the nearest entry of notes.
func ExtractVoices(src VoiceSource, set *tables.Set, notes *pitch.Table) [synth.VoiceCount]VoiceStatus {
	var out [synth.VoiceCount]VoiceStatus
	sampleRate := notes.SampleRate()
	for i, v := range src.Voices() {
		st := &out[i]
		st.Voice = i
		st.Increment = v.Frequency
		st.Volume = v.Volume
		st.Phase = v.Phase
		if v.Frequency > 0 {
			st.Frequency = float64(v.Frequency) * float64(sampleRate) / 65536
		}
		st.Note = noteName(notes, v.Frequency, st.Frequency)
		st.Waveform = "custom"
		if set != nil {
			if slot := set.Slot(v.Waveform); slot >= 0 {
				st.Waveform = tables.SlotName(slot)
			}
		}
	}
	return out
}

// noteName returns the note of notes closest to inc, or "--" when the voice
// is stopped or outside the audible range.
func noteName(notes *pitch.Table, inc uint16, freq float64) string {
	if inc == 0 || freq < 20 || freq > 20000 {
		return "--"
	}
	return notes.Nearest(inc).String()
}
