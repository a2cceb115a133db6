package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-wavetank/wavetank/pitch"
	"github.com/valerio/go-wavetank/wavetank/synth"
	"github.com/valerio/go-wavetank/wavetank/tables"
)

type fakeBank [synth.VoiceCount]synth.VoiceState

func (f *fakeBank) Voices() [synth.VoiceCount]synth.VoiceState {
	return *f
}

var _ VoiceSource = (*fakeBank)(nil)
var _ VoiceSource = (*synth.Engine)(nil)

func TestNoteName(t *testing.T) {
	const rate = 13983
	notes := pitch.NewTable(rate)
	tests := []struct {
		inc  uint16
		want string
	}{
		{notes.Increment(pitch.A4), "A4"},
		{notes.Increment(pitch.C4), "C4"},
		{2184, "A#4"},
		{2085, "A4"},
		{88, "--"},
		{0, "--"},
	}
	for _, tt := range tests {
		freq := float64(tt.inc) * rate / 65536
		assert.Equal(t, tt.want, noteName(notes, tt.inc, freq), "increment %d", tt.inc)
	}
}

func TestExtractVoices(t *testing.T) {
	set := tables.DefaultSet()
	custom := tables.Saw()

	var bank fakeBank
	for i := range bank {
		bank[i].Waveform = set[0]
	}
	bank[0] = synth.VoiceState{Phase: 0x1200, Frequency: 2061, Volume: 64, Waveform: set[2]}
	bank[3] = synth.VoiceState{Frequency: 1225, Volume: 0, Waveform: custom}

	voices := ExtractVoices(&bank, &set, pitch.NewTable(13983))

	assert.Equal(t, 0, voices[0].Voice)
	assert.InDelta(t, 439.7, voices[0].Frequency, 0.1)
	assert.Equal(t, "A4", voices[0].Note)
	assert.Equal(t, "square", voices[0].Waveform)
	assert.Equal(t, uint16(0x1200), voices[0].Phase)
	assert.True(t, voices[0].Active())

	assert.Equal(t, "C4", voices[3].Note)
	assert.Equal(t, "custom", voices[3].Waveform)
	assert.False(t, voices[3].Active())

	assert.Equal(t, "--", voices[5].Note)
	assert.Zero(t, voices[5].Frequency)
	assert.Equal(t, "sine", voices[5].Waveform)
	assert.Equal(t, 5, voices[5].Voice)
}
