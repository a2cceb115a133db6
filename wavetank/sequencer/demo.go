// Package sequencer holds foreground programs that play the synth one video
// frame at a time.
package sequencer

import (
	"github.com/valerio/go-wavetank/wavetank/pitch"
)

const (
	// FramesPerSecond is the foreground rate the sequences are written for.
	FramesPerSecond = 60

	framesPerStep = FramesPerSecond
	demoSteps     = 32
	maxDemoLevel  = 16

	backgroundFadeFrames = 16
	melodyFadeFrames     = 4
	melodyVoice          = 5
)

// Voices is the control surface a sequence plays through.
type Voices interface {
	SetNote(id int, n pitch.Note)
	SetVolume(id int, volume uint8)
	SetWaveformSlot(id, slot int) error
}

// Sequence is a foreground program advanced once per frame.
type Sequence interface {
	Tick()
	Done() bool
}

var (
	noteC4 = pitch.Note(60)
	noteE4 = pitch.Note(64)
	noteG4 = pitch.Note(67)
	noteB4 = pitch.Note(71)
	noteD5 = pitch.Note(74)
	noteE5 = pitch.Note(76)
)

// DemoVolume is the demo's level scale: two raw units per level, capped at
// level 16.
func DemoVolume(level int) uint8 {
	if level > maxDemoLevel {
		level = maxDemoLevel
	}
	if level < 0 {
		level = 0
	}
	return uint8(level * 2)
}

// Demo builds a Cmaj7 chord one note per second, adds a D5, plays an E5 B4
// G4 arpeggio on voice 6 while the chord fades, then fades the melody. It
// runs for 32 seconds.
type Demo struct {
	voices      Voices
	frame       int
	step        int
	bgLevel     int
	melodyLevel int
}

var _ Sequence = (*Demo)(nil)

// NewDemo silences every voice and points it at the first wavetable slot.
func NewDemo(v Voices, voiceCount int) *Demo {
	for id := 0; id < voiceCount; id++ {
		_ = v.SetWaveformSlot(id, 0)
		v.SetVolume(id, 0)
	}
	return &Demo{
		voices:      v,
		bgLevel:     maxDemoLevel,
		melodyLevel: maxDemoLevel,
	}
}

// Tick runs one frame of the sequence.
func (d *Demo) Tick() {
	v := d.voices

	switch {
	case d.step >= 1 && d.step <= 5:
		if d.frame == 0 {
			chord := [...]pitch.Note{noteC4, noteE4, noteG4, noteB4, noteD5}
			id := d.step - 1
			v.SetNote(id, chord[id])
			v.SetVolume(id, DemoVolume(d.bgLevel))
		}

	case d.step >= 6 && d.step <= 9:
		if d.step == 6 && d.frame == 0 {
			v.SetVolume(melodyVoice, DemoVolume(d.melodyLevel))
		}
		if d.step == 8 {
			switch d.frame {
			case 0:
				v.SetNote(melodyVoice, noteE5)
			case 20:
				v.SetNote(melodyVoice, noteB4)
			case 40:
				v.SetNote(melodyVoice, noteG4)
			}
		}
		if d.bgLevel > 0 && d.frame%backgroundFadeFrames == 0 {
			d.bgLevel--
			for id := 0; id < melodyVoice; id++ {
				v.SetVolume(id, DemoVolume(d.bgLevel))
			}
		}

	case d.step >= 10 && d.step < demoSteps:
		if d.melodyLevel > 0 && d.frame%melodyFadeFrames == 0 {
			d.melodyLevel--
			v.SetVolume(melodyVoice, DemoVolume(d.melodyLevel))
		}
	}

	d.frame++
	if d.frame >= framesPerStep {
		d.frame = 0
		d.step++
	}
}

// Done reports whether every step has played.
func (d *Demo) Done() bool {
	return d.step >= demoSteps
}

// Step returns the current step, one per second.
func (d *Demo) Step() int {
	return d.step
}
