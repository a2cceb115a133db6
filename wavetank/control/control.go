// Package control maps monitor actions onto the synth control surface.
package control

import (
	"log/slog"
	"sync"

	"github.com/valerio/go-wavetank/wavetank/input"
	"github.com/valerio/go-wavetank/wavetank/input/action"
	"github.com/valerio/go-wavetank/wavetank/input/event"
	"github.com/valerio/go-wavetank/wavetank/synth"
	"github.com/valerio/go-wavetank/wavetank/tables"
)

const (
	// VolumeStep is how much one volume key press changes the volume.
	VolumeStep = 4
	// DefaultUnmuteVolume is restored when a voice is unmuted without a
	// remembered volume.
	DefaultUnmuteVolume = 32
)

// Surface is the part of the synth a controller drives.
type Surface interface {
	SetVolume(id int, volume uint8)
	Volume(id int) uint8
	SetWaveformSlot(id, slot int) error
	WaveformSlot(id int) int
	ResetPhase(id int)
	MuteAll()
}

// Controller keeps the selected voice and the volumes muted voices return to.
type Controller struct {
	surface  Surface
	mu       sync.Mutex
	selected int
	saved    [synth.VoiceCount]uint8
}

func New(surface Surface) *Controller {
	return &Controller{surface: surface}
}

// Bind registers the controller's callbacks on m.
func (c *Controller) Bind(m *input.Manager) {
	for id := 0; id < synth.VoiceCount; id++ {
		id := id
		m.On(action.VoiceToggle(id), event.Press, func() { c.Toggle(id) })
	}
	for _, typ := range []event.Type{event.Press, event.Hold} {
		m.On(action.VoiceSelectPrev, typ, func() { c.Select(-1) })
		m.On(action.VoiceSelectNext, typ, func() { c.Select(1) })
		m.On(action.VoiceVolumeDown, typ, func() { c.AdjustVolume(-VolumeStep) })
		m.On(action.VoiceVolumeUp, typ, func() { c.AdjustVolume(VolumeStep) })
	}
	m.On(action.VoiceWaveformNext, event.Press, c.NextWaveform)
	m.On(action.VoiceResetPhase, event.Press, func() { c.surface.ResetPhase(c.Selected()) })
	m.On(action.SynthMuteAll, event.Press, c.MuteAll)
}

// Selected returns the voice the selection keys act on.
func (c *Controller) Selected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Select moves the selection by delta, wrapping around the bank.
func (c *Controller) Select(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ((c.selected+delta)%synth.VoiceCount + synth.VoiceCount) % synth.VoiceCount
}

// Toggle mutes a playing voice, or restores the volume it had before it was
// muted.
func (c *Controller) Toggle(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if vol := c.surface.Volume(id); vol > 0 {
		c.saved[id] = vol
		c.surface.SetVolume(id, 0)
		slog.Info("Voice muted", "voice", id+1)
		return
	}
	vol := c.saved[id]
	if vol == 0 {
		vol = DefaultUnmuteVolume
	}
	c.surface.SetVolume(id, vol)
	slog.Info("Voice unmuted", "voice", id+1, "volume", vol)
}

// AdjustVolume changes the selected voice's volume by delta, clamped to
// [0, tables.MaxCleanVolume]. Above that the scaler folds back and a louder
// setting plays quieter.
func (c *Controller) AdjustVolume(delta int) {
	id := c.Selected()
	vol := int(c.surface.Volume(id)) + delta
	if vol < 0 {
		vol = 0
	}
	if vol > tables.MaxCleanVolume {
		vol = tables.MaxCleanVolume
	}
	c.surface.SetVolume(id, uint8(vol))
}

// NextWaveform switches the selected voice to the next stock slot.
func (c *Controller) NextWaveform() {
	id := c.Selected()
	slot := (c.surface.WaveformSlot(id) + 1) % tables.SlotCount
	if err := c.surface.SetWaveformSlot(id, slot); err != nil {
		slog.Error("Failed to set waveform", "voice", id+1, "error", err)
		return
	}
	slog.Info("Waveform changed", "voice", id+1, "waveform", tables.SlotName(slot))
}

// MuteAll silences every voice, remembering each volume for Toggle.
func (c *Controller) MuteAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id := range c.saved {
		if vol := c.surface.Volume(id); vol > 0 {
			c.saved[id] = vol
		}
	}
	c.surface.MuteAll()
	slog.Info("All voices muted")
}
