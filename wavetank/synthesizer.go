package wavetank

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valerio/go-wavetank/wavetank/debug"
	"github.com/valerio/go-wavetank/wavetank/output"
	"github.com/valerio/go-wavetank/wavetank/pitch"
	"github.com/valerio/go-wavetank/wavetank/synth"
	"github.com/valerio/go-wavetank/wavetank/tables"
	"github.com/valerio/go-wavetank/wavetank/timing"
)

// Synth is a booted engine: tables generated, voices silent, scheduler ready
// to be armed with Run or RunTicks.
//
// The control methods may be called from any goroutine while the scheduler
// runs.
type Synth struct {
	cfg       Config
	set       tables.Set
	scaler    synth.Scaler
	pitch     *pitch.Table
	engine    *synth.Engine
	latch     *output.Latch
	scheduler *timing.Scheduler
}

// New boots a synth. Every output byte goes to the internal latch and then
// to each of sinks in order.
func New(cfg Config, sinks ...synth.Sink) (*Synth, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Synth{
		cfg:   cfg,
		set:   tables.DefaultSet(),
		pitch: pitch.NewTable(cfg.SampleRate),
		latch: output.NewLatch(),
	}

	switch cfg.Scaler {
	case ScalerRatio:
		s.scaler = synth.NewRatioScaler()
	default:
		vt, err := tables.NewVolumeTable(cfg.Curve)
		if err != nil {
			return nil, fmt.Errorf("generating volume table: %w", err)
		}
		s.scaler = synth.NewTableScaler(vt)
	}

	sink := append(output.Tee{s.latch}, sinks...)
	s.engine = synth.NewEngine(s.scaler, cfg.MixMode, s.set[cfg.DefaultWaveform], sink)

	limiter, err := timing.NewLimiter(cfg.Limiter, cfg.SliceDuration)
	if err != nil {
		return nil, err
	}
	s.scheduler = timing.NewScheduler(s.engine, cfg.SampleRate, limiter, cfg.SliceDuration)

	slog.Debug("Synth booted",
		"sample_rate", cfg.SampleRate,
		"curve", cfg.Curve,
		"mix", cfg.MixMode,
		"scaler", cfg.Scaler,
		"waveform", tables.SlotName(cfg.DefaultWaveform))
	return s, nil
}

// Run fires ticks in realtime until ctx is done.
func (s *Synth) Run(ctx context.Context) error {
	return s.scheduler.Run(ctx)
}

// RunTicks fires n ticks as fast as possible.
func (s *Synth) RunTicks(n int) {
	s.scheduler.RunTicks(n)
}

// SetFrequency sets the phase increment of a voice.
func (s *Synth) SetFrequency(id int, increment uint16) {
	s.engine.SetFrequency(id, increment)
}

// SetVolume sets the raw volume of a voice, 0..127.
func (s *Synth) SetVolume(id int, volume uint8) {
	s.engine.SetVolume(id, volume)
}

// SetLevel sets the volume of a voice on the 17-step perceptual scale.
func (s *Synth) SetLevel(id, level int) {
	s.engine.SetVolume(id, synth.LevelVolume(level))
}

// SetWaveform points a voice at a table that stays unchanged while in use.
func (s *Synth) SetWaveform(id int, w *tables.Waveform) {
	s.engine.SetWaveform(id, w)
}

// SetWaveformSlot points a voice at one of the stock wavetable slots.
func (s *Synth) SetWaveformSlot(id, slot int) error {
	if slot < 0 || slot >= tables.SlotCount {
		return fmt.Errorf("%w: slot %d", ErrUnknownWaveform, slot)
	}
	s.engine.SetWaveform(id, s.set[slot])
	return nil
}

// WaveformSlot returns the slot the voice currently plays, or -1 for a table
// outside the stock set.
func (s *Synth) WaveformSlot(id int) int {
	v, ok := s.engine.Voice(id)
	if !ok {
		return -1
	}
	return s.set.Slot(v.Waveform)
}

// ResetPhase restarts a voice at the beginning of its waveform.
func (s *Synth) ResetPhase(id int) {
	s.engine.ResetPhase(id)
}

// SetNote tunes a voice to a MIDI note.
func (s *Synth) SetNote(id int, n pitch.Note) {
	s.engine.SetFrequency(id, s.pitch.Increment(n))
}

// SetHz tunes a voice to an arbitrary frequency. Frequencies at or above the
// sample rate saturate; zero and below stop the phase.
func (s *Synth) SetHz(id int, hz float64) {
	s.engine.SetFrequency(id, pitch.IncrementForHz(hz, s.cfg.SampleRate))
}

func (s *Synth) Mute(id int) {
	s.engine.Mute(id)
}

func (s *Synth) MuteAll() {
	s.engine.MuteAll()
}

// Volume returns the raw volume of a voice.
func (s *Synth) Volume(id int) uint8 {
	return s.engine.Volume(id)
}

// CheckVoice returns ErrInvalidVoice for ids outside the bank.
func CheckVoice(id int) error {
	if id < 0 || id >= synth.VoiceCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidVoice, id, synth.VoiceCount)
	}
	return nil
}

// Output returns the last latched byte.
func (s *Synth) Output() uint8 {
	return s.latch.Value()
}

// Stats returns the scheduler counters.
func (s *Synth) Stats() timing.Stats {
	return s.scheduler.Stats()
}

// Snapshot collects the monitor view. scope holds recent output samples and
// may be nil.
func (s *Synth) Snapshot(scope []uint8) *debug.Snapshot {
	return &debug.Snapshot{
		Voices:     debug.ExtractVoices(s.engine, &s.set, s.pitch),
		Output:     s.latch.Value(),
		Scope:      scope,
		SampleRate: s.cfg.SampleRate,
		Scheduler:  s.scheduler.Stats(),
		Curve:      s.describeScaler(),
		MixMode:    s.cfg.MixMode.String(),
	}
}

func (s *Synth) describeScaler() string {
	if s.cfg.Scaler == ScalerRatio {
		return string(ScalerRatio)
	}
	return s.cfg.Curve.String()
}

func (s *Synth) Config() Config {
	return s.cfg
}

func (s *Synth) Engine() *synth.Engine {
	return s.engine
}

// Waveforms returns the stock wavetable slots.
func (s *Synth) Waveforms() *tables.Set {
	return &s.set
}

// PitchTable returns the note increments for the configured sample rate.
func (s *Synth) PitchTable() *pitch.Table {
	return s.pitch
}

// VolumeTable returns the generated volume-scaling table, or nil when the
// ratio scaler is in use.
func (s *Synth) VolumeTable() *tables.VolumeTable {
	if ts, ok := s.scaler.(*synth.TableScaler); ok {
		return ts.Table()
	}
	return nil
}
