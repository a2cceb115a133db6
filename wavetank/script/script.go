// Package script drives the synth from a Lua program. The program runs on its
// own goroutine but only while the frame driver is blocked, so the Lua state
// is never used concurrently.
//
// Globals, voice ids 0..7:
//
//	set_frequency(id, increment)   set_volume(id, volume)
//	set_hz(id, hertz)
//	set_waveform(id, slot|name)    reset_phase(id)
//	note(id, "C#4"|midi)           level(id, 0..16)
//	mute(id)                       mute_all()
//	wait(frames)                   print(...)
package script

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/valerio/go-wavetank/wavetank"
	"github.com/valerio/go-wavetank/wavetank/pitch"
	"github.com/valerio/go-wavetank/wavetank/tables"
)

var errStopped = errors.New("script stopped")

// Voices is the control surface exposed to scripts.
type Voices interface {
	SetFrequency(id int, increment uint16)
	SetVolume(id int, volume uint8)
	SetWaveformSlot(id, slot int) error
	ResetPhase(id int)
	SetNote(id int, n pitch.Note)
	SetHz(id int, hz float64)
	SetLevel(id, level int)
	Mute(id int)
	MuteAll()
}

// Script is a Lua program played one frame at a time. It satisfies
// sequencer.Sequence.
type Script struct {
	name   string
	src    string
	voices Voices
	state  *lua.LState

	started   bool
	done      bool
	remaining int
	frames    int
	err       error

	yield  chan int
	resume chan struct{}
	stop   chan struct{}
}

// New prepares src for playing. Nothing runs until the first Tick.
func New(name, src string, voices Voices) *Script {
	s := &Script{
		name:   name,
		src:    src,
		voices: voices,
		state:  lua.NewState(),
		yield:  make(chan int),
		resume: make(chan struct{}),
		stop:   make(chan struct{}),
	}
	s.register()
	return s
}

// Load reads a script file.
func Load(path string, voices Voices) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return New(path, string(src), voices), nil
}

// Tick advances the script by one frame. The script runs until its next
// wait whenever the previous wait has expired.
func (s *Script) Tick() {
	if s.done {
		return
	}
	if s.remaining == 0 {
		s.step()
		if s.done {
			return
		}
	}
	s.remaining--
	s.frames++
}

// Done reports whether the script has returned or failed.
func (s *Script) Done() bool {
	return s.done
}

// Err returns the error that ended the script, if any.
func (s *Script) Err() error {
	return s.err
}

// Frames returns how many frames the script has waited through.
func (s *Script) Frames() int {
	return s.frames
}

// Close stops a script that is still waiting and releases the Lua state.
func (s *Script) Close() {
	if s.started && !s.done {
		close(s.stop)
		for range s.yield {
		}
		s.done = true
	}
	s.state.Close()
}

func (s *Script) step() {
	if !s.started {
		s.started = true
		go s.run()
	} else {
		s.resume <- struct{}{}
	}

	n, ok := <-s.yield
	if !ok {
		s.done = true
		if s.err != nil {
			slog.Error("Script failed", "script", s.name, "frame", s.frames, "error", s.err)
		} else {
			slog.Info("Script finished", "script", s.name, "frames", s.frames)
		}
		return
	}
	s.remaining = n
}

func (s *Script) run() {
	defer close(s.yield)
	if err := s.state.DoString(s.src); err != nil && !strings.Contains(err.Error(), errStopped.Error()) {
		s.err = fmt.Errorf("running %s: %w", s.name, err)
	}
}

func (s *Script) register() {
	funcs := map[string]lua.LGFunction{
		"set_frequency": s.luaSetFrequency,
		"set_volume":    s.luaSetVolume,
		"set_waveform":  s.luaSetWaveform,
		"reset_phase":   s.luaResetPhase,
		"note":          s.luaNote,
		"set_hz":        s.luaSetHz,
		"level":         s.luaLevel,
		"mute":          s.luaMute,
		"mute_all":      s.luaMuteAll,
		"wait":          s.luaWait,
		"print":         s.luaPrint,
	}
	for name, fn := range funcs {
		s.state.SetGlobal(name, s.state.NewFunction(fn))
	}
}

func checkVoice(L *lua.LState) int {
	id := L.CheckInt(1)
	if err := wavetank.CheckVoice(id); err != nil {
		L.ArgError(1, err.Error())
	}
	return id
}

func checkRange(L *lua.LState, n, limit int) int {
	v := L.CheckInt(n)
	if v < 0 || v > limit {
		L.ArgError(n, fmt.Sprintf("%d outside [0, %d]", v, limit))
	}
	return v
}

func (s *Script) luaSetFrequency(L *lua.LState) int {
	id := checkVoice(L)
	s.voices.SetFrequency(id, uint16(checkRange(L, 2, 0xFFFF)))
	return 0
}

func (s *Script) luaSetVolume(L *lua.LState) int {
	id := checkVoice(L)
	s.voices.SetVolume(id, uint8(checkRange(L, 2, 0xFF)))
	return 0
}

func (s *Script) luaSetWaveform(L *lua.LState) int {
	id := checkVoice(L)
	var slot int
	switch arg := L.CheckAny(2).(type) {
	case lua.LNumber:
		slot = int(arg)
	case lua.LString:
		n, err := tables.SlotByName(string(arg))
		if err != nil {
			L.ArgError(2, err.Error())
		}
		slot = n
	default:
		L.ArgError(2, "slot number or waveform name expected")
	}
	if err := s.voices.SetWaveformSlot(id, slot); err != nil {
		L.ArgError(2, err.Error())
	}
	return 0
}

func (s *Script) luaResetPhase(L *lua.LState) int {
	s.voices.ResetPhase(checkVoice(L))
	return 0
}

func (s *Script) luaNote(L *lua.LState) int {
	id := checkVoice(L)
	n, err := pitch.ParseNote(L.CheckAny(2).String())
	if err != nil {
		L.ArgError(2, err.Error())
	}
	s.voices.SetNote(id, n)
	return 0
}

func (s *Script) luaSetHz(L *lua.LState) int {
	id := checkVoice(L)
	s.voices.SetHz(id, float64(L.CheckNumber(2)))
	return 0
}

func (s *Script) luaLevel(L *lua.LState) int {
	id := checkVoice(L)
	s.voices.SetLevel(id, L.CheckInt(2))
	return 0
}

func (s *Script) luaMute(L *lua.LState) int {
	s.voices.Mute(checkVoice(L))
	return 0
}

func (s *Script) luaMuteAll(L *lua.LState) int {
	s.voices.MuteAll()
	return 0
}

// luaWait hands control back to the frame driver for the given number of
// frames. Waits shorter than one frame return at once.
func (s *Script) luaWait(L *lua.LState) int {
	n := L.OptInt(1, 1)
	if n < 1 {
		return 0
	}
	s.yield <- n
	select {
	case <-s.resume:
	case <-s.stop:
		L.RaiseError("%s", errStopped.Error())
	}
	return 0
}

func (s *Script) luaPrint(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	slog.Info("Script output", "script", s.name, "message", strings.Join(parts, " "))
	return 0
}
