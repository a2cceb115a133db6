package input

import (
	"github.com/valerio/go-wavetank/wavetank/input/action"
	"github.com/valerio/go-wavetank/wavetank/input/event"
)

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// Voice mute toggles
	"1": action.VoiceToggle1,
	"2": action.VoiceToggle2,
	"3": action.VoiceToggle3,
	"4": action.VoiceToggle4,
	"5": action.VoiceToggle5,
	"6": action.VoiceToggle6,
	"7": action.VoiceToggle7,
	"8": action.VoiceToggle8,

	// Selected voice
	"Up":    action.VoiceSelectPrev,
	"Down":  action.VoiceSelectNext,
	"Left":  action.VoiceVolumeDown,
	"Right": action.VoiceVolumeUp,
	"k":     action.VoiceSelectPrev, // Alternative key
	"j":     action.VoiceSelectNext, // Alternative key
	"w":     action.VoiceWaveformNext,
	"r":     action.VoiceResetPhase,

	// Engine controls
	"m":      action.SynthMuteAll,
	"Escape": action.SynthQuit,
	"q":      action.SynthQuit,

	// Debug controls
	"+": action.DebugLogLevelIncrease,
	"=": action.DebugLogLevelIncrease, // Alternative without shift
	"-": action.DebugLogLevelDecrease,
	"_": action.DebugLogLevelDecrease, // Alternative with shift
}

// repeatable actions fire on every key repeat instead of being debounced.
var repeatable = map[action.Action]bool{
	action.VoiceSelectPrev: true,
	action.VoiceSelectNext: true,
	action.VoiceVolumeDown: true,
	action.VoiceVolumeUp:   true,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}

// EventFor returns the event type a key press of act should produce: Hold for
// actions that auto-repeat, Press for everything else.
func EventFor(act action.Action) event.Type {
	if repeatable[act] {
		return event.Hold
	}
	return event.Press
}
