package action

// Action represents input actions that can be performed on the synthesizer
type Action int

const (
	// Voice mute toggles, one per voice
	VoiceToggle1 Action = iota
	VoiceToggle2
	VoiceToggle3
	VoiceToggle4
	VoiceToggle5
	VoiceToggle6
	VoiceToggle7
	VoiceToggle8

	// Selected voice controls
	VoiceSelectPrev
	VoiceSelectNext
	VoiceVolumeDown
	VoiceVolumeUp
	VoiceWaveformNext
	VoiceResetPhase

	// Engine controls
	SynthMuteAll
	SynthQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// VoiceToggle returns the toggle action for voice id.
func VoiceToggle(id int) Action {
	return VoiceToggle1 + Action(id)
}

// ToggledVoice returns the voice a toggle action refers to.
func (a Action) ToggledVoice() (int, bool) {
	if a < VoiceToggle1 || a > VoiceToggle8 {
		return 0, false
	}
	return int(a - VoiceToggle1), true
}
