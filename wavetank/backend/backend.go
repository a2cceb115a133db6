package backend

import (
	"github.com/valerio/go-wavetank/wavetank/debug"
	"github.com/valerio/go-wavetank/wavetank/input/action"
	"github.com/valerio/go-wavetank/wavetank/input/event"
)

// Backend is a front end for a running synth: it shows the engine state and
// turns platform input into actions.
type Backend interface {
	// Init configures the backend. This is a required step before calling
	// Update.
	Init(config BackendConfig) error

	// Update shows the snapshot and returns the input collected since the
	// previous call.
	Update(snapshot *debug.Snapshot) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title     string
	ShowScope bool // Backends may ignore unsupported features
}

// InputEvent is a platform input translated to an action.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}
