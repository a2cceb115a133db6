//go:build headless

package output

import (
	"io"
	"sync"
)

// Player is a silent stand-in used when built without audio support.
type Player struct {
	src     io.Reader
	started bool
	mu      sync.Mutex
}

func NewPlayer(sampleRate int, src io.Reader) (*Player, error) {
	return &Player{src: src}, nil
}

func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = true
}

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = false
	return nil
}
