package timing

// FrameClock splits a tick rate into whole ticks per foreground frame. The
// remainder is carried so that n frames always cover n*sampleRate/fps ticks.
type FrameClock struct {
	sampleRate uint64
	fps        uint64
	frame      uint64
}

func NewFrameClock(sampleRate uint32, fps int) *FrameClock {
	if fps < 1 {
		fps = 1
	}
	return &FrameClock{sampleRate: uint64(sampleRate), fps: uint64(fps)}
}

// Next returns the number of ticks in the next frame.
func (c *FrameClock) Next() int {
	start := c.frame * c.sampleRate / c.fps
	c.frame++
	return int(c.frame*c.sampleRate/c.fps - start)
}

// Frame returns how many frames have been handed out.
func (c *FrameClock) Frame() uint64 {
	return c.frame
}
