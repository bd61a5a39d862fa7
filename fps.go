package thicket

import (
	"fmt"
	"time"
)

// fpsCounter counts drawn frames per wall-clock second.
type fpsCounter struct {
	last    time.Time
	elapsed time.Duration
	frames  int
	fps     int
}

// tick records one drawn frame. It reports true when a full second has
// elapsed and fps was refreshed.
func (c *fpsCounter) tick() bool {
	return c.tickAt(time.Now())
}

func (c *fpsCounter) tickAt(now time.Time) bool {
	if c.last.IsZero() {
		c.last = now
	}
	c.elapsed += now.Sub(c.last)
	c.last = now
	c.frames++
	if c.elapsed < time.Second {
		return false
	}
	c.fps = c.frames
	c.frames = 0
	c.elapsed -= time.Second
	return true
}

// title formats the window title with the current rate.
func (c *fpsCounter) title(base string) string {
	return fmt.Sprintf("%s %d fps", base, c.fps)
}

// FPS returns the number of frames drawn during the last full second.
func (e *Engine) FPS() int { return e.fps.fps }
