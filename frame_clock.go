package boxannot

import (
	"time"
)

// FrameClock measures the time between rendered frames.
type FrameClock struct {
	Time time.Time
	Dt   time.Duration
}

func (c *FrameClock) Tick(now time.Time) {
	if !c.Time.IsZero() {
		c.Dt = now.Sub(c.Time)
	}
	c.Time = now
}

// FPS is the rate implied by the last frame interval, or zero before two ticks.
func (c *FrameClock) FPS() float64 {
	if c.Dt <= 0 {
		return 0
	}
	return float64(time.Second) / float64(c.Dt)
}
