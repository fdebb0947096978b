package noodles

import (
	"time"
)

// Time is the frame clock: Time is the current frame's timestamp and Dt the
// interval since the previous frame.
type Time struct {
	Start time.Time
	Time  time.Time
	Dt    time.Duration

	now func() time.Time
}

func NewTime() *Time {
	return NewTimeWith(time.Now)
}

// NewTimeWith uses now as the clock source.
func NewTimeWith(now func() time.Time) *Time {
	t := now()
	return &Time{Start: t, Time: t, now: now}
}

// Tick advances to the next frame.
func (t *Time) Tick() {
	now := t.now()

	t.Dt = now.Sub(t.Time)
	t.Time = now
}

// Elapsed is the time since the clock started, as of the last Tick.
func (t *Time) Elapsed() time.Duration {
	return t.Time.Sub(t.Start)
}

// Seconds is Elapsed in float32 seconds, the unit the camera and shaders use.
func (t *Time) Seconds() float32 {
	return float32(t.Elapsed().Seconds())
}
