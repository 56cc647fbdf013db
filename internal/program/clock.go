// Package program holds the pure state-transition core of the support
// program: the day gate, the assessment scorer, the content completion
// tracker and the retake state machine. Nothing here touches gin, gorm or
// any I/O; persistence and transport are the orchestrator's job.
package program

import "time"

// Clock abstracts "now" so every time comparison is deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }

// FixedClock is a Clock pinned to a settable instant.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

// Advance moves the fixed clock forward.
func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }
