package app

import (
	"time"

	"github.com/google/uuid"
)

// Invocation identifies one CLI run. Its ID tags every log line the run
// writes, so interleaved runs sharing a log file can be told apart.
type Invocation struct {
	ID      string
	Command string
	Started time.Time
}

// NewInvocation creates an Invocation for the named command.
func NewInvocation(command string, now time.Time) *Invocation {
	return &Invocation{
		ID:      uuid.NewString()[:8],
		Command: command,
		Started: now,
	}
}

// Elapsed returns the time since the invocation started.
func (inv *Invocation) Elapsed(now time.Time) time.Duration {
	return now.Sub(inv.Started)
}
