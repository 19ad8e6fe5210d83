package app

import (
	"testing"
	"time"
)

func TestNewInvocation(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	a := NewInvocation("post create", start)
	b := NewInvocation("post create", start)

	if a.Command != "post create" {
		t.Errorf("Command = %q, want %q", a.Command, "post create")
	}
	if len(a.ID) != 8 {
		t.Errorf("ID = %q, want 8 characters", a.ID)
	}
	if a.ID == b.ID {
		t.Errorf("two invocations share ID %q", a.ID)
	}
	if got := a.Elapsed(start.Add(3 * time.Second)); got != 3*time.Second {
		t.Errorf("Elapsed() = %v, want 3s", got)
	}
}
