// Package archive stores ledger snapshots.
package archive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"social-go/internal/social"
)

// MemoryArchive keeps snapshots in memory. It is safe for concurrent use.
type MemoryArchive struct {
	objects map[string][]byte
	mu      sync.RWMutex
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string][]byte)}
}

func (a *MemoryArchive) Put(_ context.Context, name string, r io.Reader, size int64) error {
	if err := checkName(name); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[name] = data
	return nil
}

func (a *MemoryArchive) Get(_ context.Context, name string, w io.Writer) error {
	a.mu.RLock()
	data, ok := a.objects[name]
	a.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (a *MemoryArchive) List(_ context.Context, prefix string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var names []string
	for name := range a.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (a *MemoryArchive) ValidateSetup(context.Context) error { return nil }

var _ social.Archive = (*MemoryArchive)(nil)
