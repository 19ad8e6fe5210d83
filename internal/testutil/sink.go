package testutil

import (
	"context"
	"sync"

	"social-go/internal/social"
)

// RecordingSink keeps every published event. Setting Err makes Publish fail
// after recording nothing.
type RecordingSink struct {
	mu     sync.Mutex
	events []*social.Event
	Err    error
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

func (s *RecordingSink) Publish(_ context.Context, events []*social.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.events = append(s.events, events...)
	return nil
}

func (s *RecordingSink) Close() error { return nil }

// Events returns a copy of the published events.
func (s *RecordingSink) Events() []*social.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*social.Event(nil), s.events...)
}

// Kinds returns the kinds of the published events in order.
func (s *RecordingSink) Kinds() []social.EventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]social.EventKind, len(s.events))
	for i, e := range s.events {
		kinds[i] = e.Kind
	}
	return kinds
}

var _ social.EventSink = (*RecordingSink)(nil)
