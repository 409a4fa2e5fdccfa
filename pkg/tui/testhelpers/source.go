package testhelpers

import (
	"sync"

	"github.com/metacols/metacols/pkg/transport"
)

// FakeSource stands in for a websocket client: tests push events and
// read back what the app submitted.
type FakeSource struct {
	Addr      string
	SubmitErr error

	events chan transport.Event

	mu        sync.Mutex
	submitted [][]byte
}

// NewFakeSource creates a source reporting url
func NewFakeSource(url string) *FakeSource {
	return &FakeSource{
		Addr:   url,
		events: make(chan transport.Event, 16),
	}
}

// Events implements tui.RecordSource
func (s *FakeSource) Events() <-chan transport.Event {
	return s.events
}

// Submit implements tui.RecordSource
func (s *FakeSource) Submit(payload []byte) error {
	if s.SubmitErr != nil {
		return s.SubmitErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = append(s.submitted, append([]byte(nil), payload...))
	return nil
}

// URL implements tui.RecordSource
func (s *FakeSource) URL() string {
	return s.Addr
}

// Push queues an event for the app
func (s *FakeSource) Push(ev transport.Event) {
	s.events <- ev
}

// Close ends the event stream
func (s *FakeSource) Close() {
	close(s.events)
}

// Submitted returns every payload submitted so far
func (s *FakeSource) Submitted() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.submitted...)
}
