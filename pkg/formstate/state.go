// Package formstate holds the values of one open form. It performs no
// validation; callers decide what a change means.
package formstate

import (
	"sync"

	"github.com/goliatone/go-usermgmt/pkg/model"
)

// State tracks the current values of a form together with the initial map it
// was seeded with. It is safe for concurrent use.
type State struct {
	mu      sync.RWMutex
	initial model.FormValues
	values  model.FormValues
}

// New seeds the state. The initial map is copied, so later mutations of the
// caller's map never leak into Reset.
func New(initial model.FormValues) *State {
	return &State{
		initial: cloneValues(initial),
		values:  cloneValues(initial),
	}
}

// Values returns a snapshot of the current values.
func (s *State) Values() model.FormValues {
	if s == nil {
		return model.FormValues{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.values)
}

// Value returns the value stored under name.
func (s *State) Value(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[name]
	return value, ok
}

// String returns the value stored under name as text.
func (s *State) String(name string) string {
	value, _ := s.Value(name)
	return model.Stringify(value)
}

// HandleChange merges a single field update into the current values.
func (s *State) HandleChange(name string, value any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

// SetValues replaces the whole value map.
func (s *State) SetValues(values model.FormValues) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = cloneValues(values)
}

// Reset restores the initial values.
func (s *State) Reset() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = cloneValues(s.initial)
}

// Initial returns a copy of the values the state was seeded with.
func (s *State) Initial() model.FormValues {
	if s == nil {
		return model.FormValues{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.initial)
}

func cloneValues(src model.FormValues) model.FormValues {
	out := make(model.FormValues, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
