package cart

import "sync"

// State holds the locally cached copy of the backend's sparse cart record.
// It distinguishes an empty cart from an unknown one: after a failed fetch
// the record is unknown and renders like empty, but the two must not be
// conflated (a later successful write restores a known state).
type State struct {
	mu      sync.RWMutex
	entries []Entry
	known   bool
}

// NewState returns an unknown cart state.
func NewState() *State {
	return &State{}
}

// Replace installs the backend's returned record wholesale and marks the
// state known. Any locally held prior value is discarded, even entries the
// client did not request changing.
func (s *State) Replace(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = cloneEntries(entries)
	s.known = true
}

// Invalidate marks the record unknown after a failed fetch. The previous
// entries are dropped so a stale cart can never be rendered as current.
func (s *State) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.known = false
}

// Entries returns a snapshot of the record and whether it is known.
func (s *State) Entries() ([]Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries), s.known
}

// Contains reports whether the record holds an entry for the product.
func (s *State) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.entries {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

// Qty returns the recorded quantity for the product, or 0 when absent.
func (s *State) Qty(productID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.entries {
		if entry.ProductID == productID {
			return entry.Qty
		}
	}
	return 0
}

func cloneEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
