package engine

import "sync"

// History records deep-cloned snapshots of a match for host-side
// rollback and playback. The engine never rolls back on its own; a host
// that wants atomic action attempts records a snapshot before each call
// and restores on failure. In-memory only — persisting matches between
// processes is out of scope.
type History struct {
	mu      sync.RWMutex
	states  []*GameState
	current int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Record clones the state and appends the snapshot.
func (h *History) Record(s *GameState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = append(h.states, s.Clone())
}

// Size returns the number of recorded snapshots.
func (h *History) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.states)
}

// Start resets playback to the beginning.
func (h *History) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = 0
}

// Next advances playback and returns a clone of the next snapshot, or
// nil at the end.
func (h *History) Next() *GameState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current >= len(h.states) {
		return nil
	}
	s := h.states[h.current]
	h.current++
	return s.Clone()
}

// Previous steps playback back and returns a clone of the snapshot at
// the new position, or nil at the beginning.
func (h *History) Previous() *GameState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == 0 {
		return nil
	}
	h.current--
	return h.states[h.current].Clone()
}

// Latest returns a clone of the most recent snapshot, or nil when empty.
// This is the restore point for a host undoing a partially applied call.
func (h *History) Latest() *GameState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.states) == 0 {
		return nil
	}
	return h.states[len(h.states)-1].Clone()
}
