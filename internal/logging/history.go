package logging

import (
	"sync"
	"time"
)

// LogEntry is one handled record as kept in the history.
type LogEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// History keeps the newest entries up to a fixed capacity and drops the
// oldest first. It is safe for concurrent use.
type History struct {
	mu      sync.Mutex
	entries []LogEntry
	oldest  int // meaningful once entries is at capacity
}

// NewHistory returns an empty History holding at most capacity entries.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{entries: make([]LogEntry, 0, capacity)}
}

// Add stores e, evicting the oldest entry when full.
func (h *History) Add(e LogEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) < cap(h.entries) {
		h.entries = append(h.entries, e)
		return
	}
	h.entries[h.oldest] = e
	h.oldest = (h.oldest + 1) % len(h.entries)
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns stored entries oldest first. A non-empty module keeps
// only that module's entries; limit > 0 keeps only the newest limit of
// what remains.
func (h *History) Entries(module string, limit int) []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.entries)
	out := make([]LogEntry, 0, n)
	for i := range n {
		e := h.entries[(h.oldest+i)%n]
		if module == "" || e.Module == module {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
