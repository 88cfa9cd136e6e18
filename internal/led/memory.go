package led

import "sync"

// Memory implements Driver without hardware. Levels start at the idle
// level of each channel, matching what the GPIO backend requests.
// It is safe for concurrent use so tests can observe it while a loop runs.
type Memory struct {
	mu     sync.Mutex
	levels [Count]bool
	writes int
}

// NewMemory creates an in-memory driver at baseline.
func NewMemory() *Memory {
	m := &Memory{}
	for _, id := range All() {
		m.levels[id] = IdleLevel(id)
	}
	return m
}

// SetLevel records the level.
func (m *Memory) SetLevel(ch ID, high bool) error {
	if err := checkID(ch); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[ch] = high
	m.writes++
	return nil
}

// Level returns the last recorded level.
func (m *Memory) Level(ch ID) (bool, error) {
	if err := checkID(ch); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[ch], nil
}

// Levels returns a copy of all levels in channel order.
func (m *Memory) Levels() [Count]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels
}

// Writes returns how many SetLevel calls succeeded.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
