package engine

import (
	"sync"
	"time"
)

// MockBackend is a recording test double for Backend.
type MockBackend struct {
	mu       sync.Mutex
	calls    []string
	seeks    []time.Duration
	loadErr  error
	playErr  error
	seekErr  error
	songInfo SongInfo
}

// NewMockBackend creates a mock backend that succeeds on every call.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

func (m *MockBackend) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *MockBackend) Load(path string) (SongInfo, error) {
	m.record("load")
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return SongInfo{}, m.loadErr
	}
	info := m.songInfo
	info.Path = path
	return info, nil
}

func (m *MockBackend) Play() error {
	m.record("play")
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playErr
}

func (m *MockBackend) Pause() { m.record("pause") }

func (m *MockBackend) Resume() { m.record("resume") }

func (m *MockBackend) TrySeek(position time.Duration) error {
	m.record("seek")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeks = append(m.seeks, position)
	return m.seekErr
}

func (m *MockBackend) Stop() { m.record("stop") }

// Test helpers

func (m *MockBackend) SetLoadError(err error) {
	m.mu.Lock()
	m.loadErr = err
	m.mu.Unlock()
}

func (m *MockBackend) SetPlayError(err error) {
	m.mu.Lock()
	m.playErr = err
	m.mu.Unlock()
}

func (m *MockBackend) SetSeekError(err error) {
	m.mu.Lock()
	m.seekErr = err
	m.mu.Unlock()
}

func (m *MockBackend) SetSongInfo(info SongInfo) {
	m.mu.Lock()
	m.songInfo = info
	m.mu.Unlock()
}

// Calls returns the backend calls in the order they were made.
func (m *MockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// SeekCalls returns the positions passed to TrySeek.
func (m *MockBackend) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seeks...)
}

// CountOf returns how many times call was made.
func (m *MockBackend) CountOf(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

// ManualClock is a Clock advanced by hand.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock starting at an arbitrary fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Verify MockBackend implements Backend at compile time.
var _ Backend = (*MockBackend)(nil)
