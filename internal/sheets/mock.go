package sheets

import (
	"context"
	"sync"
)

// MockWriter is an Exporter that records what it was asked to write.
type MockWriter struct {
	err    error
	Writes []TabData
	mu     sync.Mutex
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write implements Exporter.
func (m *MockWriter) Write(_ context.Context, data TabData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.Writes = append(m.Writes, data)
	return nil
}

// SetWriteError makes every following Write fail with err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// LastWrite returns the most recent export, if any.
func (m *MockWriter) LastWrite() (TabData, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Writes) == 0 {
		return TabData{}, false
	}
	return m.Writes[len(m.Writes)-1], true
}
