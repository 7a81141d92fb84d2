package alert

import (
	"context"
	"sync"
)

// MockAdapter is an in-memory Adapter for tests. It records sent messages
// and can be configured to fail.
type MockAdapter struct {
	mu         sync.Mutex
	connected  bool
	closed     bool
	connectErr error
	sendErr    error
	sent       []Message
}

// NewMockAdapter creates a MockAdapter.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{}
}

// Connect marks the adapter connected, or fails with the configured error.
func (m *MockAdapter) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connectErr != nil {
		return m.connectErr
	}
	m.connected = true
	return nil
}

// Send records the message, or fails with the configured error.
func (m *MockAdapter) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Close marks the adapter closed.
func (m *MockAdapter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.connected = false
	return nil
}

// SetConnectErr makes Connect fail with err.
func (m *MockAdapter) SetConnectErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectErr = err
}

// SetSendErr makes Send fail with err.
func (m *MockAdapter) SetSendErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// Sent returns a copy of the recorded messages.
func (m *MockAdapter) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// Connected reports whether Connect succeeded.
func (m *MockAdapter) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Closed reports whether Close was called.
func (m *MockAdapter) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
