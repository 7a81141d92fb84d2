package provider

import (
	"context"
	"sync"

	"github.com/zulandar/switchboard/internal/models"
)

// Mock implements Client for testing. It records sends and returns a
// configurable status.
type Mock struct {
	mu        sync.Mutex
	status    Status
	statusErr error
	sendErr   error
	sent      []MockSend
	probes    []string
}

// MockSend records one Send call.
type MockSend struct {
	DeviceID string
	To       string
	Message  string
}

// NewMock creates a Mock that reports every device online.
func NewMock() *Mock {
	return &Mock{status: Status{Online: true, State: "connected"}}
}

// Name returns "mock".
func (m *Mock) Name() string { return "mock" }

// SetStatus configures the status returned by Status.
func (m *Mock) SetStatus(online bool, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = Status{Online: online, State: state}
	m.statusErr = nil
}

// SetStatusErr makes Status fail with err.
func (m *Mock) SetStatusErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusErr = err
}

// SetSendErr makes Send fail with err.
func (m *Mock) SetSendErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// Status returns the configured status and records the probed device.
func (m *Mock) Status(ctx context.Context, dev *models.Device) (*Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes = append(m.probes, dev.DeviceID)
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	st := m.status
	return &st, nil
}

// Send records the call.
func (m *Mock) Send(ctx context.Context, dev *models.Device, to, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, MockSend{DeviceID: dev.DeviceID, To: to, Message: message})
	return nil
}

// Sent returns a copy of the recorded sends.
func (m *Mock) Sent() []MockSend {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockSend, len(m.sent))
	copy(out, m.sent)
	return out
}

// Probes returns the device identifiers passed to Status, in order.
func (m *Mock) Probes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.probes))
	copy(out, m.probes)
	return out
}
