// Package provider implements clients for the WhatsApp API providers that
// devices attach to (wablas, whacenter, waha).
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zulandar/switchboard/internal/models"
)

// DefaultTimeout bounds provider HTTP calls when the caller does not
// configure one.
const DefaultTimeout = 8 * time.Second

// Status is a provider-reported device session status.
type Status struct {
	Online bool
	State  string // raw provider state, e.g. "connected", "WORKING"
}

// Client probes and sends through one provider's HTTP API. Implementations
// are stateless; per-device endpoint and credentials ride on the Device.
type Client interface {
	// Name returns the provider name.
	Name() string

	// Status probes the device's session status.
	Status(ctx context.Context, dev *models.Device) (*Status, error)

	// Send delivers a text message to a phone number through the device.
	Send(ctx context.Context, dev *models.Device, to, message string) error
}

// New returns the client for a provider name.
func New(name string, timeout time.Duration) (Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := &http.Client{Timeout: timeout}
	switch name {
	case "wablas":
		return &Wablas{http: hc}, nil
	case "whacenter":
		return &Whacenter{http: hc}, nil
	case "waha":
		return &Waha{http: hc}, nil
	default:
		return nil, fmt.Errorf("provider: unknown provider %q", name)
	}
}

// ForDevice returns the client matching the device's configured provider.
func ForDevice(dev *models.Device, timeout time.Duration) (Client, error) {
	return New(dev.Provider, timeout)
}

// doJSON executes a request and decodes the JSON object response. Non-2xx
// statuses are errors carrying the response body.
func doJSON(hc *http.Client, req *http.Request) (map[string]interface{}, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("provider: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider: %s returned status %d: %s", req.URL.Host, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("provider: parse response: %w", err)
	}
	return result, nil
}

// postJSON marshals a payload and builds a POST request for it.
func postJSON(ctx context.Context, url string, payload map[string]interface{}) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("provider: marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("provider: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
