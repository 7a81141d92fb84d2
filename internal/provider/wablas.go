package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zulandar/switchboard/internal/models"
)

// Wablas talks to the wablas.com HTTP API. The device API key rides in the
// Authorization header.
type Wablas struct {
	http *http.Client
}

// Name returns "wablas".
func (w *Wablas) Name() string { return "wablas" }

// Status probes the device status endpoint. Wablas reports a boolean
// "connected" field.
func (w *Wablas) Status(ctx context.Context, dev *models.Device) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dev.APIURL+"/api/device/status", nil)
	if err != nil {
		return nil, fmt.Errorf("provider: build status request: %w", err)
	}
	req.Header.Set("Authorization", dev.APIKey)

	result, err := doJSON(w.http, req)
	if err != nil {
		return nil, err
	}

	st := &Status{State: "disconnected"}
	if connected, ok := result["connected"].(bool); ok && connected {
		st.Online = true
		st.State = "connected"
	}
	return st, nil
}

// Send delivers a text message through the device.
func (w *Wablas) Send(ctx context.Context, dev *models.Device, to, message string) error {
	req, err := postJSON(ctx, dev.APIURL+"/api/send-message", map[string]interface{}{
		"phone":   to,
		"message": message,
	})
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", dev.APIKey)

	_, err = doJSON(w.http, req)
	return err
}
