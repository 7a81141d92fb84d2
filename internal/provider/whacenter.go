package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zulandar/switchboard/internal/models"
)

// Whacenter talks to the whacenter.com HTTP API. There is no auth header;
// the device identifier rides in the request payload.
type Whacenter struct {
	http *http.Client
}

// Name returns "whacenter".
func (w *Whacenter) Name() string { return "whacenter" }

// Status probes the session status endpoint. Whacenter reports a status
// string; "authenticated" and "connected" both mean online.
func (w *Whacenter) Status(ctx context.Context, dev *models.Device) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dev.APIURL+"/status", nil)
	if err != nil {
		return nil, fmt.Errorf("provider: build status request: %w", err)
	}

	result, err := doJSON(w.http, req)
	if err != nil {
		return nil, err
	}

	st := &Status{State: "disconnected"}
	if state, ok := result["status"].(string); ok {
		st.State = state
		if state == "authenticated" || state == "connected" {
			st.Online = true
		}
	}
	return st, nil
}

// Send delivers a text message through the device.
func (w *Whacenter) Send(ctx context.Context, dev *models.Device, to, message string) error {
	req, err := postJSON(ctx, dev.APIURL+"/api/send", map[string]interface{}{
		"device_id": dev.DeviceID,
		"number":    to,
		"message":   message,
	})
	if err != nil {
		return err
	}

	_, err = doJSON(w.http, req)
	return err
}
