package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zulandar/switchboard/internal/models"
)

// Waha talks to a self-hosted WAHA instance. The API key rides in the
// X-Api-Key header and the device identifier doubles as the session name.
type Waha struct {
	http *http.Client
}

// Name returns "waha".
func (w *Waha) Name() string { return "waha" }

// Status probes the session endpoint. WAHA reports "WORKING" for a
// connected session.
func (w *Waha) Status(ctx context.Context, dev *models.Device) (*Status, error) {
	url := fmt.Sprintf("%s/api/sessions/%s", dev.APIURL, dev.DeviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("provider: build status request: %w", err)
	}
	req.Header.Set("X-Api-Key", dev.APIKey)

	result, err := doJSON(w.http, req)
	if err != nil {
		return nil, err
	}

	st := &Status{State: "disconnected"}
	if state, ok := result["status"].(string); ok {
		st.State = state
		if state == "WORKING" {
			st.Online = true
		}
	}
	return st, nil
}

// Send delivers a text message through the session.
func (w *Waha) Send(ctx context.Context, dev *models.Device, to, message string) error {
	req, err := postJSON(ctx, dev.APIURL+"/api/sendText", map[string]interface{}{
		"session": dev.DeviceID,
		"chatId":  to + "@c.us",
		"text":    message,
	})
	if err != nil {
		return err
	}
	req.Header.Set("X-Api-Key", dev.APIKey)

	_, err = doJSON(w.http, req)
	return err
}
