package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/zulandar/switchboard/internal/models"
)

func TestDeviceCreate(t *testing.T) {
	router, _, _ := setupTestAPI(t)

	w := doRequest(t, router, http.MethodPost, "/api/devices", deviceRequest{
		DeviceID: "device-a", Provider: "wablas",
		APIURL: "https://wablas.example", APIKey: "secret-key",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}

	var created models.Device
	decodeBody(t, w, &created)
	if created.DeviceID != "device-a" {
		t.Errorf("DeviceID = %q, want %q", created.DeviceID, "device-a")
	}

	// Credentials stay server-side.
	if strings.Contains(w.Body.String(), "secret-key") {
		t.Error("response echoes the api key")
	}
}

func TestDeviceCreate_MissingFields(t *testing.T) {
	router, _, _ := setupTestAPI(t)

	w := doRequest(t, router, http.MethodPost, "/api/devices", deviceRequest{Provider: "wablas"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeviceCreate_BadProvider(t *testing.T) {
	router, _, _ := setupTestAPI(t)

	w := doRequest(t, router, http.MethodPost, "/api/devices", deviceRequest{
		DeviceID: "device-a", Provider: "telegram",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := errorBody(t, w); !strings.Contains(got, "not supported") {
		t.Errorf("error = %q, want to reject the provider", got)
	}
}

func TestDeviceCreate_Duplicate(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	seedDevice(t, db, "device-a")

	w := doRequest(t, router, http.MethodPost, "/api/devices", deviceRequest{
		DeviceID: "device-a", Provider: "waha",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestDeviceList(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	seedDevice(t, db, "device-b")
	seedDevice(t, db, "device-a")

	w := doRequest(t, router, http.MethodGet, "/api/devices", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var out struct {
		Devices []models.Device `json:"devices"`
	}
	decodeBody(t, w, &out)
	if len(out.Devices) != 2 {
		t.Fatalf("list = %d devices, want 2", len(out.Devices))
	}
	if out.Devices[0].DeviceID != "device-a" {
		t.Errorf("devices[0] = %q, want identifier order", out.Devices[0].DeviceID)
	}
}

func TestDeviceDelete(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	seedDevice(t, db, "device-a")

	w := doRequest(t, router, http.MethodDelete, "/api/devices/device-a", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	w = doRequest(t, router, http.MethodDelete, "/api/devices/device-a", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestDeviceStatus(t *testing.T) {
	router, db, mock := setupTestAPI(t)
	seedDevice(t, db, "device-a")

	w := doRequest(t, router, http.MethodGet, "/api/devices/device-a/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var out struct {
		DeviceID string `json:"device_id"`
		Provider string `json:"provider"`
		Online   bool   `json:"online"`
		State    string `json:"state"`
	}
	decodeBody(t, w, &out)
	if !out.Online {
		t.Error("online = false, want true from the default mock")
	}
	if out.DeviceID != "device-a" || out.Provider != "wablas" {
		t.Errorf("identity = %s/%s, want device-a/wablas", out.DeviceID, out.Provider)
	}

	mock.SetStatus(false, "disconnected")
	w = doRequest(t, router, http.MethodGet, "/api/devices/device-a/status", nil)
	decodeBody(t, w, &out)
	if out.Online {
		t.Error("online = true after the provider went down")
	}
	if out.State != "disconnected" {
		t.Errorf("state = %q, want %q", out.State, "disconnected")
	}

	if probes := mock.Probes(); len(probes) != 2 {
		t.Errorf("probes = %d, want 2", len(probes))
	}
}

func TestDeviceStatus_NotFound(t *testing.T) {
	router, _, _ := setupTestAPI(t)

	w := doRequest(t, router, http.MethodGet, "/api/devices/ghost/status", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeviceStatus_ProviderError(t *testing.T) {
	router, db, mock := setupTestAPI(t)
	seedDevice(t, db, "device-a")
	mock.SetStatusErr(errTest)

	w := doRequest(t, router, http.MethodGet, "/api/devices/device-a/status", nil)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}
