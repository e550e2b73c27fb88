package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"warungpos/printerd/internal/model"
	"warungpos/printerd/internal/printer"
)

// stubTransport is a happy-path printer.Transport for handler tests.
type stubTransport struct {
	devices   []printer.Descriptor
	connected bool
	writes    int
}

func (s *stubTransport) Ready() error { return nil }

func (s *stubTransport) Scan(ctx context.Context, found func(printer.Descriptor)) error {
	for _, d := range s.devices {
		found(d)
	}
	return nil
}

func (s *stubTransport) Connect(ctx context.Context, address string) error {
	s.connected = true
	return nil
}

func (s *stubTransport) Write(ctx context.Context, data []byte) error {
	s.writes++
	return nil
}

func (s *stubTransport) Disconnect() error {
	s.connected = false
	return nil
}

func (s *stubTransport) Connected() bool { return s.connected }

type stubStore struct {
	values map[string]string
}

func (s *stubStore) Get(key string) (string, error) { return s.values[key], nil }
func (s *stubStore) Put(key, value string) error    { s.values[key] = value; return nil }
func (s *stubStore) Delete(key string) error        { delete(s.values, key); return nil }

func testServer(token string, transport *stubTransport, store *stubStore) *httptest.Server {
	if store == nil {
		store = &stubStore{values: map[string]string{}}
	}
	session := printer.NewSession(transport, store)
	session.ScanWindow = time.Second
	return httptest.NewServer(New(session, token, "*").Routes())
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Couldn't marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("Couldn't decode response: %v", err)
	}
}

func printRequest() model.PrintRequest {
	return model.PrintRequest{
		Order: model.Order{
			ID:            "ord_a1b2c3",
			CreatedAt:     time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC),
			PaymentMethod: "cash",
			Subtotal:      15000,
			Total:         15000,
		},
		Items: []model.OrderItem{{Name: "Nasi Goreng", Price: 15000, Quantity: 1}},
	}
}

func TestPing(t *testing.T) {
	srv := testServer("", &stubTransport{}, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestStatusIdle(t *testing.T) {
	srv := testServer("", &stubTransport{}, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body map[string]any
	decodeBody(t, resp, &body)
	if body["state"] != "disconnected" {
		t.Errorf("state = %v", body["state"])
	}
	if _, ok := body["device"]; ok {
		t.Errorf("idle status must not report a device")
	}
}

func TestScan(t *testing.T) {
	transport := &stubTransport{devices: []printer.Descriptor{
		{Name: "RPP02N", Address: "DC:0D:30:AA:BB:CC"},
		{Name: "RPP02N", Address: "dc:0d:30:aa:bb:cc"},
	}}
	srv := testServer("", transport, nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/scan", map[string]string{})
	var body struct {
		Success bool             `json:"success"`
		Devices []printer.Device `json:"devices"`
	}
	decodeBody(t, resp, &body)
	if !body.Success {
		t.Fatalf("scan reported failure")
	}
	if len(body.Devices) != 1 {
		t.Errorf("duplicate sightings should collapse, got %v", body.Devices)
	}
}

func TestConnectThenPrint(t *testing.T) {
	transport := &stubTransport{}
	store := &stubStore{values: map[string]string{}}
	srv := testServer("", transport, store)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/connect", model.ConnectRequest{Name: "RPP02N", Address: "DC:0D:30:AA:BB:CC"})
	var result model.PrintResponse
	decodeBody(t, resp, &result)
	if !result.Success {
		t.Fatalf("connect failed: %v", result.Error)
	}
	if store.values["printer_address"] != "DC:0D:30:AA:BB:CC" {
		t.Errorf("connect should persist the device")
	}

	resp = postJSON(t, srv.URL+"/print", printRequest())
	decodeBody(t, resp, &result)
	if !result.Success {
		t.Fatalf("print failed: %v", result.Error)
	}
	if result.JobID == "" {
		t.Errorf("print result must carry a job id")
	}
	if transport.writes != 1 {
		t.Errorf("expected one job on the transport, saw %d", transport.writes)
	}
}

func TestPrintWithoutPrinterIsAResult(t *testing.T) {
	srv := testServer("", &stubTransport{}, nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/print", printRequest())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("printer faults are results, not HTTP errors; got %d", resp.StatusCode)
	}
	var result model.PrintResponse
	decodeBody(t, resp, &result)
	if result.Success {
		t.Fatalf("print should fail without a configured printer")
	}
	if result.Error != "NoPrinterConfigured" {
		t.Errorf("error = %q, want NoPrinterConfigured", result.Error)
	}
}

func TestTokenEnforced(t *testing.T) {
	srv := testServer("secret", &stubTransport{}, nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/print", printRequest())
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token should be rejected, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req := printRequest()
	req.Token = "secret"
	resp = postJSON(t, srv.URL+"/print", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid token should pass, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testServer("", &stubTransport{}, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/print")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /print should be 405, got %d", resp.StatusCode)
	}
}

func TestInvalidJSON(t *testing.T) {
	srv := testServer("", &stubTransport{}, nil)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/print", "application/json", strings.NewReader("{nope"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body should be 400, got %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := testServer("", &stubTransport{}, nil)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/print", nil)
	if err != nil {
		t.Fatalf("Couldn't build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("preflight should be 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestDisconnectForget(t *testing.T) {
	transport := &stubTransport{}
	store := &stubStore{values: map[string]string{
		"printer_address": "DC:0D:30:AA:BB:CC",
		"printer_name":    "RPP02N",
	}}
	srv := testServer("", transport, store)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/disconnect", model.DisconnectRequest{Forget: true})
	var result model.PrintResponse
	decodeBody(t, resp, &result)
	if !result.Success {
		t.Fatalf("disconnect failed: %v", result.Error)
	}
	if _, ok := store.values["printer_address"]; ok {
		t.Errorf("forget should drop the persisted printer")
	}
}
