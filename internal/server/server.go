// Package server is the localhost HTTP surface the POS UI calls. Every
// printer-facing endpoint resolves to a {success, error} payload; printer
// faults are results, never 5xx crashes.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"warungpos/printerd/internal/model"
	"warungpos/printerd/internal/printer"
)

type Server struct {
	Session       *printer.Session
	Token         string
	AllowedOrigin string
}

func New(session *printer.Session, token string, allowedOrigin string) *Server {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return &Server{Session: session, Token: token, AllowedOrigin: allowedOrigin}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", s.cors(s.handlePing))
	mux.HandleFunc("/status", s.cors(s.handleStatus))
	mux.HandleFunc("/scan", s.cors(s.handleScan))
	mux.HandleFunc("/connect", s.cors(s.handleConnect))
	mux.HandleFunc("/disconnect", s.cors(s.handleDisconnect))
	mux.HandleFunc("/print", s.cors(s.handlePrint))
	mux.HandleFunc("/test-print", s.cors(s.handleTestPrint))
	return mux
}

func (s *Server) cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

func (s *Server) authorized(token string) bool {
	return s.Token == "" || token == s.Token
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Only GET method is supported", http.StatusMethodNotAllowed)
		return
	}
	state, device, reason := s.Session.Status()
	resp := map[string]any{
		"state": state.String(),
	}
	if device.Address != "" {
		resp["device"] = device
	}
	if reason != nil {
		resp["error"] = printer.Kind(reason)
	}
	writeJSON(w, resp)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is supported", http.StatusMethodNotAllowed)
		return
	}
	devices, err := s.Session.ScanDevices(r.Context())
	if err != nil {
		writeJSON(w, map[string]any{"success": false, "error": printer.Kind(err)})
		return
	}
	if devices == nil {
		devices = []printer.Device{}
	}
	writeJSON(w, map[string]any{"success": true, "devices": devices})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req model.ConnectRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.Session.Connect(r.Context(), printer.Device{Name: req.Name, Address: req.Address})
	writeResult(w, "", err)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	var req model.DisconnectRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.Session.Disconnect(req.Forget)
	writeResult(w, "", nil)
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	var req model.PrintRequest
	if !s.decode(w, r, &req) {
		return
	}

	jobID := uuid.NewString()
	var err error
	if req.Kitchen {
		err = s.Session.PrintKitchenTicket(r.Context(), req.Order, req.Items, req.Settings)
	} else {
		err = s.Session.PrintReceipt(r.Context(), req.Order, req.Items, req.Settings)
	}
	if err != nil {
		slog.Error("Print job failed", "job", jobID, "order", req.Order.ID, "error", err)
	}
	writeResult(w, jobID, err)
}

func (s *Server) handleTestPrint(w http.ResponseWriter, r *http.Request) {
	var req model.PrintRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeResult(w, uuid.NewString(), s.Session.TestPrint(r.Context(), req.Settings))
}

// decode parses the body and checks the shared token. It reports whether
// the handler should proceed.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is supported", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	token := tokenOf(dst)
	if !s.authorized(token) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func tokenOf(req any) string {
	switch v := req.(type) {
	case *model.PrintRequest:
		return v.Token
	case *model.ConnectRequest:
		return v.Token
	case *model.DisconnectRequest:
		return v.Token
	default:
		return ""
	}
}

func writeResult(w http.ResponseWriter, jobID string, err error) {
	resp := model.PrintResponse{Success: err == nil, JobID: jobID}
	if err != nil {
		resp.Error = printer.Kind(err)
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Couldn't encode response", "error", err)
	}
}
