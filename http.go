package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"smsgate/budgetsms"
)

// sendRequest is the body of a POST /send call.
type sendRequest struct {
	From string `json:"from,omitempty"` // optional, default sender when empty
	To   string `json:"to"`
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"` // gateway error code, when one exists
}

// Handler builds the HTTP interface of the gate.
func (s *SMSGate) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/send", s.handleSend).Methods("POST")
	r.HandleFunc("/status/{id}", s.handleStatus).Methods("GET")
	r.HandleFunc("/credit", s.handleCredit).Methods("GET")
	r.HandleFunc("/operator/{number}", s.handleOperator).Methods("GET")
	r.HandleFunc("/hlr/{number}", s.handleHLR).Methods("GET")
	r.HandleFunc("/pricing", s.handlePricing).Methods("GET")
	return r
}

func (s *SMSGate) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	res, err := s.Send(r.Context(), req.From, req.To, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *SMSGate) handleStatus(w http.ResponseWriter, r *http.Request) {
	report, err := s.client.Status(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *SMSGate) handleCredit(w http.ResponseWriter, r *http.Request) {
	credit, err := s.client.Credit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"credit": credit})
}

func (s *SMSGate) handleOperator(w http.ResponseWriter, r *http.Request) {
	op, err := s.client.Operator(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

func (s *SMSGate) handleHLR(w http.ResponseWriter, r *http.Request) {
	op, err := s.client.HLR(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

func (s *SMSGate) handlePricing(w http.ResponseWriter, r *http.Request) {
	entries, err := s.client.Pricing(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the library error taxonomy to HTTP statuses: gateway
// errors are the caller's problem, transport and format errors are the
// upstream's, timeouts get their own status so clients can retry.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *budgetsms.APIError
	var timeoutErr *budgetsms.TimeoutError
	var transportErr *budgetsms.TransportError
	var formatErr *budgetsms.FormatError
	switch {
	case errors.As(err, &apiErr):
		status := http.StatusBadRequest
		if apiErr.InsufficientCredits() {
			status = http.StatusPaymentRequired
		}
		writeJSON(w, status, errorResponse{Error: apiErr.Error(), Code: apiErr.Code})
	case errors.As(err, &timeoutErr):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: err.Error()})
	case errors.As(err, &transportErr), errors.As(err, &formatErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
}
