package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smsgate/budgetsms"
)

// testGate returns a gate whose client talks to a stub gateway.
func testGate(t *testing.T, handler http.HandlerFunc) *SMSGate {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &SMSGate{
		From: "Example",
		client: &budgetsms.Client{
			Username: "testuser",
			UserID:   "21543",
			Handle:   "abcdef0123",
			BaseURL:  server.URL,
		},
	}
}

func TestGateSendValidation(t *testing.T) {
	gate := testGate(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the gateway")
	})
	_, err := gate.Send(context.Background(), "", "123", "hello")
	assert.ErrorIs(t, err, errInvalidNumber)
	_, err = gate.Send(context.Background(), "Way too long sender", "31612345678", "hello")
	assert.ErrorIs(t, err, errInvalidSender)
	_, err = gate.Send(context.Background(), "", "31612345678", "")
	assert.ErrorIs(t, err, errInvalidMessage)
}

func TestGateSend(t *testing.T) {
	gate := testGate(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sendsms/", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("customid"))
		assert.Equal(t, "1", r.URL.Query().Get("price"))
		w.Write([]byte("OK 12345678 0.055 1"))
	})
	res, err := gate.Send(context.Background(), "", "31612345678", "Hello World")
	require.NoError(t, err)
	assert.Equal(t, "12345678", res.ID)
	assert.Equal(t, 0.055, res.Price)
	assert.Equal(t, 1, res.Parts)
}

// Stop must not return before the pollers have exited: the send log is
// closed right after, so a still-running poller would use it mid-close.
func TestGateStartStop(t *testing.T) {
	var requests atomic.Int32
	gate := testGate(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte("OK 13.37"))
	})
	gate.CreditCheck = Duration(5 * time.Millisecond)
	gate.Start()
	time.Sleep(20 * time.Millisecond)
	gate.Stop()
	n := requests.Load()
	assert.Greater(t, n, int32(0))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, requests.Load())
}

func TestHandlerSend(t *testing.T) {
	gate := testGate(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK 12345678 0.055 1"))
	})
	body, _ := json.Marshal(sendRequest{To: "31612345678", Text: "Hello World"})
	rec := httptest.NewRecorder()
	gate.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/send", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	var res budgetsms.SendResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "12345678", res.ID)

	// validation failures never reach the gateway
	body, _ = json.Marshal(sendRequest{To: "bad number", Text: "Hello"})
	rec = httptest.NewRecorder()
	gate.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/send", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerGatewayError(t *testing.T) {
	gate := testGate(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ERR 1001"))
	})
	body, _ := json.Marshal(sendRequest{To: "31612345678", Text: "Hello"})
	rec := httptest.NewRecorder()
	gate.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/send", bytes.NewReader(body)))
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, budgetsms.CodeNotEnoughCredits, resp.Code)
}

func TestHandlerStatusAndCredit(t *testing.T) {
	gate := testGate(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/checksms/":
			assert.Equal(t, "12345678", r.URL.Query().Get("smsid"))
			w.Write([]byte("OK 1"))
		case "/checkcredit/":
			w.Write([]byte("OK 13.37"))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	})
	rec := httptest.NewRecorder()
	gate.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/status/12345678", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var report budgetsms.DeliveryReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, budgetsms.StatusDelivered, report.Status)

	rec = httptest.NewRecorder()
	gate.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/credit", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"credit":13.37}`, rec.Body.String())
}
