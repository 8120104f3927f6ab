// Package budgetsms implements a client for the BudgetSMS HTTP API.
//
// The gateway speaks a minimal positional text protocol: every response
// is a single line starting with "OK", optionally followed by a payload,
// or "ERR <code>". The one exception is the pricing endpoint, which
// answers with raw JSON. Gateway failures are reported as *APIError,
// unrecognizable responses as *FormatError and HTTP or network level
// problems as *TransportError or *TimeoutError.
package budgetsms

import (
	"context"
	"errors"
	"expvar"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// request counters
var counts = expvar.NewMap("budgetsms")

// Default API location and per-request timeout.
const (
	DefaultURL     = "https://api.budgetsms.net"
	DefaultTimeout = 30 * time.Second
)

// UserAgent string.
var UserAgent = "SMSGate/1.0"

// API endpoints.
const (
	sendPath     = "/sendsms/"
	testPath     = "/testsms/"
	creditPath   = "/checkcredit/"
	operatorPath = "/checkoperator/"
	hlrPath      = "/hlr/"
	statusPath   = "/checksms/"
	pricingPath  = "/getpricing/"
)

// Client sends requests to the BudgetSMS API. Username, UserID and
// Handle are the account credentials from the BudgetSMS control panel;
// they are attached to every request unmodified and never validated on
// this side. Leaving BaseURL or Timeout at their zero value selects
// DefaultURL and DefaultTimeout.
//
// A Client holds no mutable state, so concurrent calls on one instance
// are independent and safe. Every method performs exactly one GET
// request and never retries: the classification methods of APIError
// tell the caller which failures are worth retrying, but the policy
// stays outside this package.
type Client struct {
	Username string
	UserID   string
	Handle   string
	BaseURL  string
	Timeout  time.Duration
	Logger   *logrus.Entry // optional log for raw responses

	client http.Client
}

// Message describes a single outgoing SMS.
//
// The gateway's send reply is purely positional: it carries a value for
// every Want flag that was set on the request, in the fixed order
// price/parts, mccmnc, credit. The same flags drive the response
// decoder, so the returned SendResult only has the fields requested
// here.
type Message struct {
	From     string // sender id shown to the recipient
	To       string // destination number, international digits only
	Body     string // message text
	CustomID string // optional caller-supplied message identifier

	WantPrice  bool // report the message cost and billed part count
	WantMccMnc bool // report the operator of the destination number
	WantCredit bool // report the remaining account balance
}

// Send submits the message for delivery.
func (c *Client) Send(ctx context.Context, msg Message) (*SendResult, error) {
	counts.Add("send", 1)
	return c.send(ctx, sendPath, msg)
}

// Test runs the message through the full send pipeline without
// delivering it or consuming credit. Request and response formats are
// identical to Send.
func (c *Client) Test(ctx context.Context, msg Message) (*SendResult, error) {
	counts.Add("test", 1)
	return c.send(ctx, testPath, msg)
}

func (c *Client) send(ctx context.Context, path string, msg Message) (*SendResult, error) {
	params := Params{
		"msg":  msg.Body,
		"from": msg.From,
		"to":   msg.To,
	}
	if msg.CustomID != "" {
		params["customid"] = msg.CustomID
	}
	if msg.WantPrice {
		params["price"] = true
	}
	if msg.WantMccMnc {
		params["mccmnc"] = true
	}
	if msg.WantCredit {
		params["credit"] = true
	}
	raw, err := c.do(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return parseSendResult(raw, msg.WantPrice, msg.WantMccMnc, msg.WantCredit)
}

// Credit returns the remaining account balance.
func (c *Client) Credit(ctx context.Context) (float64, error) {
	counts.Add("credit", 1)
	raw, err := c.do(ctx, creditPath, Params{})
	if err != nil {
		return 0, err
	}
	return parseCredit(raw)
}

// Operator resolves the operator of a number from the gateway's own
// numbering tables, without querying the mobile network.
func (c *Client) Operator(ctx context.Context, number string) (*Operator, error) {
	counts.Add("operator", 1)
	raw, err := c.do(ctx, operatorPath, Params{"check": number})
	if err != nil {
		return nil, err
	}
	return parseOperator(raw)
}

// HLR performs a live HLR lookup of the number and returns the operator
// currently serving it.
func (c *Client) HLR(ctx context.Context, number string) (*Operator, error) {
	counts.Add("hlr", 1)
	raw, err := c.do(ctx, hlrPath, Params{"to": number})
	if err != nil {
		return nil, err
	}
	return parseOperator(raw)
}

// Status pulls the delivery report of a previously sent message.
func (c *Client) Status(ctx context.Context, smsID string) (*DeliveryReport, error) {
	counts.Add("status", 1)
	raw, err := c.do(ctx, statusPath, Params{"smsid": smsID})
	if err != nil {
		return nil, err
	}
	return parseStatus(raw, smsID)
}

// Pricing returns the account price list.
func (c *Client) Pricing(ctx context.Context) ([]PricingEntry, error) {
	counts.Add("pricing", 1)
	raw, err := c.do(ctx, pricingPath, Params{})
	if err != nil {
		return nil, err
	}
	return parsePricing(raw)
}

// do performs a single GET request against the gateway and returns the
// raw response body. The configured timeout is armed per request and
// always disarmed on completion.
func (c *Client) do(ctx context.Context, path string, params Params) (string, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultURL
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	params["username"] = c.Username
	params["userid"] = c.UserID
	params["handle"] = c.Handle

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", base+path+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	if UserAgent != "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.transportErr(parent, err, timeout)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.transportErr(parent, err, timeout)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{Status: resp.StatusCode}
	}
	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{
			"path":     path,
			"response": string(body),
		}).Debug("API response")
	}
	return string(body), nil
}

// transportErr classifies a failed request. A TimeoutError is reported
// only when the client's own per-request timer fired; when the caller's
// context carried the shorter deadline or was canceled, its error comes
// back unchanged so the caller sees the condition it created.
func (c *Client) transportErr(parent context.Context, err error, timeout time.Duration) error {
	switch {
	case errors.Is(err, context.Canceled):
		return context.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		if parent.Err() != nil {
			return parent.Err()
		}
		return &TimeoutError{Timeout: timeout}
	default:
		return &TransportError{Cause: err}
	}
}
