package budgetsms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Params is the query parameter set of a single API call. Values may be
// strings, numbers or booleans; a nil value marks a parameter that must
// be left out of the encoded form entirely.
type Params map[string]any

// Encode renders the parameters as a query-string fragment without the
// leading "?". Booleans become the literal "1" or "0", the only form
// the gateway accepts; nil values are dropped and everything else uses
// its natural string representation. Keys are sorted for stable output,
// the protocol itself does not care about order.
func (p Params) Encode() string {
	keys := make([]string, 0, len(p))
	for k, v := range p {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(k))
		b.WriteByte('=')
		b.WriteString(escape(paramString(p[k])))
	}
	return b.String()
}

func paramString(v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return "1"
		}
		return "0"
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// escape percent-encodes one query component. url.QueryEscape is close,
// but encodes spaces as "+", which the gateway does not decode.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// parseResponse strips the OK/ERR envelope from a trimmed response body
// and returns the payload following "OK". A gateway-reported failure
// comes back as *APIError carrying the decimal code after "ERR", even
// when the code is one this package does not know. Anything that is
// neither OK nor ERR is a *FormatError.
func parseResponse(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, "ERR "); ok {
		code, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return "", &FormatError{Reason: "invalid error response format"}
		}
		return "", &APIError{Code: code}
	}
	if rest, ok := strings.CutPrefix(raw, "OK "); ok {
		return strings.TrimSpace(rest), nil
	}
	if raw == "OK" {
		return "", nil
	}
	return "", &FormatError{Reason: "unexpected API response format"}
}

// SendResult is the gateway's acknowledgement of a submitted message.
// Price, Parts, MccMnc and Credit are only filled when the matching
// request flag was set and the gateway returned a value at its
// position.
type SendResult struct {
	ID     string  `json:"id"`               // gateway message identifier
	Price  float64 `json:"price,omitempty"`  // cost of the complete message
	Parts  int     `json:"parts,omitempty"`  // number of billed message parts
	MccMnc string  `json:"mccmnc,omitempty"` // operator of the destination number
	Credit float64 `json:"credit,omitempty"` // remaining account balance after the send
}

// parseSendResult decodes a /sendsms/ or /testsms/ reply. The payload
// is positional and does not describe itself: it holds a value for
// every flag the request carried, in the order price/parts, mccmnc,
// credit, so the caller's own flags drive the decode. Passing flags
// that differ from the ones sent with the request assigns fields
// arbitrarily; that is a limitation of the wire format, not of this
// client. Optional fields the gateway left off the end of the payload
// are silently omitted from the result.
func parseSendResult(raw string, price, mccmnc, credit bool) (*SendResult, error) {
	payload, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(payload)
	if len(fields) == 0 {
		return nil, &FormatError{Reason: "invalid send response format"}
	}
	res := &SendResult{ID: fields[0]}
	rest := fields[1:]
	if price && len(rest) >= 2 {
		if res.Price, err = strconv.ParseFloat(rest[0], 64); err != nil {
			return nil, &FormatError{Reason: "invalid send response format"}
		}
		if res.Parts, err = strconv.Atoi(rest[1]); err != nil {
			return nil, &FormatError{Reason: "invalid send response format"}
		}
		rest = rest[2:]
	}
	if mccmnc && len(rest) >= 1 {
		res.MccMnc = rest[0]
		rest = rest[1:]
	}
	if credit && len(rest) >= 1 {
		if res.Credit, err = strconv.ParseFloat(rest[0], 64); err != nil {
			return nil, &FormatError{Reason: "invalid send response format"}
		}
	}
	return res, nil
}

// parseCredit decodes a /checkcredit/ reply: the payload is the account
// balance as a plain float.
func parseCredit(raw string) (float64, error) {
	payload, err := parseResponse(raw)
	if err != nil {
		return 0, err
	}
	credit, err := strconv.ParseFloat(payload, 64)
	if err != nil {
		return 0, &FormatError{Reason: "invalid credit response"}
	}
	return credit, nil
}

// Operator identifies the mobile network serving a number.
type Operator struct {
	MccMnc string  `json:"mccmnc"` // mobile country and network code
	Name   string  `json:"name"`   // operator display name
	Cost   float64 `json:"cost"`   // price of one message part to this network
}

// parseOperator decodes a /checkoperator/ or /hlr/ reply of the form
// "mccmnc:name:cost". Parts past the third are ignored.
func parseOperator(raw string) (*Operator, error) {
	payload, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(payload, ":")
	if len(parts) < 3 {
		return nil, &FormatError{Reason: "invalid operator response format"}
	}
	cost, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return nil, &FormatError{Reason: "invalid operator response format"}
	}
	return &Operator{MccMnc: parts[0], Name: parts[1], Cost: cost}, nil
}

// DeliveryReport is the result of one pull delivery-report query.
type DeliveryReport struct {
	SMSID  string         `json:"smsid"`
	Status DeliveryStatus `json:"status"`
}

// parseStatus decodes a /checksms/ reply: the payload is the delivery
// state as a plain integer. Values outside the documented set pass
// through untouched; the gateway may report states this package does
// not know yet.
func parseStatus(raw, smsID string) (*DeliveryReport, error) {
	payload, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	status, err := strconv.Atoi(payload)
	if err != nil {
		return nil, &FormatError{Reason: "invalid status response"}
	}
	return &DeliveryReport{SMSID: smsID, Status: DeliveryStatus(status)}, nil
}

// PricingEntry is one row of the account price list. The gateway
// documents its columns only loosely, so entries pass through without
// schema validation.
type PricingEntry map[string]any

// parsePricing decodes a /getpricing/ reply. Unlike every other
// endpoint the success payload is raw JSON, but failures still use the
// text envelope, so "ERR" bodies run through parseResponse first and
// the JSON branch is never attempted for them. The top-level value must
// be an array; "null" unmarshals into a nil slice without an error, so
// the shape is checked before decoding.
func parsePricing(raw string) ([]PricingEntry, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "ERR ") {
		if _, err := parseResponse(raw); err != nil {
			return nil, err
		}
	}
	if !strings.HasPrefix(trimmed, "[") {
		return nil, &FormatError{
			Reason: "failed to parse pricing response",
			Cause:  errors.New("top-level JSON value is not an array"),
		}
	}
	var entries []PricingEntry
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		return nil, &FormatError{Reason: "failed to parse pricing response", Cause: err}
	}
	return entries, nil
}
