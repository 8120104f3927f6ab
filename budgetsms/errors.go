package budgetsms

import (
	"fmt"
	"time"
)

// Gateway error codes. The thousands digit groups the codes: 1xxx
// authentication and account state, 2xxx message content, 3xxx routing,
// 4xxx gateway-side (mostly transient), 5xxx submission, 6xxx
// unclassified, 7xxx HLR lookups. The list follows the published
// BudgetSMS error table; the gateway may add codes at any time, which
// this package reports with a generic message instead of rejecting.
const (
	CodeNotEnoughCredits     = 1001
	CodeIdentificationFailed = 1002
	CodeAccountNotActive     = 1003
	CodeIPNotAllowed         = 1004
	CodeNoHandle             = 1005
	CodeNoUserID             = 1006
	CodeNoUsername           = 1007

	CodeEmptyMessage          = 2001
	CodeNumericSenderTooLong  = 2002
	CodeAlphaSenderTooLong    = 2003
	CodeInvalidSender         = 2004
	CodeDestinationTooShort   = 2005
	CodeDestinationNotNumeric = 2006
	CodeInvalidDestination    = 2007
	CodeMessageTooLong        = 2008
	CodeInvalidMessage        = 2009

	CodeNoRoute            = 3001
	CodeOperatorNotCovered = 3002
	CodeCountryNotCovered  = 3003

	CodeCustomIDError      = 4001
	CodeTemporaryRetry     = 4002
	CodeTemporary          = 4003
	CodeSystemError        = 4004
	CodeGatewayUnreachable = 4006
	CodeInternalError      = 4007

	CodeSendFailed   = 5001
	CodeSendRejected = 5002

	CodeUnknownError = 6001

	CodeNoHLRProvider    = 7001
	CodeHLRFailed        = 7002
	CodeHLRInvalidNumber = 7003
)

var errorText = map[int]string{
	CodeNotEnoughCredits:     "not enough credits to send the message",
	CodeIdentificationFailed: "identification failed: wrong username, userid or handle",
	CodeAccountNotActive:     "account is not active",
	CodeIPNotAllowed:         "this IP address is not allowed",
	CodeNoHandle:             "no handle provided",
	CodeNoUserID:             "no userid provided",
	CodeNoUsername:           "no username provided",

	CodeEmptyMessage:          "message text is empty",
	CodeNumericSenderTooLong:  "numeric sender id can be at most 16 digits",
	CodeAlphaSenderTooLong:    "alphanumeric sender id can be at most 11 characters",
	CodeInvalidSender:         "sender id is empty or invalid",
	CodeDestinationTooShort:   "destination number is too short",
	CodeDestinationNotNumeric: "destination number is not numeric",
	CodeInvalidDestination:    "destination number is invalid",
	CodeMessageTooLong:        "message text is too long",
	CodeInvalidMessage:        "message text is invalid",

	CodeNoRoute:            "no route available for the destination",
	CodeOperatorNotCovered: "destination operator is not covered",
	CodeCountryNotCovered:  "destination country is not covered",

	CodeCustomIDError:      "internal error related to the supplied customid",
	CodeTemporaryRetry:     "temporary gateway error, retry in a few minutes",
	CodeTemporary:          "temporary gateway error",
	CodeSystemError:        "gateway system error",
	CodeGatewayUnreachable: "gateway not reachable",
	CodeInternalError:      "internal gateway error, contact support",

	CodeSendFailed:   "message could not be submitted to the operator",
	CodeSendRejected: "message rejected by the operator",

	CodeUnknownError: "unknown gateway error",

	CodeNoHLRProvider:    "no HLR provider available",
	CodeHLRFailed:        "unexpected HLR lookup result",
	CodeHLRInvalidNumber: "destination number not valid for HLR lookup",
}

// ErrorText returns the canonical message of a gateway error code, or
// the empty string if the code is not in the published table.
func ErrorText(code int) string {
	return errorText[code]
}

// Category groups the gateway error codes by their thousands digit.
type Category int

const (
	CategoryUnknown Category = iota // outside every documented range
	CategoryAuth                    // authentication and account state
	CategoryContent                 // message content and addressing
	CategoryRouting                 // routing and coverage
	CategorySystem                  // gateway-side, mostly transient
	CategorySend                    // submission failures
	CategoryOther                   // unclassified gateway errors
	CategoryHLR                     // HLR lookups
)

var categoryText = map[Category]string{
	CategoryUnknown: "unknown",
	CategoryAuth:    "authentication",
	CategoryContent: "content",
	CategoryRouting: "routing",
	CategorySystem:  "system",
	CategorySend:    "send",
	CategoryOther:   "other",
	CategoryHLR:     "hlr",
}

func (c Category) String() string {
	if s, ok := categoryText[c]; ok {
		return s
	}
	return "unknown"
}

// APIError is a failure the gateway reported explicitly with an
// "ERR <code>" response. The classification methods are advisory: the
// client itself never retries or otherwise acts on them.
type APIError struct {
	Code int
}

// Error returns the canonical message of the code, or a generic one for
// codes outside the published table.
func (e *APIError) Error() string {
	if msg := errorText[e.Code]; msg != "" {
		return msg
	}
	return fmt.Sprintf("BudgetSMS API error: %d", e.Code)
}

// Category returns the documented range the code falls into.
func (e *APIError) Category() Category {
	switch e.Code / 1000 {
	case 1:
		return CategoryAuth
	case 2:
		return CategoryContent
	case 3:
		return CategoryRouting
	case 4:
		return CategorySystem
	case 5:
		return CategorySend
	case 6:
		return CategoryOther
	case 7:
		return CategoryHLR
	default:
		return CategoryUnknown
	}
}

// Retryable reports whether the gateway marks the code as a temporary
// condition worth retrying after a short delay.
func (e *APIError) Retryable() bool {
	switch e.Code {
	case CodeTemporaryRetry, CodeTemporary, CodeGatewayUnreachable:
		return true
	}
	return false
}

// AuthFailed reports whether the code indicates broken credentials or a
// blocked account rather than a problem with the message itself.
func (e *APIError) AuthFailed() bool {
	switch e.Code {
	case CodeIdentificationFailed, CodeAccountNotActive, CodeIPNotAllowed,
		CodeNoHandle, CodeNoUserID, CodeNoUsername:
		return true
	}
	return false
}

// InsufficientCredits reports whether the account ran out of balance.
func (e *APIError) InsufficientCredits() bool {
	return e.Code == CodeNotEnoughCredits
}

// FormatError reports a response that matches no shape this client
// knows for the endpoint that was called: wrong token count, a
// non-numeric field or broken JSON. It usually means the gateway
// changed its wire format, so the response is surfaced as-is instead of
// being coerced into something plausible.
type FormatError struct {
	Reason string
	Cause  error // underlying parser error, when one exists
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return e.Reason + ": " + e.Cause.Error()
	}
	return e.Reason
}

func (e *FormatError) Unwrap() error { return e.Cause }

// TransportError is an HTTP or network failure below the text protocol:
// a connection problem or a non-2xx status. The gateway reports its own
// failures inside a 200 response, so a TransportError never carries a
// gateway error code.
type TransportError struct {
	Status int   // HTTP status, 0 when the request never completed
	Cause  error // network error, nil on a bad status
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("unexpected HTTP status %d", e.Status)
	}
	return "request failed: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error { return e.Cause }

// TimeoutError reports that the configured request timeout elapsed
// before the gateway answered. It is distinct from TransportError so
// callers can apply a different retry policy to slow responses than to
// hard failures.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.Timeout)
}
