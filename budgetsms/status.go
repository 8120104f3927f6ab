package budgetsms

import "strconv"

// DeliveryStatus is the delivery state of a sent message as reported by
// a pull delivery report. The numbering follows the published DLR
// status table and is intentionally not contiguous: 9 and 10 are
// unused. Values outside the documented set decode without error and
// simply have no canonical description.
type DeliveryStatus int

// Delivery states from the published DLR status table.
const (
	StatusPending       DeliveryStatus = 0  // submitted, no report yet
	StatusDelivered     DeliveryStatus = 1  // delivered to the handset
	StatusNotSent       DeliveryStatus = 2  // never handed to an operator
	StatusFailed        DeliveryStatus = 3  // delivery failed
	StatusQueued        DeliveryStatus = 4  // queued at the operator
	StatusExpired       DeliveryStatus = 5  // expired before delivery
	StatusRejected      DeliveryStatus = 6  // rejected by the operator
	StatusUndeliverable DeliveryStatus = 7  // handset cannot receive it
	StatusAccepted      DeliveryStatus = 8  // accepted by the operator
	StatusUnknown       DeliveryStatus = 11 // operator reported no state
	StatusScheduled     DeliveryStatus = 12 // scheduled for later delivery
	StatusCanceled      DeliveryStatus = 13 // delivery canceled
)

var statusText = map[DeliveryStatus]string{
	StatusPending:       "message sent, no status available yet",
	StatusDelivered:     "message delivered to handset",
	StatusNotSent:       "message was not sent",
	StatusFailed:        "message delivery failed",
	StatusQueued:        "message queued at the operator",
	StatusExpired:       "message expired before delivery",
	StatusRejected:      "message rejected by the operator",
	StatusUndeliverable: "message cannot be delivered to this handset",
	StatusAccepted:      "message accepted by the operator",
	StatusUnknown:       "delivery state unknown",
	StatusScheduled:     "message scheduled for later delivery",
	StatusCanceled:      "message delivery canceled",
}

// StatusText returns the canonical description of a delivery state, or
// the empty string for values outside the published status table.
func StatusText(s DeliveryStatus) string {
	return statusText[s]
}

func (s DeliveryStatus) String() string {
	if msg, ok := statusText[s]; ok {
		return msg
	}
	return "delivery status " + strconv.Itoa(int(s))
}

// Final reports whether the state is terminal: the gateway will not
// replace it in a later report, so polling can stop.
func (s DeliveryStatus) Final() bool {
	switch s {
	case StatusDelivered, StatusNotSent, StatusFailed, StatusExpired,
		StatusRejected, StatusUndeliverable, StatusCanceled:
		return true
	}
	return false
}
