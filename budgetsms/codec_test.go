package budgetsms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsEncode(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"empty", Params{}, ""},
		{"strings", Params{"to": "31612345678", "from": "Example"}, "from=Example&to=31612345678"},
		{"bool true", Params{"price": true}, "price=1"},
		{"bool false", Params{"price": false}, "price=0"},
		{"nil omitted", Params{"to": "31612345678", "customid": nil}, "to=31612345678"},
		{"int", Params{"count": 3}, "count=3"},
		{"float", Params{"credit": 1.5}, "credit=1.5"},
		{"space escapes to %20", Params{"msg": "Hello World"}, "msg=Hello%20World"},
		{"reserved characters", Params{"msg": "a&b=c"}, "msg=a%26b%3Dc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Encode())
		})
	}
}

// Encoding and standard query decoding must round-trip every entry with
// a present value.
func TestParamsEncodeRoundTrip(t *testing.T) {
	params := Params{
		"username": "user name",
		"userid":   21543,
		"handle":   "abcdef0123",
		"msg":      "Hello & goodbye = fine",
		"price":    true,
		"mccmnc":   false,
	}
	values, err := url.ParseQuery(params.Encode())
	require.NoError(t, err)
	assert.Equal(t, url.Values{
		"username": {"user name"},
		"userid":   {"21543"},
		"handle":   {"abcdef0123"},
		"msg":      {"Hello & goodbye = fine"},
		"price":    {"1"},
		"mccmnc":   {"0"},
	}, values)
}

func TestParseResponse(t *testing.T) {
	payload, err := parseResponse("OK 12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", payload)

	payload, err = parseResponse("OK")
	require.NoError(t, err)
	assert.Equal(t, "", payload)

	payload, err = parseResponse("  OK 12345\n")
	require.NoError(t, err)
	assert.Equal(t, "12345", payload)

	_, err = parseResponse("ERR 1001")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 1001, apiErr.Code)

	// unknown codes still construct an error
	_, err = parseResponse("ERR 9999")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 9999, apiErr.Code)
	assert.Equal(t, "BudgetSMS API error: 9999", apiErr.Error())

	var formatErr *FormatError
	_, err = parseResponse("ERR notanumber")
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "invalid error response format", formatErr.Error())

	_, err = parseResponse("GARBAGE")
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "unexpected API response format", formatErr.Error())

	_, err = parseResponse("")
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseSendResult(t *testing.T) {
	res, err := parseSendResult("OK 12345678", false, false, false)
	require.NoError(t, err)
	assert.Equal(t, &SendResult{ID: "12345678"}, res)

	res, err = parseSendResult("OK 12345678 0.055 1 20416", true, true, false)
	require.NoError(t, err)
	assert.Equal(t, &SendResult{ID: "12345678", Price: 0.055, Parts: 1, MccMnc: "20416"}, res)

	res, err = parseSendResult("OK 12345678 0.055 2 20416 13.370", true, true, true)
	require.NoError(t, err)
	assert.Equal(t, &SendResult{
		ID: "12345678", Price: 0.055, Parts: 2, MccMnc: "20416", Credit: 13.37,
	}, res)

	// optional fields the gateway left off the end are not an error
	res, err = parseSendResult("OK 12345678", true, true, true)
	require.NoError(t, err)
	assert.Equal(t, &SendResult{ID: "12345678"}, res)

	// mccmnc consumed before credit when only one token remains
	res, err = parseSendResult("OK 12345678 20416", false, true, true)
	require.NoError(t, err)
	assert.Equal(t, &SendResult{ID: "12345678", MccMnc: "20416"}, res)

	var formatErr *FormatError
	_, err = parseSendResult("OK", false, false, false)
	assert.ErrorAs(t, err, &formatErr)

	_, err = parseSendResult("OK 12345678 notaprice 1", true, false, false)
	assert.ErrorAs(t, err, &formatErr)

	var apiErr *APIError
	_, err = parseSendResult("ERR 2005", false, false, false)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeDestinationTooShort, apiErr.Code)
}

func TestParseCredit(t *testing.T) {
	credit, err := parseCredit("OK 13.3707")
	require.NoError(t, err)
	assert.Equal(t, 13.3707, credit)

	var formatErr *FormatError
	_, err = parseCredit("OK notanumber")
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "invalid credit response", formatErr.Error())

	_, err = parseCredit("OK")
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseOperator(t *testing.T) {
	op, err := parseOperator("OK 20416:T-Mobile Netherlands BV:0.0450")
	require.NoError(t, err)
	assert.Equal(t, &Operator{MccMnc: "20416", Name: "T-Mobile Netherlands BV", Cost: 0.045}, op)

	// parts past the third are ignored
	op, err = parseOperator("OK 20416:T-Mobile:0.0450:extra")
	require.NoError(t, err)
	assert.Equal(t, "20416", op.MccMnc)

	var formatErr *FormatError
	_, err = parseOperator("OK 20416:T-Mobile")
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "invalid operator response format", formatErr.Error())

	_, err = parseOperator("OK 20416:T-Mobile:notacost")
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseStatus(t *testing.T) {
	report, err := parseStatus("OK 1", "12345678")
	require.NoError(t, err)
	assert.Equal(t, &DeliveryReport{SMSID: "12345678", Status: StatusDelivered}, report)

	// values outside the documented set pass through untouched
	report, err = parseStatus("OK 9", "12345678")
	require.NoError(t, err)
	assert.Equal(t, DeliveryStatus(9), report.Status)

	var formatErr *FormatError
	_, err = parseStatus("OK pending", "12345678")
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "invalid status response", formatErr.Error())
}

func TestParsePricing(t *testing.T) {
	entries, err := parsePricing(`[{"mccmnc":"20416","price":0.045},{"mccmnc":"20408","price":0.05}]`)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "20416", entries[0]["mccmnc"])

	var apiErr *APIError
	_, err = parsePricing("ERR 1002")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeIdentificationFailed, apiErr.Code)

	var formatErr *FormatError
	_, err = parsePricing("not json at all")
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, formatErr.Error(), "failed to parse pricing response")

	// valid JSON but not an array
	_, err = parsePricing(`{"mccmnc":"20416"}`)
	assert.ErrorAs(t, err, &formatErr)

	// "null" unmarshals into a nil slice without an error and must not
	// pass for an empty price list
	_, err = parsePricing("null")
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, formatErr.Error(), "failed to parse pricing response")

	entries, err = parsePricing("[]")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// Decoders hold no state: a second decode of the same body yields the
// same result.
func TestDecodeIdempotent(t *testing.T) {
	const raw = "OK 12345678 0.055 1 20416"
	first, err := parseSendResult(raw, true, true, false)
	require.NoError(t, err)
	second, err := parseSendResult(raw, true, true, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
