package budgetsms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhoneNumber(t *testing.T) {
	tests := []struct {
		number string
		want   bool
	}{
		{"31612345678", true},
		{"12345678", true},          // 8 digits, lower bound
		{"1234567890123456", true},  // 16 digits, upper bound
		{"1234567", false},          // 7 digits
		{"12345678901234567", false}, // 17 digits
		{"+31612345678", false},
		{"316 12345678", false},
		{"3161234567a", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPhoneNumber(tt.number), "number %q", tt.number)
	}
}

func TestValidSender(t *testing.T) {
	tests := []struct {
		sender string
		want   bool
	}{
		{"Example", true},
		{"A", true},
		{"Example2015", true},                // 11 alphanumeric, upper bound
		{"Example2015X", false},              // 12 alphanumeric
		{"31612345678", true},                // numeric may be longer
		{"1234567890123456", true},           // 16 digits, upper bound
		{"12345678901234567", false},         // 17 digits
		{"", false},
		{"Ex ample", false},
		{"Example!", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidSender(tt.sender), "sender %q", tt.sender)
	}
}

func TestValidMessage(t *testing.T) {
	assert.False(t, ValidMessage(""))
	assert.True(t, ValidMessage("a"))
	assert.True(t, ValidMessage(strings.Repeat("a", 612)))
	assert.False(t, ValidMessage(strings.Repeat("a", 613)))
	// length counts UTF-16 code units, so astral-plane runes count double
	assert.True(t, ValidMessage(strings.Repeat("\U0001F600", 306)))
	assert.False(t, ValidMessage(strings.Repeat("\U0001F600", 307)))
}
