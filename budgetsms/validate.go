package budgetsms

import (
	"regexp"
	"unicode/utf16"
)

// MaxMessageLength is the longest message body the gateway accepts,
// counted in UTF-16 code units the same way the gateway counts
// characters for multipart accounting.
const MaxMessageLength = 612

var (
	phoneRE       = regexp.MustCompile(`^\d{8,16}$`)
	alphaSenderRE = regexp.MustCompile(`^[A-Za-z0-9]{1,11}$`)
	numSenderRE   = regexp.MustCompile(`^\d{1,16}$`)
)

// ValidPhoneNumber reports whether s is a destination number the
// gateway accepts: 8 to 16 digits in international format, without a
// "+" prefix or separators.
func ValidPhoneNumber(s string) bool {
	return phoneRE.MatchString(s)
}

// ValidSender reports whether s is a usable sender id: up to 11
// alphanumeric characters, or up to 16 digits for a numeric sender.
func ValidSender(s string) bool {
	return alphaSenderRE.MatchString(s) || numSenderRE.MatchString(s)
}

// ValidMessage reports whether the message body fits in one
// submission: 1 to MaxMessageLength UTF-16 code units.
func ValidMessage(s string) bool {
	n := len(utf16.Encode([]rune(s)))
	return n >= 1 && n <= MaxMessageLength
}
