package sms

import "unicode/utf16"

// Part size limits. A single SMS carries 160 GSM septets or 70 UCS-2
// characters; concatenated messages lose part of every segment to the
// UDH header, leaving 153 and 67.
const (
	gsmSingle  = 160
	gsmMulti   = 153
	ucs2Single = 70
	ucs2Multi  = 67
)

// Coding picks the cheapest data coding able to carry the text: the GSM
// default alphabet when every rune fits it, UCS-2 otherwise.
func Coding(text string) uint8 {
	for _, r := range text {
		if _, ok := gsmByte[r]; ok {
			continue
		}
		if _, ok := gsmExt[r]; ok {
			continue
		}
		return CodingUCS2
	}
	return CodingGSM
}

// septets returns the GSM septet count of the text. Extension-table
// characters occupy two septets.
func septets(text string) int {
	var n int
	for _, r := range text {
		if _, ok := gsmExt[r]; ok {
			n += 2
			continue
		}
		n++
	}
	return n
}

// Parts returns the number of SMS parts the text splits into when sent
// with the coding chosen by Coding. The empty string needs no parts.
func Parts(text string) int {
	if text == "" {
		return 0
	}
	if Coding(text) == CodingUCS2 {
		n := len(utf16.Encode([]rune(text)))
		if n <= ucs2Single {
			return 1
		}
		return (n + ucs2Multi - 1) / ucs2Multi
	}
	n := septets(text)
	if n <= gsmSingle {
		return 1
	}
	return (n + gsmMulti - 1) / gsmMulti
}
