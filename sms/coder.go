// Package sms converts message text between UTF-8 and the encodings
// used on the SMS side, and counts the parts a text splits into. The
// gateway stays the authority on billed parts; the counters here exist
// for validation, logging and accounting before a message is sent.
package sms

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Data codings as used in SMS transport.
const (
	CodingGSM    uint8 = 0 // GSM 03.38 default alphabet
	CodingLatin1 uint8 = 3 // windows-1252
	CodingUCS2   uint8 = 8 // UCS-2 big endian
)

// gsmAlphabet holds the GSM 03.38 default alphabet: the rune at index i
// is the character with septet value i. Index 0x1B is the escape to the
// extension table.
const gsmAlphabet = "@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞ\x1bÆæßÉ" +
	` !"#¤%&'()*+,-./0123456789:;<=>?` +
	"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§" +
	"¿abcdefghijklmnopqrstuvwxyzäöñüà"

// gsmExt is the GSM 03.38 extension table: characters reached with an
// escape septet and therefore occupying two septets each.
var gsmExt = map[rune]byte{
	'\f': 0x0A,
	'^':  0x14,
	'{':  0x28,
	'}':  0x29,
	'\\': 0x2F,
	'[':  0x3C,
	'~':  0x3D,
	']':  0x3E,
	'|':  0x40,
	'€':  0x65,
}

var (
	gsmByte    = make(map[rune]byte, len(gsmAlphabet))
	gsmExtRune = make(map[byte]rune, len(gsmExt))
)

func init() {
	var i byte
	for _, r := range gsmAlphabet {
		if r != 0x1B {
			gsmByte[r] = i
		}
		i++
	}
	for r, b := range gsmExt {
		gsmExtRune[b] = r
	}
}

// Decode converts raw SMS bytes in the given coding to a UTF-8 string.
func Decode(code uint8, text []byte) string {
	switch code {
	case CodingUCS2:
		es, _, _ := transform.Bytes(
			unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), text)
		return string(es)
	case CodingLatin1:
		es, _, _ := transform.Bytes(charmap.Windows1252.NewDecoder(), text)
		return string(es)
	case CodingGSM:
		var result strings.Builder
		runes := []rune(gsmAlphabet)
		for i := 0; i < len(text); i++ {
			b := text[i]
			if b == 0x1B && i+1 < len(text) {
				i++
				if r, ok := gsmExtRune[text[i]]; ok {
					result.WriteRune(r)
				}
				continue
			}
			if int(b) < len(runes) {
				result.WriteRune(runes[b])
			}
		}
		return result.String()
	default:
		return string(text)
	}
}

// Encode converts a UTF-8 string to raw SMS bytes in the given coding.
// Characters the target alphabet cannot represent become '?'.
func Encode(code uint8, text string) []byte {
	switch code {
	case CodingUCS2:
		enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
		es, _, _ := transform.Bytes(enc, []byte(text))
		return es
	case CodingLatin1:
		es, _, _ := transform.Bytes(charmap.Windows1252.NewEncoder(), []byte(text))
		return es
	case CodingGSM:
		var result bytes.Buffer
		for _, r := range text {
			if b, ok := gsmByte[r]; ok {
				result.WriteByte(b)
				continue
			}
			if b, ok := gsmExt[r]; ok {
				result.WriteByte(0x1B)
				result.WriteByte(b)
				continue
			}
			result.WriteByte('?')
		}
		return result.Bytes()
	default:
		return []byte(text)
	}
}
