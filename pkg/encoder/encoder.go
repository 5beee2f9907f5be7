package encoder

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// numericReference matches decimal (&#62;) and hexadecimal (&#x3E;) character
// references. Named references are left alone.
var numericReference = regexp.MustCompile(`&#([0-9]+|[xX][0-9a-fA-F]+);`)

// HTML is the encoder used by the link filter.
type HTML struct{}

// Escape escapes the characters that are significant in HTML text and
// attribute values.
func (HTML) Escape(s string) string {
	return html.EscapeString(s)
}

// Unescape decodes numeric character references. Invalid references are
// kept verbatim.
func (HTML) Unescape(s string) string {
	if !strings.Contains(s, "&#") {
		return s
	}
	return numericReference.ReplaceAllStringFunc(s, func(ref string) string {
		digits := ref[2 : len(ref)-1]
		base := 10
		if digits[0] == 'x' || digits[0] == 'X' {
			digits, base = digits[1:], 16
		}
		code, err := strconv.ParseInt(digits, base, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			return ref
		}
		return string(rune(code))
	})
}

// ToEntity renders r as a decimal character reference.
func (HTML) ToEntity(r rune) string {
	return "&#" + strconv.Itoa(int(r)) + ";"
}
