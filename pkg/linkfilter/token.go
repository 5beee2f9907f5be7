package linkfilter

import "strings"

const entityGT = "&gt;"

// delimiters are tried in order; the first spelling present in the string
// wins even when a later spelling occurs further left.
var delimiters = []string{"|", ">", entityGT}

// Token is a parsed link token.
type Token struct {
	Raw          string // inner text as captured, before unescaping
	Text         string
	Reference    string
	Anchor       string
	Target       string
	ExplicitText bool
}

// ParseToken splits the inner text of a [...] token into display text,
// reference and frame target.
func ParseToken(inner string, enc Encoder) Token {
	tok := Token{Raw: inner}
	s := strings.TrimSpace(enc.Unescape(inner))

	if before, after, ok := cutDelimiter(s); ok {
		tok.Text = strings.TrimSpace(before)
		tok.ExplicitText = true
		s = strings.TrimSpace(after)
	}
	if before, after, ok := cutDelimiter(s); ok {
		tok.Target = strings.TrimSpace(after)
		s = before
	}

	tok.Reference = strings.TrimSpace(s)
	if !tok.ExplicitText {
		tok.Text = tok.Reference
	}
	return tok
}

func cutDelimiter(s string) (before, after string, found bool) {
	for _, d := range delimiters {
		if i := strings.Index(s, d); i >= 0 {
			return s[:i], s[i+len(d):], true
		}
	}
	return s, "", false
}

// withAnchor moves a trailing #fragment from the reference into Anchor.
// A # in last position is not an anchor and stays in the reference.
func (t Token) withAnchor() Token {
	i := strings.LastIndexByte(t.Reference, '#')
	if i < 0 || i == len(t.Reference)-1 {
		return t
	}
	t.Anchor = t.Reference[i+1:]
	t.Reference = t.Reference[:i]
	return t
}
