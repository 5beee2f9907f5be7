package linkfilter

import (
	"bytes"
	"io"
)

// Link is what the resolver hands to a WikiEngine. Attributes are
// serialised href first, then target.
type Link struct {
	Reference string
	Text      string
	Anchor    string // empty when the link has no fragment
	Target    string // frame or window name, empty for none
}

// WikiEngine knows which pages exist and how to link to them.
type WikiEngine interface {
	Exists(reference string) bool
	ShowCreate() bool
	AppendLink(buf *bytes.Buffer, link Link)
	AppendCreateLink(buf *bytes.Buffer, link Link)
}

// InterWikiRegistry maps aliases to remote wikis. An empty anchor means
// the reference carries no fragment.
type InterWikiRegistry interface {
	Contains(alias string) bool
	Expand(w io.Writer, alias, reference, text, anchor string) error
}

// Encoder escapes and unescapes HTML text.
type Encoder interface {
	Unescape(s string) string
	Escape(s string) string
	ToEntity(r rune) string
}
