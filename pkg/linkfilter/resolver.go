package linkfilter

import (
	"bytes"
	"strings"
	"unicode/utf8"

	log "github.com/schollz/logger"

	"argc.in/wikilinks/pkg/encoder"
)

// Match is one bracketed token found by the scanner.
type Match struct {
	Raw   string // the whole match, brackets included
	Inner string // text between the brackets
}

// Result reports how a resolved token affects the page being rendered.
type Result struct {
	// Uncacheable is set when a "create this page" link was emitted: the
	// page may be created before a cached rendering expires.
	Uncacheable bool
}

// Resolver renders link tokens. A Resolver built without a wiki engine is
// in plain mode and emits every token as escaped text. Resolvers are
// immutable and safe for concurrent use when their capabilities are.
type Resolver struct {
	engine    WikiEngine
	interwiki InterWikiRegistry
	enc       Encoder
}

// Option configures a Resolver built by New.
type Option func(*Resolver)

// WithWikiEngine enables link rendering. Passing nil keeps plain mode.
func WithWikiEngine(engine WikiEngine) Option {
	return func(r *Resolver) {
		r.engine = engine
	}
}

// WithInterWiki sets the registry consulted for Page@Alias references.
func WithInterWiki(reg InterWikiRegistry) Option {
	return func(r *Resolver) {
		r.interwiki = reg
	}
}

// WithEncoder replaces the default HTML encoder. A nil encoder is ignored.
func WithEncoder(enc Encoder) Option {
	return func(r *Resolver) {
		if enc != nil {
			r.enc = enc
		}
	}
}

// New returns a Resolver configured by opts.
func New(opts ...Option) *Resolver {
	r := &Resolver{enc: encoder.HTML{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Plain reports whether the resolver only escapes tokens.
func (r *Resolver) Plain() bool {
	return r.engine == nil
}

// Resolve appends the rendering of m to buf. Malformed tokens never fail:
// they degrade to escaped text, an inline error marker or nothing at all.
func (r *Resolver) Resolve(buf *bytes.Buffer, m Match) (res Result) {
	if r.engine == nil {
		buf.WriteString(r.enc.Escape(m.Raw))
		return
	}
	if strings.TrimSpace(m.Inner) == "" {
		return
	}

	c := Classify(ParseToken(m.Inner, r.enc), r.interwiki, r.engine)
	tok := c.Token
	switch c.Kind {
	case KindExternal, KindMailto:
		r.writeExternal(buf, tok)

	case KindInterWiki:
		mark := buf.Len()
		if err := r.interwiki.Expand(buf, c.Alias, tok.Reference, tok.Text, tok.Anchor); err != nil {
			buf.Truncate(mark)
			log.Debugf("interwiki %s not expanded for %q: %s", c.Alias, tok.Reference, err)
		}

	case KindInterWikiUnknown:
		buf.WriteString(`&#91;<span class="error">`)
		buf.WriteString(m.Inner)
		buf.WriteString(`?</span>&#93;`)

	case KindInternalExisting:
		link := Link{Reference: tok.Reference, Text: tok.Text, Target: tok.Target}
		// The anchor is only threaded through when the label is derived
		// from the reference; an explicit label drops it.
		if !tok.ExplicitText {
			link.Text = WikiView(tok.Reference)
			link.Anchor = tok.Anchor
		}
		r.engine.AppendLink(buf, link)

	case KindInternalMissing:
		if !r.engine.ShowCreate() {
			// no anchor to carry the frame target, so it is dropped
			buf.WriteString(tok.Text)
			return
		}
		link := Link{Reference: tok.Reference, Text: tok.Text, Target: tok.Target}
		if !tok.ExplicitText {
			link.Text = WikiView(tok.Reference)
		}
		r.engine.AppendCreateLink(buf, link)
		res.Uncacheable = true
	}
	return
}

func (r *Resolver) writeExternal(buf *bytes.Buffer, tok Token) {
	buf.WriteString(`<span class="wikiexternallink"><a href="`)
	buf.WriteString(tok.Reference)
	buf.WriteString(`"`)
	if tok.Target != "" {
		buf.WriteString(` target="`)
		buf.WriteString(tok.Target)
		buf.WriteString(`"`)
	}
	buf.WriteString(">")
	if tok.Text != "" {
		first, size := utf8.DecodeRuneInString(tok.Text)
		buf.WriteString(r.enc.ToEntity(first))
		buf.WriteString(tok.Text[size:])
	}
	buf.WriteString("</a></span>")
}
