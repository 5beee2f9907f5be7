package linkfilter

import "strings"

// maxSchemeOffset bounds where "://" may start for a reference to count as
// a URL, so a page name containing "://" further in stays internal.
const maxSchemeOffset = 10

const mailtoPrefix = "mailto:"

// Kind is the class of a link reference.
type Kind int

const (
	KindInternalMissing Kind = iota
	KindInternalExisting
	KindExternal
	KindMailto
	KindInterWiki
	KindInterWikiUnknown
)

func (k Kind) String() string {
	switch k {
	case KindInternalMissing:
		return "internal-missing"
	case KindInternalExisting:
		return "internal-existing"
	case KindExternal:
		return "external"
	case KindMailto:
		return "mailto"
	case KindInterWiki:
		return "interwiki"
	case KindInterWikiUnknown:
		return "interwiki-unknown"
	}
	return "unknown"
}

// Classification is the outcome of Classify. For every kind except
// KindExternal and KindMailto, Token has its anchor split off; for
// KindInterWiki the alias is also removed from the reference.
type Classification struct {
	Kind  Kind
	Token Token
	Alias string
}

// Classify decides how tok is rendered. The checks run in a fixed order:
// URL or mailto, then inter-wiki, then internal. Either capability may be
// nil; a nil registry knows no alias and a nil engine knows no page.
func Classify(tok Token, reg InterWikiRegistry, engine WikiEngine) Classification {
	ref := tok.Reference
	if i := strings.Index(ref, "://"); i >= 0 && i < maxSchemeOffset {
		return Classification{Kind: KindExternal, Token: tok}
	}
	if strings.HasPrefix(ref, mailtoPrefix) {
		return Classification{Kind: KindMailto, Token: tok}
	}

	tok = tok.withAnchor()
	if at := strings.LastIndexByte(tok.Reference, '@'); at >= 0 {
		alias := tok.Reference[at+1:]
		if reg == nil || !reg.Contains(alias) {
			return Classification{Kind: KindInterWikiUnknown, Token: tok, Alias: alias}
		}
		tok.Reference = tok.Reference[:at]
		return Classification{Kind: KindInterWiki, Token: tok, Alias: alias}
	}

	if engine != nil && engine.Exists(tok.Reference) {
		return Classification{Kind: KindInternalExisting, Token: tok}
	}
	return Classification{Kind: KindInternalMissing, Token: tok}
}
