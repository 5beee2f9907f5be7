package markdown

import (
	wikilink "github.com/abhinav/goldmark-wikilink"
	"github.com/yuin/goldmark"
)

var (
	_hash = []byte{'#'}
)

// URLResolver maps a page reference and fragment to its address.
// *wiki.Engine satisfies it.
type URLResolver interface {
	ViewURL(reference, anchor string) string
}

// WikiLinkExtension renders [[Page]] and [[Page#frag|label]] links. With a
// nil resolver the target is used as the destination unchanged.
func WikiLinkExtension(urls URLResolver) goldmark.Extender {
	return &wikilink.Extender{
		Resolver: wikilinkResolver{urls: urls},
	}
}

type wikilinkResolver struct {
	urls URLResolver
}

func (r wikilinkResolver) ResolveWikilink(n *wikilink.Node) ([]byte, error) {
	if r.urls != nil && len(n.Target) > 0 {
		return []byte(r.urls.ViewURL(string(n.Target), string(n.Fragment))), nil
	}
	dest := make([]byte, len(n.Target)+len(_hash)+len(n.Fragment))
	var i int
	if len(n.Target) > 0 {
		i += copy(dest, n.Target)
	}
	if len(n.Fragment) > 0 {
		i += copy(dest[i:], _hash)
		i += copy(dest[i:], n.Fragment)
	}
	return dest[:i], nil
}
