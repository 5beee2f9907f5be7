package linkfilter

import (
	"regexp"
	"strings"
)

var wikiWordBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// WikiView turns a Space.PageName reference into the label shown to
// readers: the space prefix is dropped and camel-case words are split,
// so "Main.WikiLinking" becomes "Wiki Linking".
func WikiView(reference string) string {
	if i := strings.IndexByte(reference, '.'); i >= 0 {
		reference = reference[i+1:]
	}
	return wikiWordBoundary.ReplaceAllString(reference, "$1 $2")
}
