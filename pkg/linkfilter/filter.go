package linkfilter

import (
	"bytes"
	"regexp"
)

// tokenPattern matches a single-line [...] token without nested brackets.
var tokenPattern = regexp.MustCompile(`\[([^\[\]\n]*)\]`)

var leadingPattern = regexp.MustCompile(`^` + tokenPattern.String())

// MatchPrefix reports the token that line starts with, if any.
func MatchPrefix(line []byte) (Match, bool) {
	loc := leadingPattern.FindSubmatchIndex(line)
	if loc == nil {
		return Match{}, false
	}
	return Match{
		Raw:   string(line[loc[0]:loc[1]]),
		Inner: string(line[loc[2]:loc[3]]),
	}, true
}

// Filter replaces every link token in plain text with the Resolver's
// rendering. It knows nothing about markdown; markdown pages go through
// the goldmark inline parser in pkg/markdown instead.
type Filter struct {
	resolver *Resolver
}

func NewFilter(resolver *Resolver) *Filter {
	return &Filter{resolver: resolver}
}

// Apply runs one render pass over text. ctx is reset at the start of the
// pass and records whether the result may be cached.
func (f *Filter) Apply(text string, ctx *RenderContext) string {
	ctx.Reset()

	var buf bytes.Buffer
	buf.Grow(len(text))
	last := 0
	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		buf.WriteString(text[last:start])
		res := f.resolver.Resolve(&buf, Match{
			Raw:   text[start:end],
			Inner: text[loc[2]:loc[3]],
		})
		ctx.Fold(res)
		last = end
	}
	buf.WriteString(text[last:])
	return buf.String()
}
