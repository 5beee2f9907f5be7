package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"argc.in/wikilinks/pkg/linkfilter"
)

// KindLinkToken is the kind of resolved [...] link token nodes.
var KindLinkToken = ast.NewNodeKind("LinkToken")

// LinkToken holds the rendering of one [...] token.
type LinkToken struct {
	ast.BaseInline

	HTML []byte
}

func (n *LinkToken) Kind() ast.NodeKind {
	return KindLinkToken
}

func (n *LinkToken) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"HTML": string(n.HTML)}, nil)
}

var renderContextKey = parser.NewContextKey()

// LinkTokenExtension resolves [...] tokens while goldmark parses inlines,
// so code spans, code blocks, markdown links, footnotes and task list
// checkboxes are never seen as tokens.
func LinkTokenExtension(resolver *linkfilter.Resolver) goldmark.Extender {
	return &linkTokenExtender{resolver: resolver}
}

type linkTokenExtender struct {
	resolver *linkfilter.Resolver
}

func (e *linkTokenExtender) Extend(md goldmark.Markdown) {
	// Task list checkboxes (0) and footnote references (101) go first;
	// [[wikilinks]] (199) and markdown links (200) after.
	md.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(&linkTokenParser{resolver: e.resolver}, 150),
		),
	)
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(linkTokenRenderer{}, 150),
		),
	)
}

type linkTokenParser struct {
	resolver *linkfilter.Resolver
}

var _ parser.InlineParser = (*linkTokenParser)(nil)

func (p *linkTokenParser) Trigger() []byte {
	return []byte{'['}
}

func (p *linkTokenParser) Parse(_ ast.Node, block text.Reader, pc parser.Context) ast.Node {
	// second half of [text][ref] or [[double]]
	if c := block.PrecendingCharacter(); c == ']' || c == '[' {
		return nil
	}
	line, _ := block.PeekLine()
	m, ok := linkfilter.MatchPrefix(line)
	if !ok {
		return nil
	}
	if len(m.Raw) < len(line) {
		switch line[len(m.Raw)] {
		case '(', '[':
			return nil
		}
	}
	if len(m.Inner) > 0 && m.Inner[0] == '^' {
		return nil
	}
	if _, ok := pc.Reference(util.ToLinkReference([]byte(m.Inner))); ok {
		return nil
	}

	var buf bytes.Buffer
	res := p.resolver.Resolve(&buf, m)
	if ctx, ok := pc.Get(renderContextKey).(*linkfilter.RenderContext); ok {
		ctx.Fold(res)
	}
	block.Advance(len(m.Raw))
	return &LinkToken{HTML: buf.Bytes()}
}

type linkTokenRenderer struct{}

func (r linkTokenRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindLinkToken, r.render)
}

func (r linkTokenRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(node.(*LinkToken).HTML)
	}
	return ast.WalkSkipChildren, nil
}
