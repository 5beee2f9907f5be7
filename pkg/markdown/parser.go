package markdown

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"argc.in/wikilinks/pkg/linkfilter"
)

var (
	wikiClass   = regexp.MustCompile(`^(wikilink|wikicreatelink|wikiexternallink|error)$`)
	frameTarget = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	checkbox    = regexp.MustCompile(`^checkbox$`)
)

// NewParser builds the page renderer. resolver renders [...] link tokens
// and may be nil; urls resolves [[Page]] links.
func NewParser(resolver *linkfilter.Resolver, urls URLResolver) *Parser {
	extensions := []goldmark.Extender{
		extension.GFM,
		extension.Footnote,
		emoji.Emoji,
		WikiLinkExtension(urls),
	}
	if resolver != nil {
		extensions = append(extensions, LinkTokenExtension(resolver))
	}
	return &Parser{
		policy: newPolicy(),
		md: goldmark.New(
			goldmark.WithExtensions(extensions...),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
		),
	}
}

type Parser struct {
	policy *bluemonday.Policy
	md     goldmark.Markdown
}

// newPolicy allows user generated content plus the markup link tokens
// render to and task list checkboxes.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(wikiClass).OnElements("span")
	p.AllowAttrs("target").Matching(frameTarget).OnElements("a")
	p.AllowAttrs("type").Matching(checkbox).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	return p
}

// Convert renders data to sanitized HTML. cacheable is false when the page
// links to pages that do not exist yet.
func (p *Parser) Convert(data string) (out template.HTML, cacheable bool, err error) {
	ctx := linkfilter.NewRenderContext()
	pc := parser.NewContext()
	pc.Set(renderContextKey, ctx)

	var buf bytes.Buffer
	if err = p.md.Convert([]byte(data), &buf, parser.WithContext(pc)); err != nil {
		return "", false, errors.Wrap(err, "convert markdown")
	}

	return template.HTML(p.policy.SanitizeBytes(buf.Bytes())), ctx.Cacheable(), nil
}
