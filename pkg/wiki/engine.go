// Package wiki renders links to pages held in a page store.
package wiki

import (
	"bytes"
	"net/url"
	"strings"

	log "github.com/schollz/logger"

	"argc.in/wikilinks/pkg/linkfilter"
)

// PageStore reports whether a page exists. *db.FileSystem satisfies it.
type PageStore interface {
	Exists(space, name string) (bool, error)
}

type Config struct {
	DefaultSpace string // space of references without a dot, defaults to "Main"
	ViewURL      string // defaults to "/view"
	EditURL      string // defaults to "/edit"
	ShowCreate   bool   // link missing pages to their edit URL
}

// Engine implements linkfilter.WikiEngine.
type Engine struct {
	store  PageStore
	config Config
}

var _ linkfilter.WikiEngine = (*Engine)(nil)

func NewEngine(store PageStore, config Config) *Engine {
	if config.DefaultSpace == "" {
		config.DefaultSpace = "Main"
	}
	if config.ViewURL == "" {
		config.ViewURL = "/view"
	}
	if config.EditURL == "" {
		config.EditURL = "/edit"
	}
	config.ViewURL = strings.TrimSuffix(config.ViewURL, "/")
	config.EditURL = strings.TrimSuffix(config.EditURL, "/")
	return &Engine{store: store, config: config}
}

// Config returns the configuration with defaults filled in.
func (e *Engine) Config() Config {
	return e.config
}

// Split returns the space and page name of a Space.Page reference.
func (e *Engine) Split(reference string) (space, name string) {
	if i := strings.IndexByte(reference, '.'); i >= 0 {
		space, name = reference[:i], reference[i+1:]
	} else {
		name = reference
	}
	if space == "" {
		space = e.config.DefaultSpace
	}
	return
}

// Exists treats store failures as a missing page.
func (e *Engine) Exists(reference string) bool {
	space, name := e.Split(reference)
	if name == "" {
		return false
	}
	ok, err := e.store.Exists(space, name)
	if err != nil {
		log.Debugf("exists %s: %s", reference, err)
		return false
	}
	return ok
}

func (e *Engine) ShowCreate() bool {
	return e.config.ShowCreate
}

// ViewURL is the address of a page, with an optional fragment.
func (e *Engine) ViewURL(reference, anchor string) string {
	u := e.pageURL(e.config.ViewURL, reference)
	if anchor != "" {
		u += "#" + url.PathEscape(anchor)
	}
	return u
}

func (e *Engine) EditURL(reference string) string {
	return e.pageURL(e.config.EditURL, reference)
}

func (e *Engine) pageURL(prefix, reference string) string {
	space, name := e.Split(reference)
	return prefix + "/" + url.PathEscape(space) + "/" + url.PathEscape(name)
}

func (e *Engine) AppendLink(buf *bytes.Buffer, link linkfilter.Link) {
	buf.WriteString(`<span class="wikilink">`)
	writeAnchor(buf, e.ViewURL(link.Reference, link.Anchor), link)
	buf.WriteString(`</span>`)
}

// AppendCreateLink renders the label followed by a "?" linking to the
// page editor.
func (e *Engine) AppendCreateLink(buf *bytes.Buffer, link linkfilter.Link) {
	buf.WriteString(`<span class="wikicreatelink">`)
	buf.WriteString(link.Text)
	link.Text = "?"
	writeAnchor(buf, e.EditURL(link.Reference), link)
	buf.WriteString(`</span>`)
}

func writeAnchor(buf *bytes.Buffer, href string, link linkfilter.Link) {
	buf.WriteString(`<a href="`)
	buf.WriteString(href)
	buf.WriteString(`"`)
	if link.Target != "" {
		buf.WriteString(` target="`)
		buf.WriteString(link.Target)
		buf.WriteString(`"`)
	}
	buf.WriteString(">")
	buf.WriteString(link.Text)
	buf.WriteString("</a>")
}
