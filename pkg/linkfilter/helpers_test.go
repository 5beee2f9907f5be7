package linkfilter

import (
	"bytes"
	"errors"
	"io"
)

// fakeEngine records the links it is asked to render.
type fakeEngine struct {
	pages   map[string]bool
	create  bool
	links   []Link
	created []Link
}

func newFakeEngine(create bool, pages ...string) *fakeEngine {
	e := &fakeEngine{pages: map[string]bool{}, create: create}
	for _, p := range pages {
		e.pages[p] = true
	}
	return e
}

func (e *fakeEngine) Exists(reference string) bool { return e.pages[reference] }

func (e *fakeEngine) ShowCreate() bool { return e.create }

func (e *fakeEngine) AppendLink(buf *bytes.Buffer, link Link) {
	e.links = append(e.links, link)
	href := "/view/" + link.Reference
	if link.Anchor != "" {
		href += "#" + link.Anchor
	}
	writeFakeAnchor(buf, href, link)
}

func (e *fakeEngine) AppendCreateLink(buf *bytes.Buffer, link Link) {
	e.created = append(e.created, link)
	writeFakeAnchor(buf, "/edit/"+link.Reference, link)
}

func writeFakeAnchor(buf *bytes.Buffer, href string, link Link) {
	buf.WriteString(`<a href="` + href + `"`)
	if link.Target != "" {
		buf.WriteString(` target="` + link.Target + `"`)
	}
	buf.WriteString(">" + link.Text + "</a>")
}

type expansion struct {
	alias, reference, text, anchor string
}

// fakeRegistry expands aliases by prefixing the reference with a base URL.
// When failWith is set it writes a partial fragment and then fails.
type fakeRegistry struct {
	bases    map[string]string
	failWith error
	expanded []expansion
}

func (r *fakeRegistry) Contains(alias string) bool {
	_, ok := r.bases[alias]
	return ok
}

func (r *fakeRegistry) Expand(w io.Writer, alias, reference, text, anchor string) error {
	r.expanded = append(r.expanded, expansion{alias, reference, text, anchor})
	if r.failWith != nil {
		io.WriteString(w, `<a href="`)
		return r.failWith
	}
	href := r.bases[alias] + reference
	if anchor != "" {
		href += "#" + anchor
	}
	_, err := io.WriteString(w, `<a href="`+href+`">`+text+`</a>`)
	return err
}

var errBrokenPipe = errors.New("broken pipe")

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{bases: map[string]string{
		"Wikipedia": "https://en.wikipedia.org/wiki/",
	}}
}
