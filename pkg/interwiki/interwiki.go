// Package interwiki maps short aliases to the base URLs of other wikis, so
// that [Page@Alias] links to Page on the remote wiki.
package interwiki

import (
	"bufio"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Registry is safe for concurrent use; aliases can be loaded while pages
// are being rendered.
type Registry struct {
	mu    sync.RWMutex
	bases map[string]string
}

func New() *Registry {
	return &Registry{bases: make(map[string]string)}
}

// Default returns a registry holding the built-in aliases.
func Default() *Registry {
	r := New()
	if err := r.Load(strings.NewReader(_intermap)); err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Add(alias, base string) {
	r.mu.Lock()
	r.bases[alias] = base
	r.mu.Unlock()
}

// Load reads an intermap: "Alias BaseURL" per line, blank lines and lines
// starting with # are skipped. Later entries override earlier ones.
func (r *Registry) Load(rd io.Reader) error {
	entries := make(map[string]string)
	scanner := bufio.NewScanner(rd)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return errors.Errorf("intermap line %d: want \"Alias URL\", got %q", n, line)
		}
		entries[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read intermap")
	}

	r.mu.Lock()
	for alias, base := range entries {
		r.bases[alias] = base
	}
	r.mu.Unlock()
	return nil
}

func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open intermap")
	}
	defer f.Close()
	return errors.Wrapf(r.Load(f), "load %s", path)
}

func (r *Registry) Contains(alias string) bool {
	r.mu.RLock()
	_, ok := r.bases[alias]
	r.mu.RUnlock()
	return ok
}

// Aliases returns the known aliases in sorted order.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	aliases := make([]string, 0, len(r.bases))
	for alias := range r.bases {
		aliases = append(aliases, alias)
	}
	r.mu.RUnlock()
	sort.Strings(aliases)
	return aliases
}

// URL returns the remote address of reference on the wiki named by alias.
func (r *Registry) URL(alias, reference, anchor string) (string, bool) {
	r.mu.RLock()
	base, ok := r.bases[alias]
	r.mu.RUnlock()
	if !ok {
		return "", false
	}
	u := base + url.PathEscape(reference)
	if anchor != "" {
		u += "#" + url.PathEscape(anchor)
	}
	return u, true
}

// Expand writes a link to reference on the remote wiki. An empty anchor
// links to the page itself.
func (r *Registry) Expand(w io.Writer, alias, reference, text, anchor string) error {
	u, ok := r.URL(alias, reference, anchor)
	if !ok {
		return errors.Errorf("interwiki alias %q not registered", alias)
	}
	_, err := io.WriteString(w, `<span class="wikiexternallink"><a href="`+u+`">`+text+`</a></span>`)
	return errors.Wrapf(err, "expand %s@%s", reference, alias)
}
