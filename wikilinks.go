package wikilinks

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/schollz/logger"

	"argc.in/wikilinks/pkg/db"
	"argc.in/wikilinks/pkg/interwiki"
	"argc.in/wikilinks/pkg/linkfilter"
	"argc.in/wikilinks/pkg/markdown"
	"argc.in/wikilinks/pkg/wiki"
)

const (
	DefaultBind  = ":8152"
	DefaultSpace = "Main"
	HomePage     = "WebHome"
)

type Wiki struct {
	Config    Config
	templates *template.Template
	fs        *db.FileSystem
	engine    *wiki.Engine
	interwiki *interwiki.Registry
	markdown  *markdown.Parser
	filter    *linkfilter.Filter
}

type Config struct {
	Bind           string // interface:port to listen on, defaults to DefaultBind.
	DefaultSpace   string // space of links without a "Space." prefix
	ShowCreate     bool   // link missing pages to their editor
	ViewURL        string // path prefix of rendered pages, defaults to /view
	EditURL        string // path prefix of the editor, defaults to /edit
	InterWikiFile  string // extra intermap loaded over the built-in aliases
	PlainLinks     bool   // render [...] tokens as escaped text
	OrderByCreated bool
	UTCOffset      int // hours, for displayed dates
}

func New(fs *db.FileSystem, config Config) (*Wiki, error) {
	if config.Bind == "" {
		config.Bind = DefaultBind
	}
	if config.DefaultSpace == "" {
		config.DefaultSpace = DefaultSpace
	}

	registry := interwiki.Default()
	if config.InterWikiFile != "" {
		if err := registry.LoadFile(config.InterWikiFile); err != nil {
			return nil, err
		}
	}

	engine := wiki.NewEngine(fs, wiki.Config{
		DefaultSpace: config.DefaultSpace,
		ViewURL:      config.ViewURL,
		EditURL:      config.EditURL,
		ShowCreate:   config.ShowCreate,
	})
	config.ViewURL = engine.Config().ViewURL
	config.EditURL = engine.Config().EditURL

	opts := []linkfilter.Option{linkfilter.WithInterWiki(registry)}
	if !config.PlainLinks {
		opts = append(opts, linkfilter.WithWikiEngine(engine))
	}
	resolver := linkfilter.New(opts...)

	templates, err := template.ParseFS(_templates, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}

	return &Wiki{
		Config:    config,
		templates: templates,
		fs:        fs,
		engine:    engine,
		interwiki: registry,
		markdown:  markdown.NewParser(resolver, engine),
		filter:    linkfilter.NewFilter(resolver),
	}, nil
}

// InterWiki returns the alias registry used for Page@Alias links.
func (w *Wiki) InterWiki() *interwiki.Registry {
	return w.interwiki
}

func (w *Wiki) Serve() (err error) {
	log.Infof("listening on %v", w.Config.Bind)
	mux := http.NewServeMux()
	mux.HandleFunc("/", w.Handler)
	return http.ListenAndServe(w.Config.Bind, mux)
}

// Render converts a stored page. cacheable is false when the rendering
// links to pages that may be created later.
func (w *Wiki) Render(space, name string) (f db.File, cacheable bool, err error) {
	f, err = w.fs.Get(space, name)
	if err != nil {
		return
	}
	f.DataHTML, cacheable, err = w.markdown.Convert(f.Data)
	if err != nil {
		return f, false, errors.Wrapf(err, "render %s", f.Reference())
	}
	if err := w.fs.IncrementViews(space, name); err != nil {
		log.Debug(err)
	}
	return
}

// RenderText converts page source that is not stored.
func (w *Wiki) RenderText(data string) (template.HTML, bool, error) {
	return w.markdown.Convert(data)
}

// FilterText resolves the link tokens of plain text without markdown
// conversion or sanitizing.
func (w *Wiki) FilterText(data string) (string, bool) {
	ctx := linkfilter.NewRenderContext()
	out := w.filter.Apply(data, ctx)
	return out, ctx.Cacheable()
}

func (w *Wiki) Handler(rw http.ResponseWriter, r *http.Request) {
	t := time.Now().UTC()
	err := w.Handle(rw, r)
	if err != nil {
		log.Error(err)
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
	log.Infof("%v %v %v %s", r.RemoteAddr, r.Method, r.URL.Path, time.Since(t))
}

func (w *Wiki) Handle(rw http.ResponseWriter, r *http.Request) (err error) {
	p := r.URL.Path
	if p == "/robots.txt" {
		_, err = rw.Write([]byte("User-agent: *\nDisallow: /"))
		return
	} else if p == "/" {
		http.Redirect(rw, r, w.engine.ViewURL(w.Config.DefaultSpace+"."+HomePage, ""), http.StatusFound)
		return
	} else if strings.HasPrefix(p, w.Config.ViewURL+"/") {
		space, name := splitPagePath(strings.TrimPrefix(p, w.Config.ViewURL+"/"))
		if space == "" {
			http.NotFound(rw, r)
			return
		}
		if name == "" {
			return w.handleList(rw, space)
		}
		return w.handleView(rw, r, space, name)
	} else if strings.HasPrefix(p, w.Config.EditURL+"/") {
		space, name := splitPagePath(strings.TrimPrefix(p, w.Config.EditURL+"/"))
		if space == "" || name == "" {
			http.NotFound(rw, r)
			return
		}
		if r.Method == http.MethodPost {
			return w.handleSave(rw, r, space, name)
		}
		return w.handleEdit(rw, space, name)
	}
	http.NotFound(rw, r)
	return
}

func splitPagePath(p string) (space, name string) {
	parts := strings.SplitN(strings.Trim(p, "/"), "/", 2)
	space = parts[0]
	if len(parts) == 2 {
		name = parts[1]
	}
	return
}

type pageView struct {
	Title    string
	Space    string
	SpaceURL string
	EditURL  string
	Data     string
	HTML     template.HTML
	Created  string
	Modified string
}

func (w *Wiki) newPageView(f db.File) pageView {
	return pageView{
		Title:    linkfilter.WikiView(f.Reference()),
		Space:    f.Space,
		SpaceURL: w.Config.ViewURL + "/" + url.PathEscape(f.Space) + "/",
		EditURL:  w.engine.EditURL(f.Reference()),
		Data:     f.Data,
		HTML:     f.DataHTML,
		Created:  f.CreatedDate(w.Config.UTCOffset),
		Modified: f.ModifiedDate(w.Config.UTCOffset),
	}
}

func (w *Wiki) handleView(rw http.ResponseWriter, r *http.Request, space, name string) (err error) {
	log.Debugf("[%s/%s]", space, name)
	f, cacheable, err := w.Render(space, name)
	if errors.Cause(err) == db.ErrNotFound {
		if w.Config.ShowCreate {
			http.Redirect(rw, r, w.engine.EditURL(space+"."+name), http.StatusFound)
			return nil
		}
		http.NotFound(rw, r)
		return nil
	} else if err != nil {
		return
	}

	if cacheable {
		rw.Header().Set("Cache-Control", "public, max-age=60")
	} else {
		rw.Header().Set("Cache-Control", "no-store")
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	return w.templates.ExecuteTemplate(rw, "page.html", w.newPageView(f))
}

func (w *Wiki) handleEdit(rw http.ResponseWriter, space, name string) (err error) {
	f, err := w.fs.Get(space, name)
	if errors.Cause(err) == db.ErrNotFound {
		f = db.File{Space: space, Name: name}
	} else if err != nil {
		return
	}
	rw.Header().Set("Cache-Control", "no-store")
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	return w.templates.ExecuteTemplate(rw, "edit.html", w.newPageView(f))
}

func (w *Wiki) handleSave(rw http.ResponseWriter, r *http.Request, space, name string) (err error) {
	f := db.File{Space: space, Name: name, Data: r.FormValue("data")}
	if err = w.fs.Save(f); err != nil {
		return
	}
	http.Redirect(rw, r, w.engine.ViewURL(f.Reference(), ""), http.StatusSeeOther)
	return
}

type listEntry struct {
	URL      string
	Title    string
	Modified string
}

func (w *Wiki) handleList(rw http.ResponseWriter, space string) (err error) {
	files, err := w.fs.GetAll(space, w.Config.OrderByCreated)
	if err != nil {
		return
	}
	entries := make([]listEntry, len(files))
	for i, f := range files {
		entries[i] = listEntry{
			URL:      w.engine.ViewURL(f.Reference(), ""),
			Title:    linkfilter.WikiView(f.Reference()),
			Modified: f.ModifiedDate(w.Config.UTCOffset),
		}
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	return w.templates.ExecuteTemplate(rw, "list.html", struct {
		Space string
		Pages []listEntry
	}{space, entries})
}
