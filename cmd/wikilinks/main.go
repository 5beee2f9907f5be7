package main

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/schollz/logger"
	"github.com/spf13/pflag"

	"argc.in/wikilinks"
	"argc.in/wikilinks/pkg/db"
)

const usage = `Usage: wikilinks [flags] [serve | render FILE | interwiki | dump]

Commands:
  serve        serve the wiki over HTTP (default)
  render FILE  render a page source file ("-" for stdin) to HTML on stdout;
               with --text only the [...] links are resolved
  interwiki    list the known inter-wiki aliases
  dump         write the page database as SQL to stdout
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "wikilinks:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var (
		config   wikilinks.Config
		database string
		debug    bool
		text     bool
	)

	flags := pflag.NewFlagSet("wikilinks", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	flags.StringVar(&database, "db", "wikilinks.db", "sqlite database holding the pages")
	flags.StringVarP(&config.Bind, "bind", "b", wikilinks.DefaultBind, "interface:port to listen on")
	flags.StringVarP(&config.DefaultSpace, "space", "s", wikilinks.DefaultSpace, "space of links without a Space. prefix")
	flags.BoolVar(&config.ShowCreate, "show-create", true, "link missing pages to their editor")
	flags.StringVar(&config.InterWikiFile, "intermap", "", "intermap file with extra \"Alias URL\" lines")
	flags.BoolVar(&config.PlainLinks, "plain", false, "render [...] tokens as plain text")
	flags.BoolVar(&config.OrderByCreated, "order-by-created", false, "list pages by creation instead of modification")
	flags.IntVar(&config.UTCOffset, "utc-offset", 0, "hours added to UTC for displayed dates")
	flags.BoolVar(&text, "text", false, "render: resolve links in plain text, no markdown")
	flags.BoolVarP(&debug, "debug", "d", false, "debug logging")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if debug {
		log.SetLevel("debug")
	} else {
		log.SetLevel("info")
	}

	command := "serve"
	if flags.NArg() > 0 {
		command = flags.Arg(0)
	}

	fs, err := db.New(database)
	if err != nil {
		return err
	}
	defer fs.Close()

	w, err := wikilinks.New(fs, config)
	if err != nil {
		return err
	}

	switch command {
	case "serve":
		return w.Serve()
	case "render":
		if flags.NArg() != 2 {
			return errors.New("render needs exactly one file")
		}
		return render(w, flags.Arg(1), text, stdin, stdout)
	case "dump":
		sql, err := fs.DumpSQL()
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, sql)
		return err
	case "interwiki":
		_, err = fmt.Fprintln(stdout, strings.Join(w.InterWiki().Aliases(), "\n"))
		return err
	}
	return errors.Errorf("unknown command %q", command)
}

func render(w *wikilinks.Wiki, path string, text bool, stdin io.Reader, stdout io.Writer) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	var (
		out       string
		cacheable bool
	)
	if text {
		out, cacheable = w.FilterText(string(data))
	} else {
		var html template.HTML
		html, cacheable, err = w.RenderText(string(data))
		if err != nil {
			return err
		}
		out = string(html)
	}
	log.Debugf("rendered %s, cacheable: %v", path, cacheable)
	_, err = io.WriteString(stdout, out)
	return err
}
