// Package views renders the console's HTML. Pages are html/template
// documents embedded in the binary and exposed as templ components so
// handlers render them the same way as any other component.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/a-h/templ"
	"github.com/corpweb/sitedesk/internal/nav"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views/helpers"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static serves the console's scripts and styles.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"ago":      helpers.Ago,
	"count":    helpers.Count,
	"plural":   helpers.Plural,
	"truncate": helpers.Truncate,
	"cls":      nav.Class,
	"link":     nav.LinkClass,
	"join":     strings.Join,
	"notice":   noticeClass,
	"lower":    strings.ToLower,
	"colspan":  colspan,
	"when":     when,
}

const (
	layoutFile   = "templates/layout.html"
	partialsFile = "templates/partials.html"
)

var (
	pages    map[string]*template.Template
	partials *template.Template
)

func init() {
	var err error
	pages, partials, err = parse(templateFS)
	if err != nil {
		panic(err)
	}
}

// parse builds one template set per page: the layout and partials plus
// that page's "content".
func parse(fsys fs.FS) (map[string]*template.Template, *template.Template, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(fsys, layoutFile, partialsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, nil, err
	}

	out := map[string]*template.Template{}
	for _, f := range files {
		if f == layoutFile || f == partialsFile {
			continue
		}
		t, err := template.Must(base.Clone()).ParseFS(fsys, f)
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", f, err)
		}
		out[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return out, base, nil
}

// Page renders the named page inside the layout.
func Page(name string, data *PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "layout", data)
	})
}

// Fragment renders one partial on its own, for responses that replace a
// part of a page already shown.
func Fragment(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return partials.ExecuteTemplate(w, name, data)
	})
}

// ScreenFragment is the data of the "screen" partial: the notices and
// the table of a manager screen.
type ScreenFragment struct {
	Notices []screen.Notice
	Manager *Manager
}

func noticeClass(l screen.Level) string {
	base := "mb-3 rounded border px-4 py-3 text-sm"
	switch l {
	case screen.LevelSuccess:
		return nav.Class(base, "border-green-300 bg-green-50 text-green-800")
	case screen.LevelWarn:
		return nav.Class(base, "border-yellow-300 bg-yellow-50 text-yellow-800")
	case screen.LevelError:
		return nav.Class(base, "border-red-300 bg-red-50 text-red-800")
	}
	return nav.Class(base, "border-blue-300 bg-blue-50 text-blue-800")
}

// colspan is the width of a table row including the handle and action
// columns.
func colspan(t Table) int {
	n := len(t.Columns) + 1
	if t.ReorderURL != "" {
		n++
	}
	return n
}

func when(cond bool, s string) string {
	if cond {
		return s
	}
	return ""
}
