package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/dustin/go-humanize"
)

//go:embed tpl/*.tmpl tpl/partials/*.tmpl tpl/pages/*.tmpl
var tplFS embed.FS

var (
	ErrTemplateMissing = errors.New("template not found")
	ErrTemplateRender  = errors.New("template render failed")
)

// Renderer holds one parsed template set per page. It is built once and
// never modified, so concurrent Render calls need no locking.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) { return newRenderer(tplFS) }

func newRenderer(fsys fs.FS) (*Renderer, error) {
	funcs := template.FuncMap{
		"formatHeight": func(h uint64) string { return humanize.Comma(int64(h)) },
		"qrPath":       qrPath,
	}
	base := template.New("root").Funcs(sprig.HtmlFuncMap()).Funcs(funcs).Option("missingkey=error")
	if _, err := base.ParseFS(fsys, "tpl/base.tmpl", "tpl/partials/*.tmpl"); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pagePaths, err := fs.Glob(fsys, "tpl/pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(pagePaths))}
	for _, p := range pagePaths {
		name := strings.TrimSuffix(path.Base(p), ".tmpl")
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the page template called name into w. A failed execution
// can leave partial output behind, so handlers render into a buffer.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTemplateMissing, name)
	}
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTemplateRender, name, err)
	}
	return nil
}

// Has reports whether a page called name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

func qrPath(payload string) string {
	return "/qr/" + url.PathEscape(payload)
}
