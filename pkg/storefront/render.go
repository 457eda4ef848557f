package storefront

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

//go:embed assets
var assetsFS embed.FS

const (
	PageGrid   = "grid"
	PageDetail = "detail"
	PageCart   = "cart"
	PageBlank  = "blank"
)

// Page is the data of one full page
type Page struct {
	Title     string
	CartCount int
	View      any
}

// Renderer executes the embedded page templates.
// Every page gets its own template set so that all of them can define "content".
type Renderer struct {
	pages   map[string]*template.Template
	gallery *template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		pages: map[string]*template.Template{},
	}

	for _, name := range []string{PageGrid, PageDetail, PageCart, PageBlank} {
		t, err := template.ParseFS(
			templatesFS,
			"templates/layout.tmpl",
			"templates/gallery.tmpl",
			"templates/"+name+".tmpl",
		)
		if err != nil {
			return nil, fmt.Errorf("could not parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}

	gallery, err := template.ParseFS(templatesFS, "templates/gallery.tmpl")
	if err != nil {
		return nil, fmt.Errorf("could not parse gallery template: %w", err)
	}
	r.gallery = gallery

	return r, nil
}

// Render writes a full page. The page is executed into a buffer first
// so a failing template never leaves half a page behind.
func (r *Renderer) Render(w io.Writer, name string, page Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("could not render %s page: %w", name, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

// RenderGallery writes the gallery fragment alone
func (r *Renderer) RenderGallery(w io.Writer, images []string) error {
	var buf bytes.Buffer
	if err := r.gallery.ExecuteTemplate(&buf, "gallery", images); err != nil {
		return fmt.Errorf("could not render gallery: %w", err)
	}

	_, err := buf.WriteTo(w)
	return err
}

// Assets serves the embedded stylesheet, script and placeholder image
func Assets() http.FileSystem {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err) // embedded directory always exists
	}

	return http.FS(sub)
}
