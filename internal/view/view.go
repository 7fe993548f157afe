// Package view renders the product page in its three states: loading,
// error and ready.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"

	"productpage/internal/model"
	"productpage/internal/richtext"
)

//go:embed templates/*.html
var templateFS embed.FS

// State is the page state.
type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateReady   State = "ready"
)

// Page is the data for one render. Product is only read in StateReady.
type Page struct {
	State   State
	Product *model.ProductView
}

// Loading returns the page shown while the product is being fetched.
func Loading() Page {
	return Page{State: StateLoading}
}

// Failed returns the error page. It is used both when the fetch fails and
// when it completes without data.
func Failed() Page {
	return Page{State: StateError}
}

// Ready returns the page for a loaded product. A nil product yields the
// error page.
func Ready(product *model.ProductView) Page {
	if product == nil {
		return Failed()
	}
	return Page{State: StateReady, Product: product}
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"stars":    stars,
		"rating":   formatRating,
		"richHTML": richHTML,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the complete HTML document for page.
func (r *Renderer) Render(w io.Writer, page Page) error {
	return r.execute(w, "page", page)
}

// RenderLoading writes the document head and the loading box, leaving the
// document open for RenderResult.
func (r *Renderer) RenderLoading(w io.Writer, page Page) error {
	if err := r.execute(w, "head", page); err != nil {
		return err
	}
	return r.execute(w, "loading", page)
}

// RenderResult completes a document started by RenderLoading. The loading
// box is hidden and the final state is appended.
func (r *Renderer) RenderResult(w io.Writer, page Page) error {
	return r.execute(w, "stream-result", page)
}

// RenderFragment writes the state section only, without the document
// wrapper.
func (r *Renderer) RenderFragment(w io.Writer, page Page) error {
	return r.execute(w, "state", page)
}

// Markdown renders the state section and converts it to Markdown.
func (r *Renderer) Markdown(page Page) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderFragment(&buf, page); err != nil {
		return "", err
	}
	return richtext.ToMarkdown(buf.String())
}

func (r *Renderer) execute(w io.Writer, name string, page Page) error {
	if page.State == StateReady && page.Product == nil {
		page = Failed()
	}
	if err := r.tmpl.ExecuteTemplate(w, name, page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// stars draws a five-star bar rounded to the nearest whole star.
func stars(score float64) string {
	if math.IsNaN(score) {
		score = 0
	}
	full := int(math.Round(math.Max(0, math.Min(5, score))))
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}

func formatRating(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

// richHTML marks markup produced by richtext.Sanitize as safe.
func richHTML(sanitized string) template.HTML {
	return template.HTML(sanitized)
}
