// Package views renders the server-side HTML pages. It implements fiber.Views
// over html/template with one layout shared by every page.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"quill/internal/forms"
	"quill/internal/gravatar"
	"quill/internal/models"
)

//go:embed templates
var embedded embed.FS

const (
	layoutGlob  = "templates/layouts/*.html"
	partialGlob = "templates/partials/*.html"
	pageGlob    = "templates/pages/*.html"
	entryPoint  = "base"
)

// Page is the data handed to every template. Handlers fill the parts
// their view needs; Actor is nil for anonymous visitors.
type Page struct {
	Title   string
	Actor   *models.User
	Flashes []string
	CSRF    string

	Posts []*models.BlogPost
	Post  *models.BlogPost

	Form   interface{}
	Errors forms.Errors
	IsEdit bool
}

// IsAdmin reports whether the page is rendered for an administrator.
func (p Page) IsAdmin() bool {
	return p.Actor != nil && p.Actor.IsAdmin
}

// Engine satisfies fiber.Views.
type Engine struct {
	fsys  fs.FS
	funcs template.FuncMap

	mu    sync.RWMutex
	pages map[string]*template.Template
}

// New returns an engine over the embedded templates.
func New() *Engine {
	return NewFromFS(embedded)
}

// NewFromFS returns an engine reading layouts, partials and pages from fsys.
func NewFromFS(fsys fs.FS) *Engine {
	return &Engine{
		fsys: fsys,
		funcs: template.FuncMap{
			"gravatar": func(email string) string {
				return gravatar.URL(email, gravatar.DefaultOptions)
			},
			// Post bodies are authored by admins through the rich text editor.
			"safeHTML": func(s string) template.HTML {
				return template.HTML(s)
			},
		},
	}
}

// Load parses every page together with the shared layout and partials.
func (e *Engine) Load() error {
	shared, err := e.glob(layoutGlob, partialGlob)
	if err != nil {
		return err
	}
	pagePaths, err := fs.Glob(e.fsys, pageGlob)
	if err != nil {
		return err
	}
	if len(pagePaths) == 0 {
		return fmt.Errorf("views: no templates match %s", pageGlob)
	}

	pages := make(map[string]*template.Template, len(pagePaths))
	for _, p := range pagePaths {
		files := append(append([]string{}, shared...), p)
		t, err := template.New(path.Base(p)).Funcs(e.funcs).ParseFS(e.fsys, files...)
		if err != nil {
			return fmt.Errorf("views: parse %s: %w", p, err)
		}
		pages[strings.TrimSuffix(path.Base(p), ".html")] = t
	}

	e.mu.Lock()
	e.pages = pages
	e.mu.Unlock()
	return nil
}

func (e *Engine) glob(patterns ...string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		matches, err := fs.Glob(e.fsys, pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

// Render executes page name. Layout arguments are ignored: every page
// uses the base layout.
func (e *Engine) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	e.mu.RLock()
	loaded := e.pages != nil
	e.mu.RUnlock()
	if !loaded {
		if err := e.Load(); err != nil {
			return err
		}
	}

	e.mu.RLock()
	t, ok := e.pages[name]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, entryPoint, binding)
}
