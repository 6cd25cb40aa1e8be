// Package view renders the HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/afiliados/afiliados-go/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	Index        = "index"
	RegisterUser = "register_user"
	Login        = "login"
	Registrar    = "registrar"
	Afiliados    = "afiliados"
	Error        = "error"
)

var pageNames = []string{Index, RegisterUser, Login, Registrar, Afiliados, Error}

// Page is the data every template receives.
type Page struct {
	Title      string
	User       *model.Credential
	Notices    []model.Notice
	Form       map[string]string
	Next       string
	Affiliates []model.Affiliate
}

// Renderer executes the page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page against the shared layout. photoURL maps a stored
// photo name to the URL it is served from.
func New(photoURL func(name string) string) (*Renderer, error) {
	funcs := template.FuncMap{
		"photoURL": photoURL,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page name with the given status. The template is executed
// into a buffer first so a failure never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, p); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
