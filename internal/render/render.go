// Package render provides HTML template rendering for the dashboard,
// the auth screens, and public profile pages. Templates are embedded in
// the binary; public pages can also be rendered to a byte slice so the
// result is cacheable.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"linkdeck/internal/middleware"
	"linkdeck/internal/models"
	"linkdeck/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string         // Page title for the <title> tag
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for form hidden fields
	Data      map[string]any // Page-specific data
	Flash     *Flash         // One-time notification message
}

// Flash is a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success" or "error"
	Message string
}

// standaloneTemplates render as full HTML pages with their own <html>
// skeleton instead of being wrapped in the dashboard layout.
var standaloneTemplates = map[string]bool{
	"sign_in":    true,
	"sign_up":    true,
	"2fa_setup":  true,
	"2fa_verify": true,
	"profile":    true,
	"not_found":  true,
	"error":      true,
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Dashboard pages are paired with the base layout.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		// safeHTML marks server-generated markup (bio HTML from the
		// markdown converter) as safe to emit. Never call it on raw
		// user input.
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"iconLabel": func(k models.IconKey) string {
			return k.Label()
		},
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}
		tmplName := name[:len(name)-len(".html")]

		var tmpl *template.Template
		var parseErr error
		if standaloneTemplates[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(funcMap).ParseFS(
				templateFS, "templates/"+name,
			)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(funcMap).ParseFS(
				templateFS, "templates/base.html", "templates/"+name,
			)
		}
		if parseErr != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
		}

		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Page renders a template to the response. The CSRF token and session
// are injected from the request context when not already set.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}
	if data.CSRFToken == "" {
		data.CSRFToken = middleware.GetCSRFToken(r)
	}
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	out, err := rn.Bytes(name, data)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}

// PageWithStatus renders like Page but with an explicit status code,
// used for the not-found and error views.
func (rn *Renderer) PageWithStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	out, err := rn.Bytes(name, data)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(out)
}

// Bytes renders a template into a byte slice. Public profile pages go
// through here so the rendered HTML can be stored in the page cache.
func (rn *Renderer) Bytes(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = name + ".html"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
