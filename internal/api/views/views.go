// Package views renders the portal's HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/registrant-portal/internal/listing"
	"github.com/isdelr/registrant-portal/internal/models"
	"github.com/isdelr/registrant-portal/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageRegister  = "register"
	PageLogin     = "login"
	PageDashboard = "dashboard"
)

// Base is shared by every page.
type Base struct {
	Title         string
	Authenticated bool
	Notifications []models.Notification
}

// FormPage renders the register and login forms.
type FormPage struct {
	Base
	Values validation.Values
	Errors validation.Errors
}

// DashboardPage renders the listing panel.
type DashboardPage struct {
	Base
	View listing.Snapshot
}

// Renderer executes the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("1/2/2006")
	},
	"dob": func(d models.Date) string {
		if d.Invalid() {
			return "Invalid Date"
		}
		if d.IsZero() {
			return ""
		}
		return d.Format("1/2/2006")
	},
	"prev": func(n int) int { return n - 1 },
	"next": func(n int) int { return n + 1 },
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageRegister, PageLogin, PageDashboard} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page with the given status. Rendering happens into a buffer so a
// template failure still yields a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := r.pages[page]
	if !ok {
		http.Error(w, "Unknown page", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
