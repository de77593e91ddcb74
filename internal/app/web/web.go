// Package web holds the portal's HTML templates. Every page is parsed
// together with layout.html and executed through the "layout" template.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"slices"
	"strings"

	"github.com/gin-gonic/gin/render"
	"github.com/yigit/schoolportal/internal/app/models"
)

// Page template names.
const (
	PageLogin       = "login.html"
	PageStudentEdit = "student_edit.html"
	PageTeacherEdit = "teacher_edit.html"
	PageRecord      = "record.html"
	PageReport      = "report.html"
	PageError       = "error.html"
	PageStart       = "start.html"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"seq":      models.Seq,
	"join":     strings.Join,
	"weekdays": func() []string { return models.Weekdays },
	"hasDay":   func(days []string, day string) bool { return slices.Contains(days, day) },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"when": func(ts models.Timestamp) string {
		if ts.IsZero() {
			return ""
		}
		return ts.Format("02 Jan 2006, 15:04")
	},
}

// Renderer implements gin's render.HTMLRender over the embedded pages.
type Renderer struct {
	pages map[string]*template.Template
}

// Load parses every page with the shared layout.
func Load() (*Renderer, error) {
	return load(templateFS)
}

func load(fsys fs.FS) (*Renderer, error) {
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, path := range names {
		name := strings.TrimPrefix(path, "templates/")
		if name == "layout.html" {
			continue
		}
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(fsys, "templates/layout.html", path)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	for _, required := range []string{PageLogin, PageStudentEdit, PageTeacherEdit, PageRecord, PageReport, PageError, PageStart} {
		if _, ok := r.pages[required]; !ok {
			return nil, fmt.Errorf("missing template %s", required)
		}
	}
	return r, nil
}

// Instance implements render.HTMLRender. Unknown names render the error
// page.
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		tmpl = r.pages[PageError]
	}
	return render.HTML{Template: tmpl, Name: "layout", Data: data}
}
