// Package web renders the landing page.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/saaspy/saaspy/internal/model"
	"github.com/saaspy/saaspy/internal/theme"
	"github.com/saaspy/saaspy/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*.png
var staticFS embed.FS

// AssetHandler serves the embedded images along with the request paths it
// answers, such as "/avatar1.png".
func AssetHandler() (http.Handler, []string, error) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, nil, fmt.Errorf("open assets: %w", err)
	}
	names, err := fs.Glob(sub, "*.png")
	if err != nil {
		return nil, nil, fmt.Errorf("list assets: %w", err)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, "/"+name)
	}
	return http.FileServer(http.FS(sub)), paths, nil
}

// AccentColor is the brand color.
const AccentColor = "#6CA8FF"

// NavItem is a navbar entry.
type NavItem struct {
	Name        string
	Href        string
	HasDropdown bool
}

// Nav lists the navbar entries.
var Nav = []NavItem{
	{Name: "About", Href: "#about"},
	{Name: "Features", Href: "#features"},
	{Name: "Pricing", Href: "#pricing"},
	{Name: "Pages", Href: "#pages", HasDropdown: true},
}

// Palette holds the section colors of a theme.
type Palette struct {
	Theme      theme.Theme
	Page       string
	Footer     string
	Card       string
	CardBorder string
	Input      string
	Border     string
	Heading    string
	Text       string
	Muted      string
	Accent     string
}

// PaletteFor returns the colors for t.
func PaletteFor(t theme.Theme) Palette {
	if t.IsDark() {
		return Palette{
			Theme:      theme.Dark,
			Page:       "#111827",
			Footer:     "#1f2937",
			Card:       "#1f2937",
			CardBorder: "#374151",
			Input:      "#374151",
			Border:     "#4b5563",
			Heading:    "#ffffff",
			Text:       "#e5e7eb",
			Muted:      "#9ca3af",
			Accent:     AccentColor,
		}
	}
	return Palette{
		Theme:      theme.Light,
		Page:       "#ffffff",
		Footer:     "#f3f4f6",
		Card:       "#f9fafb",
		CardBorder: "#e5e7eb",
		Input:      "#ffffff",
		Border:     "#d1d5db",
		Heading:    "#111827",
		Text:       "#1f2937",
		Muted:      "#6b7280",
		Accent:     AccentColor,
	}
}

// Page is everything the landing page template needs.
type Page struct {
	Palette    Palette
	Nav        []NavItem
	Feed       view.FeedSnapshot
	Newsletter view.FormSnapshot[model.SubscribeInput]
	Review     view.FormSnapshot[model.ReviewInput]
	Year       int
}

// NewPage returns a Page with the static parts filled in.
func NewPage() *Page {
	return &Page{
		Palette: PaletteFor(theme.Light),
		Nav:     Nav,
		Year:    time.Now().Year(),
	}
}

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"prevOffset": func(s view.Scroll) int { return max(0, s.Offset-view.ScrollStep) },
		"nextOffset": func(s view.Scroll) int { return s.Offset + view.ScrollStep },
		"seq":        func(n int) []int { return make([]int, n) },
		"dict":       dict,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// Render writes the landing page.
func (r *Renderer) Render(w io.Writer, page *Page) error {
	return r.tmpl.ExecuteTemplate(w, "layout", page)
}
