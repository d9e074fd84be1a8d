package citibike_web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"slices"
	"time"

	"tarediiran-industries.com/citibike-services/internal/dataset"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pageTemplates are the entry points the handlers render.
var pageTemplates = []string{
	"intro.html",
	"seasonality.html",
	"stations.html",
	"map.html",
	"behavior.html",
	"recommendations.html",
	"error.html",
}

var navigation = []NavItemVM{
	{Path: "/", Label: "Intro Page"},
	{Path: "/seasonality", Label: "Seasonality of Bike Usage"},
	{Path: "/stations", Label: "Most Popular Stations"},
	{Path: "/map", Label: "Map of Aggregated Bike Trips"},
	{Path: "/behavior", Label: "User Behavior Analysis"},
	{Path: "/recommendations", Label: "Recommendations"},
}

type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates and fails early if a page the
// handlers render is not defined.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("root").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	for _, name := range pageTemplates {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("template %q is not defined", name)
		}
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Render executes a page into memory so a failure never leaves a half
// written response behind.
func (renderer *Renderer) Render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderer.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func formatLoadedAt(loadedAt time.Time) string {
	if loadedAt.IsZero() {
		return ""
	}
	return loadedAt.Format("2006-01-02 15:04:05")
}

// BuildPageVM fills the chrome every template shares: site header, the
// sidebar with the current page marked, narrative and the data timestamp.
func BuildPageVM(content *Content, key, activePath string, snapshot *dataset.Dataset) PageVM {
	nav := slices.Clone(navigation)
	for i := range nav {
		nav[i].Active = nav[i].Path == activePath
	}

	page := content.Page(key)
	viewmodel := PageVM{
		SiteTitle:      content.SiteTitle,
		SiteHeading:    content.SiteHeading,
		SiteSubheading: content.SiteSubheading,
		Nav:            nav,
		Title:          page.Title,
		Subtitle:       page.Subtitle,
		Sections:       page.Sections,
	}
	if snapshot != nil {
		viewmodel.LoadedAt = formatLoadedAt(snapshot.LoadedAt)
	}
	return viewmodel
}
