package citibike_web

import (
	"strings"
	"testing"
	"time"

	"tarediiran-industries.com/citibike-services/internal/dataset"
)

func TestNewRendererDefinesPages(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	for _, name := range pageTemplates {
		if renderer.tmpl.Lookup(name) == nil {
			t.Errorf("template %s is missing", name)
		}
	}
}

func TestRender(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	content, err := LoadContent("")
	if err != nil {
		t.Fatal(err)
	}

	viewmodel := ErrorPageVM{
		PageVM:  BuildPageVM(content, "", "", nil),
		Status:  400,
		Message: `unknown season "<b>monsoon</b>"`,
	}
	body, err := renderer.Render("error.html", viewmodel)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := string(body)
	if !strings.Contains(html, "Citi Bike Strategy Dashboard") {
		t.Errorf("page has no site title:\n%s", html)
	}
	if strings.Contains(html, "<b>monsoon</b>") || !strings.Contains(html, "&lt;b&gt;monsoon&lt;/b&gt;") {
		t.Errorf("message was not escaped:\n%s", html)
	}

	if _, err := renderer.Render("missing.html", viewmodel); err == nil {
		t.Error("Render() of an undefined template should fail")
	}
}

func TestBuildPageVM(t *testing.T) {
	content, err := LoadContent("")
	if err != nil {
		t.Fatal(err)
	}
	snapshot := &dataset.Dataset{LoadedAt: time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)}

	viewmodel := BuildPageVM(content, PageStations, "/stations", snapshot)
	if viewmodel.Title != content.Page(PageStations).Title || viewmodel.SiteTitle != content.SiteTitle {
		t.Errorf("titles = %q, %q", viewmodel.Title, viewmodel.SiteTitle)
	}
	if viewmodel.LoadedAt != "2024-03-09 14:05:00" {
		t.Errorf("LoadedAt = %q", viewmodel.LoadedAt)
	}

	var active []string
	for _, item := range viewmodel.Nav {
		if item.Active {
			active = append(active, item.Path)
		}
	}
	if len(active) != 1 || active[0] != "/stations" {
		t.Errorf("active nav = %v, want [/stations]", active)
	}
	if navigation[2].Active {
		t.Error("BuildPageVM modified the shared navigation")
	}

	if BuildPageVM(content, PageIntro, "/", nil).LoadedAt != "" {
		t.Error("LoadedAt should be empty without a snapshot")
	}
}
