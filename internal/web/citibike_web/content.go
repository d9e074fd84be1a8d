package citibike_web

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed content.toml
var defaultContent string

// Page keys, shared by the content file, the navigation and the metrics.
const (
	PageIntro           = "intro"
	PageSeasonality     = "seasonality"
	PageStations        = "stations"
	PageMap             = "map"
	PageBehavior        = "behavior"
	PageRecommendations = "recommendations"
)

var pageOrder = []string{PageIntro, PageSeasonality, PageStations, PageMap, PageBehavior, PageRecommendations}

type contentFile struct {
	SiteTitle      string                     `toml:"site_title"`
	SiteHeading    string                     `toml:"site_heading"`
	SiteSubheading string                     `toml:"site_subheading"`
	Pages          map[string]pageContentFile `toml:"pages"`
}

type pageContentFile struct {
	Title    string               `toml:"title"`
	Subtitle string               `toml:"subtitle"`
	Sections []sectionContentFile `toml:"sections"`
}

type sectionContentFile struct {
	Heading string `toml:"heading"`
	Body    string `toml:"body"`
}

// Content is the narrative text, ready for the templates. Titles stay plain
// text for the template to escape; section bodies are sanitized HTML.
type Content struct {
	SiteTitle      string
	SiteHeading    string
	SiteSubheading string
	Pages          map[string]PageText
}

type PageText struct {
	Title    string
	Subtitle string
	Sections []SectionText
}

type SectionText struct {
	Heading string
	Body    template.HTML
}

func (content *Content) Page(key string) PageText {
	return content.Pages[key]
}

// LoadContent reads the narrative file at path, or the built-in text when
// path is empty. Every page must be present so navigation never links to a
// blank page.
func LoadContent(path string) (*Content, error) {
	var file contentFile
	var err error
	if path == "" {
		_, err = toml.Decode(defaultContent, &file)
	} else {
		_, err = toml.DecodeFile(path, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	var missing []string
	for _, key := range pageOrder {
		if _, ok := file.Pages[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("content: missing pages %s", strings.Join(missing, ", "))
	}

	policy := bluemonday.UGCPolicy()
	content := &Content{
		SiteTitle:      file.SiteTitle,
		SiteHeading:    file.SiteHeading,
		SiteSubheading: file.SiteSubheading,
		Pages:          make(map[string]PageText, len(file.Pages)),
	}
	for key, page := range file.Pages {
		text := PageText{Title: page.Title, Subtitle: page.Subtitle}
		for _, section := range page.Sections {
			text.Sections = append(text.Sections, SectionText{
				Heading: section.Heading,
				Body:    template.HTML(policy.Sanitize(strings.TrimSpace(section.Body))),
			})
		}
		content.Pages[key] = text
	}
	return content, nil
}
