package citibike_web

import (
	"html/template"

	"tarediiran-industries.com/citibike-services/internal/stations"
)

type NavItemVM struct {
	Path   string
	Label  string
	Active bool
}

// PageVM is the part every page shares: chrome, navigation and narrative.
type PageVM struct {
	SiteTitle      string
	SiteHeading    string
	SiteSubheading string
	Nav            []NavItemVM

	Title    string
	Subtitle string
	Sections []SectionText

	LoadedAt string
}

type SeasonalityPageVM struct {
	PageVM
	Chart     template.JS
	Days      int
	PeakDay   string
	PeakRides string
}

type SeasonOptionVM struct {
	Value    string
	Label    string
	Selected bool
}

type StationRowVM struct {
	Rank       int
	Station    string
	Vehicle    string
	Season     string
	Total      string
	GrandTotal string
}

type StationsPageVM struct {
	PageVM

	View        string
	ViewNoun    string
	ToggleLabel string
	ToggleURL   string
	ExportURL   string
	APIURL      string

	Seasons []SeasonOptionVM

	TotalRides      string
	TotalRidesExact string
	StationCount    int
	Rows            []StationRowVM
	Empty           bool

	Chart template.JS
}

type MapPageVM struct {
	PageVM
	Available bool
	EmbedURL  string
}

type MedianVM struct {
	Group   string
	Seconds string
}

type ShareVM struct {
	Group   string
	Value   string
	Percent string
}

type BehaviorPageVM struct {
	PageVM
	DurationsChart template.JS
	PaymentsChart  template.JS
	Medians        []MedianVM
	Shares         []ShareVM
}

type ErrorPageVM struct {
	PageVM
	Status  int
	Message string
}

// StationsResponse is the JSON form of one stations view interaction.
type StationsResponse struct {
	View       string            `json:"view"`
	Seasons    []stations.Season `json:"seasons"`
	GrandTotal int64             `json:"grand_total"`
	Ranking    []string          `json:"ranking"`
	Rows       []stations.Record `json:"rows"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	LoadedAt     string `json:"loaded_at,omitempty"`
	StartRows    int    `json:"start_rows"`
	EndRows      int    `json:"end_rows"`
	MapAvailable bool   `json:"map_available"`
	Error        string `json:"error,omitempty"`
}
