package stations

import (
	"fmt"
	"strings"
)

// View selects which station table feeds the aggregator.
type View int

const (
	ViewStarts View = iota
	ViewEnds
)

func ParseView(value string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "start", "starts":
		return ViewStarts, nil
	case "end", "ends":
		return ViewEnds, nil
	}
	return ViewStarts, fmt.Errorf("unknown view %q", value)
}

func (view View) Toggle() View {
	if view == ViewEnds {
		return ViewStarts
	}
	return ViewEnds
}

func (view View) String() string {
	if view == ViewEnds {
		return "ends"
	}
	return "starts"
}

// Noun is the axis label used for the view, e.g. "Start Stations".
func (view View) Noun() string {
	if view == ViewEnds {
		return "End"
	}
	return "Start"
}

// Tables holds one table per view.
type Tables struct {
	Starts Table
	Ends   Table
}

func (tables Tables) For(view View) Table {
	if view == ViewEnds {
		return tables.Ends
	}
	return tables.Starts
}

// Summary is everything one interaction with the stations view needs.
type Summary struct {
	View       View
	Seasons    []Season
	Filtered   Table
	GrandTotal int64
	Ranking    []string
	Rows       []Record
}

// Summarize recomputes the filtered subset, total and ranking for one request.
func Summarize(tables Tables, view View, seasons []Season) Summary {
	filtered := FilterBySeasons(tables.For(view), seasons)
	return Summary{
		View:       view,
		Seasons:    seasons,
		Filtered:   filtered,
		GrandTotal: GrandTotal(filtered),
		Ranking:    RankStations(filtered, TieBreakVehicleType),
		Rows:       RankRows(filtered, TieBreakVehicleType),
	}
}
