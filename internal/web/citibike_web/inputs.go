package citibike_web

import (
	"net/url"
	"slices"
	"strings"

	"tarediiran-industries.com/citibike-services/internal/stations"
)

// StationsQuery is the whole state of the stations view; it travels in the
// URL so every request recomputes from scratch.
type StationsQuery struct {
	View stations.View

	// AllSeasons is set when the request names no seasons and is not an
	// explicit (possibly empty) selection from the filter form.
	AllSeasons bool
	Seasons    []stations.Season
}

// ParseStationsQuery reads view=starts|ends and repeated season parameters.
// A season parameter may also hold a comma separated list. filtered=1 marks
// the selection as explicit, so unticking every season yields an empty view
// instead of falling back to all seasons.
func ParseStationsQuery(values url.Values) (StationsQuery, error) {
	view, err := stations.ParseView(values.Get("view"))
	if err != nil {
		return StationsQuery{}, err
	}

	var seasons []stations.Season
	for _, raw := range values["season"] {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			season, err := stations.ParseSeason(part)
			if err != nil {
				return StationsQuery{}, err
			}
			if !slices.Contains(seasons, season) {
				seasons = append(seasons, season)
			}
		}
	}

	return StationsQuery{
		View:       view,
		AllSeasons: len(seasons) == 0 && values.Get("filtered") != "1",
		Seasons:    seasons,
	}, nil
}

// SeasonsFor resolves the selection against the table being viewed.
func (query StationsQuery) SeasonsFor(table stations.Table) []stations.Season {
	if query.AllSeasons {
		return table.Seasons()
	}
	return query.Seasons
}

func (query StationsQuery) Values() url.Values {
	values := url.Values{}
	values.Set("view", query.View.String())
	if query.AllSeasons {
		return values
	}
	values.Set("filtered", "1")
	for _, season := range query.Seasons {
		values.Add("season", string(season))
	}
	return values
}

// Toggled keeps the season selection and flips the view.
func (query StationsQuery) Toggled() StationsQuery {
	query.View = query.View.Toggle()
	return query
}
