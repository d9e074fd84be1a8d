package citibike_web

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tarediiran-industries.com/citibike-services/internal/dataset"
	"tarediiran-industries.com/citibike-services/internal/stations"
)

var printer = message.NewPrinter(language.English)

func formatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

func formatFloat(value float64, decimals int) string {
	return printer.Sprintf("%."+strconv.Itoa(decimals)+"f", value)
}

// numerize abbreviates large counts for the metric tile: 84, 1.5K, 1.23M.
// Two decimals at most, trailing zeros dropped.
func numerize(value float64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	suffixes := []string{"", "K", "M", "B", "T"}
	index := 0
	for index < len(suffixes)-1 && value >= 1000 {
		value /= 1000
		index++
	}

	text := strconv.FormatFloat(math.Round(value*100)/100, 'f', 2, 64)
	text = strings.TrimRight(strings.TrimRight(text, "0"), ".")
	return sign + text + suffixes[index]
}

func seasonLabel(season stations.Season) string {
	if season == "" {
		return ""
	}
	return strings.ToUpper(string(season[:1])) + string(season[1:])
}

func BuildSeasonalityVM(page PageVM, daily []dataset.DailyRides) (SeasonalityPageVM, error) {
	chart, err := SeasonalityFigure(daily).JS()
	if err != nil {
		return SeasonalityPageVM{}, err
	}

	viewmodel := SeasonalityPageVM{PageVM: page, Chart: chart, Days: len(daily)}
	if len(daily) > 0 {
		peak := slices.MaxFunc(daily, func(a, b dataset.DailyRides) int {
			switch {
			case a.Rides < b.Rides:
				return -1
			case a.Rides > b.Rides:
				return 1
			}
			return 0
		})
		viewmodel.PeakDay = peak.Date.Format("January 2")
		viewmodel.PeakRides = formatFloat(peak.Rides, 0)
	}
	return viewmodel, nil
}

func stationsURL(path string, query StationsQuery) string {
	return path + "?" + query.Values().Encode()
}

func BuildStationsVM(page PageVM, tables stations.Tables, query StationsQuery) (StationsPageVM, error) {
	table := tables.For(query.View)
	selected := query.SeasonsFor(table)
	summary := stations.Summarize(tables, query.View, selected)

	chart, err := StationsFigure(summary).JS()
	if err != nil {
		return StationsPageVM{}, err
	}

	options := make([]SeasonOptionVM, 0, len(stations.AllSeasons))
	for _, season := range table.Seasons() {
		options = append(options, SeasonOptionVM{
			Value:    string(season),
			Label:    seasonLabel(season),
			Selected: slices.Contains(selected, season),
		})
	}

	ranks := make(map[string]int, len(summary.Ranking))
	for i, station := range summary.Ranking {
		ranks[station] = i + 1
	}

	rows := make([]StationRowVM, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		rows = append(rows, StationRowVM{
			Rank:       ranks[row.StationName],
			Station:    row.StationName,
			Vehicle:    row.VehicleType.Label(),
			Season:     seasonLabel(row.Season),
			Total:      formatCount(row.TotalTrips),
			GrandTotal: formatCount(row.StationGrandTotal),
		})
	}

	toggleLabel := "Click to see Ending Stations"
	if query.View == stations.ViewEnds {
		toggleLabel = "Click to see Starting Stations"
	}

	return StationsPageVM{
		PageVM:          page,
		View:            query.View.String(),
		ViewNoun:        query.View.Noun(),
		ToggleLabel:     toggleLabel,
		ToggleURL:       stationsURL("/stations", query.Toggled()),
		ExportURL:       stationsURL("/stations/export.xlsx", query),
		APIURL:          stationsURL("/api/stations", query),
		Seasons:         options,
		TotalRides:      numerize(float64(summary.GrandTotal)),
		TotalRidesExact: formatCount(summary.GrandTotal),
		StationCount:    len(summary.Ranking),
		Rows:            rows,
		Empty:           summary.Filtered.Len() == 0,
		Chart:           chart,
	}, nil
}

func BuildMapVM(page PageVM, snapshot *dataset.Dataset) MapPageVM {
	return MapPageVM{
		PageVM:    page,
		Available: snapshot != nil && snapshot.MapHTML != nil,
		EmbedURL:  "/map/embed",
	}
}

func BuildBehaviorVM(page PageVM, durations dataset.Durations, payments []dataset.PaymentShare) (BehaviorPageVM, error) {
	durationsChart, err := DurationsFigure(durations).JS()
	if err != nil {
		return BehaviorPageVM{}, err
	}
	paymentsChart, err := PaymentsFigure(payments).JS()
	if err != nil {
		return BehaviorPageVM{}, err
	}

	viewmodel := BehaviorPageVM{
		PageVM:         page,
		DurationsChart: durationsChart,
		PaymentsChart:  paymentsChart,
	}
	for _, group := range durations.Groups {
		viewmodel.Medians = append(viewmodel.Medians, MedianVM{Group: group.Name, Seconds: formatFloat(group.Median, 0)})
	}
	for _, payment := range payments {
		viewmodel.Shares = append(viewmodel.Shares, ShareVM{
			Group:   payment.Group,
			Value:   formatFloat(payment.Value, 0),
			Percent: formatFloat(payment.Percent, 1) + "%",
		})
	}
	return viewmodel, nil
}

func BuildStationsResponse(summary stations.Summary) StationsResponse {
	response := StationsResponse{
		View:       summary.View.String(),
		Seasons:    summary.Seasons,
		GrandTotal: summary.GrandTotal,
		Ranking:    summary.Ranking,
		Rows:       summary.Rows,
	}
	// Empty selections encode as [] rather than null.
	if response.Seasons == nil {
		response.Seasons = []stations.Season{}
	}
	if response.Ranking == nil {
		response.Ranking = []string{}
	}
	if response.Rows == nil {
		response.Rows = []stations.Record{}
	}
	return response
}

// exportFilename names the download after the view and selection, e.g.
// citibike-starts-summer-fall.xlsx.
func exportFilename(query StationsQuery, seasons []stations.Season) string {
	parts := []string{"citibike", query.View.String()}
	switch {
	case query.AllSeasons:
		parts = append(parts, "all-seasons")
	case len(seasons) == 0:
		parts = append(parts, "no-seasons")
	default:
		for _, season := range seasons {
			parts = append(parts, string(season))
		}
	}
	return url.PathEscape(strings.Join(parts, "-")) + ".xlsx"
}
