package dataset

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

type DailyRides struct {
	Date               time.Time
	Rides              float64
	ClassicRides       float64
	AverageTemperature float64
}

const (
	columnDate        = "Date"
	columnRides       = "Daily Rides"
	columnClassic     = "Daily Classic Rides"
	columnTemperature = "Average Temperature"
	columnMember      = "member_casual"
	columnValue       = "value"
	columnDuration    = "trip_duration"
)

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// floatColumn returns the column values, rejecting blanks and non-numbers.
func floatColumn(frame dataframe.DataFrame, name string) ([]float64, error) {
	values := frame.Col(name).Float()
	for i, value := range values {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("row %d: %s is not a number", i+1, name)
		}
	}
	return values, nil
}

func LoadDailyRides(path string) ([]DailyRides, error) {
	frame, err := readFrame(path,
		map[string]series.Type{columnRides: series.Float, columnClassic: series.Float, columnTemperature: series.Float},
		columnDate, columnRides, columnClassic, columnTemperature)
	if err != nil {
		return nil, err
	}

	rides, err := floatColumn(frame, columnRides)
	if err != nil {
		return nil, err
	}
	classic, err := floatColumn(frame, columnClassic)
	if err != nil {
		return nil, err
	}
	temperatures, err := floatColumn(frame, columnTemperature)
	if err != nil {
		return nil, err
	}

	dates := frame.Col(columnDate).Records()
	out := make([]DailyRides, 0, len(dates))
	for i, raw := range dates {
		date, err := parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, DailyRides{
			Date:               date,
			Rides:              rides[i],
			ClassicRides:       classic[i],
			AverageTemperature: temperatures[i],
		})
	}
	return out, nil
}

type PaymentShare struct {
	Group   string
	Value   float64
	Percent float64
}

func LoadPayments(path string) ([]PaymentShare, error) {
	frame, err := readFrame(path, map[string]series.Type{columnValue: series.Float}, columnMember, columnValue)
	if err != nil {
		return nil, err
	}

	values, err := floatColumn(frame, columnValue)
	if err != nil {
		return nil, err
	}
	total := frame.Col(columnValue).Sum()

	groups := frame.Col(columnMember).Records()
	out := make([]PaymentShare, 0, len(groups))
	for i, group := range groups {
		if values[i] < 0 {
			return nil, fmt.Errorf("row %d: negative value %v", i+1, values[i])
		}
		share := PaymentShare{Group: group, Value: values[i]}
		if total > 0 {
			share.Percent = values[i] / total * 100
		}
		out = append(out, share)
	}
	return out, nil
}

type DurationGroup struct {
	Name    string
	Samples int
	Median  float64
	Counts  []int
}

// Durations is the trip duration histogram, pre-binned so the page does not
// ship every sample to the browser. Edges has one more entry than each
// group's Counts.
type Durations struct {
	Edges  []float64
	Groups []DurationGroup
}

const DefaultDurationBins = 50

func LoadDurations(path string, bins int) (Durations, error) {
	if bins <= 0 {
		bins = DefaultDurationBins
	}

	frame, err := readFrame(path, map[string]series.Type{columnDuration: series.Float}, columnDuration, columnMember)
	if err != nil {
		return Durations{}, err
	}
	if _, err := floatColumn(frame, columnDuration); err != nil {
		return Durations{}, err
	}
	if frame.Nrow() == 0 {
		return Durations{}, nil
	}

	durations := frame.Col(columnDuration)
	low, high := durations.Min(), durations.Max()
	edges := binEdges(low, high, bins)

	out := Durations{Edges: edges}
	for _, name := range uniqueInOrder(frame.Col(columnMember).Records()) {
		subset := frame.Filter(dataframe.F{Colname: columnMember, Comparator: series.Eq, Comparando: name}).Col(columnDuration)
		group := DurationGroup{
			Name:    name,
			Samples: subset.Len(),
			Median:  subset.Median(),
			Counts:  make([]int, bins),
		}
		for _, value := range subset.Float() {
			group.Counts[binIndex(value, low, high, bins)]++
		}
		out.Groups = append(out.Groups, group)
	}
	return out, nil
}

func binEdges(low, high float64, bins int) []float64 {
	edges := make([]float64, bins+1)
	width := (high - low) / float64(bins)
	for i := range edges {
		edges[i] = low + width*float64(i)
	}
	edges[bins] = high
	return edges
}

func binIndex(value, low, high float64, bins int) int {
	if high <= low {
		return 0
	}
	index := int((value - low) / (high - low) * float64(bins))
	return min(max(index, 0), bins-1)
}

func uniqueInOrder(values []string) []string {
	seen := make(map[string]bool, 2)
	out := make([]string, 0, 2)
	for _, value := range values {
		if seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}
