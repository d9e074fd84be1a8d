package citibike_web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"slices"
	"time"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"

	"tarediiran-industries.com/citibike-services/internal/dataset"
	"tarediiran-industries.com/citibike-services/internal/stations"
)

// Figure is what the page hands to Plotly.newPlot. The layout embeds the
// generated one and adds the secondary y axis used by the seasonality chart.
type Figure struct {
	Data   grob.Traces `json:"data"`
	Layout Layout      `json:"layout"`
}

type Layout struct {
	*grob.Layout
	Yaxis2 *grob.LayoutYaxis `json:"yaxis2,omitempty"`
}

// Theme colors of the dashboard.
const (
	colorDark   = "#2B4B8D"
	colorLight  = "#3881B5"
	colorAccent = "#EB392A"
)

var barColors = []string{colorDark, colorLight}

func bold(text string) string {
	return "<b>" + template.HTMLEscapeString(text) + "</b>"
}

// JS serializes the figure for a <script> block.
func (figure Figure) JS() (template.JS, error) {
	if figure.Data == nil {
		figure.Data = grob.Traces{}
	}
	data, err := json.Marshal(figure)
	if err != nil {
		return "", fmt.Errorf("marshal figure: %w", err)
	}
	return template.JS(data), nil
}

// SeasonalityFigure draws daily rides as two filled areas from zero with the
// average temperature on a second axis. The all-rides area sits behind the
// classic area, so the band left visible above it is the electric share.
func SeasonalityFigure(daily []dataset.DailyRides) Figure {
	dates := make([]string, len(daily))
	rides := make([]float64, len(daily))
	classic := make([]float64, len(daily))
	temperatures := make([]float64, len(daily))
	for i, day := range daily {
		dates[i] = day.Date.Format(time.DateOnly)
		rides[i] = day.Rides
		classic[i] = day.ClassicRides
		temperatures[i] = day.AverageTemperature
	}

	xaxis := &grob.LayoutXaxis{
		Showgrid: grob.False,
		Tickfont: &grob.LayoutXaxisTickfont{Size: 16, Color: colorDark},
	}
	if len(daily) > 0 {
		year := daily[0].Date.Year()
		xaxis.Range = []string{
			time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
			time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
		}
	}

	return Figure{
		Data: grob.Traces{
			&grob.Scatter{
				Type:      grob.TraceTypeScatter,
				Name:      "Electric Bikes",
				X:         dates,
				Y:         rides,
				Mode:      "lines",
				Fill:      "tozeroy",
				Fillcolor: "rgba(56, 129, 181, 0.8)",
				Line:      &grob.ScatterLine{Color: colorLight},
			},
			&grob.Scatter{
				Type:      grob.TraceTypeScatter,
				Name:      "Classic Bikes",
				X:         dates,
				Y:         classic,
				Mode:      "lines",
				Fill:      "tozeroy",
				Fillcolor: "rgba(43, 75, 141, 0.8)",
				Line:      &grob.ScatterLine{Color: colorDark},
			},
			&grob.Scatter{
				Type:       grob.TraceTypeScatter,
				Name:       "Average Temperature",
				X:          dates,
				Y:          temperatures,
				Mode:       "lines",
				Yaxis:      "y2",
				Line:       &grob.ScatterLine{Color: colorAccent},
				Showlegend: grob.False,
			},
		},
		Layout: Layout{
			Layout: &grob.Layout{
				Xaxis: xaxis,
				Yaxis: &grob.LayoutYaxis{
					Title: &grob.LayoutYaxisTitle{
						Text: bold("Bike Rides Daily"),
						Font: &grob.LayoutYaxisTitleFont{Size: 22, Color: colorDark},
					},
					Showgrid:   grob.False,
					Tickfont:   &grob.LayoutYaxisTickfont{Size: 14, Color: colorDark},
					Automargin: grob.True,
				},
				Showlegend: grob.True,
				Legend: &grob.LayoutLegend{
					X:       0.05,
					Y:       0.95,
					Xanchor: "left",
					Yanchor: "top",
					Font:    &grob.LayoutLegendFont{Size: 16},
				},
				Margin: &grob.LayoutMargin{Pad: 10},
				Height: 500,
			},
			Yaxis2: &grob.LayoutYaxis{
				Title: &grob.LayoutYaxisTitle{
					Text: bold("Average Temperature (in C)"),
					Font: &grob.LayoutYaxisTitleFont{Size: 22, Color: colorAccent},
				},
				Showgrid:   grob.False,
				Zeroline:   grob.False,
				Tickfont:   &grob.LayoutYaxisTickfont{Size: 14, Color: colorDark},
				Overlaying: "y",
				Side:       "right",
				Automargin: grob.True,
			},
		},
	}
}

// StationsFigure stacks each station's rows by vehicle type. Bars follow the
// ranked row order, one trace per vehicle type in order of first appearance.
func StationsFigure(summary stations.Summary) Figure {
	var order []stations.VehicleType
	names := make(map[stations.VehicleType][]string)
	totals := make(map[stations.VehicleType][]int64)
	seasons := make(map[stations.VehicleType][]string)
	for _, row := range summary.Rows {
		if !slices.Contains(order, row.VehicleType) {
			order = append(order, row.VehicleType)
		}
		names[row.VehicleType] = append(names[row.VehicleType], row.StationName)
		totals[row.VehicleType] = append(totals[row.VehicleType], row.TotalTrips)
		seasons[row.VehicleType] = append(seasons[row.VehicleType], seasonLabel(row.Season))
	}

	data := make(grob.Traces, 0, len(order))
	for i, vehicle := range order {
		data = append(data, &grob.Bar{
			Type:          grob.TraceTypeBar,
			Name:          vehicle.Label(),
			X:             names[vehicle],
			Y:             totals[vehicle],
			Text:          seasons[vehicle],
			Marker:        &grob.BarMarker{Color: barColors[i%len(barColors)]},
			Hovertemplate: "%{x}<br>%{text}: %{y:,}<extra>" + template.HTMLEscapeString(vehicle.Label()) + "</extra>",
		})
	}

	return Figure{
		Data: data,
		Layout: Layout{Layout: &grob.Layout{
			Barmode: "stack",
			Xaxis: &grob.LayoutXaxis{
				Title: &grob.LayoutXaxisTitle{
					Text: bold(summary.View.Noun() + " Stations"),
					Font: &grob.LayoutXaxisTitleFont{Size: 22, Color: colorDark},
				},
				Tickfont:      &grob.LayoutXaxisTickfont{Size: 14, Color: colorDark},
				Automargin:    grob.True,
				Categoryorder: "array",
				Categoryarray: summary.Ranking,
			},
			Yaxis: &grob.LayoutYaxis{
				Title: &grob.LayoutYaxisTitle{
					Text: bold("Total Trips"),
					Font: &grob.LayoutYaxisTitleFont{Size: 22, Color: colorDark},
				},
				Tickfont: &grob.LayoutYaxisTickfont{Size: 14, Color: colorDark},
			},
			Legend: &grob.LayoutLegend{
				X:       0.95,
				Y:       0.95,
				Xanchor: "right",
				Yanchor: "top",
				Font:    &grob.LayoutLegendFont{Size: 16},
			},
			Height: 600,
		}},
	}
}

// DurationsFigure draws the pre-binned duration histogram. Each group's
// median is a vertical line trace labelled at its top.
func DurationsFigure(durations dataset.Durations) Figure {
	figure := Figure{
		Layout: Layout{Layout: &grob.Layout{
			Barmode: "relative",
			Bargap:  0.05,
			Xaxis: &grob.LayoutXaxis{
				Title: &grob.LayoutXaxisTitle{
					Text: bold("Trip Duration (in seconds)"),
					Font: &grob.LayoutXaxisTitleFont{Size: 18, Color: colorDark},
				},
				Tickfont: &grob.LayoutXaxisTickfont{Size: 14, Color: colorDark},
			},
			Yaxis: &grob.LayoutYaxis{Visible: grob.False},
			Legend: &grob.LayoutLegend{
				X:       0.65,
				Y:       0.95,
				Xanchor: "right",
				Yanchor: "top",
				Font:    &grob.LayoutLegendFont{Size: 16},
			},
			Height: 400,
		}},
	}
	if len(durations.Edges) < 2 {
		return figure
	}

	bins := len(durations.Edges) - 1
	centers := make([]float64, bins)
	stacked := make([]int, bins)
	for i := range bins {
		centers[i] = (durations.Edges[i] + durations.Edges[i+1]) / 2
	}
	for _, group := range durations.Groups {
		for i, count := range group.Counts {
			stacked[i] += count
		}
	}
	peak := float64(slices.Max(stacked))

	medianTextPosition := []grob.ScatterTextposition{grob.ScatterTextpositionTopLeft, grob.ScatterTextpositionTopRight}
	for i, group := range durations.Groups {
		figure.Data = append(figure.Data, &grob.Bar{
			Type:   grob.TraceTypeBar,
			Name:   group.Name,
			X:      centers,
			Y:      group.Counts,
			Marker: &grob.BarMarker{Color: barColors[i%len(barColors)]},
		})
	}
	for i, group := range durations.Groups {
		label := fmt.Sprintf("<b>%s Median: <br>%.0f sec</b>", template.HTMLEscapeString(group.Name), group.Median)
		figure.Data = append(figure.Data, &grob.Scatter{
			Type:          grob.TraceTypeScatter,
			Name:          group.Name + " Median",
			X:             []float64{group.Median, group.Median},
			Y:             []float64{0, peak * 1.05},
			Mode:          "lines+text",
			Text:          []string{"", label},
			Textposition:  medianTextPosition[i%len(medianTextPosition)],
			Textfont:      &grob.ScatterTextfont{Size: 14, Color: colorDark},
			Line:          &grob.ScatterLine{Color: colorAccent, Width: 2},
			Showlegend:    grob.False,
			Hovertemplate: fmt.Sprintf("%s median: %.0f sec<extra></extra>", template.HTMLEscapeString(group.Name), group.Median),
		})
	}
	return figure
}

// PaymentsFigure is the membership donut chart.
func PaymentsFigure(payments []dataset.PaymentShare) Figure {
	labels := make([]string, len(payments))
	values := make([]float64, len(payments))
	for i, payment := range payments {
		labels[i] = bold(payment.Group)
		values[i] = payment.Value
	}

	return Figure{
		Data: grob.Traces{&grob.Pie{
			Type:         grob.TraceTypePie,
			Labels:       labels,
			Values:       values,
			Hole:         0.6,
			Textinfo:     "label+percent",
			Textposition: "inside",
			Marker:       &grob.PieMarker{Colors: []string{colorLight, colorDark}},
			Showlegend:   grob.False,
			Sort:         grob.False,
		}},
		Layout: Layout{Layout: &grob.Layout{Height: 450}},
	}
}
