package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/citibike-services/internal/stations"
)

type stationFilter struct {
	view    string
	seasons []string
}

func (filter *stationFilter) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filter.view, "view", "starts", "Station view: starts or ends")
	cmd.Flags().StringSliceVar(&filter.seasons, "season", nil, "Seasons to keep, repeated or comma separated (default all seasons in the table)")
}

// summarize applies the filter; no --season means every season in the table.
func (filter *stationFilter) summarize(tables stations.Tables) (stations.Summary, error) {
	view, err := stations.ParseView(filter.view)
	if err != nil {
		return stations.Summary{}, err
	}

	seasons := tables.For(view).Seasons()
	if len(filter.seasons) > 0 {
		seasons = make([]stations.Season, 0, len(filter.seasons))
		for _, raw := range filter.seasons {
			season, err := stations.ParseSeason(raw)
			if err != nil {
				return stations.Summary{}, err
			}
			seasons = append(seasons, season)
		}
	}

	return stations.Summarize(tables, view, seasons), nil
}

func seasonList(seasons []stations.Season) string {
	if len(seasons) == 0 {
		return "(none)"
	}
	names := make([]string, len(seasons))
	for i, season := range seasons {
		names[i] = string(season)
	}
	return strings.Join(names, ", ")
}

func writeRanking(out io.Writer, summary stations.Summary, limit int, showRows bool) error {
	fmt.Fprintf(out, "View: %s\n", summary.View)
	fmt.Fprintf(out, "Seasons: %s\n", seasonList(summary.Seasons))
	fmt.Fprintf(out, "Total Bike Rides: %d\n\n", summary.GrandTotal)

	trips := make(map[string]int64, len(summary.Ranking))
	grandTotals := make(map[string]int64, len(summary.Ranking))
	for _, row := range summary.Rows {
		trips[row.StationName] += row.TotalTrips
		grandTotals[row.StationName] = row.StationGrandTotal
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if showRows {
		fmt.Fprintln(writer, "RANK\tSTATION\tVEHICLE\tSEASON\tTRIPS\tGRAND TOTAL")
		rank := 0
		last := ""
		for _, row := range summary.Rows {
			if row.StationName != last {
				rank++
				last = row.StationName
			}
			if limit > 0 && rank > limit {
				break
			}
			fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%d\t%d\n", rank, row.StationName, row.VehicleType, row.Season, row.TotalTrips, row.StationGrandTotal)
		}
		return writer.Flush()
	}

	fmt.Fprintln(writer, "RANK\tSTATION\tTRIPS\tGRAND TOTAL")
	for i, station := range summary.Ranking {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(writer, "%d\t%s\t%d\t%d\n", i+1, station, trips[station], grandTotals[station])
	}
	return writer.Flush()
}

func NewStationsCmd(app *CitibikeCtlApp) *cobra.Command {
	var filter stationFilter
	var limit int
	var showRows bool

	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Rank stations by total trips for a view and season selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := app.stationTables(cmd.Context())
			if err != nil {
				return err
			}

			summary, err := filter.summarize(tables)
			if err != nil {
				return err
			}
			return writeRanking(cmd.OutOrStdout(), summary, limit, showRows)
		},
	}

	filter.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of stations to list; 0 lists all")
	cmd.Flags().BoolVar(&showRows, "rows", false, "List every filtered row instead of one line per station")

	return cmd
}

func NewSeasonsCmd(app *CitibikeCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seasons",
		Short: "List the seasons present in each station view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := app.stationTables(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, view := range []stations.View{stations.ViewStarts, stations.ViewEnds} {
				fmt.Fprintf(out, "%s: %s\n", view, seasonList(tables.For(view).Seasons()))
			}
			return nil
		},
	}

	return cmd
}
