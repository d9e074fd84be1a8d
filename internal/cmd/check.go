package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tarediiran-industries.com/citibike-services/internal/dataset"
	"tarediiran-industries.com/citibike-services/internal/stations"
)

func writeDatasetReport(out io.Writer, snapshot *dataset.Dataset) {
	for _, view := range []stations.View{stations.ViewStarts, stations.ViewEnds} {
		table := snapshot.Stations.For(view)
		fmt.Fprintf(out, "%-6s %d rows, %d stations, %d trips\n",
			view, table.Len(), len(stations.RankStations(table, stations.TieBreakVehicleType)), stations.GrandTotal(table))
	}
	fmt.Fprintf(out, "daily  %d days\n", len(snapshot.Daily))
	for _, payment := range snapshot.Payments {
		fmt.Fprintf(out, "payments %s %.0f (%.1f%%)\n", payment.Group, payment.Value, payment.Percent)
	}
	for _, group := range snapshot.Durations.Groups {
		fmt.Fprintf(out, "durations %s %d trips, median %.1fs\n", group.Name, group.Samples, group.Median)
	}
	if snapshot.MapHTML == nil {
		fmt.Fprintln(out, "map    missing")
	} else {
		fmt.Fprintf(out, "map    %d bytes\n", len(snapshot.MapHTML))
	}
}

// NewCheckCmd loads every prepared file the way the dashboard does and
// reports the first integrity problem with its file, row and column.
func NewCheckCmd(app *CitibikeCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the prepared data files the dashboard serves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := app.dataDir()
			if err != nil {
				return err
			}

			loader := &dataset.Loader{Dir: dir, MapPath: app.mapPath(dir), Logger: zap.NewNop()}
			snapshot, err := loader.Load(cmd.Context())
			if err != nil {
				var fileErr *dataset.FileError
				var integrityErr *stations.DataIntegrityError
				if errors.As(err, &fileErr) && errors.As(err, &integrityErr) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s row %d, column %q: %s\n",
						fileErr.File, integrityErr.Row, integrityErr.Column, integrityErr.Reason)
				}
				return err
			}

			writeDatasetReport(cmd.OutOrStdout(), snapshot)
			return nil
		},
	}

	return cmd
}
