package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/citibike-services/internal/dataset"
)

func NewExportCmd(app *CitibikeCtlApp) *cobra.Command {
	var filter stationFilter
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered station totals to an Excel workbook",
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

			file, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := dataset.WriteStationsXLSX(file, summary); err != nil {
				file.Close()
				return fmt.Errorf("export %s: %w", output, err)
			}
			if err := file.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(summary.Rows), output)
			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "stations.xlsx", "Workbook path")

	return cmd
}
